package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/ehbmatch/internal/client/client"
	"github.com/dmitrijs2005/ehbmatch/internal/client/services"
	"github.com/dmitrijs2005/ehbmatch/internal/common"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
	Dates(ctx context.Context) error
	Pending(ctx context.Context) error
	Discover(ctx context.Context, all bool) error
	Slots(ctx context.Context, args []string) error
	Book(ctx context.Context, args []string) error
	Push(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, register, status, reset, exit"
	helpLoggedIn  = "Available commands: whoami, status, dates, pending, discover [all], slots <companyID>, book <companyID> <YYYY-MM-DD> <HH:MM>, push <token>, logout, reset, exit"
)

// runREPL reads a line from reader, dispatches the first token as a command
// and prints any error in user terms. It returns on EOF or "exit"/"quit".
//
// Commands prompting for more input read from the same reader, so the REPL
// must not buffer ahead of them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "ehb %s> ", statusFn())
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "status":
			err = a.Status(ctx)
		case "dates":
			err = a.Dates(ctx)
		case "pending":
			err = a.Pending(ctx)
		case "discover":
			err = a.Discover(ctx, len(args) > 0 && args[0] == "all")
		case "slots":
			err = a.Slots(ctx, args)
		case "book":
			err = a.Book(ctx, args)
		case "push":
			err = a.Push(ctx, args)
		case "reset":
			err = a.Reset(ctx)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(out, describeErr(err))
		}
	}
}

var errUsage = errors.New("usage")

// describeErr turns an error into a message for the terminal.
func describeErr(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return err.Error()
	case errors.Is(err, common.ErrLoggedOut):
		return "You are not logged in."
	case errors.Is(err, common.ErrRefreshFailed):
		return "Could not refresh your session. Check your connection and try again."
	case errors.Is(err, client.ErrUnauthorized):
		return "Not authorized."
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later."
	case errors.Is(err, services.ErrSlotUnavailable):
		return "That slot is not available."
	default:
		return "Error: " + err.Error()
	}
}
