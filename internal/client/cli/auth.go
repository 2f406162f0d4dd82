package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ehbmatch/internal/client/store"
	"github.com/dmitrijs2005/ehbmatch/internal/common"
)

// Register prompts for email, password and name and creates an account.
// On success the new session is stored and the user is logged in. The
// password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	firstName, err := getSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, email, password, firstName, lastName); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created, you are logged in.")
	return nil
}

// Login prompts for credentials and starts a session. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Login successful.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	info, err := a.authService.Info(ctx)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(info.FirstName + " " + info.LastName)
	if name == "" {
		name = info.Email
	}
	fmt.Fprintf(a.out, "%s <%s> id=%d", name, info.Email, info.ID)
	if info.Type != "" {
		fmt.Fprintf(a.out, " type=%s", info.Type)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Status prints the token state without refreshing anything.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintln(a.out, "Session:", a.authService.State(ctx))
	return nil
}

// Push sends a device push token to the sync endpoint. Failures are logged
// by the service and not reported here.
func (a *App) Push(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: push <token>", errUsage)
	}
	a.authService.SyncPushToken(ctx, args[0])
	fmt.Fprintln(a.out, "Push token submitted.")
	return nil
}

// Reset logs out and then removes the stored session entirely. The next read
// starts from the logged-out marker again.
func (a *App) Reset(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	if err := a.store.Delete(ctx, store.TokenKey); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Local session data removed.")
	return nil
}
