package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return "(logged in)"
	}
	return "(logged out)"
}

// Root greets the user and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to ehbmatch CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
