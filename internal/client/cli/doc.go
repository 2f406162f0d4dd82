// Package cli provides the interactive ehbmatch command-line client.
//
// It wires configuration, the credential store, the token manager, the API
// client and an interactive REPL. A background session observer keeps the
// prompt in sync with the stored session, so a session that expires or is
// ended elsewhere shows up as "(logged out)" without any command being run.
//
// Key features:
//   - Login / Register / Logout, whoami and token status
//   - Agenda of accepted speed dates, pending requests
//   - Company discovery, available slots and booking
//   - Push-token sync and a full local reset
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
