// Package cli provides the interactive accounts command-line client.
//
// It wires configuration, the HTTP API client and a small REPL. Typical
// flow: register, read the code from the verification mail, verify, then
// log in and look at the profile.
//
// Commands:
//   - register / verify / resend
//   - login / logout
//   - me (profile of the logged-in account)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
