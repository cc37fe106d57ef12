// Package cli provides the interactive accounts command-line client.
//
// It wires configuration, the gRPC client and a REPL: register, log in, list
// and inspect users, update or deactivate them, log out. The REPL is started
// via App.Run(ctx), which blocks until the user exits.
package cli
