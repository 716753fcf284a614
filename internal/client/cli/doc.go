// Package cli implements the interactive words client: a REPL over a
// WebSocket connection to a worker, with commands for account management
// and word lists. Updates made in the user's other sessions are printed as
// they arrive.
package cli
