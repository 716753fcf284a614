package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	CreateAccount(ctx context.Context, args []string) error
	AddWord(ctx context.Context, args []string) error
	AddWords(ctx context.Context, args []string) error
	RemoveWord(ctx context.Context, args []string) error
	GetWords(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the words CLI.
//
// It reads a line from the provided scanner, parses the first tokens as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help                            — show available commands
//	  - create account <name> [<pass>]  — create an account
//	  - login <name> [<pass>]           — authenticate
//	  - exit | quit                     — leave the program
//
//	Logged in:
//	  - help                    — show available commands
//	  - add word <word>         — add a word
//	  - add words <w1> <w2> ... — add up to ten words at once
//	  - remove word <word>      — remove a word
//	  - get words               — list your words
//	  - logout                  — log out
//	  - exit | quit             — leave the program
//
// When the password is omitted it is prompted for without echo.
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("words> %s", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add word, add words, remove word, get words, logout, exit")
			} else {
				printlnFn("Available commands: create account, login, exit")
			}

		case "login":
			_ = a.Login(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "create":
			if len(args) == 0 || args[0] != "account" {
				printlnFn("Usage: create account <username> [<password>]")
				continue
			}
			_ = a.CreateAccount(ctx, args[1:])

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add word <word> | add words <word> ...")
				continue
			}
			switch args[0] {
			case "word":
				_ = a.AddWord(ctx, args[1:])
			case "words":
				_ = a.AddWords(ctx, args[1:])
			default:
				printlnFn("Usage: add word <word> | add words <word> ...")
			}

		case "remove":
			if len(args) == 0 || args[0] != "word" {
				printlnFn("Usage: remove word <word>")
				continue
			}
			_ = a.RemoveWord(ctx, args[1:])

		case "get":
			if len(args) == 0 || args[0] != "words" {
				printlnFn("Usage: get words")
				continue
			}
			_ = a.GetWords(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// Root runs the interactive loop on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the words CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
