package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL chrome (prompt, help, bye).
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	readCommand() (string, error)

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: register, login, help, exit"
	helpMember = "Available commands: (l)ist, add [title], toggle <id>, edit <id>, delete <id>, logout, help, exit"
)

// runREPL reads commands until EOF, exit or quit, or ctx is cancelled.
// Command errors are reported by the commands themselves.
func runREPL(ctx context.Context, a execIface) {
	for {
		if ctx.Err() != nil {
			return
		}

		line, err := a.readCommand()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Read error:", err)
			}
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx, args)

		case "login":
			_ = a.Login(ctx, args)

		case "logout":
			_ = a.Logout(ctx, args)

		case "l", "list":
			_ = a.List(ctx, args)

		case "add", "new":
			_ = a.Add(ctx, args)

		case "toggle", "done":
			_ = a.Toggle(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
