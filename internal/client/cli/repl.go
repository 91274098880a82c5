package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isAuthenticated() bool
	isTeacher() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Join(ctx context.Context, raw string) error
	Scan(ctx context.Context) error
	Guest(ctx context.Context) error
	Share(token string) error
	Watch(ctx context.Context, sessionID string) error
	CloseSession(ctx context.Context, sessionID string) error
	History(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ClassPulse CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	join <token|link>  — check in to a live session
//	scan               — paste a scanned QR payload and check in
//	guest              — check in as a guest even when logged in
//	history            — show past check-ins stored on this device
//	login | logout     — manage the signed-in account
//	share <token>      — print a join link and QR code (teachers)
//	watch <sessionId>  — follow a session dashboard (teachers)
//	close <sessionId>  — close a session (teachers)
//	exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cp> %s ", statusFn()))
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
			printlnFn("Available commands: join <token|link>, scan, guest, history, login, logout, exit")
			if a.isTeacher() {
				printlnFn("Teacher commands: share <token>, watch <sessionId>, close <sessionId>")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "j", "join":
			raw := ""
			if len(args) > 0 {
				raw = strings.Join(args, " ")
			}
			_ = a.Join(ctx, raw)

		case "scan":
			_ = a.Scan(ctx)

		case "guest":
			_ = a.Guest(ctx)

		case "share":
			if len(args) == 0 {
				printlnFn("Usage: share <token>")
				continue
			}
			_ = a.Share(args[0])

		case "watch":
			if len(args) == 0 {
				printlnFn("Usage: watch <sessionId>")
				continue
			}
			_ = a.Watch(ctx, args[0])

		case "close":
			if len(args) == 0 {
				printlnFn("Usage: close <sessionId>")
				continue
			}
			_ = a.CloseSession(ctx, args[0])

		case "history":
			_ = a.History(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
