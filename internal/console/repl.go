package console

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Orders(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Reveal(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Passwd(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF
// or when the user types "exit" or "quit". Handler errors are ignored here;
// handlers report their own errors to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sevactl> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: orders, show, reveal, clear, status, delete, passwd, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "orders":
			_ = a.Orders(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "reveal":
			_ = a.Reveal(ctx, args)

		case "clear":
			_ = a.Clear(ctx, args)

		case "status":
			_ = a.Status(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "passwd":
			_ = a.Passwd(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
