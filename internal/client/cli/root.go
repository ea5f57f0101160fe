package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"wandermap/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Back(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	AddPhoto(ctx context.Context, args []string) error
	DeletePhoto(ctx context.Context, args []string) error
	Share(ctx context.Context) error
	Publicity(ctx context.Context, args []string) error
	NewLink(ctx context.Context) error
	View(ctx context.Context, args []string) error
	Token(ctx context.Context, args []string) error
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Root restores a persisted session (if any) and runs the command loop.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to WanderMap CLI (type 'help' for commands)")

	if username, ok, err := a.auth.Restore(ctx); err == nil && ok {
		a.userName = username
		if err := a.guarded(ctx, a.trips.Refresh); err == nil {
			fmt.Printf("Welcome back, %s! You have %d trips.\n", username, len(a.trips.Trips()))
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL starts a simple read–eval–print loop for the WanderMap CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are printed and swallowed here; state
// stays last-known-good, the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("wandermap %s> ", statusFn()))
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

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, show <id>, back, add, edit <id>, delete <id>,")
				printlnFn("  photo <id> <file>, delphoto <trip-id> <photo-id>, share, publicity <public|private>,")
				printlnFn("  newlink, view <username>, token <token>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, view <username>, token <token>, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "show", "select":
			err = a.Show(ctx, args)

		case "back":
			err = a.Back(ctx)

		case "add":
			err = a.Add(ctx)

		case "edit":
			err = a.Edit(ctx, args)

		case "delete":
			err = a.Delete(ctx, args)

		case "photo":
			err = a.AddPhoto(ctx, args)

		case "delphoto":
			err = a.DeletePhoto(ctx, args)

		case "share":
			err = a.Share(ctx)

		case "publicity":
			err = a.Publicity(ctx, args)

		case "newlink":
			err = a.NewLink(ctx)

		case "view":
			err = a.View(ctx, args)

		case "token":
			err = a.Token(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", userMessage(err))
		}
	}
}

// guarded runs fetch under the session guard and translates guard outcomes
// into user-facing session state.
func (a *App) guarded(ctx context.Context, fetch func(ctx context.Context) error) error {
	err := a.guard.Run(ctx, fetch)
	if errors.Is(err, services.ErrSessionExpired) {
		a.userName = ""
	}
	return err
}
