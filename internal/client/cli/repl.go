package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Open(ctx context.Context, path string) error
	Menu(ctx context.Context) error
	Notifications(ctx context.Context) error
	Dismiss(ctx context.Context, id string) error
	ShowRecord(ctx context.Context, id int) error
	AddRecord(ctx context.Context) error
	EditRecord(ctx context.Context, id int) error
	DeleteRecord(ctx context.Context, id int) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit" or "quit", or when ctx is done.
//
//	Always:
//	  - help                 show available commands
//	  - open | goto <path>   navigate to a screen
//	  - notifications | n    list notifications
//	  - dismiss <id|all>     dismiss notifications
//	  - exit | quit          leave the program
//
//	Signed out:
//	  - login                sign in
//	  - forgot               request a password reset code
//	  - reset                set a new password with the code
//
//	Signed in:
//	  - menu                 list screens the account may open
//	  - whoami               show the signed-in account
//	  - show | edit <id>     show or change a record on a catalog screen
//	  - add                  create a record on a catalog screen
//	  - delete <id>          delete a record on a catalog screen
//	  - logout               sign out
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("admin (%s) > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: open <path>, menu, whoami, show <id>, add, edit <id>, delete <id>, (n)otifications, dismiss <id|all>, logout, exit")
			} else {
				printlnFn("Available commands: login, forgot, reset, open <path>, (n)otifications, dismiss <id|all>, exit")
			}

		case "open", "goto":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			cmdErr = a.Open(ctx, args[0])

		case "menu":
			cmdErr = a.Menu(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "forgot":
			cmdErr = a.ForgotPassword(ctx)

		case "reset":
			cmdErr = a.ResetPassword(ctx)

		case "n", "notifications":
			cmdErr = a.Notifications(ctx)

		case "dismiss":
			if len(args) == 0 {
				printlnFn("Usage: dismiss <id|all>")
				continue
			}
			cmdErr = a.Dismiss(ctx, args[0])

		case "add":
			cmdErr = a.AddRecord(ctx)

		case "show", "edit", "delete":
			id, convErr := recordID(args)
			if convErr != nil {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				cmdErr = a.ShowRecord(ctx, id)
			case "edit":
				cmdErr = a.EditRecord(ctx, id)
			default:
				cmdErr = a.DeleteRecord(ctx, id)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(errorStyle.Render("Error: " + cmdErr.Error()))
		}
		if err != nil {
			return
		}
	}
}

func recordID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(args[0])
}
