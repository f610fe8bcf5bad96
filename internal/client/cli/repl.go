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
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	Tenants(ctx context.Context) error
	Switch(ctx context.Context, id string) error
	Tenant(ctx context.Context, args []string) error
	Open(ctx context.Context, path string) error
	Routes(ctx context.Context) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit"/"quit" or ctx cancellation.
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                 show available commands
//	  - register             create an account
//	  - login                sign in
//	  - open <path>          open a view (protected views ask to log in)
//	  - routes               list views
//	  - exit | quit          leave the program
//
//	Logged in:
//	  - dashboard            summary of the session
//	  - profile              show the current user
//	  - edit-profile         change name or email
//	  - tenants              list tenants, the current one marked with *
//	  - switch <id>          work in another tenant
//	  - tenant show|create|update|delete [id]
//	                         tenant administration (super_admin)
//	  - open <path>          open a view, e.g. open /admin/tenants
//	  - routes               list the views you may open
//	  - logout               sign out
//
// Errors returned by handlers are ignored here; handlers report them to
// the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("salon %s> ", statusFn()))
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
				printlnFn("Available commands: dashboard, profile, edit-profile, tenants, switch <id>, tenant <show|create|update|delete> [id], open <path>, routes, logout, exit")
			} else {
				printlnFn("Available commands: register, login, open <path>, routes, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "edit-profile":
			_ = a.UpdateProfile(ctx)

		case "dashboard":
			_ = a.Open(ctx, "/dashboard")

		case "tenants":
			_ = a.Tenants(ctx)

		case "switch":
			if len(args) == 0 {
				printlnFn("Usage: switch <tenant-id>")
				continue
			}
			_ = a.Switch(ctx, args[0])

		case "tenant":
			_ = a.Tenant(ctx, args)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "routes":
			_ = a.Routes(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
