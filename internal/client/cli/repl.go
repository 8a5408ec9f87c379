package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL dispatches to. The real
// App type satisfies this interface; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Explore(ctx context.Context, args []string) error
	Mine(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context) error
	Donate(ctx context.Context, args []string) error
	Donations(ctx context.Context) error
	Submit(ctx context.Context, args []string) error
	Proof(ctx context.Context, args []string) error
	DelProof(ctx context.Context, args []string) error
	Stake(ctx context.Context) error
	Review(ctx context.Context, args []string) error
	Approve(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
	Collect(ctx context.Context, args []string) error
	Released(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// runREPL starts a read-eval-print loop over the FundKeeper commands.
//
// It reads a line from the scanner, parses the first token as the command,
// and dispatches to methods on 'a'. Unknown commands are reported back to
// the user. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Errors returned by command handlers are printed here; handlers only print
// their success output. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	report := func(err error) {
		if err != nil {
			fmt.Fprintln(w, "Error:", err)
		}
	}

	for {
		fmt.Fprintf(w, "fk%s> ", statusFn())
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
				fmt.Fprintln(w, "Available commands: explore, show, create, donate, mine, donations,")
				fmt.Fprintln(w, "  submit, proof, delproof, stake, review, approve, reject, collect,")
				fmt.Fprintln(w, "  released, refresh, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, explore, show, proof, exit")
			}

		case "register":
			report(a.Register(ctx))
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "explore":
			report(a.Explore(ctx, args))
		case "mine":
			report(a.Mine(ctx))
		case "show":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: show <campaign-id>")
				continue
			}
			report(a.Show(ctx, args))
		case "create":
			report(a.Create(ctx))
		case "donate":
			if len(args) < 2 {
				fmt.Fprintln(w, "Usage: donate <campaign-id> <amount>")
				continue
			}
			report(a.Donate(ctx, args))
		case "donations":
			report(a.Donations(ctx))
		case "submit":
			if len(args) < 2 {
				fmt.Fprintln(w, "Usage: submit <campaign-id> <file>")
				continue
			}
			report(a.Submit(ctx, args))
		case "proof":
			if len(args) < 2 {
				fmt.Fprintln(w, "Usage: proof <campaign-id> <output-file>")
				continue
			}
			report(a.Proof(ctx, args))
		case "delproof":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: delproof <campaign-id>")
				continue
			}
			report(a.DelProof(ctx, args))
		case "stake":
			report(a.Stake(ctx))
		case "review":
			report(a.Review(ctx, args))
		case "approve":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: approve <campaign-id>")
				continue
			}
			report(a.Approve(ctx, args))
		case "reject":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: reject <campaign-id>")
				continue
			}
			report(a.Reject(ctx, args))
		case "collect":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: collect <campaign-id>")
				continue
			}
			report(a.Collect(ctx, args))
		case "released":
			report(a.Released(ctx))
		case "refresh":
			report(a.Refresh(ctx))
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
