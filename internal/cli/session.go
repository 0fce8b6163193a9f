package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"movecalc/internal/calculator"
	"movecalc/internal/identity"
	"movecalc/internal/model"
	"movecalc/internal/money"
	"movecalc/internal/report"
	"movecalc/internal/store"
)

const sessionHelp = `commands:
  set <field> <value>   change an input (fields: %s)
  show                  print the full report
  inputs                print the current inputs
  save <name>           save the inputs under a name
  list                  list saved configurations (* marks the selection)
  select <id>           choose a saved configuration
  load                  replace the inputs with the selection
  delete                delete the selection (asks first)
  signup <email> <pw>   create an account (needs --server)
  signin <email> <pw>   sign in; saved configurations switch to the server
  signout               sign out; saved configurations switch back to local
  help                  this text
  quit                  leave
`

// NewSessionCommand creates the interactive session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Edit a calculation interactively and save or load configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(cmd.Context(), rootOpts, cmd.InOrStdin(), cmd.OutOrStdout(), markdown)
			defer s.close()
			s.run()
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print reports as raw Markdown")
	return cmd
}

type session struct {
	ctx      context.Context
	calc     *calculator.Calculator
	provider identity.Provider
	updates  <-chan calculator.Snapshot
	in       *bufio.Scanner
	out      io.Writer
	markdown bool

	cleanup []func()
}

func newSession(ctx context.Context, opts *RootOptions, in io.Reader, out io.Writer, markdown bool) *session {
	cfg := opts.config()
	defaults := cfg.Defaults

	sel := calculator.Selector{Local: store.NewFile(cfg.Storage.LocalPath)}
	var provider identity.Provider = identity.Anonymous{}
	if c := opts.remote(); c != nil {
		sel.Remote = c
		provider = c
		if d, err := c.Defaults(ctx); err == nil {
			defaults = d
		} else {
			fmt.Fprintf(out, "warning: using local defaults: %v\n", err)
		}
	}
	calc := calculator.New(defaults)

	s := &session{
		ctx:      ctx,
		calc:     calc,
		provider: provider,
		in:       bufio.NewScanner(in),
		out:      out,
		markdown: markdown,
	}

	updates, cancel := calc.Subscribe()
	s.updates = updates
	s.cleanup = append(s.cleanup, cancel)

	stop, err := calculator.Bind(ctx, calc, provider, sel)
	s.cleanup = append(s.cleanup, stop)
	if err != nil {
		// A store that cannot be listed should not stop editing.
		fmt.Fprintf(out, "warning: %v\n", err)
	}
	return s
}

func (s *session) close() {
	for _, fn := range s.cleanup {
		fn()
	}
}

func (s *session) run() {
	sc, _ := s.calc.Scope()
	fmt.Fprintf(s.out, "movecalc session (%s configurations). Type help for commands.\n", sc.Backend)
	s.printFigures(s.calc.Snapshot())

	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		if !s.handle(s.in.Text()) {
			return
		}
	}
}

// handle runs one command line and reports whether the loop continues.
// A panic inside a command is reported and the session carries on.
func (s *session) handle(line string) (keepGoing bool) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(s.out, "internal error: %v (the session is still running)\n", r)
			keepGoing = true
		}
	}()

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return false
	case "help", "?":
		fmt.Fprintf(s.out, sessionHelp, strings.Join(model.FieldNames(), ", "))
	case "set":
		s.set(args)
	case "show":
		s.show()
	case "inputs":
		fmt.Fprint(s.out, inputsText(s.calc.Inputs()))
	case "save":
		s.save(strings.Join(args, " "))
	case "list":
		fmt.Fprint(s.out, listText(s.calc.Configs(), s.calc.Selected()))
	case "select":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "usage: select <id>")
			return true
		}
		s.report(s.calc.Select(args[0]), "selected "+args[0])
	case "load":
		if err := s.calc.Load(s.ctx); err != nil {
			s.report(err, "")
			return true
		}
		fmt.Fprintln(s.out, "loaded")
		s.printLatest()
	case "delete":
		s.delete()
	case "signup":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: signup <email> <password>")
			return true
		}
		u, err := s.provider.SignUp(s.ctx, args[0], args[1])
		s.report(err, "account created for "+u.Email+"; now sign in")
	case "signin":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: signin <email> <password>")
			return true
		}
		sess, err := s.provider.SignIn(s.ctx, args[0], args[1])
		if err != nil {
			s.report(err, "")
			return true
		}
		fmt.Fprintf(s.out, "signed in as %s (token %s)\n", sess.User.Email, sess.Token)
		fmt.Fprint(s.out, listText(s.calc.Configs(), s.calc.Selected()))
	case "signout":
		s.report(s.provider.SignOut(s.ctx), "signed out")
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", cmd)
	}
	return true
}

func (s *session) set(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "usage: set <field> <value>")
		return
	}
	if err := s.calc.Set(args[0], strings.Join(args[1:], " ")); err != nil {
		s.report(err, "")
		return
	}
	s.printLatest()
}

// printLatest prints the newest snapshot published to the subscription.
func (s *session) printLatest() {
	select {
	case snap, ok := <-s.updates:
		if ok {
			s.printFigures(snap)
			return
		}
	default:
	}
	s.printFigures(s.calc.Snapshot())
}

func (s *session) printFigures(snap calculator.Snapshot) {
	in, res := snap.Inputs, snap.Results
	fmt.Fprintf(s.out, "monthly %s | loan %s | deposit %s | LBTT %s | LTV %s | %s\n",
		money.Format(res.MonthlyPayment),
		money.Format(res.LoanAmount),
		money.Format(res.DisplayDeposit()),
		money.Format(res.TransferTax),
		money.Percent(res.LoanToValue(in.PropertyPrice)),
		strings.ToLower(string(res.FundingStatus())))
}

func (s *session) show() {
	snap := s.calc.Snapshot()
	md := report.Markdown(snap.Inputs, snap.Results)
	if !s.markdown {
		if styled, err := report.Terminal(md, 80); err == nil {
			md = styled
		}
	}
	fmt.Fprint(s.out, md)
}

func (s *session) save(name string) {
	id, err := s.calc.Save(s.ctx, name)
	if err != nil && id == "" {
		s.report(err, "")
		return
	}
	fmt.Fprintf(s.out, "saved %s\n", id)
	if err != nil {
		s.report(err, "")
	}
}

func (s *session) delete() {
	id := s.calc.Selected()
	if id == "" {
		s.report(calculator.ErrNoSelection, "")
		return
	}
	name := id
	for _, c := range s.calc.Configs() {
		if c.ID == id {
			name = fmt.Sprintf("%q (%s)", c.Name, id)
		}
	}

	fmt.Fprintf(s.out, "delete %s? [y/N] ", name)
	confirmed := false
	if s.in.Scan() {
		answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
		confirmed = answer == "y" || answer == "yes"
	}
	if err := s.calc.Delete(s.ctx, confirmed); err != nil {
		s.report(err, "")
		return
	}
	fmt.Fprintln(s.out, "deleted")
}

// report prints err with its code, or ok when err is nil and ok is set.
func (s *session) report(err error, ok string) {
	if err == nil {
		if ok != "" {
			fmt.Fprintln(s.out, ok)
		}
		return
	}
	code, _ := classify(err)
	fmt.Fprintf(s.out, "error [%s]: %s\n", code, describe(err))
}
