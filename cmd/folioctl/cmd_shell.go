package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/pkg/logger"
	"go.uber.org/zap"
)

const shellHelp = `Commands are the same as on the command line, without "folioctl":
  show <section>    skills [add|set|remove]    projects [delete]
  experience [delete]    education --degree ...    theme [light|dark]
  status    help    exit`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session; ends when you log out anywhere",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runShell reads commands until EOF, "exit", or the stored token disappears.
// Drafts are shared across commands for the whole session.
func runShell(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gate := auth.NewGate(a.store)
	if !gate.Authorized() {
		return errNotLoggedIn
	}

	changes, err := a.store.Watch(ctx)
	if err != nil {
		return err
	}
	go gate.Watch(ctx, changes, func() {
		logger.Info("Stored token removed, closing shell", zap.String("state", a.store.Path()))
		cancel()
	})

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "folioctl shell. Type \"help\" for commands.")
	for {
		fmt.Fprint(out, "folio> ")
		select {
		case <-ctx.Done():
			if !gate.Authorized() {
				fmt.Fprintln(out, "\nLogged out. Bye.")
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			if done := shellExec(ctx, a, line, in, out); done {
				return nil
			}
		}
	}
}

// shellExec runs one line through a fresh command tree bound to the same app
func shellExec(ctx context.Context, a *app, line string, in io.Reader, out io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprintln(out, shellHelp)
		return false
	case "shell":
		fmt.Fprintln(out, "Already in a shell")
		return false
	}

	root := newRootCmd(a)
	root.SetArgs(fields)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	root.SilenceErrors = true
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(out, "error: %v\n", describeError(err))
	}
	return false
}
