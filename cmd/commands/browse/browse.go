// Package browse wires the interactive dashboard into the CLI.
package browse

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fedcredit/loanscope/internal/history"
	"fedcredit/loanscope/internal/session"
	"fedcredit/loanscope/internal/tui"
)

// NewCommand returns the "browse" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse loan programs interactively",
		Long: `Open the interactive dashboard: drill from loan-issuing agencies into
their CFDA programs and per-program award detail.

Examples:
  loanscope browse
  loanscope browse --start-year 2018 --end-year 2022`,
		Args:         cobra.ExactArgs(0),
		RunE:         runBrowse,
		SilenceUsage: true,
	}

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse requires a terminal; use 'loanscope agency list' or 'loanscope program list' for plain output")
	}

	sess, err := session.FromCommand(cmd)
	if err != nil {
		return err
	}

	// View history is best effort; a broken database should not block
	// browsing.
	var views history.Repository
	if repo, err := history.Open(); err == nil {
		views = repo
		defer repo.Close()
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: view history disabled: %v\n", err)
	}

	return tui.RunDashboard(sess.Client, sess.Window, sess.Supplement, views)
}
