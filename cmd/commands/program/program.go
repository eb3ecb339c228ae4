// Package program implements the "program" command group.
package program

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "program" Cobra command with all
// subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "List and inspect federal loan programs",
		Long: `List CFDA loan programs and show per-program award statistics from
USAspending.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())

	return cmd
}
