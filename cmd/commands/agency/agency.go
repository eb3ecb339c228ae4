// Package agency implements the "agency" command group.
package agency

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "agency" Cobra command with all
// subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agency",
		Short: "List federal agencies",
		Long:  `List toptier federal agencies, by default only those with loan spending.`,
	}

	cmd.AddCommand(ListCommand())

	return cmd
}
