// Package history implements the "history" command group over the local
// program view log.
package history

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "history" Cobra command with all
// subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the local program view history",
		Long:  `List and prune the locally recorded history of viewed programs.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
