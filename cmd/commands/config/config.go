// Package config implements the "config" command group.
package config

import (
	"github.com/spf13/cobra"

	"fedcredit/loanscope/internal/config"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage loanscope configuration",
		Long: "View and modify persistent loanscope settings.\n\n" +
			"Configuration is stored at ~/.config/loanscope/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
