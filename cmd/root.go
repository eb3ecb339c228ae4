package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"fedcredit/loanscope/cmd/commands/agency"
	"fedcredit/loanscope/cmd/commands/browse"
	cfgcmd "fedcredit/loanscope/cmd/commands/config"
	"fedcredit/loanscope/cmd/commands/history"
	"fedcredit/loanscope/cmd/commands/program"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "loanscope",
		Short: "Explore federal loan program spending from USAspending",
		Long: `loanscope is a command-line tool for exploring federal direct loan and
loan guarantee spending published by the USAspending API. It lists the
agencies that issue credit, ranks their CFDA programs by obligation, and
shows per-program awards alongside subsidy data from the federal credit
supplement.

Quick start:
  loanscope browse                 # Interactive dashboard
  loanscope agency list            # Agencies with loan spending
  loanscope program list           # Loan programs by obligation
  loanscope program show 10.766    # One program in detail`,
	}

	cmd.AddCommand(browse.NewCommand())
	cmd.AddCommand(agency.NewCommand())
	cmd.AddCommand(program.NewCommand())
	cmd.AddCommand(history.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())

	cmd.PersistentFlags().String("base-url", "", "USAspending API endpoint (overrides config)")
	cmd.PersistentFlags().Int("start-year", 0, "First fiscal year to query (overrides config)")
	cmd.PersistentFlags().Int("end-year", 0, "Last fiscal year to query (overrides config)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
