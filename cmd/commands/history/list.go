package history

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fedcredit/loanscope/internal/history"
)

// ListCommand returns the "history list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently viewed programs",
		Long: `List recently viewed programs, newest first. Each program appears at
most once, with its latest view time.

Examples:
  loanscope history list
  loanscope history list --limit 50
  loanscope history list -o json`,
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := history.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	records, err := repo.Recent(limit)
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No viewed programs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VIEWED\tCFDA\tPROGRAM\tAGENCY")
	fmt.Fprintln(w, "------\t----\t-------\t------")
	for _, rec := range records {
		name := rec.ProgramName
		if name == "" {
			name = "-"
		}
		agency := rec.Agency
		if agency == "" {
			agency = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.ViewedAt.Local().Format("2006-01-02 15:04:05"),
			rec.ProgramNumber,
			name,
			agency,
		)
	}
	return w.Flush()
}
