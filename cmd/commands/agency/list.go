package agency

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fedcredit/loanscope/internal/domain"
	"fedcredit/loanscope/internal/session"
	"fedcredit/loanscope/internal/util"
)

// ListCommand returns the "agency list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agencies with loan spending",
		Long: `List toptier agencies that issued direct loans or loan guarantees in
the fiscal window. With --all, every toptier agency is listed regardless of
loan activity.

Examples:
  loanscope agency list
  loanscope agency list --all
  loanscope agency list -o json`,
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("all", false, "Include agencies without loan spending")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	output, _ := cmd.Flags().GetString("output")

	sess, err := session.FromCommand(cmd)
	if err != nil {
		return err
	}

	var agencies []domain.Agency
	if all {
		agencies, err = sess.Client.ListAgencies(context.Background())
	} else {
		agencies, err = sess.Client.ListLoanAgencies(context.Background(), sess.Window)
	}
	if err != nil {
		return fmt.Errorf("failed to list agencies: %w", err)
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(agencies)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(agencies) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No agencies found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CODE\tAGENCY\tABBREV\tBUDGET AUTH")
	fmt.Fprintln(w, "----\t------\t------\t-----------")

	for _, a := range agencies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			a.Code,
			a.Name,
			a.Abbreviation,
			util.DollarsCompact(a.BudgetAuthority),
		)
	}

	return w.Flush()
}
