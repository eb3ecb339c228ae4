package program

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fedcredit/loanscope/internal/domain"
	"fedcredit/loanscope/internal/history"
	"fedcredit/loanscope/internal/session"
	"fedcredit/loanscope/internal/util"
)

// ShowCommand returns the "program show" subcommand.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <cfda-number>",
		Short: "Show award statistics for one program",
		Long: `Show the top awards and per-fiscal-year obligations for one CFDA
program, plus subsidy data from the federal credit supplement when the
program appears there.

Examples:
  loanscope program show 10.766
  loanscope program show 59.012 -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	number := args[0]
	if err := util.ValidateProgramNumber(number); err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")

	sess, err := session.FromCommand(cmd)
	if err != nil {
		return err
	}

	stats, err := fetchStatistics(sess, number)
	if err != nil {
		return fmt.Errorf("failed to fetch program statistics: %w", err)
	}

	recordView(cmd, sess, number, stats)

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	}
	if output != "text" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	printStatistics(cmd, sess, number, stats)
	return nil
}

// fetchStatistics wraps the API calls in a spinner when attached to a
// terminal.
func fetchStatistics(sess *session.Session, number string) (*domain.ProgramStatistics, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return sess.Client.ProgramStatistics(context.Background(), number, sess.Window)
	}

	var stats *domain.ProgramStatistics
	err := spinner.New().
		Title(fmt.Sprintf("Fetching statistics for %s...", number)).
		Accessible(os.Getenv("ACCESSIBLE") != "").
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			stats, err = sess.Client.ProgramStatistics(ctx, number, sess.Window)
			return err
		}).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, context.Canceled
		}
		return nil, err
	}
	return stats, nil
}

// recordView appends the program to the local view history. Best effort.
func recordView(cmd *cobra.Command, sess *session.Session, number string, stats *domain.ProgramStatistics) {
	repo, err := history.Open()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: view history disabled: %v\n", err)
		return
	}
	defer repo.Close()

	_ = repo.Record(buildViewRecord(sess, number, stats))
}

// buildViewRecord fills the record from the supplement when the program
// appears there, falling back to the awarding agency of the top award.
func buildViewRecord(sess *session.Session, number string, stats *domain.ProgramStatistics) *history.ViewRecord {
	rec := &history.ViewRecord{ProgramNumber: number}
	if row, ok := sess.Supplement.Lookup(number); ok {
		rec.ProgramName = row.Name
		rec.Agency = row.Agency
		rec.AwardType = string(row.CreditType)
	}
	if rec.Agency == "" && len(stats.Awards) > 0 {
		rec.Agency = stats.Awards[0].AwardingAgency
	}
	return rec
}

func printStatistics(cmd *cobra.Command, sess *session.Session, number string, stats *domain.ProgramStatistics) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Program %s\n", number)
	fmt.Fprintf(out, "  Awards:        %d\n", stats.TotalAwards)
	fmt.Fprintf(out, "  Disbursements: %s\n", util.Dollars(stats.TotalDisbursements))
	fmt.Fprintf(out, "  Face value:    %s\n", util.Dollars(stats.TotalFaceValue))

	if row, ok := sess.Supplement.Lookup(number); ok {
		fmt.Fprintf(out, "\nFederal credit supplement: %s\n", row.Name)
		fmt.Fprintf(out, "  Credit type:   %s\n", row.CreditType)
		fmt.Fprintf(out, "  Subsidy rate:  %s\n", util.Percent(row.SubsidyRatePct))
		fmt.Fprintf(out, "  Subsidy cost:  %s\n", util.Dollars(row.SubsidyCostThousands()*1000))
		fmt.Fprintf(out, "  Avg loan size: %s\n", util.Dollars(row.AvgLoanSizeThousands*1000))
	}

	if len(stats.Series) > 0 {
		fmt.Fprintln(out, "\nObligations by fiscal year:")
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		for _, p := range stats.Series {
			fmt.Fprintf(w, "  FY%d\t%s\n", p.Year, util.Dollars(p.Obligations))
		}
		w.Flush()
	}

	if len(stats.Awards) > 0 {
		fmt.Fprintln(out, "\nTop awards:")
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "  AWARD ID\tRECIPIENT\tAMOUNT\tFACE VALUE")
		for _, a := range stats.Awards {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
				a.ID,
				a.Recipient,
				util.DollarsCompact(a.Amount),
				util.DollarsCompact(a.FaceValue),
			)
		}
		w.Flush()
	}
}
