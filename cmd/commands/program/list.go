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
	"fedcredit/loanscope/internal/session"
	"fedcredit/loanscope/internal/usaspending"
	"fedcredit/loanscope/internal/util"
)

// ErrAborted is returned when the user cancels the agency picker.
var ErrAborted = errors.New("program listing aborted by user")

// ListCommand returns the "program list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loan programs",
		Long: `List CFDA programs with direct loan or loan guarantee obligations,
ranked by total obligation. Direct loans and guarantees are merged per
program; when both exist the guarantee side is reported for equal or larger
obligations.

If no agency is given and running in a terminal, an interactive picker
offers the loan-issuing agencies.

Examples:
  loanscope program list --agency "Department of Agriculture"
  loanscope program list --type direct
  loanscope program list -o json`,
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().String("agency", "", "Restrict to one awarding toptier agency by name")
	cmd.Flags().String("type", "", "Restrict to one assistance type: direct or guarantee")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	agencyName, _ := cmd.Flags().GetString("agency")
	typeFilter, _ := cmd.Flags().GetString("type")
	output, _ := cmd.Flags().GetString("output")

	sess, err := session.FromCommand(cmd)
	if err != nil {
		return err
	}

	// No agency and an interactive terminal: offer a picker. Piped output
	// falls through to a government-wide listing.
	if agencyName == "" && output == "table" && term.IsTerminal(int(os.Stdout.Fd())) {
		agencyName, err = pickAgency(sess)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}
	}

	query := usaspending.ProgramQuery{Agency: agencyName, Window: sess.Window}

	var programs []domain.Program
	switch typeFilter {
	case "":
		programs, err = sess.Client.MergedPrograms(context.Background(), query)
	case "direct":
		programs, err = sess.Client.ListPrograms(context.Background(), domain.AwardTypeDirectLoan, query)
	case "guarantee":
		programs, err = sess.Client.ListPrograms(context.Background(), domain.AwardTypeLoanGuarantee, query)
	default:
		return fmt.Errorf("unsupported type %q (valid: direct, guarantee)", typeFilter)
	}
	if err != nil {
		return fmt.Errorf("failed to list programs: %w", err)
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(programs)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(programs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No loan programs found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CFDA\tPROGRAM\tTYPE\tOBLIGATIONS")
	fmt.Fprintln(w, "----\t-------\t----\t-----------")

	for _, p := range programs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.Number,
			p.Name,
			p.AwardType,
			util.DollarsCompact(p.TotalObligation),
		)
	}

	return w.Flush()
}

// pickAgency fetches the loan-issuing agencies behind a spinner and lets
// the user choose one. An explicit blank option queries all agencies.
func pickAgency(sess *session.Session) (string, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var agencies []domain.Agency
	fetchErr := spinner.New().
		Title("Fetching loan-issuing agencies...").
		Accessible(accessible).
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			agencies, err = sess.Client.ListLoanAgencies(ctx, sess.Window)
			return err
		}).
		Run()
	if fetchErr != nil {
		if errors.Is(fetchErr, huh.ErrUserAborted) || errors.Is(fetchErr, context.Canceled) {
			return "", ErrAborted
		}
		return "", fetchErr
	}

	opts := make([]huh.Option[string], 0, len(agencies)+1)
	opts = append(opts, huh.NewOption("All agencies", ""))
	for _, a := range agencies {
		label := a.Name
		if a.Abbreviation != "" {
			label = fmt.Sprintf("%s (%s)", a.Name, a.Abbreviation)
		}
		opts = append(opts, huh.NewOption(label, a.Name))
	}

	var selected string
	field := huh.NewSelect[string]().
		Title("Agency").
		Options(opts...).
		Value(&selected)

	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(accessible)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", err
	}

	return selected, nil
}
