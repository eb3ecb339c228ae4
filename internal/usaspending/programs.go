package usaspending

import (
	"context"
	"fmt"
	"sort"

	"fedcredit/loanscope/internal/domain"
)

// ProgramQuery scopes program listings. The zero value lists every program
// over the default fiscal window.
type ProgramQuery struct {
	// Agency restricts results to one awarding toptier agency by name.
	Agency string

	// Window bounds the query; unset years fall back to the defaults.
	Window FiscalWindow
}

func (q ProgramQuery) filters(codes ...string) searchFilters {
	f := searchFilters{
		AwardTypeCodes: codes,
		TimePeriod:     []timePeriod{q.Window.period()},
	}
	if q.Agency != "" {
		f.Agencies = []agencyFilter{{Type: "awarding", Tier: "toptier", Name: q.Agency}}
	}
	return f
}

// ListPrograms returns the CFDA programs with obligations under the given
// award type, scoped by q. Each record's AwardType is set from the code
// that produced it.
func (c *Client) ListPrograms(ctx context.Context, awardType domain.AwardType, q ProgramQuery) ([]domain.Program, error) {
	code := codeDirectLoan
	if awardType == domain.AwardTypeLoanGuarantee {
		code = codeLoanGuarantee
	}

	rows, err := c.spendingByCategory(ctx, "cfda", q.filters(code))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s programs: %w", awardType, err)
	}

	programs := make([]domain.Program, 0, len(rows))
	for _, row := range rows {
		programs = append(programs, domain.Program{
			Number:          row.Code,
			Name:            row.Name,
			Agency:          q.Agency,
			AwardType:       awardType,
			TotalObligation: row.Amount,
		})
	}
	return programs, nil
}

// MergedPrograms queries the direct-loan and guarantee breakdowns
// independently and unions them by program number.
//
// When a program appears in both result sets, the record with the strictly
// larger obligation wins and its award type is kept; on a tie the
// guarantee record wins. The result is sorted by obligation descending,
// then by program number for a stable order.
func (c *Client) MergedPrograms(ctx context.Context, q ProgramQuery) ([]domain.Program, error) {
	direct, err := c.ListPrograms(ctx, domain.AwardTypeDirectLoan, q)
	if err != nil {
		return nil, err
	}
	guaranteed, err := c.ListPrograms(ctx, domain.AwardTypeLoanGuarantee, q)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[string]domain.Program, len(direct)+len(guaranteed))
	for _, p := range direct {
		byNumber[p.Number] = p
	}
	// The guarantee branch is applied last and replaces the direct record
	// whenever its amount is not smaller.
	for _, p := range guaranteed {
		if existing, ok := byNumber[p.Number]; ok && p.TotalObligation < existing.TotalObligation {
			continue
		}
		byNumber[p.Number] = p
	}

	merged := make([]domain.Program, 0, len(byNumber))
	for _, p := range byNumber {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].TotalObligation != merged[j].TotalObligation {
			return merged[i].TotalObligation > merged[j].TotalObligation
		}
		return merged[i].Number < merged[j].Number
	})
	return merged, nil
}
