package usaspending

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fedcredit/loanscope/internal/domain"
)

// awardFields are requested from the award search endpoint. Response rows
// are keyed by these exact names.
var awardFields = []string{
	"Award ID",
	"Recipient Name",
	"Description",
	"Start Date",
	"End Date",
	"Award Amount",
	"Loan Value",
	"Subsidy Cost",
	"Awarding Agency",
	"Awarding Sub Agency",
}

// ProgramStatistics fetches a program's top awards and its per-fiscal-year
// obligation series. The two queries run concurrently; the series itself
// issues one call per year sequentially so at most one of its requests is
// in flight at a time.
//
// A failed year inside the series degrades to a zero-amount point instead
// of failing the whole call; every other failure propagates.
func (c *Client) ProgramStatistics(ctx context.Context, number string, window FiscalWindow) (*domain.ProgramStatistics, error) {
	window = window.orDefault()

	stats := &domain.ProgramStatistics{ProgramNumber: number}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		awards, total, err := c.topAwards(ctx, number, window)
		if err != nil {
			return err
		}
		stats.Awards = awards
		stats.TotalAwards = total
		return nil
	})
	g.Go(func() error {
		stats.Series = c.obligationSeries(ctx, number, window)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, a := range stats.Awards {
		stats.TotalDisbursements += a.Amount
		stats.TotalFaceValue += a.FaceValue
	}
	// TotalSubsidyCost stays zero: it comes from the credit supplement
	// dataset, not from award rows.

	return stats, nil
}

// topAwards returns up to 100 awards for the program, largest first, plus
// the upstream total count.
func (c *Client) topAwards(ctx context.Context, number string, window FiscalWindow) ([]domain.Award, int, error) {
	type request struct {
		Filters   searchFilters `json:"filters"`
		Fields    []string      `json:"fields"`
		Limit     int           `json:"limit"`
		Page      int           `json:"page"`
		Sort      string        `json:"sort"`
		Order     string        `json:"order"`
		Subawards bool          `json:"subawards"`
	}

	type pageMetadata struct {
		Total int `json:"total"`
	}

	type response struct {
		Results      []map[string]any `json:"results"`
		PageMetadata pageMetadata     `json:"page_metadata"`
	}

	var out response
	err := c.post(ctx, "/search/spending_by_award/", request{
		Filters: searchFilters{
			AwardTypeCodes: []string{codeDirectLoan, codeLoanGuarantee},
			TimePeriod:     []timePeriod{window.period()},
			ProgramNumbers: []string{number},
		},
		Fields:    awardFields,
		Limit:     100,
		Page:      1,
		Sort:      "Award Amount",
		Order:     "desc",
		Subawards: false,
	}, &out)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch awards for program %s: %w", number, err)
	}

	awards := make([]domain.Award, 0, len(out.Results))
	for _, row := range out.Results {
		awards = append(awards, toAward(row))
	}
	return awards, out.PageMetadata.Total, nil
}

// obligationSeries issues one cfda breakdown per fiscal year, in order.
// Years whose calls fail become zero points; the returned series always
// has one point per year in the window. An inverted window contains no
// years and yields an empty series.
func (c *Client) obligationSeries(ctx context.Context, number string, window FiscalWindow) []domain.FiscalYearData {
	if window.EndYear < window.StartYear {
		return nil
	}
	series := make([]domain.FiscalYearData, 0, window.EndYear-window.StartYear+1)
	for year := window.StartYear; year <= window.EndYear; year++ {
		point := domain.FiscalYearData{Year: year}

		rows, err := c.spendingByCategory(ctx, "cfda", searchFilters{
			AwardTypeCodes: []string{codeDirectLoan, codeLoanGuarantee},
			TimePeriod:     []timePeriod{FiscalWindow{StartYear: year, EndYear: year}.period()},
			ProgramNumbers: []string{number},
		})
		if err == nil {
			for _, row := range rows {
				point.Obligations += row.Amount
			}
		}

		series = append(series, point)
	}
	return series
}

// toAward maps one loosely-typed award row to a domain record. This is
// the only place award fields are read from the wire shape; every missing
// field defaults here, exactly once.
func toAward(row map[string]any) domain.Award {
	return domain.Award{
		ID:                stringField(row, "Award ID"),
		Recipient:         stringField(row, "Recipient Name"),
		Description:       stringField(row, "Description"),
		StartDate:         stringField(row, "Start Date"),
		EndDate:           stringField(row, "End Date"),
		Amount:            floatField(row, "Award Amount"),
		FaceValue:         floatField(row, "Loan Value"),
		SubsidyCost:       floatField(row, "Subsidy Cost"),
		AwardingAgency:    stringField(row, "Awarding Agency"),
		AwardingSubAgency: stringField(row, "Awarding Sub Agency"),
	}
}

// stringField returns the named field as a string, or "" when absent,
// null, or not a string.
func stringField(row map[string]any, name string) string {
	if v, ok := row[name].(string); ok {
		return v
	}
	return ""
}

// floatField returns the named field as a float64, or 0 when absent,
// null, or not numeric.
func floatField(row map[string]any, name string) float64 {
	if v, ok := row[name].(float64); ok {
		return v
	}
	return 0
}
