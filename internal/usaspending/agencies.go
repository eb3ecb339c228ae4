package usaspending

import (
	"context"
	"fmt"

	"fedcredit/loanscope/internal/domain"
	"fedcredit/loanscope/internal/util"
)

// ListAgencies returns all top-tier agencies.
func (c *Client) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	type apiAgency struct {
		ToptierCode     string  `json:"toptier_code"`
		AgencyName      string  `json:"agency_name"`
		Abbreviation    string  `json:"abbreviation"`
		BudgetAuthority float64 `json:"budget_authority_amount"`
	}

	type response struct {
		Results []apiAgency `json:"results"`
	}

	var out response
	if err := c.get(ctx, "/references/toptier_agencies/", &out); err != nil {
		return nil, fmt.Errorf("failed to list agencies: %w", err)
	}

	agencies := make([]domain.Agency, 0, len(out.Results))
	for _, a := range out.Results {
		agencies = append(agencies, domain.Agency{
			Code:            a.ToptierCode,
			Name:            a.AgencyName,
			Abbreviation:    a.Abbreviation,
			BudgetAuthority: a.BudgetAuthority,
		})
	}
	return agencies, nil
}

// ListLoanAgencies returns the agencies that have loan or loan-guarantee
// obligations in the window. It cross-references the full agency list with
// an awarding-agency breakdown filtered to the loan award-type codes and
// keeps agencies whose name or abbreviation appears in that breakdown,
// case-insensitively.
func (c *Client) ListLoanAgencies(ctx context.Context, window FiscalWindow) ([]domain.Agency, error) {
	agencies, err := c.ListAgencies(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := c.spendingByCategory(ctx, "awarding_agency", searchFilters{
		AwardTypeCodes: []string{codeDirectLoan, codeLoanGuarantee},
		TimePeriod:     []timePeriod{window.period()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list loan agencies: %w", err)
	}

	names := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row.Name != "" {
			names[util.NormalizeKey(row.Name)] = struct{}{}
		}
	}

	matched := make([]domain.Agency, 0, len(names))
	for _, a := range agencies {
		if _, ok := names[util.NormalizeKey(a.Name)]; ok {
			matched = append(matched, a)
			continue
		}
		if a.Abbreviation != "" {
			if _, ok := names[util.NormalizeKey(a.Abbreviation)]; ok {
				matched = append(matched, a)
			}
		}
	}
	return matched, nil
}

// categoryRow is one breakdown bucket from a spending_by_category call.
type categoryRow struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// spendingByCategory runs one category-aggregation query and returns the
// raw rows.
func (c *Client) spendingByCategory(ctx context.Context, category string, filters searchFilters) ([]categoryRow, error) {
	type request struct {
		Filters  searchFilters `json:"filters"`
		Category string        `json:"category"`
		Limit    int           `json:"limit"`
		Page     int           `json:"page"`
	}

	type response struct {
		Results []categoryRow `json:"results"`
	}

	var out response
	err := c.post(ctx, "/search/spending_by_category/"+category+"/", request{
		Filters:  filters,
		Category: category,
		Limit:    100,
		Page:     1,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}
