// Package supplement loads the static Federal Credit Supplement dataset:
// per-program credit characteristics extracted from the budget tables and
// bundled with the binary. Records are joined to live API data by exact
// program number; there is no fuzzy matching.
package supplement

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fedcredit/loanscope/internal/domain"
)

//go:embed data/credit_supplement.json
var rawDataset []byte

// rawProgram is the wire shape of one dataset row. Numeric columns come
// from spreadsheet extraction and may carry stray commas, spaces, or
// placeholder strings; they are coerced once, at load.
type rawProgram struct {
	Name                 string `json:"canonical_name"`
	Agency               string `json:"agency"`
	Bureau               string `json:"bureau"`
	Sector               string `json:"sector"`
	CreditType           string `json:"credit_type"`
	SubsidyRatePct       any    `json:"subsidy_rate_percent"`
	ObligationsThousands any    `json:"obligations_thousands"`
	AvgLoanSizeThousands any    `json:"average_loan_size_thousands"`
}

// Dataset holds the loaded supplement records keyed by program number.
type Dataset struct {
	byNumber map[string]domain.CreditSupplementProgram
}

// Load parses the embedded dataset. Aggregate rows (section totals and
// weighted averages) are dropped; they are not real programs.
func Load() (*Dataset, error) {
	var file struct {
		Programs map[string]rawProgram `json:"programs"`
	}
	if err := json.Unmarshal(rawDataset, &file); err != nil {
		return nil, fmt.Errorf("supplement: failed to parse embedded dataset: %w", err)
	}

	byNumber := make(map[string]domain.CreditSupplementProgram, len(file.Programs))
	for number, raw := range file.Programs {
		if isAggregateRow(raw.Name) {
			continue
		}

		rec := domain.CreditSupplementProgram{
			Number:     number,
			Name:       raw.Name,
			Agency:     raw.Agency,
			Bureau:     raw.Bureau,
			Sector:     raw.Sector,
			CreditType: domain.AwardType(raw.CreditType),
		}
		if v, ok := parseAmount(raw.SubsidyRatePct); ok {
			rec.SubsidyRatePct = v
		}
		if v, ok := parseAmount(raw.ObligationsThousands); ok {
			rec.ObligationsThousands = v
		}
		if v, ok := parseAmount(raw.AvgLoanSizeThousands); ok {
			rec.AvgLoanSizeThousands = v
		}

		byNumber[number] = rec
	}

	return &Dataset{byNumber: byNumber}, nil
}

// Lookup returns the supplement record for a program number, matched
// exactly.
func (d *Dataset) Lookup(number string) (domain.CreditSupplementProgram, bool) {
	rec, ok := d.byNumber[number]
	return rec, ok
}

// Len returns the number of loaded program records.
func (d *Dataset) Len() int {
	return len(d.byNumber)
}

// isAggregateRow reports whether a name denotes a section total or
// weighted average rather than a real program.
func isAggregateRow(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasPrefix(lower, "weighted average") || lower == "(legislative proposal)"
}

// parseAmount coerces a JSON value to float64. Spreadsheet-derived
// strings may contain thousands separators or stray spaces ("1 96,767");
// unparseable values report ok=false rather than an error.
func parseAmount(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case string:
		cleaned := strings.ReplaceAll(strings.ReplaceAll(val, ",", ""), " ", "")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
