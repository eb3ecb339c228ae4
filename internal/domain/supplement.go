package domain

// CreditSupplementProgram holds per-program credit characteristics from the
// static Federal Credit Supplement dataset, joined by exact program number.
type CreditSupplementProgram struct {
	// Number is the CFDA catalog number.
	Number string `json:"number"`

	// Name is the canonical program name from the budget tables.
	Name string `json:"name"`

	Agency string `json:"agency,omitempty"`
	Bureau string `json:"bureau,omitempty"`
	Sector string `json:"sector,omitempty"`

	// CreditType is "direct_loan" or "loan_guarantee" as classified by
	// the budget table the row came from.
	CreditType AwardType `json:"credit_type"`

	// SubsidyRatePct is the budget-year subsidy rate in percent.
	SubsidyRatePct float64 `json:"subsidy_rate_pct"`

	// ObligationsThousands is projected obligations in thousands of dollars.
	ObligationsThousands float64 `json:"obligations_thousands"`

	// AvgLoanSizeThousands is the average loan size in thousands of dollars.
	AvgLoanSizeThousands float64 `json:"avg_loan_size_thousands"`
}

// SubsidyCostThousands derives the subsidy dollar cost (in thousands) from
// the rate and obligations.
func (p CreditSupplementProgram) SubsidyCostThousands() float64 {
	return p.SubsidyRatePct / 100 * p.ObligationsThousands
}
