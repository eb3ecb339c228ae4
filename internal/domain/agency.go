package domain

// Agency represents a top-tier federal awarding agency.
type Agency struct {
	// Code is the toptier agency code used in upstream filters.
	Code string `json:"code"`

	// Name is the full agency name, e.g. "Department of Agriculture".
	Name string `json:"name"`

	// Abbreviation is the short form, e.g. "USDA". May be empty.
	Abbreviation string `json:"abbreviation,omitempty"`

	// BudgetAuthority is the agency's total budgetary resources in dollars.
	BudgetAuthority float64 `json:"budget_authority,omitempty"`
}
