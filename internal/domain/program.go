package domain

// AwardType classifies a federal credit program by the kind of assistance
// it provides.
type AwardType string

const (
	// AwardTypeDirectLoan marks programs that lend federal money directly.
	AwardTypeDirectLoan AwardType = "direct_loan"

	// AwardTypeLoanGuarantee marks programs that guarantee private lending.
	AwardTypeLoanGuarantee AwardType = "loan_guarantee"
)

// Program represents a federal loan or loan-guarantee program.
//
// Program identity is the Number string (the CFDA catalog number); merge
// logic that unions direct-loan and guarantee result sets keys on it, so a
// merged result holds at most one Program per number.
type Program struct {
	// Number is the CFDA catalog number, e.g. "10.766".
	Number string `json:"number"`

	// Name is the program title.
	Name string `json:"name"`

	// Agency is the awarding toptier agency name, when known.
	Agency string `json:"agency,omitempty"`

	// AwardType records which award-type query produced this record.
	// When a program appears under both direct-loan and guarantee
	// queries, the merge tie-break overwrites this field.
	AwardType AwardType `json:"award_type"`

	// TotalObligation is the summed obligations in dollars over the
	// queried fiscal window.
	TotalObligation float64 `json:"total_obligation"`
}
