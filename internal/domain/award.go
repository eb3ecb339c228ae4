package domain

// Award represents a single award row for a program, reshaped from the
// upstream award-search response. Missing upstream fields default to the
// zero value at the adapter boundary; no field is defaulted twice.
type Award struct {
	// ID is the upstream award identifier (PIID, FAIN, or URI).
	ID string `json:"id"`

	// Recipient is the recipient organisation name.
	Recipient string `json:"recipient"`

	// Description is the award description, often empty for loans.
	Description string `json:"description,omitempty"`

	// StartDate and EndDate are the period-of-performance bounds as
	// upstream date strings (YYYY-MM-DD). Either may be empty.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// Amount is the award amount in dollars.
	Amount float64 `json:"amount"`

	// FaceValue is the loan face value in dollars (zero for non-loans).
	FaceValue float64 `json:"face_value"`

	// SubsidyCost is the original subsidy cost in dollars, when reported.
	SubsidyCost float64 `json:"subsidy_cost"`

	// AwardingAgency and AwardingSubAgency name the awarding offices.
	AwardingAgency    string `json:"awarding_agency,omitempty"`
	AwardingSubAgency string `json:"awarding_sub_agency,omitempty"`
}

// FiscalYearData is one point of a program's obligation time series.
type FiscalYearData struct {
	// Year is the fiscal year, e.g. 2023 covers Oct 2022 - Sep 2023.
	Year int `json:"year"`

	// Obligations is the total obligated amount for the year in dollars.
	// A year whose upstream query failed is recorded as zero rather than
	// aborting the series.
	Obligations float64 `json:"obligations"`
}

// ProgramStatistics combines a program's largest recent awards with its
// per-fiscal-year obligation trend.
type ProgramStatistics struct {
	// ProgramNumber is the CFDA number the statistics describe.
	ProgramNumber string `json:"program_number"`

	// Awards holds up to the top 100 awards by amount, descending.
	Awards []Award `json:"awards"`

	// Series holds one point per requested fiscal year, in year order.
	Series []FiscalYearData `json:"series"`

	// TotalAwards is the upstream total award count for the filter, which
	// may exceed len(Awards).
	TotalAwards int `json:"total_awards"`

	// TotalDisbursements and TotalFaceValue are sums over Awards.
	TotalDisbursements float64 `json:"total_disbursements"`
	TotalFaceValue     float64 `json:"total_face_value"`

	// TotalSubsidyCost is always zero from this source; it is populated
	// only from the credit supplement dataset.
	TotalSubsidyCost float64 `json:"total_subsidy_cost"`
}
