package history

import "time"

// ViewRecord is one persisted program view.
type ViewRecord struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// ProgramNumber is the CFDA number of the viewed program.
	ProgramNumber string

	// ProgramName is the program title at view time (for display).
	ProgramName string

	// Agency is the awarding agency name, when known.
	Agency string

	// AwardType is "direct_loan" or "loan_guarantee" at view time.
	AwardType string

	// ViewedAt is when the program was opened.
	ViewedAt time.Time
}
