package supplement

import (
	"testing"

	"fedcredit/loanscope/internal/domain"
)

func TestLoad_ParsesEmbeddedDataset(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Len() == 0 {
		t.Fatal("expected a non-empty dataset")
	}

	rec, ok := d.Lookup("59.012")
	if !ok {
		t.Fatal("expected 59.012 to be present")
	}
	if rec.Name != "7(a) Loan Guarantees" {
		t.Errorf("unexpected name %q", rec.Name)
	}
	if rec.CreditType != domain.AwardTypeLoanGuarantee {
		t.Errorf("expected loan_guarantee, got %q", rec.CreditType)
	}
	if rec.ObligationsThousands != 35000000 {
		t.Errorf("expected obligations 35000000, got %v", rec.ObligationsThousands)
	}
}

func TestLoad_CoercesSpreadsheetNumbers(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// TIFIA obligations carry a stray space: "1 96,767".
	rec, ok := d.Lookup("20.223")
	if !ok {
		t.Fatal("expected 20.223 to be present")
	}
	if rec.ObligationsThousands != 196767 {
		t.Errorf("expected obligations 196767, got %v", rec.ObligationsThousands)
	}

	// Student loans report no average loan size ("…..") which must
	// default to zero, not fail the load.
	rec, ok = d.Lookup("84.268")
	if !ok {
		t.Fatal("expected 84.268 to be present")
	}
	if rec.AvgLoanSizeThousands != 0 {
		t.Errorf("expected zero average loan size, got %v", rec.AvgLoanSizeThousands)
	}
}

func TestLoad_DropsAggregateRows(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := d.Lookup("99.001"); ok {
		t.Error("expected weighted-average row to be dropped")
	}
}

func TestLookup_ExactMatchOnly(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := d.Lookup("59.01"); ok {
		t.Error("expected no match for a truncated number")
	}
	if _, ok := d.Lookup(""); ok {
		t.Error("expected no match for empty number")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"number", 12.5, 12.5, true},
		{"plain string", "437", 437, true},
		{"comma separated", "3,100,000", 3100000, true},
		{"stray space", "1 96,767", 196767, true},
		{"negative rate", "-2.77", -2.77, true},
		{"placeholder dots", "…..", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAmount(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseAmount(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSubsidyCostThousands(t *testing.T) {
	p := domain.CreditSupplementProgram{SubsidyRatePct: 2.0, ObligationsThousands: 500}
	if got := p.SubsidyCostThousands(); got != 10 {
		t.Errorf("expected subsidy cost 10, got %v", got)
	}
}
