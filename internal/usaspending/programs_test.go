package usaspending

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fedcredit/loanscope/internal/domain"
)

// newCFDAServer serves per-award-type-code cfda breakdowns. The handler
// inspects the request's award_type_codes filter to pick the result set.
func newCFDAServer(t *testing.T, byCode map[string][]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/spending_by_category/cfda/" {
			http.NotFound(w, r)
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}
		var req struct {
			Filters struct {
				AwardTypeCodes []string `json:"award_type_codes"`
			} `json:"filters"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if len(req.Filters.AwardTypeCodes) != 1 {
			t.Errorf("expected exactly one award type code, got %v", req.Filters.AwardTypeCodes)
		}

		results := byCode[req.Filters.AwardTypeCodes[0]]
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"results": results}); err != nil {
			t.Errorf("failed to encode test response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func programRow(code, name string, amount float64) map[string]any {
	return map[string]any{"code": code, "name": name, "amount": amount}
}

func TestListPrograms_MapsRowsWithAwardType(t *testing.T) {
	srv := newCFDAServer(t, map[string][]any{
		"07": {
			programRow("10.766", "Community Facilities Loans", 5.2e8),
			programRow("10.407", "Farm Ownership Loans", 1.1e8),
		},
	})
	c := newTestClient(t, srv.URL)

	programs, err := c.ListPrograms(context.Background(), domain.AwardTypeDirectLoan, ProgramQuery{
		Agency: "Department of Agriculture",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.Program{
		{Number: "10.766", Name: "Community Facilities Loans", Agency: "Department of Agriculture", AwardType: domain.AwardTypeDirectLoan, TotalObligation: 5.2e8},
		{Number: "10.407", Name: "Farm Ownership Loans", Agency: "Department of Agriculture", AwardType: domain.AwardTypeDirectLoan, TotalObligation: 1.1e8},
	}
	if diff := cmp.Diff(want, programs); diff != "" {
		t.Errorf("ListPrograms mismatch (-want +got):\n%s", diff)
	}
}

func TestMergedPrograms_GuaranteeWinsWhenLarger(t *testing.T) {
	srv := newCFDAServer(t, map[string][]any{
		"07": {programRow("10.766", "Community Facilities", 100)},
		"08": {programRow("10.766", "Community Facilities", 150)},
	})
	c := newTestClient(t, srv.URL)

	merged, err := c.MergedPrograms(context.Background(), ProgramQuery{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged program, got %d", len(merged))
	}

	got := merged[0]
	if got.AwardType != domain.AwardTypeLoanGuarantee {
		t.Errorf("expected award type %q, got %q", domain.AwardTypeLoanGuarantee, got.AwardType)
	}
	if got.TotalObligation != 150 {
		t.Errorf("expected obligation 150, got %v", got.TotalObligation)
	}
}

func TestMergedPrograms_DirectWinsWhenLarger(t *testing.T) {
	srv := newCFDAServer(t, map[string][]any{
		"07": {programRow("10.766", "Community Facilities", 100)},
		"08": {programRow("10.766", "Community Facilities", 50)},
	})
	c := newTestClient(t, srv.URL)

	merged, err := c.MergedPrograms(context.Background(), ProgramQuery{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged program, got %d", len(merged))
	}

	got := merged[0]
	if got.AwardType != domain.AwardTypeDirectLoan {
		t.Errorf("expected award type %q, got %q", domain.AwardTypeDirectLoan, got.AwardType)
	}
	if got.TotalObligation != 100 {
		t.Errorf("expected obligation 100, got %v", got.TotalObligation)
	}
}

func TestMergedPrograms_TieGoesToGuarantee(t *testing.T) {
	srv := newCFDAServer(t, map[string][]any{
		"07": {programRow("10.766", "Community Facilities", 100)},
		"08": {programRow("10.766", "Community Facilities", 100)},
	})
	c := newTestClient(t, srv.URL)

	merged, err := c.MergedPrograms(context.Background(), ProgramQuery{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := merged[0].AwardType; got != domain.AwardTypeLoanGuarantee {
		t.Errorf("expected tie to go to %q, got %q", domain.AwardTypeLoanGuarantee, got)
	}
}

func TestMergedPrograms_UnionsAndSortsByObligation(t *testing.T) {
	srv := newCFDAServer(t, map[string][]any{
		"07": {
			programRow("10.766", "Community Facilities", 300),
			programRow("10.407", "Farm Ownership", 100),
		},
		"08": {
			programRow("59.012", "7(a) Loan Guarantees", 900),
		},
	})
	c := newTestClient(t, srv.URL)

	merged, err := c.MergedPrograms(context.Background(), ProgramQuery{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := make([]string, len(merged))
	for i, p := range merged {
		got[i] = p.Number
	}
	want := []string{"59.012", "10.766", "10.407"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged order mismatch (-want +got):\n%s", diff)
	}
}

func TestFiscalWindow_Period(t *testing.T) {
	tests := []struct {
		name      string
		window    FiscalWindow
		wantStart string
		wantEnd   string
	}{
		{"defaults", FiscalWindow{}, "2019-10-01", "2024-09-30"},
		{"explicit", FiscalWindow{StartYear: 2022, EndYear: 2023}, "2021-10-01", "2023-09-30"},
		{"single year", FiscalWindow{StartYear: 2021, EndYear: 2021}, "2020-10-01", "2021-09-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.window.period()
			if p.StartDate != tt.wantStart || p.EndDate != tt.wantEnd {
				t.Errorf("period() = %s..%s, want %s..%s", p.StartDate, p.EndDate, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
