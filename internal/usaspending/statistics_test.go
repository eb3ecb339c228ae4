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

func awardRow(id, recipient string, amount, loanValue float64) map[string]any {
	return map[string]any{
		"Award ID":            id,
		"Recipient Name":      recipient,
		"Award Amount":        amount,
		"Loan Value":          loanValue,
		"Start Date":          "2023-01-15",
		"Awarding Agency":     "Small Business Administration",
		"Awarding Sub Agency": "SBA",
	}
}

// newStatsServer serves the award search endpoint plus per-year cfda
// breakdowns keyed by the start of the requested time period. Years in
// failYears respond 500.
func newStatsServer(t *testing.T, awards []any, total int, amountsByStart map[string]float64, failYears map[string]bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}

		switch r.URL.Path {
		case "/search/spending_by_award/":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"results":       awards,
				"page_metadata": map[string]any{"total": total},
			})

		case "/search/spending_by_category/cfda/":
			var req struct {
				Filters struct {
					TimePeriod []struct {
						StartDate string `json:"start_date"`
					} `json:"time_period"`
				} `json:"filters"`
			}
			if err := json.Unmarshal(data, &req); err != nil || len(req.Filters.TimePeriod) == 0 {
				t.Errorf("malformed cfda request: %v", err)
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			start := req.Filters.TimePeriod[0].StartDate
			if failYears[start] {
				http.Error(w, "upstream error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"results": []any{
					map[string]any{"code": "59.012", "name": "7(a)", "amount": amountsByStart[start]},
				},
			})

		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProgramStatistics_HappyPath(t *testing.T) {
	awards := []any{
		awardRow("SBA-1", "ACME WIDGETS LLC", 500000, 600000),
		awardRow("SBA-2", "BETA BAKERY INC", 250000, 300000),
	}
	amounts := map[string]float64{
		"2021-10-01": 1.0e6, // FY2022
		"2022-10-01": 2.0e6, // FY2023
	}
	srv := newStatsServer(t, awards, 412, amounts, nil)
	c := newTestClient(t, srv.URL)

	stats, err := c.ProgramStatistics(context.Background(), "59.012", FiscalWindow{StartYear: 2022, EndYear: 2023})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stats.ProgramNumber != "59.012" {
		t.Errorf("expected program number 59.012, got %q", stats.ProgramNumber)
	}
	if stats.TotalAwards != 412 {
		t.Errorf("expected 412 total awards, got %d", stats.TotalAwards)
	}
	if stats.TotalDisbursements != 750000 {
		t.Errorf("expected total disbursements 750000, got %v", stats.TotalDisbursements)
	}
	if stats.TotalFaceValue != 900000 {
		t.Errorf("expected total face value 900000, got %v", stats.TotalFaceValue)
	}
	if stats.TotalSubsidyCost != 0 {
		t.Errorf("expected zero subsidy cost from this source, got %v", stats.TotalSubsidyCost)
	}

	wantSeries := []domain.FiscalYearData{
		{Year: 2022, Obligations: 1.0e6},
		{Year: 2023, Obligations: 2.0e6},
	}
	if diff := cmp.Diff(wantSeries, stats.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramStatistics_AwardFieldDefaulting(t *testing.T) {
	// A sparse row: only the recipient is present; everything else must
	// default to zero values.
	awards := []any{map[string]any{"Recipient Name": "GAMMA FARMS"}}
	srv := newStatsServer(t, awards, 1, nil, nil)
	c := newTestClient(t, srv.URL)

	stats, err := c.ProgramStatistics(context.Background(), "10.766", FiscalWindow{StartYear: 2024, EndYear: 2024})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(stats.Awards) != 1 {
		t.Fatalf("expected 1 award, got %d", len(stats.Awards))
	}

	want := domain.Award{Recipient: "GAMMA FARMS"}
	if diff := cmp.Diff(want, stats.Awards[0]); diff != "" {
		t.Errorf("award defaulting mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramStatistics_FailedYearBecomesZeroPoint(t *testing.T) {
	amounts := map[string]float64{
		"2020-10-01": 5.0e6, // FY2021
		"2022-10-01": 7.0e6, // FY2023
	}
	failYears := map[string]bool{"2021-10-01": true} // FY2022 fails
	srv := newStatsServer(t, []any{}, 0, amounts, failYears)
	c := newTestClient(t, srv.URL)

	stats, err := c.ProgramStatistics(context.Background(), "10.766", FiscalWindow{StartYear: 2021, EndYear: 2023})
	if err != nil {
		t.Fatalf("expected no error despite failed year, got %v", err)
	}

	wantSeries := []domain.FiscalYearData{
		{Year: 2021, Obligations: 5.0e6},
		{Year: 2022, Obligations: 0},
		{Year: 2023, Obligations: 7.0e6},
	}
	if diff := cmp.Diff(wantSeries, stats.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramStatistics_HalfSpecifiedInvertedWindow(t *testing.T) {
	// Only the start year is given and it lies past the default end year,
	// so the defaulted window is inverted. The call must not panic; the
	// series is simply empty because the window contains no years.
	srv := newStatsServer(t, []any{}, 0, nil, nil)
	c := newTestClient(t, srv.URL)

	stats, err := c.ProgramStatistics(context.Background(), "10.766", FiscalWindow{StartYear: DefaultEndYear + 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(stats.Series) != 0 {
		t.Errorf("expected empty series for inverted window, got %d points", len(stats.Series))
	}
}

func TestProgramStatistics_AwardFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	_, err := c.ProgramStatistics(context.Background(), "10.766", FiscalWindow{StartYear: 2024, EndYear: 2024})
	if err == nil {
		t.Fatal("expected error when award query fails")
	}
}
