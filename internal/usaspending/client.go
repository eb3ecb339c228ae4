// Package usaspending adapts domain-level questions about federal loan
// programs into USAspending API calls. Every request goes through the
// fetch cache; adapters only build queries and reshape responses.
package usaspending

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"fedcredit/loanscope/internal/fetchcache"
)

// DefaultBaseURL is the public USAspending API v2 root.
const DefaultBaseURL = "https://api.usaspending.gov/api/v2"

// Award type codes for the loan award group.
const (
	codeDirectLoan    = "07"
	codeLoanGuarantee = "08"
)

const (
	// DefaultStartYear / DefaultEndYear bound queries when the caller
	// does not specify a fiscal window.
	DefaultStartYear = 2020
	DefaultEndYear   = 2024
)

// Client issues cached requests against the USAspending API and reshapes
// responses into domain records.
type Client struct {
	baseURL string
	cache   *fetchcache.Cache
}

// New returns a Client rooted at baseURL. An empty baseURL selects the
// public API.
func New(baseURL string, cache *fetchcache.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, cache: cache}
}

// Cache exposes the underlying fetch cache (for forced refresh).
func (c *Client) Cache() *fetchcache.Cache {
	return c.cache
}

// get issues a cached GET request and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	raw, err := c.cache.Do(ctx, fetchcache.Query{
		Method: http.MethodGet,
		URL:    c.baseURL + path,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("usaspending: failed to decode response from %s: %w", path, err)
	}
	return nil
}

// post issues a cached POST request with the JSON body and decodes the
// response into out.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := c.cache.Do(ctx, fetchcache.Query{
		Method: http.MethodPost,
		URL:    c.baseURL + path,
		Body:   body,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("usaspending: failed to decode response from %s: %w", path, err)
	}
	return nil
}

// --- Shared request fragments ---

// timePeriod bounds a query to a date range.
type timePeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// agencyFilter scopes a search to one awarding toptier agency.
type agencyFilter struct {
	Type string `json:"type"`
	Tier string `json:"tier"`
	Name string `json:"name"`
}

// searchFilters is the common filter object for search endpoints.
type searchFilters struct {
	AwardTypeCodes []string       `json:"award_type_codes"`
	Agencies       []agencyFilter `json:"agencies,omitempty"`
	TimePeriod     []timePeriod   `json:"time_period"`
	ProgramNumbers []string       `json:"program_numbers,omitempty"`
}

// FiscalWindow describes an inclusive fiscal-year range.
type FiscalWindow struct {
	StartYear int
	EndYear   int
}

// orDefault fills unset years with the default window.
func (w FiscalWindow) orDefault() FiscalWindow {
	if w.StartYear == 0 {
		w.StartYear = DefaultStartYear
	}
	if w.EndYear == 0 {
		w.EndYear = DefaultEndYear
	}
	return w
}

// period converts the window to upstream dates: Oct 1 of the year before
// StartYear through Sep 30 of EndYear.
func (w FiscalWindow) period() timePeriod {
	w = w.orDefault()
	return timePeriod{
		StartDate: fmt.Sprintf("%04d-10-01", w.StartYear-1),
		EndDate:   fmt.Sprintf("%04d-09-30", w.EndYear),
	}
}
