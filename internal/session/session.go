// Package session resolves the per-invocation runtime for CLI commands:
// the USAspending client, the fiscal window, and the embedded budget
// supplement. Flags win over config file values, which win over defaults.
package session

import (
	"fmt"

	"github.com/spf13/cobra"

	"fedcredit/loanscope/internal/config"
	"fedcredit/loanscope/internal/fetchcache"
	"fedcredit/loanscope/internal/supplement"
	"fedcredit/loanscope/internal/usaspending"
)

// Session carries everything a command needs to talk to the API.
type Session struct {
	Client *usaspending.Client
	Window usaspending.FiscalWindow

	// Supplement resolves subsidy data for program detail output.
	Supplement *supplement.Dataset
}

// FromCommand builds a Session from the root persistent flags and the
// config file.
func FromCommand(cmd *cobra.Command) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}

	window := usaspending.FiscalWindow{
		StartYear: intFlagOr(cmd, "start-year", cfg.StartYear),
		EndYear:   intFlagOr(cmd, "end-year", cfg.EndYear),
	}

	// Ordering is checked against the effective window: a half-specified
	// window can still be inverted once the built-in defaults fill the
	// other side.
	start, end := window.StartYear, window.EndYear
	if start == 0 {
		start = usaspending.DefaultStartYear
	}
	if end == 0 {
		end = usaspending.DefaultEndYear
	}
	if start > end {
		return nil, fmt.Errorf("start year %d is after end year %d", start, end)
	}

	supp, err := supplement.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load budget supplement: %w", err)
	}

	return &Session{
		Client:     usaspending.New(baseURL, fetchcache.New()),
		Window:     window,
		Supplement: supp,
	}, nil
}

// intFlagOr returns the flag value when explicitly set, else the fallback.
func intFlagOr(cmd *cobra.Command, name string, fallback int) int {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}
