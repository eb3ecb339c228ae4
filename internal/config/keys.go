package config

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "base-url").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save). It returns an error when
	// the value cannot be parsed for this key.
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "base-url",
		Description: "USAspending API endpoint used instead of the production default",
		Get:         func(cfg *Config) string { return cfg.BaseURL },
		Set: func(cfg *Config, v string) error {
			cfg.BaseURL = strings.TrimRight(strings.TrimSpace(v), "/")
			return nil
		},
	},
	{
		Name:        "start-year",
		Description: "First fiscal year queried when --start-year is not specified",
		Get:         func(cfg *Config) string { return formatYear(cfg.StartYear) },
		Set: func(cfg *Config, v string) error {
			y, err := parseYear(v)
			if err != nil {
				return err
			}
			cfg.StartYear = y
			return nil
		},
	},
	{
		Name:        "end-year",
		Description: "Last fiscal year queried when --end-year is not specified",
		Get:         func(cfg *Config) string { return formatYear(cfg.EndYear) },
		Set: func(cfg *Config, v string) error {
			y, err := parseYear(v)
			if err != nil {
				return err
			}
			cfg.EndYear = y
			return nil
		},
	},
}

func formatYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

// parseYear accepts an empty string (meaning "unset") or a four-digit
// fiscal year within a sane range.
func parseYear(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 1990 || y > 2100 {
		return 0, fmt.Errorf("config: invalid fiscal year %q", v)
	}
	return y, nil
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
