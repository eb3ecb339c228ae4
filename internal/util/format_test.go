package util

import "testing"

func TestDollars(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{950, "$950"},
		{1234567.89, "$1,234,568"},
		{-42000, "-$42,000"},
	}
	for _, tt := range tests {
		if got := Dollars(tt.in); got != tt.want {
			t.Errorf("Dollars(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDollarsCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "$500"},
		{1500, "$1.5K"},
		{2_300_000, "$2.3M"},
		{12_400_000_000, "$12.4B"},
		{-2_300_000, "-$2.3M"},
	}
	for _, tt := range tests {
		if got := DollarsCompact(tt.in); got != tt.want {
			t.Errorf("DollarsCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateProgramNumber(t *testing.T) {
	valid := []string{"10.766", "59.012", "14.108"}
	for _, n := range valid {
		if err := ValidateProgramNumber(n); err != nil {
			t.Errorf("expected %q to be valid, got error: %v", n, err)
		}
	}

	invalid := []string{"", "10.76", "10766", "1.766", "ab.cde", "10.7661"}
	for _, n := range invalid {
		if err := ValidateProgramNumber(n); err == nil {
			t.Errorf("expected %q to be invalid", n)
		}
	}
}
