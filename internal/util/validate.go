package util

import (
	"fmt"
	"regexp"
)

// cfdaPattern matches catalog numbers like "10.766": a two-digit agency
// prefix, a dot, and a three-digit program suffix.
var cfdaPattern = regexp.MustCompile(`^[0-9]{2}\.[0-9]{3}$`)

// ValidateProgramNumber checks that a string is a well-formed CFDA catalog
// number before it is sent upstream as a program_numbers filter.
func ValidateProgramNumber(number string) error {
	if number == "" {
		return fmt.Errorf("program number is required")
	}
	if !cfdaPattern.MatchString(number) {
		return fmt.Errorf("program number %q is not a valid CFDA number (expected NN.NNN)", number)
	}
	return nil
}
