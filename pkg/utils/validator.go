package utils

import (
	"fmt"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateRegNumber validates a company registration number (8 to 20
// alphanumeric characters, the formats used by the association's registries)
func ValidateRegNumber(regNumber string) error {
	if len(regNumber) < 8 || len(regNumber) > 20 {
		return fmt.Errorf("registration number must be 8-20 characters: %s", regNumber)
	}
	for _, c := range regNumber {
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return fmt.Errorf("registration number must be alphanumeric: %s", regNumber)
		}
	}
	return nil
}

// NormalizePagination clamps limit/offset to sane bounds
func NormalizePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
