package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"rep@example.com", true},
		{"first.last+tag@sub.example.se", true},
		{"no-at-sign", false},
		{"@example.com", false},
		{"rep@", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.valid && err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", tt.email, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", tt.email)
		}
	}
}

func TestValidateRegNumber(t *testing.T) {
	tests := []struct {
		regNumber string
		valid     bool
	}{
		{"55612345", true},
		{"ABC12345678", true},
		{"1234567", false},
		{"123456789012345678901", false},
		{"5561-2345", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidateRegNumber(tt.regNumber)
		if tt.valid && err != nil {
			t.Errorf("ValidateRegNumber(%q) = %v, want nil", tt.regNumber, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateRegNumber(%q) = nil, want error", tt.regNumber)
		}
	}
}

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{-5, -3, 20, 0},
		{50, 10, 50, 10},
		{500, 0, 100, 0},
	}

	for _, tt := range tests {
		limit, offset := NormalizePagination(tt.limit, tt.offset)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("NormalizePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
