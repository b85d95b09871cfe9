package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMobile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"local format with leading zero", "0712345678", "254712345678", true},
		{"bare nine digit format", "712345678", "254712345678", true},
		{"already canonical", "254712345678", "254712345678", true},
		{"spaces and dashes stripped", "0712 345-678", "254712345678", true},
		{"plus prefix stripped", "+254712345678", "254712345678", true},
		{"international with extra prefix keeps last nine", "00254712345678", "254712345678", true},
		{"empty", "", "", false},
		{"no digits", "n/a", "", false},
		{"too short", "12345", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeMobile(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
