package services

import (
	"testing"

	"scamshield/pkg/logger"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(logger.NewDefault())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  +919876543210  ", want: "+919876543210"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   \t ", want: ""},
		{name: "plus preserved", input: "+91 98765 43210", want: "+91 98765 43210"},
		{name: "percent decoded", input: "http%3A%2F%2Fevil.example", want: "http://evil.example"},
		{name: "double encoded", input: "http%253A%252F%252Fevil.example", want: "http://evil.example"},
		{name: "fullwidth digits folded", input: "\uff19\uff18\uff17\uff16\uff15\uff14\uff13\uff12\uff11\uff10", want: "9876543210"},
		{name: "zero width stripped", input: "ur\u200bgent", want: "urgent"},
		{name: "bom stripped", input: "\ufeffhello", want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(logger.NewDefault())

	inputs := []string{
		"  +92 300 1234567 ",
		"http%3A%2F%2Fbit.ly%2Fabc",
		"http%253A%252F%252Fbit.ly",
		"Your KYC will ex\u200bpire today",
		"user@okhdfc",
		"\uff11\uff12\uff13-456-7890",
		"100% genuine offer",
	}

	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
