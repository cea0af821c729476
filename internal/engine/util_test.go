package engine

import "testing"

func TestFormatMMSS(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{125.7, "02:05"},
		{3600, "60:00"},
		{-10, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatMMSS(tt.seconds); got != tt.expected {
			t.Errorf("FormatMMSS(%v) = %q, want %q", tt.seconds, got, tt.expected)
		}
	}
}
