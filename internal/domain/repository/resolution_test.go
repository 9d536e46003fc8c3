package repository

import (
	"testing"
	"time"
)

func TestIsValidResolution(t *testing.T) {
	for _, r := range []string{"1m", "5m", "15m", "1h", "1d"} {
		if !IsValidResolution(r) {
			t.Fatalf("%s should be valid", r)
		}
	}
	for _, r := range []string{"", "2m", "1w", "60"} {
		if IsValidResolution(r) {
			t.Fatalf("%s should be invalid", r)
		}
	}
}

func TestCacheTTLPerResolution(t *testing.T) {
	cases := map[string]time.Duration{
		"1m":  time.Minute,
		"5m":  5 * time.Minute,
		"15m": 15 * time.Minute,
		"1h":  time.Hour,
		"1d":  24 * time.Hour,
		"??":  5 * time.Minute,
	}
	for r, want := range cases {
		if got := CacheTTL(r); got != want {
			t.Fatalf("CacheTTL(%s) = %v, want %v", r, got, want)
		}
	}
}
