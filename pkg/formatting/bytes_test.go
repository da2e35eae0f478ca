package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/promptstore/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{"bare bytes", "1024", 1024, nil},
		{"bytes unit", "512B", 512, nil},
		{"kilobytes", "64KB", 64 << 10, nil},
		{"megabytes", "1MB", 1 << 20, nil},
		{"shorthand", "2m", 2 << 20, nil},
		{"iec", "1GiB", 1 << 30, nil},
		{"fractional", "1.5 MB", 3 << 19, nil},
		{"lowercase", "10kb", 10 << 10, nil},
		{"surrounding space", "  8 KB  ", 8 << 10, nil},
		{"zero", "0", 0, nil},
		{"empty", "  ", 0, formatting.ErrEmptySize},
		{"no number", "MB", 0, formatting.ErrInvalidSize},
		{"negative", "-5MB", 0, formatting.ErrInvalidSize},
		{"two dots", "1.2.3KB", 0, formatting.ErrInvalidSize},
		{"unknown unit", "50XB", 0, formatting.ErrUnknownUnit},
		{"overflow", "9000EB", 0, formatting.ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseBytes(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 0, "0 B"},
		{512, 2, "512.00 B"},
		{1024, 0, "1 KB"},
		{1536, 1, "1.5 KB"},
		{1 << 20, 0, "1 MB"},
		{5 << 30, -1, "5 GB"},
		{-2048, 0, "-2 KB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int64{1 << 10, 4 << 20, 3 << 30} {
		got, err := formatting.ParseBytes(formatting.FormatBytes(n, 0))
		if err != nil || got != n {
			t.Errorf("round trip of %d = %d, %v", n, got, err)
		}
	}
}
