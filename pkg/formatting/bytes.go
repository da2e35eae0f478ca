// Package formatting converts byte sizes between counts and human-readable text.
package formatting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrEmptySize   = errors.New("empty byte size")
	ErrInvalidSize = errors.New("invalid byte size")
	ErrUnknownUnit = errors.New("unknown byte size unit")
)

// Base-1024 multipliers keyed by upper-cased unit. The single-letter and
// IEC forms are aliases for the same power.
var multipliers = map[string]float64{
	"":  1,
	"B": 1,
	"K": 1 << 10, "KB": 1 << 10, "KIB": 1 << 10,
	"M": 1 << 20, "MB": 1 << 20, "MIB": 1 << 20,
	"G": 1 << 30, "GB": 1 << 30, "GIB": 1 << 30,
	"T": 1 << 40, "TB": 1 << 40, "TIB": 1 << 40,
	"P": 1 << 50, "PB": 1 << 50, "PIB": 1 << 50,
	"E": 1 << 60, "EB": 1 << 60, "EIB": 1 << 60,
}

var labels = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or above one.
// precision is the number of decimals; negative values are treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	size := math.Abs(float64(n))
	i := 0
	for size >= 1024 && i < len(labels)-1 {
		size /= 1024
		i++
	}
	if n < 0 {
		size = -size
	}

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + labels[i]
}

// ParseBytes reads sizes such as "512", "64KB", "1.5 MiB" or "2g".
// Units are case-insensitive and base-1024; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptySize
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	if split == -1 {
		split = len(s)
	}

	number, unit := s[:split], strings.ToUpper(strings.TrimSpace(s[split:]))
	if number == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	mult, ok := multipliers[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}

	total := value * mult
	if total >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
	}

	return int64(total), nil
}
