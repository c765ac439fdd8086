// Package formatting converts byte sizes between counts and the strings used in
// config files and rendered pages.
package formatting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const step = 1024

var units = []string{"B", "KB", "MB", "GB", "TB"}

// aliases maps alternate spellings onto a power of 1024.
var aliases = map[string]int{
	"":    0,
	"B":   0,
	"K":   1,
	"KB":  1,
	"KIB": 1,
	"M":   2,
	"MB":  2,
	"MIB": 2,
	"G":   3,
	"GB":  3,
	"GIB": 3,
	"T":   4,
	"TB":  4,
	"TIB": 4,
}

// ErrByteSize is wrapped by every ParseBytes failure.
var ErrByteSize = errors.New("invalid byte size")

// FormatBytes renders n with the largest unit that keeps the value at or above
// one. Trailing fractional zeros are dropped.
func FormatBytes(n int64, precision int) string {
	if n < step {
		return strconv.FormatInt(n, 10) + " B"
	}
	precision = max(precision, 0)

	size := float64(n)
	exp := 0
	for size >= step && exp < len(units)-1 {
		size /= step
		exp++
	}

	s := strconv.FormatFloat(size, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s + " " + units[exp]
}

// ParseBytes reads sizes such as "50MB", "1.5 GiB", or "512". A bare number is
// a byte count. Units are case-insensitive and base-1024.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrByteSize)
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	num, suffix := s, ""
	if split >= 0 {
		num, suffix = s[:split], strings.TrimSpace(s[split:])
	}
	if num == "" {
		return 0, fmt.Errorf("%w: %q has no number", ErrByteSize, s)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrByteSize, s, err)
	}

	exp, ok := aliases[strings.ToUpper(suffix)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrByteSize, suffix)
	}

	total := value * math.Pow(step, float64(exp))
	if total >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrByteSize, s)
	}
	return int64(total), nil
}
