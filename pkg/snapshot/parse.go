package snapshot

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// ParseFloat reads the longest numeric prefix of raw after skipping leading
// whitespace, so "12.5 sqft" yields 12.5. It reports false when no prefix
// parses or the result is not finite.
func ParseFloat(raw string) (float64, bool) {
	s := strings.TrimLeftFunc(raw, isSpace)
	prefix := floatPrefix(s)
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseInt reads a leading integer after skipping whitespace. A 0x prefix
// selects base 16; anything after the digits is ignored, so "3.7" yields 3.
// Values outside int64 are rejected; see ParseInteger.
func ParseInt(raw string) (int64, bool) {
	digits, base, ok := intPrefix(raw)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// ParseInteger is ParseInt without the int64 limit: an integer too large for
// int64 comes back as the nearest float64, so "99999999999999999999" yields
// 1e20. The value is an int64 or a float64; false means no digits or a
// magnitude beyond float64.
func ParseInteger(raw string) (any, bool) {
	if i, ok := ParseInt(raw); ok {
		return i, true
	}
	digits, base, ok := intPrefix(raw)
	if !ok {
		return nil, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	if math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// intPrefix returns the signed digit run ParseInt reads and its base.
func intPrefix(raw string) (string, int, bool) {
	s := strings.TrimLeftFunc(raw, isSpace)
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return "", 0, false
	}
	return sign + s[:end], base, true
}

func floatPrefix(s string) string {
	pos := 0
	if pos < len(s) && (s[pos] == '+' || s[pos] == '-') {
		pos++
	}
	if strings.HasPrefix(s[pos:], "Infinity") {
		return s[:pos+len("Infinity")]
	}

	intDigits := countDigits(s[pos:])
	pos += intDigits

	fracDigits := 0
	if pos < len(s) && s[pos] == '.' {
		fracDigits = countDigits(s[pos+1:])
		if intDigits > 0 || fracDigits > 0 {
			pos += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return ""
	}

	if pos < len(s) && (s[pos] == 'e' || s[pos] == 'E') {
		exp := pos + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if n := countDigits(s[exp:]); n > 0 {
			pos = exp + n
		}
	}

	return strings.TrimSuffix(s[:pos], ".")
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
