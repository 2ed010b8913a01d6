package spendtable

import (
	"math"
	"strconv"
	"unicode"
)

// Total is the running sum over the visible rows.
//
// NaN is set once any summed amount cell had no parsable leading integer;
// it stays set for the rest of the accumulation.
type Total struct {
	Sum int64
	NaN bool
}

// Add returns t plus the parsed cell text.
func (t Total) Add(text string) Total {
	n, ok := ParseLeadingInt(text)
	if !ok || t.NaN {
		return Total{NaN: true}
	}
	return Total{Sum: saturatingAdd(t.Sum, n)}
}

// String renders the display text, e.g. "Total: 125 NOK".
func (t Total) String() string {
	if t.NaN {
		return "Total: NaN NOK"
	}
	return "Total: " + strconv.FormatInt(t.Sum, 10) + " NOK"
}

// ParseLeadingInt parses the leading integer of s the way the browser's
// parseInt does: leading white space is skipped, an optional sign and an
// optional 0x prefix are accepted, and everything after the digit run is
// ignored. ok is false when no digits are found.
func ParseLeadingInt(s string) (n int64, ok bool) {
	rs := []rune(s)
	i := 0
	for i < len(rs) && (unicode.IsSpace(rs[i]) || rs[i] == '\uFEFF') {
		i++
	}

	neg := false
	if i < len(rs) && (rs[i] == '+' || rs[i] == '-') {
		neg = rs[i] == '-'
		i++
	}

	base := int64(10)
	if i+1 < len(rs) && rs[i] == '0' && (rs[i+1] == 'x' || rs[i+1] == 'X') {
		base = 16
		i += 2
	}

	start := i
	for ; i < len(rs); i++ {
		d := digitValue(rs[i])
		if d < 0 || d >= base {
			break
		}
		if n > (math.MaxInt64-d)/base {
			n = math.MaxInt64
			continue
		}
		n = n*base + d
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func digitValue(r rune) int64 {
	switch {
	case r >= '0' && r <= '9':
		return int64(r - '0')
	case r >= 'a' && r <= 'f':
		return int64(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int64(r-'A') + 10
	}
	return -1
}

func saturatingAdd(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}
