package core

import "strconv"

// ToNOK converts a card amount to whole NOK. A zero rate means the amount is
// already in NOK. The result is truncated toward zero.
func ToNOK(amount, rate float64) int {
	if rate != 0 {
		amount *= rate
	}
	return int(amount)
}

// FormatNOK renders n as "<n> NOK".
func FormatNOK(n int) string {
	return strconv.Itoa(n) + " NOK"
}
