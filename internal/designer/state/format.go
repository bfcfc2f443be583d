package state

import (
	"strconv"
	"strings"
)

const CurrencyPrefix = "LKR "

// FormatPrice renders minor units as "LKR 1,500" or "LKR 1,500.5".
func FormatPrice(cents int64) string {
	return CurrencyPrefix + FormatMajor(cents)
}

// FormatMajor renders minor units as major units with thousands separators,
// without trailing fractional zeros.
func FormatMajor(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	b.WriteString(sign)
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	if frac := cents % 100; frac != 0 {
		digits := strconv.FormatInt(frac+100, 10)[1:]
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(digits, "0"))
	}
	return b.String()
}
