package entity

import (
	"strconv"
	"strings"
)

// FormatAmount usa coma decimal y punto de miles: 1234.5 -> 1.234,50
func FormatAmount(v float64) string {
	raw := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, dec, _ := strings.Cut(raw, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + dec
	if neg {
		out = "-" + out
	}
	return out
}
