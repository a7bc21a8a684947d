// Package format renders dashboard metrics in the short form used on the
// metric cards, e.g. "R$ 1.50 mil".
package format

import (
	"strconv"
	"strings"
)

// scaled units, tried in order before falling through to millions
var units = [...]string{"", "mil"}

const millions = "milhões"

// Number scales value by thousands and renders it with two decimals and a
// unit suffix. Only two steps are taken: anything from one million upwards is
// reported in millions, however large.
func Number(value float64, prefix string) string {
	for _, unit := range units {
		if value < 1000 {
			return render(prefix, value, unit)
		}
		value /= 1000
	}
	return render(prefix, value, millions)
}

// Count is Number for integer quantities without a prefix.
func Count(n int) string {
	return Number(float64(n), "")
}

func render(prefix string, value float64, unit string) string {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteByte(' ')
	}
	b.WriteString(strconv.FormatFloat(value, 'f', 2, 64))
	b.WriteByte(' ')
	b.WriteString(unit)
	return b.String()
}
