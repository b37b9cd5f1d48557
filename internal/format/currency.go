// Package format renders prices and distances for people. Nothing here feeds
// back into price computation.
package format

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Shown in place of amounts that cannot be rendered.
const invalidAmount = "n/a"

// RoundVND rounds an amount to whole đồng, half away from zero.
// Non-finite amounts round to 0.
func RoundVND(amount float64) int64 {
	if !finite(amount) {
		return 0
	}
	return decimal.NewFromFloat(amount).Round(0).IntPart()
}

// VND formats amount the way the dashboard shows it, e.g. "19.750 ₫".
func VND(amount float64) string {
	if !finite(amount) {
		return invalidAmount
	}
	return groupThousands(RoundVND(amount)) + " ₫"
}

// Km formats a distance with one decimal, e.g. "2.5 km".
func Km(distanceKm float64) string {
	if !finite(distanceKm) {
		return invalidAmount
	}
	return decimal.NewFromFloat(distanceKm).StringFixed(1) + " km"
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func groupThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	out := make([]byte, 0, len(s)+len(s)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		pos := len(s) - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, '.')
		}
	}
	return string(out)
}
