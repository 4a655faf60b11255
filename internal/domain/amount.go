package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// FloorScaled returns floor(value * ratio) computed in decimal to avoid
// binary float drift at the integer boundary. Results outside int64 saturate
// at the nearest bound.
func FloorScaled(value, ratio float64) int64 {
	d := decimal.NewFromFloat(value).Mul(decimal.NewFromFloat(ratio)).Floor()
	switch {
	case d.GreaterThan(maxInt64):
		return math.MaxInt64
	case d.LessThan(minInt64):
		return math.MinInt64
	}
	return d.IntPart()
}

// ScaleLimit multiplies a limit by factor and rounds to cents.
func ScaleLimit(limit, factor float64) float64 {
	scaled, _ := decimal.NewFromFloat(limit).Mul(decimal.NewFromFloat(factor)).Round(2).Float64()
	return scaled
}

// FormatAmount renders whole currency units with thousands separators.
func FormatAmount(units int64) string {
	s := decimal.NewFromInt(units).Abs().String()
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if units < 0 {
		return "-" + string(out)
	}
	return string(out)
}
