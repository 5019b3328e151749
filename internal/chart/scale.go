package chart

import (
	"math"

	"github.com/shopspring/decimal"
)

// PixelMax is the top of the chart's vertical pixel range [0, PixelMax].
const PixelMax = 255

var hundred = decimal.NewFromInt(100)

// ToCents converts a price to fixed-point cents, truncating toward zero.
// The conversion goes through decimal so 101.15 becomes 10115, not 10114.
func ToCents(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(hundred).IntPart()
}

// ScaleBounds returns the fixed-point vertical range of the chart: whole
// dollars around the previous close and the day's range.
func ScaleBounds(previousClose, dayLow, dayHigh float64) (low, high int64) {
	low = int64(math.Floor(math.Min(previousClose, dayLow))) * 100
	high = int64(math.Ceil(math.Max(previousClose, dayHigh))) * 100
	return low, high
}

// MapValue linearly rescales x from [inLow, inHigh] to [outLow, outHigh] using
// integer arithmetic. A degenerate input range maps to outLow.
func MapValue(x, inLow, inHigh, outLow, outHigh int64) int64 {
	if inHigh == inLow {
		return outLow
	}
	return (x-inLow)*(outHigh-outLow)/(inHigh-inLow) + outLow
}

// ToPixel maps a price into the chart's pixel range for the given bounds.
func ToPixel(price float64, low, high int64) int {
	return int(MapValue(ToCents(price), low, high, 0, PixelMax))
}
