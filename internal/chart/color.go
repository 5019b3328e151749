package chart

// RGB565 colors used for price text and the chart line.
const (
	ColorDown    = 63488 // red
	ColorUp      = 34784 // green
	ColorNeutral = 65535 // white
)

// IsDown reports whether the price is below the previous close.
func IsDown(current, previousClose float64) bool {
	return current-previousClose < 0
}

// SelectColor picks the color for a price relative to its previous close. Quote
// text and the chart line both use it so they never disagree.
func SelectColor(current, previousClose float64) int {
	if IsDown(current, previousClose) {
		return ColorDown
	}
	return ColorUp
}
