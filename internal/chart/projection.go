// Package chart projects an intraday price series into the display's pixel
// space.
package chart

// LabelMaxX keeps an overlay label's left edge inside the visible chart.
const LabelMaxX = 245

// Point is one plotted column: the price and the previous-close reference.
type Point struct {
	Index     int
	Value     int
	Reference int
}

// Label is an overlay annotation. X and Y are display coordinates.
type Label struct {
	X     int
	Y     int
	Price float64
}

// RenderPlan is everything needed to draw one chart.
type RenderPlan struct {
	ScaleLow  int64
	ScaleHigh int64
	Reference int // previous close, in pixels
	Points    []Point

	High      int // highest plotted pixel value
	HighIndex int
	Low       int // lowest plotted pixel value
	LowIndex  int

	HighLabel Label
	LowLabel  Label
	LastLabel Label
}

// Empty reports whether the plan has nothing to draw.
func (p RenderPlan) Empty() bool {
	return len(p.Points) == 0
}

// stretched reports whether sample i is plotted twice. Doubling two of every
// three samples spreads a session of 2-minute samples across the chart width.
func stretched(i int) bool {
	return i%3 != 0
}

// Project maps series into pixel space. Non-positive samples are skipped.
// On ties the later sample wins, for both the maximum and the minimum.
func Project(series []float64, previousClose, dayLow, dayHigh float64) RenderPlan {
	low, high := ScaleBounds(previousClose, dayLow, dayHigh)
	plan := RenderPlan{
		ScaleLow:  low,
		ScaleHigh: high,
		Reference: ToPixel(previousClose, low, high),
	}

	maxV, maxI := 0, 0
	minV, minI := 999, 0
	j := 0
	emit := func(v int) {
		plan.Points = append(plan.Points, Point{Index: j, Value: v, Reference: plan.Reference})
		j++
	}

	for i, price := range series {
		if price <= 0 {
			continue
		}
		v := ToPixel(price, low, high)
		if v >= maxV {
			maxV, maxI = v, j
		}
		if v <= minV {
			minV, minI = v, j
		}
		emit(v)
		if stretched(i) {
			emit(v)
		}
	}
	if len(plan.Points) == 0 {
		return RenderPlan{}
	}

	plan.High, plan.HighIndex = maxV, maxI
	plan.Low, plan.LowIndex = minV, minI
	plan.HighLabel = Label{X: min(LabelMaxX, maxI), Y: PixelMax - maxV - 4, Price: dayHigh}
	plan.LowLabel = Label{X: min(LabelMaxX, minI), Y: PixelMax - minV + 26, Price: dayLow}
	plan.LastLabel = Label{X: min(LabelMaxX, j), Y: PixelMax - plan.Reference, Price: previousClose}
	return plan
}
