package render

import (
	"fmt"

	"DeskDisplay/internal/model"
)

// QuoteText formats a quote readout. The change is only shown while it is interesting.
func QuoteText(q model.Quote, withChange bool) string {
	if !withChange {
		return fmt.Sprintf("$%.2f", q.Price)
	}
	return fmt.Sprintf("$%.2f($%.2f/%.2f%%)", q.Price, q.Change, q.ChangePercent*100)
}

// DetailText formats the quote shown above the chart.
func DetailText(q model.Quote) string {
	return fmt.Sprintf("%.2f(%.2f/%.2f%%)", q.Price, q.Change, q.ChangePercent*100)
}

// PriceLabel formats an overlay label.
func PriceLabel(p float64) string {
	return fmt.Sprintf("%.2f", p)
}
