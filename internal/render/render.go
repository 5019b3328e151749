// Package render writes quotes and chart plans to the display.
package render

import (
	"fmt"
	"time"

	"DeskDisplay/internal/chart"
	"DeskDisplay/internal/model"
	"DeskDisplay/internal/nextion"
)

// Chart channels on the waveform component.
const (
	ChannelPrice     = 0
	ChannelReference = 1
)

// Fields on the chart page.
const (
	DetailField    = "t1"
	ChartLineColor = "s0.pco0"
)

// OverlaySettle is the pause before drawing overlay text, which lets the
// waveform finish so the transparent text boxes render over it.
var OverlaySettle = 80 * time.Millisecond

// ShowQuote writes a quote readout into field and colors it.
func ShowQuote(d nextion.Display, field string, q model.Quote, withChange bool) error {
	if err := d.WriteStr(field+".txt", QuoteText(q, withChange)); err != nil {
		return err
	}
	color := chart.ColorNeutral
	if withChange {
		color = chart.SelectColor(q.Price, q.PreviousClose)
	}
	return d.WriteNum(field+".pco", color)
}

// ShowDetail writes the chart page's quote line.
func ShowDetail(d nextion.Display, q model.Quote) error {
	if err := d.WriteNum(DetailField+".pco", chart.SelectColor(q.Price, q.PreviousClose)); err != nil {
		return err
	}
	return d.WriteStr(DetailField+".txt", DetailText(q))
}

// ShowChart clears the waveform and draws plan. An empty plan draws nothing.
func ShowChart(d nextion.Display, plan chart.RenderPlan, q model.Quote) error {
	if plan.Empty() {
		return nil
	}
	if err := d.ClearChart(ChannelPrice); err != nil {
		return err
	}
	if err := d.ClearChart(ChannelReference); err != nil {
		return err
	}
	if err := d.WriteNum(ChartLineColor, chart.SelectColor(q.Price, q.PreviousClose)); err != nil {
		return err
	}
	for _, p := range plan.Points {
		if err := d.AppendPoint(ChannelPrice, p.Value); err != nil {
			return fmt.Errorf("point %d: %w", p.Index, err)
		}
		if err := d.AppendPoint(ChannelReference, p.Reference); err != nil {
			return fmt.Errorf("reference %d: %w", p.Index, err)
		}
	}

	time.Sleep(OverlaySettle)
	for _, l := range []chart.Label{plan.HighLabel, plan.LowLabel, plan.LastLabel} {
		if err := d.DrawOverlayText(l.X, l.Y, PriceLabel(l.Price)); err != nil {
			return err
		}
	}
	return nil
}
