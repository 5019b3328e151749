package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"DeskDisplay/internal/chart"
	"DeskDisplay/internal/clock"
	"DeskDisplay/internal/collector"
	"DeskDisplay/internal/model"
	"DeskDisplay/internal/nextion"
	"DeskDisplay/internal/recorder"
	"DeskDisplay/internal/render"

	"github.com/robfig/cron/v3"
)

// State is the scheduler's position in its tick cycle.
type State int

const (
	Idle State = iota
	Evaluating
	MarketOpen
	MarketClosed
)

func (s State) String() string {
	switch s {
	case Evaluating:
		return "evaluating"
	case MarketOpen:
		return "market-open"
	case MarketClosed:
		return "market-closed"
	default:
		return "idle"
	}
}

// TimeSource is the trusted clock used for daily resynchronisation.
type TimeSource interface {
	Sync(ctx context.Context) error
	Now() time.Time
}

// Page ids and fields on the display.
type Layout struct {
	QuotesPage  int
	ChartPage   int
	Fields      map[string]string // symbol -> text field on the quotes page
	StatusField string
	ChartSymbol string
}

// Options configures a Scheduler.
type Options struct {
	Tick             string        // cron spec, e.g. "@every 60s"
	TickClose        time.Duration // end of the refresh window since local midnight
	HousekeepingHour int
	Dimming          Dimming
	Layout           Layout
}

// Scheduler decides when quotes and the chart are refreshed and runs daily housekeeping.
type Scheduler struct {
	Collector *collector.Collector
	Display   nextion.Display
	Registry  *Registry
	Recorder  recorder.Recorder
	Clock     TimeSource

	opts     Options
	schedule cron.Schedule
	next     time.Time
	state    State

	timeSetDay int
	brightness int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(col *collector.Collector, d nextion.Display, reg *Registry, rec recorder.Recorder, ts TimeSource, opts Options) (*Scheduler, error) {
	sched, err := cron.ParseStandard(opts.Tick)
	if err != nil {
		return nil, fmt.Errorf("parse tick %q: %w", opts.Tick, err)
	}
	if opts.TickClose == 0 {
		opts.TickClose = col.Session.Close
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Collector:  col,
		Display:    d,
		Registry:   reg,
		Recorder:   rec,
		Clock:      ts,
		opts:       opts,
		schedule:   sched,
		timeSetDay: -1,
		brightness: -1,
	}, nil
}

// State returns the current cycle state.
func (s *Scheduler) State() State { return s.state }

// Due reports whether a tick is due at now and, if so, arms the next one.
// The first call only arms the schedule.
func (s *Scheduler) Due(now time.Time) bool {
	if s.next.IsZero() {
		s.next = s.schedule.Next(now)
		return false
	}
	if now.Before(s.next) {
		return false
	}
	s.next = s.schedule.Next(now)
	return true
}

// Tick runs one evaluation cycle at now.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.state = Evaluating
	defer func() { s.state = Idle }()

	session := s.Collector.Session
	if session.Within(now, s.opts.TickClose) {
		s.state = MarketOpen
		s.UpdateQuotes(ctx, now)
		s.UpdateChart(ctx, now)
	} else {
		s.state = MarketClosed
	}

	local := now
	if session.Location != nil {
		local = now.In(session.Location)
	}

	if s.timeSetDay != local.Day() && local.Hour() == s.opts.HousekeepingHour {
		s.housekeeping(ctx, now)
		s.timeSetDay = local.Day()
		s.UpdateQuotes(ctx, now)
	}

	s.SetBrightness(s.opts.Dimming.BrightnessFor(local.Hour()))
}

func (s *Scheduler) housekeeping(ctx context.Context, now time.Time) {
	detail := "ok"
	if err := s.SyncClock(ctx); err != nil {
		log.Printf("[ERROR] daily clock sync: %v", err)
		detail = err.Error()
	} else {
		log.Println("[INFO] display clock updated")
	}
	if err := s.Recorder.RecordHousekeeping(&recorder.HousekeepingEvent{Kind: "CLOCK_SYNC", Detail: detail, At: now}); err != nil {
		log.Printf("[ERROR] record housekeeping: %v", err)
	}
}

// SyncClock resynchronises the trusted clock and copies it to the display RTC.
// The RTC is written even when the sync fails, using the last good offset.
func (s *Scheduler) SyncClock(ctx context.Context) error {
	if s.Clock == nil {
		return nil
	}
	syncErr := s.Clock.Sync(ctx)
	if err := clock.WriteRTC(s.Display, s.Clock.Now()); err != nil {
		return err
	}
	return syncErr
}

// SetBrightness writes brightness only when it differs from the last value written.
func (s *Scheduler) SetBrightness(level int) {
	if level < 0 || level > 100 || level == s.brightness {
		return
	}
	if err := s.Display.WriteNum("dim", level); err != nil {
		log.Printf("[ERROR] set brightness %d: %v", level, err)
		return
	}
	log.Printf("[INFO] brightness %d", level)
	s.brightness = level
	if err := s.Recorder.RecordHousekeeping(&recorder.HousekeepingEvent{Kind: "BRIGHTNESS", Detail: fmt.Sprint(level)}); err != nil {
		log.Printf("[ERROR] record housekeeping: %v", err)
	}
}

// UpdateQuotes refreshes every tracked symbol and redraws the quotes page. It
// does nothing unless the quotes page is visible.
func (s *Scheduler) UpdateQuotes(ctx context.Context, now time.Time) {
	page := s.Display.CurrentPageID()
	if page != s.opts.Layout.QuotesPage {
		log.Printf("[INFO] page %d visible, skipping quotes", page)
		return
	}
	status := s.opts.Layout.StatusField
	interesting := s.Collector.Session.IsChangeInteresting(now)

	for i, sym := range s.Registry.Symbols() {
		field, ok := s.opts.Layout.Fields[sym]
		if !ok {
			continue
		}
		s.writeStatus(status, progressText(i))
		rec := s.Registry.Get(sym)
		if s.Collector.RefreshQuote(ctx, rec, now) {
			s.record(rec.Quote, now, rec.Refresh.FinalSampleTaken)
		}
		if !rec.Quote.Captured() {
			continue
		}
		if err := render.ShowQuote(s.Display, field, rec.Quote, interesting); err != nil {
			log.Printf("[ERROR] show quote %s: %v", sym, err)
		}
	}
	s.writeStatus(status, "")
}

// UpdateChart refreshes the chart symbol's quote and series and redraws the
// chart page. It does nothing unless the chart page is visible.
func (s *Scheduler) UpdateChart(ctx context.Context, now time.Time) {
	page := s.Display.CurrentPageID()
	if page != s.opts.Layout.ChartPage {
		log.Printf("[INFO] page %d visible, skipping chart", page)
		return
	}
	rec := s.Registry.Get(s.opts.Layout.ChartSymbol)
	if s.Collector.RefreshQuote(ctx, rec, now) {
		s.record(rec.Quote, now, rec.Refresh.FinalSampleTaken)
	}
	if rec.Quote.Captured() {
		if err := render.ShowDetail(s.Display, rec.Quote); err != nil {
			log.Printf("[ERROR] show detail %s: %v", rec.Symbol, err)
		}
	}

	s.Collector.RefreshIntraday(ctx, rec)
	q := rec.Quote
	plan := chart.Project(rec.Series.Values(), q.PreviousClose, q.DayLow, q.DayHigh)
	if plan.Empty() {
		return
	}
	if err := render.ShowChart(s.Display, plan, q); err != nil {
		log.Printf("[ERROR] show chart %s: %v", rec.Symbol, err)
	}
}

func (s *Scheduler) record(q model.Quote, now time.Time, final bool) {
	if err := s.Recorder.RecordQuote(&recorder.QuoteSnapshot{Quote: q, TakenAt: now, Final: final}); err != nil {
		log.Printf("[ERROR] record quote %s: %v", q.Symbol, err)
	}
}

func (s *Scheduler) writeStatus(field, text string) {
	if field == "" {
		return
	}
	if err := s.Display.WriteStr(field+".txt", text); err != nil {
		log.Printf("[ERROR] status text: %v", err)
	}
}

// progressText renders the "updating" indicator with the dot moving right per symbol.
func progressText(i int) string {
	return "updating" + fmt.Sprintf("%*s", i+1, ".")
}
