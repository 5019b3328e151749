package collector

import (
	"fmt"
	"time"
	_ "time/tzdata" // the display host may have no zoneinfo
)

// Session is the exchange's regular trading window, evaluated in Location.
type Session struct {
	Location *time.Location
	Open     time.Duration // since local midnight
	Close    time.Duration
}

// NewSession builds a Session from an IANA zone name and "HH:MM" bounds.
func NewSession(zone, open, close string) (Session, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Session{}, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	o, err := ParseClock(open)
	if err != nil {
		return Session{}, fmt.Errorf("session open: %w", err)
	}
	c, err := ParseClock(close)
	if err != nil {
		return Session{}, fmt.Errorf("session close: %w", err)
	}
	if c <= o {
		return Session{}, fmt.Errorf("session close %s is not after open %s", close, open)
	}
	return Session{Location: loc, Open: o, Close: c}, nil
}

// ParseClock parses "HH:MM" into an offset since midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (s Session) local(now time.Time) time.Time {
	if s.Location == nil {
		return now
	}
	return now.In(s.Location)
}

// IsTradingDay reports whether now falls on Monday through Friday. Holidays are not modelled.
func (s Session) IsTradingDay(now time.Time) bool {
	wd := s.local(now).Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

func (s Session) sinceMidnight(now time.Time) time.Duration {
	t := s.local(now)
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}

// IsOpen reports whether the market is in its regular session at now.
func (s Session) IsOpen(now time.Time) bool {
	return s.Within(now, s.Close)
}

// Within reports whether now is a trading day between Open and the given close offset.
func (s Session) Within(now time.Time, close time.Duration) bool {
	if !s.IsTradingDay(now) {
		return false
	}
	t := s.sinceMidnight(now)
	return t >= s.Open && t < close
}

// IsChangeInteresting reports whether the day's change is worth showing: from
// the open of a trading day until midnight.
func (s Session) IsChangeInteresting(now time.Time) bool {
	return s.IsTradingDay(now) && s.sinceMidnight(now) >= s.Open
}
