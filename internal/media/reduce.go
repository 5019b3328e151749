package media

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"DeskDisplay/internal/model"
)

const (
	// MaxTextLen bounds track and artist text, in characters.
	MaxTextLen = 100
	// SkewTolerance is how far a position timestamp may be from local time
	// and still drive the progress bar.
	SkewTolerance = time.Second
)

// ErrStaleUpdate marks a position update that was ignored for display
// because it arrived late, out of order or unreadable. It is not a failure.
var ErrStaleUpdate = errors.New("stale position update")

// Result is the outcome of reducing one message.
type Result struct {
	State    model.MediaState
	Commands []Command
	Err      error
}

// Reduce folds msg into state. It never fails on malformed payloads:
// numbers degrade to zero. Unknown messages leave state unchanged and
// produce no commands.
func Reduce(state model.MediaState, msg Message, now time.Time) Result {
	r := Result{State: state}
	s := &r.State

	switch msg.Kind {
	case KindPower:
		if len(msg.Payload) < 2 {
			return r
		}
		// "ON" / "OFF": the second character tells them apart.
		s.PowerOn = msg.Payload[1] != 'F'
		if s.PowerOn {
			r.Commands = []Command{numCmd(FieldPowerIcon, IconPowerOn), numCmd(FieldPowerState, 1)}
		} else {
			r.Commands = []Command{numCmd(FieldPowerIcon, IconPowerOff), numCmd(FieldPowerState, 0)}
		}

	case KindVolume:
		s.Volume = parseVolume(msg.Payload)
		r.Commands = []Command{numCmd(FieldVolume, s.Volume)}

	case KindTrack:
		s.Title = truncate(msg.Payload, MaxTextLen)
		r.Commands = []Command{textCmd(FieldTrack, s.Title)}

	case KindArtist:
		s.Artist = truncate(msg.Payload, MaxTextLen)
		r.Commands = []Command{textCmd(FieldArtist, s.Artist)}

	case KindState:
		s.Status = model.ParsePlayerStatus(msg.Payload)
		if s.Status == model.StatusPlaying {
			r.Commands = []Command{numCmd(FieldTickerEnable, 1), numCmd(FieldPlayPause, IconPause)}
		} else {
			r.Commands = []Command{numCmd(FieldTickerEnable, 0), numCmd(FieldPlayPause, IconPlay)}
		}

	case KindDuration:
		s.Duration = leadingInt(msg.Payload)
		s.TickerIntervalMS = model.TickerInterval(s.Duration)
		r.Commands = []Command{numCmd(FieldTickerPeriod, s.TickerIntervalMS)}

	case KindPosition:
		s.Position = leadingInt(msg.Payload)

	case KindPositionUpdated:
		at, err := parseTimestamp(msg.Payload)
		if err != nil {
			s.Live = false
			r.Err = fmt.Errorf("%w: %v", ErrStaleUpdate, err)
			return r
		}
		if skew := Skew(at, now); skew > SkewTolerance || skew < -SkewTolerance {
			s.Live = false
			r.Err = fmt.Errorf("%w: skew %v", ErrStaleUpdate, skew)
			return r
		}
		s.Live = true
		s.PositionAsOf = at
		if s.Duration <= 0 {
			return r
		}
		s.Progress = clamp(s.Position*100/s.Duration, 0, 100)
		r.Commands = []Command{numCmd(FieldProgress, s.Progress)}
	}
	return r
}

// Skew is the whole-second difference between local time and a reported timestamp.
func Skew(reported, now time.Time) time.Duration {
	return now.UTC().Truncate(time.Second).Sub(reported.UTC().Truncate(time.Second))
}

func parseVolume(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return clamp(int(math.Round(f*100)), 0, 100)
}

// leadingInt parses the integer prefix of s, so "215.3" is 215 and "abc" is 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// parseTimestamp reads the gateway's timestamp. Values without a zone are UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
