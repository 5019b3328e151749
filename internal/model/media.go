package model

import (
	"strings"
	"time"
)

// PlayerStatus is the media player's reported state.
type PlayerStatus int

const (
	StatusUnknown PlayerStatus = iota
	StatusPlaying
	StatusPaused
	StatusStopped
)

// ParsePlayerStatus maps a gateway state string onto a PlayerStatus.
func ParsePlayerStatus(s string) PlayerStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "playing":
		return StatusPlaying
	case "paused":
		return StatusPaused
	case "idle", "off", "stopped", "standby":
		return StatusStopped
	default:
		return StatusUnknown
	}
}

func (p PlayerStatus) String() string {
	switch p {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MediaState is the display's view of the remote media player.
type MediaState struct {
	Status   PlayerStatus
	Title    string
	Artist   string
	Volume   int // 0-100
	Duration int // seconds
	Position int // seconds

	// PositionAsOf is the timestamp carried by the latest position update.
	PositionAsOf time.Time
	// Live is true when PositionAsOf arrived within the skew tolerance.
	Live bool
	// Progress is the last percentage written to the progress bar.
	Progress int
	// TickerIntervalMS is derived from Duration; see TickerInterval.
	TickerIntervalMS int

	PowerOn bool
}

// TickerInterval returns the progress ticker period in milliseconds for a track
// of durationSec seconds. The ticker advances the 0-100 bar by one step per
// tick, so a full track spans exactly 100 ticks.
func TickerInterval(durationSec int) int {
	return durationSec * 10
}

// ElapsedAt interpolates the playback position at now. The cached position is
// returned unchanged unless it is live and the player is playing.
func (m MediaState) ElapsedAt(now time.Time) int {
	if !m.Live || m.Status != StatusPlaying || m.PositionAsOf.IsZero() {
		return m.Position
	}
	elapsed := m.Position + int(now.Sub(m.PositionAsOf)/time.Second)
	if elapsed < m.Position {
		elapsed = m.Position
	}
	if m.Duration > 0 && elapsed > m.Duration {
		elapsed = m.Duration
	}
	return elapsed
}
