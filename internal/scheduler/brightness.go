package scheduler

// Dimming holds the overnight brightness window. Hours are inclusive.
type Dimming struct {
	StartHour int // dim from this hour...
	EndHour   int // ...through this hour
	Dim       int
	Full      int
}

// DefaultDimming dims from 23:00 through 06:59.
var DefaultDimming = Dimming{StartHour: 23, EndHour: 6, Dim: 2, Full: 100}

// BrightnessFor returns the display brightness for a local hour.
func (d Dimming) BrightnessFor(hour int) int {
	if hour >= d.StartHour || hour <= d.EndHour {
		return d.Dim
	}
	return d.Full
}
