// Package media folds media-player and power-plug bus messages into a
// MediaState and the display commands that show it.
package media

import (
	"strings"
)

// Kind identifies what a bus message carries.
type Kind int

const (
	KindUnknown Kind = iota
	KindPower
	KindVolume
	KindTrack
	KindArtist
	KindState
	KindDuration
	KindPosition
	KindPositionUpdated
)

var kindNames = map[Kind]string{
	KindPower:           "power",
	KindVolume:          "volume",
	KindTrack:           "track",
	KindArtist:          "artist",
	KindState:           "state",
	KindDuration:        "duration",
	KindPosition:        "position",
	KindPositionUpdated: "position_last_update",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Message is a classified bus message.
type Message struct {
	Kind    Kind
	Device  string // power messages only
	Topic   string
	Payload string
}

// Classifier turns raw topics into Messages. Media attributes live under
// MediaPrefix, e.g. homeassistant/media_player/volume. Power reports are
// either power/<device> or a topic whose last segment is "power" in any case,
// e.g. stat/OfficeHeatPlug/POWER.
type Classifier struct {
	MediaPrefix string
}

// Classify tags a message with its Kind. Unrecognised topics get KindUnknown.
func (c Classifier) Classify(topic string, payload []byte) Message {
	msg := Message{Topic: topic, Payload: string(payload)}

	segments := strings.Split(topic, "/")
	switch n := len(segments); {
	case n >= 2 && strings.EqualFold(segments[n-1], "power"):
		msg.Kind = KindPower
		msg.Device = segments[n-2]
		return msg
	case n == 2 && strings.EqualFold(segments[0], "power"):
		msg.Kind = KindPower
		msg.Device = segments[1]
		return msg
	}

	prefix := strings.TrimSuffix(c.MediaPrefix, "/") + "/"
	attr, ok := strings.CutPrefix(topic, prefix)
	if !ok {
		return msg
	}
	for k, name := range kindNames {
		if k != KindPower && name == attr {
			msg.Kind = k
			break
		}
	}
	return msg
}
