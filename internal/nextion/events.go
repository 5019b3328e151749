package nextion

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// EventKind identifies a message sent by the panel.
type EventKind int

const (
	EventPage EventKind = iota + 1
	EventTrigger
)

// Event is a decoded panel message.
type Event struct {
	Kind  EventKind
	Value int
}

const (
	returnPage   = 0x66 // native sendme reply
	customHeader = 0x23 // '#' printh frames from the HMI
	customPage   = 'P'
	customTrig   = 'T'
)

// Decoder reads events from the panel's serial stream.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next page or trigger event. Unrelated return codes are skipped.
func (d *Decoder) Next() (Event, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		switch b {
		case customHeader:
			n, err := d.r.ReadByte()
			if err != nil {
				return Event{}, err
			}
			body := make([]byte, n)
			if _, err := io.ReadFull(d.r, body); err != nil {
				return Event{}, err
			}
			if n < 2 {
				continue
			}
			switch body[0] {
			case customPage:
				return Event{Kind: EventPage, Value: int(body[1])}, nil
			case customTrig:
				return Event{Kind: EventTrigger, Value: int(body[1])}, nil
			}
		case returnPage:
			id, err := d.r.ReadByte()
			if err != nil {
				return Event{}, err
			}
			if err := d.skipTerminator(); err != nil {
				return Event{}, err
			}
			return Event{Kind: EventPage, Value: int(id)}, nil
		default:
			// Other return codes end with the three-byte terminator.
			if err := d.skipTerminator(); err != nil {
				return Event{}, err
			}
		}
	}
}

func (d *Decoder) skipTerminator() error {
	seen := 0
	for seen < len(terminator) {
		b, err := d.r.ReadByte()
		if err != nil {
			return err
		}
		if b == 0xFF {
			seen++
		} else {
			seen = 0
		}
	}
	return nil
}

// Listen decodes events from r into out until ctx is done or the stream ends.
func Listen(ctx context.Context, r io.Reader, out chan<- Event) error {
	dec := NewDecoder(r)
	for {
		ev, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("display read: %w", err)
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}
