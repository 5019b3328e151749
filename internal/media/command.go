package media

import (
	"errors"
	"fmt"

	"DeskDisplay/internal/nextion"
)

// Display fields driven by the reducer.
const (
	FieldPowerIcon    = "page0.b2.pic"
	FieldPowerState   = "heatState.val"
	FieldTickerEnable = "page3.tm0.en"
	FieldTickerPeriod = "page3.tm0.tim"
	FieldPlayPause    = "page3.bPlayPause.pic"
	FieldVolume       = "page3.j1.val"
	FieldProgress     = "page3.j0.val"
	FieldTrack        = "page3.tTrack.txt"
	FieldArtist       = "page3.tArtist.txt"
)

// Picture ids in the display project.
const (
	IconPowerOff = 19
	IconPowerOn  = 33
	IconPause    = 9
	IconPlay     = 10
)

// Command is a single display write.
type Command struct {
	Field  string
	Num    int
	Text   string
	IsText bool
}

func numCmd(field string, v int) Command { return Command{Field: field, Num: v} }
func textCmd(field, v string) Command    { return Command{Field: field, Text: v, IsText: true} }

func (c Command) String() string {
	if c.IsText {
		return fmt.Sprintf("%s=%q", c.Field, c.Text)
	}
	return fmt.Sprintf("%s=%d", c.Field, c.Num)
}

// Apply writes cmds to d in order. A failed write does not stop the rest.
func Apply(d nextion.Display, cmds []Command) error {
	var errs []error
	for _, c := range cmds {
		var err error
		if c.IsText {
			err = d.WriteStr(c.Field, c.Text)
		} else {
			err = d.WriteNum(c.Field, c.Num)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Field, err))
		}
	}
	return errors.Join(errs...)
}
