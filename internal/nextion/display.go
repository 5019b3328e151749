// Package nextion speaks the Nextion serial instruction set: ASCII commands
// terminated by three 0xFF bytes.
package nextion

import (
	"fmt"
	"strings"
)

// Display is everything the controller needs from the touch panel.
type Display interface {
	WriteStr(field, value string) error
	WriteNum(field string, value int) error
	AppendPoint(channel, value int) error
	ClearChart(channel int) error
	DrawOverlayText(x, y int, text string) error
	CurrentPageID() int
}

// Overlay text box geometry and colors used by DrawOverlayText.
const (
	overlayWidth  = 88
	overlayHeight = 26
	overlayFont   = 0
	overlayColor  = 59164
)

var terminator = []byte{0xFF, 0xFF, 0xFF}

func strCmd(field, value string) string {
	// The instruction set has no escape for the quote character.
	return fmt.Sprintf("%s=\"%s\"", field, strings.ReplaceAll(value, `"`, "'"))
}

func numCmd(field string, value int) string {
	return fmt.Sprintf("%s=%d", field, value)
}

func addCmd(waveform, channel, value int) string {
	if value < 0 {
		value = 0
	}
	if value > 255 {
		value = 255
	}
	return fmt.Sprintf("add %d,%d,%d", waveform, channel, value)
}

func cleCmd(waveform, channel int) string {
	return fmt.Sprintf("cle %d,%d", waveform, channel)
}

// xstr x,y,w,h,font,pco,bco,xcen,ycen,sta,"text" with a transparent background.
func xstrCmd(x, y int, text string) string {
	return fmt.Sprintf("xstr %d,%d,%d,%d,%d,%d,0,0,1,3,\"%s\"",
		x, y, overlayWidth, overlayHeight, overlayFont, overlayColor, strings.ReplaceAll(text, `"`, "'"))
}

func pageCmd(id int) string {
	return fmt.Sprintf("page %d", id)
}
