package nextion

import (
	"fmt"
	"io"
	"log"

	"go.bug.st/serial"
)

// DefaultWaveformID is the component id of the chart on the chart page.
const DefaultWaveformID = 2

// Panel drives a Nextion display over a byte stream.
type Panel struct {
	w          io.Writer
	closer     io.Closer
	WaveformID int
	page       int
}

// NewPanel wraps an existing stream.
func NewPanel(w io.Writer) *Panel {
	return &Panel{w: w, WaveformID: DefaultWaveformID}
}

// Open opens the serial port the display is attached to. The returned reader
// yields the panel's event stream.
func Open(port string, baud int) (*Panel, io.Reader, error) {
	p, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, nil, fmt.Errorf("open serial %s: %w", port, err)
	}
	log.Printf("[INFO] display opened on %s @ %d baud", port, baud)
	panel := NewPanel(p)
	panel.closer = p
	return panel, p, nil
}

// Close releases the serial port. Later calls do nothing.
func (p *Panel) Close() error {
	if p.closer == nil {
		return nil
	}
	c := p.closer
	p.closer = nil
	return c.Close()
}

func (p *Panel) send(cmd string) error {
	buf := make([]byte, 0, len(cmd)+len(terminator))
	buf = append(buf, cmd...)
	buf = append(buf, terminator...)
	if _, err := p.w.Write(buf); err != nil {
		return fmt.Errorf("display write %q: %w", cmd, err)
	}
	return nil
}

func (p *Panel) WriteStr(field, value string) error     { return p.send(strCmd(field, value)) }
func (p *Panel) WriteNum(field string, value int) error { return p.send(numCmd(field, value)) }
func (p *Panel) AppendPoint(channel, value int) error {
	return p.send(addCmd(p.WaveformID, channel, value))
}
func (p *Panel) ClearChart(channel int) error { return p.send(cleCmd(p.WaveformID, channel)) }
func (p *Panel) DrawOverlayText(x, y int, text string) error {
	return p.send(xstrCmd(x, y, text))
}

// SetPage switches the visible page.
func (p *Panel) SetPage(id int) error {
	if err := p.send(pageCmd(id)); err != nil {
		return err
	}
	p.page = id
	return nil
}

// CurrentPageID returns the last page reported by the panel.
func (p *Panel) CurrentPageID() int { return p.page }

// ObservePage records a page change reported by the panel.
func (p *Panel) ObservePage(id int) { p.page = id }
