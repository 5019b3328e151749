package nextion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

func TestPanel_WireFormat(t *testing.T) {
	var buf bytes.Buffer
	p := NewPanel(&buf)

	steps := []struct {
		do   func() error
		want string
	}{
		{func() error { return p.WriteStr("t1.txt", `say "hi"`) }, `t1.txt="say 'hi'"`},
		{func() error { return p.WriteNum("dim", 2) }, "dim=2"},
		{func() error { return p.AppendPoint(0, 300) }, "add 2,0,255"},
		{func() error { return p.AppendPoint(1, -4) }, "add 2,1,0"},
		{func() error { return p.ClearChart(1) }, "cle 2,1"},
		{func() error { return p.DrawOverlayText(245, 48, "103.00") }, `xstr 245,48,88,26,0,59164,0,0,1,3,"103.00"`},
		{func() error { return p.SetPage(3) }, "page 3"},
	}
	for _, s := range steps {
		buf.Reset()
		if err := s.do(); err != nil {
			t.Fatalf("%s: %v", s.want, err)
		}
		want := append([]byte(s.want), 0xFF, 0xFF, 0xFF)
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("wrote %q, want %q", buf.Bytes(), want)
		}
	}
	if p.CurrentPageID() != 3 {
		t.Errorf("page = %d, want 3", p.CurrentPageID())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestPanel_WriteError(t *testing.T) {
	p := NewPanel(failingWriter{})
	if err := p.WriteNum("dim", 100); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("err = %v, want ErrClosedPipe", err)
	}
}

func TestDecoder_Frames(t *testing.T) {
	stream := []byte{
		0x1A, 0xFF, 0xFF, 0xFF, // invalid variable: skipped
		0x23, 0x02, 'P', 0x02, // page 2
		0x23, 0x02, 'T', 0x13, // trigger 19
		0x66, 0x03, 0xFF, 0xFF, 0xFF, // sendme: page 3
		0x23, 0x01, 'X', // short custom frame: skipped
		0x23, 0x02, 'T', 0x00,
	}
	d := NewDecoder(bytes.NewReader(stream))
	want := []Event{
		{Kind: EventPage, Value: 2},
		{Kind: EventTrigger, Value: 0x13},
		{Kind: EventPage, Value: 3},
		{Kind: EventTrigger, Value: 0},
	}
	for i, w := range want {
		got, err := d.Next()
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		if got != w {
			t.Errorf("event %d = %+v, want %+v", i, got, w)
		}
	}
	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestListen_StopsAtEOF(t *testing.T) {
	out := make(chan Event, 4)
	r := bytes.NewReader([]byte{0x23, 0x02, 'T', 0x10})
	if err := Listen(context.Background(), r, out); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	close(out)
	var got []Event
	for ev := range out {
		got = append(got, ev)
	}
	if len(got) != 1 || got[0].Value != 0x10 {
		t.Errorf("events = %+v", got)
	}
}
