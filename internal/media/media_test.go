package media

import (
	"errors"
	"strings"
	"testing"
	"time"

	"DeskDisplay/internal/model"
	"DeskDisplay/internal/nextion"
)

var classifier = Classifier{MediaPrefix: "homeassistant/media_player"}

func reduceTopic(state model.MediaState, topic, payload string, now time.Time) Result {
	return Reduce(state, classifier.Classify(topic, []byte(payload)), now)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		topic  string
		kind   Kind
		device string
	}{
		{"stat/OfficeHeatPlug/POWER", KindPower, "OfficeHeatPlug"},
		{"power/desk_lamp", KindPower, "desk_lamp"},
		{"power", KindUnknown, ""},
		{"tele/desk_lamp/power", KindPower, "desk_lamp"},
		{"homeassistant/media_player/volume", KindVolume, ""},
		{"homeassistant/media_player/track", KindTrack, ""},
		{"homeassistant/media_player/artist", KindArtist, ""},
		{"homeassistant/media_player/state", KindState, ""},
		{"homeassistant/media_player/duration", KindDuration, ""},
		{"homeassistant/media_player/position", KindPosition, ""},
		{"homeassistant/media_player/position_last_update", KindPositionUpdated, ""},
		{"homeassistant/media_player/shuffle", KindUnknown, ""},
		{"other/media_player/volume", KindUnknown, ""},
		{"volume", KindUnknown, ""},
	}
	for _, tt := range tests {
		msg := classifier.Classify(tt.topic, []byte("x"))
		if msg.Kind != tt.kind || msg.Device != tt.device {
			t.Errorf("Classify(%q) = %v/%q, want %v/%q", tt.topic, msg.Kind, msg.Device, tt.kind, tt.device)
		}
	}
}

func TestReduce_Volume(t *testing.T) {
	tests := []struct {
		payload string
		want    int
	}{
		{"0.42", 42},
		{"0.29", 29},
		{"1", 100},
		{"0", 0},
		{"1.7", 100},
		{"-0.2", 0},
		{"loud", 0},
		{"", 0},
	}
	for _, tt := range tests {
		r := reduceTopic(model.MediaState{}, "homeassistant/media_player/volume", tt.payload, time.Now())
		if r.State.Volume != tt.want {
			t.Errorf("volume %q = %d, want %d", tt.payload, r.State.Volume, tt.want)
		}
		if len(r.Commands) != 1 || r.Commands[0] != numCmd(FieldVolume, tt.want) {
			t.Errorf("volume %q commands = %v", tt.payload, r.Commands)
		}
	}
}

func TestReduce_Power(t *testing.T) {
	r := reduceTopic(model.MediaState{}, "stat/OfficeHeatPlug/POWER", "ON", time.Now())
	if !r.State.PowerOn {
		t.Error("ON did not set power")
	}
	want := []Command{numCmd(FieldPowerIcon, IconPowerOn), numCmd(FieldPowerState, 1)}
	if !equalCommands(r.Commands, want) {
		t.Errorf("ON commands = %v", r.Commands)
	}

	r = reduceTopic(r.State, "stat/OfficeHeatPlug/POWER", "OFF", time.Now())
	if r.State.PowerOn {
		t.Error("OFF left power on")
	}
	want = []Command{numCmd(FieldPowerIcon, IconPowerOff), numCmd(FieldPowerState, 0)}
	if !equalCommands(r.Commands, want) {
		t.Errorf("OFF commands = %v", r.Commands)
	}

	r = reduceTopic(model.MediaState{PowerOn: true}, "stat/OfficeHeatPlug/POWER", "O", time.Now())
	if !r.State.PowerOn || len(r.Commands) != 0 {
		t.Errorf("short payload changed state: %+v %v", r.State, r.Commands)
	}
}

func TestReduce_Text(t *testing.T) {
	long := strings.Repeat("é", 150)
	r := reduceTopic(model.MediaState{}, "homeassistant/media_player/track", long, time.Now())
	if got := []rune(r.State.Title); len(got) != MaxTextLen {
		t.Errorf("track length = %d, want %d", len(got), MaxTextLen)
	}
	r = reduceTopic(r.State, "homeassistant/media_player/artist", "Wilco", time.Now())
	if r.State.Artist != "Wilco" || !equalCommands(r.Commands, []Command{textCmd(FieldArtist, "Wilco")}) {
		t.Errorf("artist = %q, %v", r.State.Artist, r.Commands)
	}
}

func TestReduce_State(t *testing.T) {
	r := reduceTopic(model.MediaState{}, "homeassistant/media_player/state", "playing", time.Now())
	if r.State.Status != model.StatusPlaying {
		t.Errorf("status = %v", r.State.Status)
	}
	if !equalCommands(r.Commands, []Command{numCmd(FieldTickerEnable, 1), numCmd(FieldPlayPause, IconPause)}) {
		t.Errorf("playing commands = %v", r.Commands)
	}
	for _, p := range []string{"paused", "idle", "buffering"} {
		r = reduceTopic(model.MediaState{Status: model.StatusPlaying}, "homeassistant/media_player/state", p, time.Now())
		if !equalCommands(r.Commands, []Command{numCmd(FieldTickerEnable, 0), numCmd(FieldPlayPause, IconPlay)}) {
			t.Errorf("%s commands = %v", p, r.Commands)
		}
	}
}

func TestReduce_DurationSetsTicker(t *testing.T) {
	r := reduceTopic(model.MediaState{}, "homeassistant/media_player/duration", "215", time.Now())
	if r.State.Duration != 215 || r.State.TickerIntervalMS != 2150 {
		t.Errorf("duration = %d, ticker = %d", r.State.Duration, r.State.TickerIntervalMS)
	}
	if !equalCommands(r.Commands, []Command{numCmd(FieldTickerPeriod, 2150)}) {
		t.Errorf("commands = %v", r.Commands)
	}
}

func TestReduce_MalformedNumbers(t *testing.T) {
	for _, topic := range []string{"duration", "position"} {
		r := reduceTopic(model.MediaState{Duration: 9, Position: 9}, "homeassistant/media_player/"+topic, "n/a", time.Now())
		if r.Err != nil {
			t.Errorf("%s: unexpected error %v", topic, r.Err)
		}
		if topic == "duration" && r.State.Duration != 0 {
			t.Errorf("duration = %d, want 0", r.State.Duration)
		}
		if topic == "position" && r.State.Position != 0 {
			t.Errorf("position = %d, want 0", r.State.Position)
		}
	}
	r := reduceTopic(model.MediaState{}, "homeassistant/media_player/duration", "215.9", time.Now())
	if r.State.Duration != 215 {
		t.Errorf("fractional duration = %d, want 215", r.State.Duration)
	}
}

func TestReduce_UnknownIsNoop(t *testing.T) {
	state := model.MediaState{Title: "x", Volume: 30}
	r := reduceTopic(state, "homeassistant/media_player/shuffle", "true", time.Now())
	if r.State != state || len(r.Commands) != 0 || r.Err != nil {
		t.Errorf("unknown topic changed something: %+v", r)
	}
}

func TestReduce_PositionSkew(t *testing.T) {
	now := time.Date(2026, 10, 14, 18, 30, 10, 0, time.UTC)
	base := model.MediaState{Duration: 200, Position: 50, Progress: 7}

	tests := []struct {
		name    string
		stamp   string
		applied bool
	}{
		{"skew 0", "2026-10-14 18:30:10.412+00:00", true},
		{"skew 1", "2026-10-14 18:30:09+00:00", true},
		{"skew 2", "2026-10-14 18:30:08+00:00", false},
		{"ahead 1", "2026-10-14T18:30:11Z", true},
		{"ahead 2", "2026-10-14T18:30:12Z", false},
		{"offset zone", "2026-10-14T13:30:09-05:00", true},
		{"no zone", "2026-10-14 18:30:10", true},
		{"garbage", "yesterday", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := reduceTopic(base, "homeassistant/media_player/position_last_update", tt.stamp, now)
			if tt.applied {
				if r.Err != nil {
					t.Fatalf("unexpected error %v", r.Err)
				}
				if r.State.Progress != 25 || !r.State.Live {
					t.Errorf("progress = %d live = %v, want 25 live", r.State.Progress, r.State.Live)
				}
				if !equalCommands(r.Commands, []Command{numCmd(FieldProgress, 25)}) {
					t.Errorf("commands = %v", r.Commands)
				}
				return
			}
			if !errors.Is(r.Err, ErrStaleUpdate) {
				t.Errorf("err = %v, want ErrStaleUpdate", r.Err)
			}
			if r.State.Progress != 7 || r.State.Live || len(r.Commands) != 0 {
				t.Errorf("stale update applied: %+v %v", r.State, r.Commands)
			}
			if r.State.Position != 50 || r.State.Duration != 200 {
				t.Errorf("cached values lost: %+v", r.State)
			}
		})
	}
}

func TestReduce_PositionWithoutDuration(t *testing.T) {
	now := time.Date(2026, 10, 14, 18, 30, 10, 0, time.UTC)
	r := reduceTopic(model.MediaState{Position: 50}, "homeassistant/media_player/position_last_update", "2026-10-14T18:30:10Z", now)
	if r.Err != nil || len(r.Commands) != 0 {
		t.Errorf("zero duration: err %v, commands %v", r.Err, r.Commands)
	}
}

func TestApply(t *testing.T) {
	fake := &nextion.Fake{}
	err := Apply(fake, []Command{numCmd(FieldPowerIcon, IconPowerOn), textCmd(FieldTrack, `Say "Hi"`)})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"page0.b2.pic=33", `page3.tTrack.txt="Say 'Hi'"`}
	if strings.Join(fake.Commands, "\n") != strings.Join(want, "\n") {
		t.Errorf("commands = %q", fake.Commands)
	}

	fake.Err = errors.New("unplugged")
	if err := Apply(fake, []Command{numCmd(FieldVolume, 1), numCmd(FieldProgress, 2)}); err == nil {
		t.Error("expected joined error")
	}
}

func equalCommands(a, b []Command) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
