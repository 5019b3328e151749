package nextion

// Fake records commands in wire form, without terminators. It is used by tests
// and by dry runs without a panel attached.
type Fake struct {
	Commands []string
	Page     int
	// Err, when set, is returned by every write and nothing is recorded.
	Err error
}

func (f *Fake) record(cmd string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Commands = append(f.Commands, cmd)
	return nil
}

func (f *Fake) WriteStr(field, value string) error     { return f.record(strCmd(field, value)) }
func (f *Fake) WriteNum(field string, value int) error { return f.record(numCmd(field, value)) }
func (f *Fake) AppendPoint(channel, value int) error {
	return f.record(addCmd(DefaultWaveformID, channel, value))
}
func (f *Fake) ClearChart(channel int) error                { return f.record(cleCmd(DefaultWaveformID, channel)) }
func (f *Fake) DrawOverlayText(x, y int, text string) error { return f.record(xstrCmd(x, y, text)) }
func (f *Fake) CurrentPageID() int                          { return f.Page }
func (f *Fake) ObservePage(id int)                          { f.Page = id }

// Reset clears recorded commands.
func (f *Fake) Reset() { f.Commands = nil }
