package stream

import "bytes"

// Tracker classifies a continuing stream chunk by chunk. A PTY hands out
// output in small reads, so a long burst between prompts is reported as
// LargeOutput once its running total crosses the analyzer thresholds.
//
// A Tracker is not safe for concurrent use; it belongs to one output pump.
type Tracker struct {
	analyzer *Analyzer
	runBytes int
	runLines int
}

// Track returns a Tracker backed by a.
func (a *Analyzer) Track() *Tracker {
	return &Tracker{analyzer: a}
}

// Observe classifies chunk, taking earlier output since the last prompt
// into account.
func (t *Tracker) Observe(chunk []byte) ContentType {
	content := t.analyzer.Analyze(chunk)

	switch content {
	case PromptReady, LargeOutput:
		t.reset()
		return content
	case Normal:
		text := StripANSI(chunk)
		t.runBytes += len(text)
		t.runLines += bytes.Count(text, []byte{'\n'})
		if t.runBytes >= t.analyzer.cfg.LargeOutputBytes || t.runLines >= t.analyzer.cfg.LargeOutputLines {
			t.reset()
			return LargeOutput
		}
	}
	return content
}

// Pending returns the bytes counted toward the current burst.
func (t *Tracker) Pending() int {
	return t.runBytes
}

func (t *Tracker) reset() {
	t.runBytes = 0
	t.runLines = 0
}
