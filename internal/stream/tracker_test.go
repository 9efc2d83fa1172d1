package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerAccumulatesBursts(t *testing.T) {
	tr := NewAnalyzer(AnalyzerConfig{LargeOutputBytes: 100, LargeOutputLines: 1000}).Track()

	chunk := []byte(strings.Repeat("x", 40))
	assert.Equal(t, Normal, tr.Observe(chunk))
	assert.Equal(t, Normal, tr.Observe(chunk))
	assert.Equal(t, 80, tr.Pending())

	assert.Equal(t, LargeOutput, tr.Observe(chunk))
	assert.Zero(t, tr.Pending())

	assert.Equal(t, Normal, tr.Observe(chunk))
}

func TestTrackerCountsLines(t *testing.T) {
	tr := NewAnalyzer(AnalyzerConfig{LargeOutputBytes: 1 << 20, LargeOutputLines: 5}).Track()

	assert.Equal(t, Normal, tr.Observe([]byte("a\nb\nc\n")))
	assert.Equal(t, LargeOutput, tr.Observe([]byte("d\ne\n")))
}

func TestTrackerPromptResetsBurst(t *testing.T) {
	tr := NewAnalyzer(AnalyzerConfig{LargeOutputBytes: 100, LargeOutputLines: 1000}).Track()

	assert.Equal(t, Normal, tr.Observe([]byte(strings.Repeat("y", 90))))
	assert.Equal(t, PromptReady, tr.Observe([]byte("\n> ")))
	assert.Zero(t, tr.Pending())
	assert.Equal(t, Normal, tr.Observe([]byte(strings.Repeat("y", 90))))
}

func TestTrackerKeepsSpecificTypes(t *testing.T) {
	tr := NewAnalyzer(AnalyzerConfig{LargeOutputBytes: 10, LargeOutputLines: 1000}).Track()

	assert.Equal(t, Normal, tr.Observe([]byte("12345")))
	assert.Equal(t, BuildError, tr.Observe([]byte("npm ERR! missing script\n")))
	assert.Equal(t, 5, tr.Pending())
}

func TestTrackerStripsEscapes(t *testing.T) {
	tr := NewAnalyzer(AnalyzerConfig{LargeOutputBytes: 10, LargeOutputLines: 1000}).Track()

	assert.Equal(t, Normal, tr.Observe([]byte("\x1b[31mabc\x1b[0m")))
	assert.Equal(t, 3, tr.Pending())
}

func TestTrackerMarkupBurstReachesLargeOutput(t *testing.T) {
	tr := NewAnalyzer(AnalyzerConfig{}).Track()

	line := `<entry id="` + strings.Repeat("a", 40) + `">value</entry>` + "\n"
	chunk := []byte(strings.Repeat(line, 8*1024/len(line)))

	counts := make(map[ContentType]int)
	for i := 0; i < 20; i++ {
		counts[tr.Observe(chunk)]++
	}

	assert.Zero(t, counts[PromptReady])
	assert.Positive(t, counts[LargeOutput])
}

func TestTrackerClosingTagDoesNotResetBurst(t *testing.T) {
	tr := NewAnalyzer(AnalyzerConfig{LargeOutputBytes: 100, LargeOutputLines: 1000}).Track()

	assert.Equal(t, Normal, tr.Observe([]byte(strings.Repeat("z", 60)+"\n</entry>")))
	assert.Equal(t, 69, tr.Pending())
	assert.Equal(t, LargeOutput, tr.Observe([]byte("<entry>more text here</entry>\n</entries>")))
}
