package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{})

	tests := []struct {
		name  string
		chunk string
		want  ContentType
	}{
		{name: "empty", chunk: "", want: Normal},
		{name: "plain text", chunk: "Thinking about the problem...\n", want: Normal},
		{name: "npm error", chunk: "npm ERR! code ELIFECYCLE\nnpm ERR! errno 1\n", want: BuildError},
		{name: "tsc error", chunk: "src/index.ts(3,7): error TS2322: Type 'string' is not assignable\n", want: BuildError},
		{name: "rustc error", chunk: "error[E0382]: borrow of moved value: `v`\n", want: BuildError},
		{name: "webpack error", chunk: "ERROR in ./src/app.js\nModule not found\n", want: BuildError},
		{name: "go compiler error", chunk: "./main.go:12:3: undefined: foo\n", want: BuildError},
		{name: "go test failure", chunk: "--- FAIL: TestThing (0.00s)\n", want: BuildError},
		{name: "colored error", chunk: "\x1b[31mnpm ERR!\x1b[0m missing script\n", want: BuildError},
		{name: "tool file read", chunk: "● Read(src/main.go)\n", want: FileRead},
		{name: "read summary", chunk: "  ⎿  Read 120 lines\n", want: FileRead},
		{name: "prompt", chunk: "Done.\n> ", want: PromptReady},
		{name: "fancy prompt", chunk: "\x1b[1m❯\x1b[0m ", want: PromptReady},
		{name: "shell prompt", chunk: "user@host:~$ ", want: PromptReady},
		{name: "error beats prompt", chunk: "npm ERR! oops\n> ", want: BuildError},
		{name: "root shell prompt", chunk: "\n~/src$", want: PromptReady},
		{name: "xml closing tag", chunk: "<entry id=\"a\">value</entry>\n", want: Normal},
		{name: "html document end", chunk: "<body>\n</body>\n</html>", want: Normal},
		{name: "arrow", chunk: "map[string]int -> sorted ->", want: Normal},
		{name: "shell variable", chunk: "echo $", want: Normal},
		{name: "price", chunk: "total: 5$", want: Normal},
		{name: "overlong prompt-like line", chunk: strings.Repeat("a", maxPromptLine+1) + "$ ", want: Normal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Analyze([]byte(tt.chunk)))
		})
	}
}

func TestAnalyzeLargeOutput(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{LargeOutputBytes: 100, LargeOutputLines: 10})

	assert.Equal(t, LargeOutput, a.Analyze([]byte(strings.Repeat("x", 100))))
	assert.Equal(t, LargeOutput, a.Analyze([]byte(strings.Repeat("line\n", 10))))
	assert.Equal(t, Normal, a.Analyze([]byte(strings.Repeat("line\n", 3))))
}

func TestAnalyzerDefaults(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{})
	assert.Equal(t, DefaultLargeOutputBytes, a.cfg.LargeOutputBytes)
	assert.Equal(t, DefaultLargeOutputLines, a.cfg.LargeOutputLines)
}

func TestStripANSI(t *testing.T) {
	in := "\x1b[1;32mok\x1b[0m\r\n\x1b]0;title\x07done"
	assert.Equal(t, "ok\ndone", string(StripANSI([]byte(in))))
}

func TestContentTypeString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "build_error", BuildError.String())
	assert.Equal(t, "file_read", FileRead.String())
	assert.Equal(t, "large_output", LargeOutput.String())
	assert.Equal(t, "prompt_ready", PromptReady.String())
	assert.Equal(t, "unknown", ContentType(42).String())
}
