package stream

import (
	"bytes"
	"regexp"
)

// ContentType tags what a chunk of child output looks like.
type ContentType int

const (
	Normal ContentType = iota
	BuildError
	FileRead
	LargeOutput
	PromptReady
)

// String returns the label used in logs and metrics.
func (c ContentType) String() string {
	switch c {
	case Normal:
		return "normal"
	case BuildError:
		return "build_error"
	case FileRead:
		return "file_read"
	case LargeOutput:
		return "large_output"
	case PromptReady:
		return "prompt_ready"
	default:
		return "unknown"
	}
}

// Defaults for AnalyzerConfig.
const (
	DefaultLargeOutputBytes = 16 * 1024
	DefaultLargeOutputLines = 200
)

// AnalyzerConfig tunes the LargeOutput thresholds.
type AnalyzerConfig struct {
	LargeOutputBytes int
	LargeOutputLines int
}

var (
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)|\x1b[@-Z\\-_]`)

	buildErrorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^npm ERR!`),
		regexp.MustCompile(`error TS\d+:`),
		regexp.MustCompile(`error\[E\d{4}\]`),
		regexp.MustCompile(`(?m)^ERROR in `),
		regexp.MustCompile(`(?i)\bbuild failed\b`),
		regexp.MustCompile(`(?m)^(?:--- )?FAIL(?:ED)?\b`),
		regexp.MustCompile(`(?m)^\S+\.go:\d+:\d+: `),
		regexp.MustCompile(`(?m)^(?:SyntaxError|TypeError|ReferenceError): `),
	}

	fileReadPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bRead\([^)]+\)`),
		regexp.MustCompile(`⎿\s+Read \d+ lines?`),
		regexp.MustCompile(`(?i)\breading file\b`),
	}

	// A prompt line holds nothing but the prompt: a bare marker or a shell
	// prompt like user@host:~$. Lines that merely end in > or $ (closing
	// tags, arrows) are output.
	promptPattern = regexp.MustCompile(`^\s*(?:[❯>]|[\w@~:/.\-]*\$)\s?$`)
)

// Analyzer classifies chunks of PTY output. It holds no per-stream state.
type Analyzer struct {
	cfg AnalyzerConfig
}

// NewAnalyzer creates an analyzer; zero thresholds take the defaults.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	if cfg.LargeOutputBytes <= 0 {
		cfg.LargeOutputBytes = DefaultLargeOutputBytes
	}
	if cfg.LargeOutputLines <= 0 {
		cfg.LargeOutputLines = DefaultLargeOutputLines
	}
	return &Analyzer{cfg: cfg}
}

// Analyze returns the content type of chunk. When several apply the most
// actionable wins: BuildError, FileRead, LargeOutput, PromptReady.
func (a *Analyzer) Analyze(chunk []byte) ContentType {
	if len(chunk) == 0 {
		return Normal
	}
	text := StripANSI(chunk)

	for _, p := range buildErrorPatterns {
		if p.Match(text) {
			return BuildError
		}
	}
	for _, p := range fileReadPatterns {
		if p.Match(text) {
			return FileRead
		}
	}
	if len(text) >= a.cfg.LargeOutputBytes || bytes.Count(text, []byte{'\n'}) >= a.cfg.LargeOutputLines {
		return LargeOutput
	}
	if isPrompt(lastLine(text)) {
		return PromptReady
	}
	return Normal
}

// StripANSI removes terminal escape sequences and carriage returns.
func StripANSI(p []byte) []byte {
	out := ansiPattern.ReplaceAll(p, nil)
	return bytes.ReplaceAll(out, []byte{'\r'}, nil)
}

// maxPromptLine caps the length of a line still considered a prompt.
const maxPromptLine = 64

func isPrompt(line []byte) bool {
	return len(line) <= maxPromptLine && promptPattern.Match(line)
}

func lastLine(text []byte) []byte {
	text = bytes.TrimRight(text, "\n")
	if i := bytes.LastIndexByte(text, '\n'); i >= 0 {
		return text[i+1:]
	}
	return text
}
