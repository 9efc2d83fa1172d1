package injector

import "github.com/GriffinCanCode/ctxopt/internal/stream"

// SuggestionType identifies a suggestion template.
type SuggestionType int

const (
	SmartRead SuggestionType = iota
	AutoOptimize
	SummarizeLogs
)

// String returns the label used in logs and metrics.
func (t SuggestionType) String() string {
	switch t {
	case SmartRead:
		return "smart_read"
	case AutoOptimize:
		return "auto_optimize"
	case SummarizeLogs:
		return "summarize_logs"
	default:
		return "unknown"
	}
}

// Suggestion templates offered to the wrapped CLI.
const (
	SmartReadSuggestion     = "TIP: Consider using mcp__ctxopt__smart_file_read for better token efficiency"
	AutoOptimizeSuggestion  = "TIP: Use mcp__ctxopt__auto_optimize to compress this output"
	SummarizeLogsSuggestion = "TIP: Use mcp__ctxopt__summarize_logs for log compression"
)

// Suggestion is a message ready to be written to the child's input.
type Suggestion struct {
	Type SuggestionType
	Text string
}

// SuggestionFor maps a content type to the suggestion worth offering for it.
func SuggestionFor(content stream.ContentType) (Suggestion, bool) {
	switch content {
	case stream.FileRead:
		return Suggestion{Type: SmartRead, Text: SmartReadSuggestion}, true
	case stream.LargeOutput:
		return Suggestion{Type: AutoOptimize, Text: AutoOptimizeSuggestion}, true
	case stream.BuildError:
		return Suggestion{Type: SummarizeLogs, Text: SummarizeLogsSuggestion}, true
	default:
		return Suggestion{}, false
	}
}
