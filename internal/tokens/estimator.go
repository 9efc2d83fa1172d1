// Package tokens approximates model token counts for telemetry.
package tokens

import "unicode/utf8"

// CharsPerToken is the average number of characters per token assumed by
// the estimate.
const CharsPerToken = 4

// Estimator approximates token counts. It is stateless and safe for
// concurrent use.
type Estimator struct{}

// NewEstimator creates an estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Estimate returns ceil(characters / CharsPerToken) for text.
func (e *Estimator) Estimate(text string) int {
	return ceilDiv(utf8.RuneCountInString(text), CharsPerToken)
}

// EstimateBytes estimates raw output. Invalid UTF-8 counts one character
// per byte.
func (e *Estimator) EstimateBytes(p []byte) int {
	return ceilDiv(utf8.RuneCount(p), CharsPerToken)
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
