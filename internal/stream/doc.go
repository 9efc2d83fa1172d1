// Package stream holds the consumers that sit on the PTY output stream:
// a bounded history buffer and a content classifier.
//
// Example Usage:
//
//	history := stream.NewRingBuffer(64 * 1024)
//	analyzer := stream.NewAnalyzer(stream.AnalyzerConfig{})
//
//	chunk, _ := sess.ReadAsync(ctx)
//	history.Push(chunk)
//	switch analyzer.Analyze(chunk) {
//	case stream.BuildError:
//		// offer a log summary
//	}
package stream
