// Package injector offers tool suggestions to the wrapped CLI by writing
// them to its input, throttled to one per interval.
//
// Example Usage:
//
//	inj := injector.New(5*time.Second, true)
//	content := analyzer.Analyze(chunk)
//	if s, ok, err := inj.Offer(sess, content); ok {
//		logger.Info("Injected suggestion", zap.Stringer("type", s.Type))
//	} else if err != nil {
//		logger.Warn("Injection failed", zap.Error(err))
//	}
package injector
