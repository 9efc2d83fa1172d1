package injector

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/ctxopt/internal/stream"
)

// DefaultInterval is the minimum spacing between two injections.
const DefaultInterval = 5 * time.Second

// Writer is the input path suggestions are written to.
type Writer interface {
	WriteString(text string) error
}

// Injector decides when a suggestion may be written back to the child.
// At most one injection is allowed per interval.
type Injector struct {
	interval time.Duration
	enabled  bool

	offerMu sync.Mutex

	mu      sync.Mutex
	limiter *rate.Limiter // nil when unthrottled
	now     func() time.Time
}

// New creates an injector allowing one injection per interval. A zero
// interval disables throttling.
func New(interval time.Duration, enabled bool) *Injector {
	return &Injector{
		interval: interval,
		enabled:  enabled,
		limiter:  newLimiter(interval),
		now:      time.Now,
	}
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Interval returns the minimum spacing between injections.
func (i *Injector) Interval() time.Duration {
	return i.interval
}

// Enabled reports whether suggestions are offered at all.
func (i *Injector) Enabled() bool {
	return i.enabled
}

// CanInject reports whether the throttle window has elapsed. It does not
// consume the window.
func (i *Injector) CanInject() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.limiter == nil {
		return true
	}
	return i.limiter.TokensAt(i.now()) >= 1
}

// MarkInjected starts a new throttle window at the current time.
func (i *Injector) MarkInjected() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.limiter = newLimiter(i.interval)
	if i.limiter != nil {
		i.limiter.AllowN(i.now(), 1)
	}
}

// Offer writes the suggestion for content to w when suggestions are enabled,
// one exists for content and the throttle allows it. The text is written
// without a newline so it never submits the prompt on its own.
func (i *Injector) Offer(w Writer, content stream.ContentType) (Suggestion, bool, error) {
	if !i.enabled {
		return Suggestion{}, false, nil
	}

	i.offerMu.Lock()
	defer i.offerMu.Unlock()

	suggestion, ok := SuggestionFor(content)
	if !ok || !i.CanInject() {
		return Suggestion{}, false, nil
	}
	if err := w.WriteString(suggestion.Text); err != nil {
		return suggestion, false, fmt.Errorf("failed to inject %s suggestion: %w", suggestion.Type, err)
	}
	i.MarkInjected()
	return suggestion, true, nil
}
