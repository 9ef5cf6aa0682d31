package validate

import (
	"context"
	"errors"
	"sync"
	"time"
)

// AsyncRule is a predicate that needs a round trip to an external service.
// A nil Violation with nil error means the value passed. Errors are reported
// to the runner, which applies the fail-open policy.
type AsyncRule func(ctx context.Context, value string) (*Violation, error)

// Remote adapts a boolean lookup into an AsyncRule: a true result maps to the
// given violation tag, false to no violation. Transport errors pass through
// for the runner to handle.
func Remote(tag string, lookup func(ctx context.Context, value string) (bool, error)) AsyncRule {
	return func(ctx context.Context, value string) (*Violation, error) {
		if value == "" {
			return nil, nil
		}
		hit, err := lookup(ctx, value)
		if err != nil {
			return nil, err
		}
		if hit {
			return NewViolation(tag), nil
		}
		return nil, nil
	}
}

// Async executes an AsyncRule with latest-value-wins semantics: every Check
// supersedes the previous one, cancelling its context, and only the most
// recent check may publish a result. Rule errors are swallowed and published
// as "no violation" (fail-open) so a backend outage does not pin a stale
// violation on the field.
type Async struct {
	rule     AsyncRule
	debounce time.Duration

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	pending bool
	idle    chan struct{}
}

// AsyncOption configures an Async runner.
type AsyncOption func(*Async)

// WithDebounce delays each check so a rapid burst of value changes issues a
// single lookup. Superseded checks are cancelled while still waiting.
func WithDebounce(d time.Duration) AsyncOption {
	return func(a *Async) {
		if d > 0 {
			a.debounce = d
		}
	}
}

// NewAsync constructs a runner for the given rule.
func NewAsync(rule AsyncRule, options ...AsyncOption) *Async {
	a := &Async{rule: rule}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// Pending reports whether the latest check has not completed yet.
func (a *Async) Pending() bool {
	if a == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Check schedules the rule for value. publish is invoked at most once with
// the outcome; a newer Check supersedes this one and suppresses its result.
// publish runs on the runner's goroutine while the runner lock is held, so it
// must not call back into this Async.
func (a *Async) Check(ctx context.Context, value string, publish func(*Violation)) {
	if a == nil || a.rule == nil {
		if publish != nil {
			publish(nil)
		}
		return
	}

	a.mu.Lock()
	a.gen++
	gen := a.gen
	if a.cancel != nil {
		a.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.pending = true
	a.mu.Unlock()

	go a.run(runCtx, gen, value, publish)
}

func (a *Async) run(ctx context.Context, gen uint64, value string, publish func(*Violation)) {
	if a.debounce > 0 {
		timer := time.NewTimer(a.debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			a.finish(gen, nil, publish)
			return
		case <-timer.C:
		}
	}

	violation, err := a.rule(ctx, value)
	if err != nil || errors.Is(ctx.Err(), context.Canceled) {
		// Fail-open: neither a broken check nor a cancelled one may block
		// the user.
		violation = nil
	}
	a.finish(gen, violation, publish)
}

// finish settles a completed check. The generation guard and the publish call
// share the lock so a superseded result can never land after a newer check
// already started. Supersede and Cancel bump the generation, so a cancelled
// check that is still current publishes its nil result and clears the
// caller's pending state.
func (a *Async) finish(gen uint64, violation *Violation, publish func(*Violation)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	a.pending = false
	if a.idle != nil {
		close(a.idle)
		a.idle = nil
	}
	if publish != nil {
		publish(violation)
	}
}

// Cancel aborts any in-flight check without publishing a result.
func (a *Async) Cancel() {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.gen++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.pending = false
	if a.idle != nil {
		close(a.idle)
		a.idle = nil
	}
	a.mu.Unlock()
}

// Wait blocks until the latest check settles or ctx expires.
func (a *Async) Wait(ctx context.Context) error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return nil
	}
	if a.idle == nil {
		a.idle = make(chan struct{})
	}
	idle := a.idle
	a.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-idle:
		return nil
	}
}
