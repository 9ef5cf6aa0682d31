// Package flow drives the submit lifecycle of a runtime form: Editing →
// Submitting → ShowingSuccess → (timed reset) → Editing.
package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-formflow/pkg/form"
)

// State enumerates the submission lifecycle.
type State string

const (
	StateEditing        State = "editing"
	StateSubmitting     State = "submitting"
	StateShowingSuccess State = "showingSuccess"
)

var (
	// ErrInvalid is returned when Submit is called on a form that has not
	// settled valid.
	ErrInvalid = errors.New("flow: form is not valid")
	// ErrBusy is returned when a submission is already in flight or the
	// success banner is still showing.
	ErrBusy = errors.New("flow: submission in progress")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("flow: controller closed")
)

// DefaultSuccessDelay is how long the success state holds before the form
// resets.
const DefaultSuccessDelay = 3000 * time.Millisecond

// SubmitFunc performs the actual submission from the form's current values.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// AfterFunc schedules fn after d and returns a stop function. The default is
// backed by time.AfterFunc; tests inject a manual trigger.
type AfterFunc func(d time.Duration, fn func()) (stop func() bool)

// Controller owns the submission state machine for one form.
type Controller struct {
	form   *form.Form
	submit SubmitFunc
	delay  time.Duration
	after  AfterFunc

	mu        sync.Mutex
	state     State
	stopReset func() bool
	closed    bool
	observers []func(State)
}

// Option customises the controller.
type Option func(*Controller)

// WithSuccessDelay overrides how long the success state is held before reset.
func WithSuccessDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithAfterFunc injects the timer implementation used for the success delay.
func WithAfterFunc(after AfterFunc) Option {
	return func(c *Controller) {
		if after != nil {
			c.after = after
		}
	}
}

// WithObserver registers a callback invoked on every state change. Observers
// run outside the controller lock, in transition order.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// New constructs a controller for the form and submit function.
func New(f *form.Form, submit SubmitFunc, options ...Option) (*Controller, error) {
	if f == nil {
		return nil, errors.New("flow: form is required")
	}
	if submit == nil {
		return nil, errors.New("flow: submit func is required")
	}

	c := &Controller{
		form:   f,
		submit: submit,
		delay:  DefaultSuccessDelay,
		state:  StateEditing,
		after: func(d time.Duration, fn func()) func() bool {
			return time.AfterFunc(d, fn).Stop
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ShowingSuccess reports whether the success banner is currently visible.
func (c *Controller) ShowingSuccess() bool {
	return c.State() == StateShowingSuccess
}

// Submit runs one submission attempt: it touches every field, waits for
// in-flight async validation to settle, verifies overall validity, and calls
// the submit function. On success the controller shows the success state for
// the configured delay, then resets the form and returns to editing. On
// failure it returns to editing and surfaces the error; no retry is
// attempted.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateEditing {
		c.mu.Unlock()
		return ErrBusy
	}
	c.mu.Unlock()

	c.form.TouchAll()
	if err := c.form.Wait(ctx); err != nil {
		return err
	}
	if !c.form.Valid() {
		return ErrInvalid
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateEditing {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateSubmitting
	c.mu.Unlock()
	c.notify(StateSubmitting)

	if err := c.submit(ctx, c.form.Values()); err != nil {
		c.mu.Lock()
		if !c.closed {
			c.state = StateEditing
		}
		c.mu.Unlock()
		c.notify(StateEditing)
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state = StateShowingSuccess
	c.stopReset = c.after(c.delay, c.finishSuccess)
	c.mu.Unlock()
	c.notify(StateShowingSuccess)
	return nil
}

// finishSuccess fires when the success delay elapses: the form is cleared,
// list fields collapse, and the controller returns to editing.
func (c *Controller) finishSuccess() {
	c.mu.Lock()
	if c.closed || c.state != StateShowingSuccess {
		c.mu.Unlock()
		return
	}
	c.state = StateEditing
	c.stopReset = nil
	c.mu.Unlock()

	c.form.Reset()
	c.notify(StateEditing)
}

// Close cancels any pending reset so callbacks cannot fire into a torn-down
// front end. It does not close the underlying form; owners that created the
// form close it themselves.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	stop := c.stopReset
	c.stopReset = nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (c *Controller) notify(state State) {
	for _, fn := range c.observers {
		fn(state)
	}
}
