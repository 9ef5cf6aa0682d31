// Package form implements the runtime side of a form definition: live field
// values, dirty/touched tracking, per-field violation state, dynamic list
// fields, and asynchronous validation with latest-value-wins semantics.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// ErrClosed is returned by mutating calls after Close.
var ErrClosed = errors.New("form: closed")

// Form holds the runtime state for one definition instance. All exported
// methods are safe for concurrent use.
type Form struct {
	def definition.Definition

	mu      sync.Mutex
	fields  map[string]*field
	order   []string
	pending int
	idle    chan struct{}
	closed  bool
}

// Option customises form construction.
type Option func(*config)

type config struct {
	rules      map[string][]validate.Rule
	itemRules  map[string][]validate.Rule
	asyncRules map[string]asyncConfig
	order      []string
}

type asyncConfig struct {
	rule validate.AsyncRule
	opts []validate.AsyncOption
}

// WithRules appends synchronous rules to the named field, on top of the rules
// compiled from its definition.
func WithRules(name string, rules ...validate.Rule) Option {
	return func(cfg *config) {
		cfg.rules[name] = append(cfg.rules[name], rules...)
	}
}

// WithItemRules appends rules applied to each entry of the named list field.
func WithItemRules(name string, rules ...validate.Rule) Option {
	return func(cfg *config) {
		cfg.itemRules[name] = append(cfg.itemRules[name], rules...)
	}
}

// WithAsyncRule attaches an asynchronous rule to the named field. Each value
// change supersedes the previous in-flight check.
func WithAsyncRule(name string, rule validate.AsyncRule, opts ...validate.AsyncOption) Option {
	return func(cfg *config) {
		cfg.asyncRules[name] = asyncConfig{rule: rule, opts: opts}
	}
}

// WithFieldOrder overrides the presentation order of top-level fields. Names
// not listed keep their definition order after the listed ones.
func WithFieldOrder(names ...string) Option {
	return func(cfg *config) {
		cfg.order = append([]string(nil), names...)
	}
}

// New instantiates runtime state for the definition, compiling each field's
// declared constraints into rules and applying any option-supplied extras.
// Fields start untouched but already validated, so a form with unmet required
// fields reports invalid before the first keystroke.
func New(def definition.Definition, options ...Option) (*Form, error) {
	cfg := config{
		rules:      make(map[string][]validate.Rule),
		itemRules:  make(map[string][]validate.Rule),
		asyncRules: make(map[string]asyncConfig),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	f := &Form{
		def:    def,
		fields: make(map[string]*field, len(def.Fields)),
	}

	for _, fieldDef := range def.Fields {
		compiled, err := validate.CompileField(fieldDef)
		if err != nil {
			return nil, fmt.Errorf("form: field %q: %w", fieldDef.Name, err)
		}
		compiled = append(compiled, cfg.rules[fieldDef.Name]...)

		fld := newField(fieldDef, compiled)
		if fieldDef.IsList() {
			itemCompiled, err := validate.CompileField(itemDefinition(fieldDef))
			if err != nil {
				return nil, fmt.Errorf("form: field %q items: %w", fieldDef.Name, err)
			}
			fld.itemRules = append(itemCompiled, cfg.itemRules[fieldDef.Name]...)
		}
		if async, ok := cfg.asyncRules[fieldDef.Name]; ok {
			fld.async = validate.NewAsync(async.rule, async.opts...)
		}
		f.fields[fieldDef.Name] = fld
		f.order = append(f.order, fieldDef.Name)
	}

	for name := range cfg.rules {
		if _, ok := f.fields[name]; !ok {
			return nil, fmt.Errorf("form: rules for unknown field %q", name)
		}
	}
	for name := range cfg.itemRules {
		if _, ok := f.fields[name]; !ok {
			return nil, fmt.Errorf("form: item rules for unknown field %q", name)
		}
	}
	for name := range cfg.asyncRules {
		if _, ok := f.fields[name]; !ok {
			return nil, fmt.Errorf("form: async rule for unknown field %q", name)
		}
	}

	if len(cfg.order) > 0 {
		order, err := mergeOrder(cfg.order, f.order)
		if err != nil {
			return nil, err
		}
		f.order = order
	}

	return f, nil
}

func mergeOrder(preferred, existing []string) ([]string, error) {
	seen := make(map[string]bool, len(existing))
	known := make(map[string]bool, len(existing))
	for _, name := range existing {
		known[name] = true
	}

	out := make([]string, 0, len(existing))
	for _, name := range preferred {
		if !known[name] {
			return nil, fmt.Errorf("form: field order names unknown field %q", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range existing {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

// Definition returns the definition this form was instantiated from.
func (f *Form) Definition() definition.Definition {
	return f.def
}

// SetValue updates a scalar field, marks it dirty, reruns its sync rules, and
// schedules its async rule when one is attached. The context bounds the async
// check; a later SetValue supersedes it.
func (f *Form) SetValue(ctx context.Context, name, value string) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	fld, ok := f.fields[name]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("form: unknown field %q", name)
	}
	if fld.isList() {
		f.mu.Unlock()
		return fmt.Errorf("form: field %q is a list, use SetItem", name)
	}

	fld.value = value
	fld.dirty = true
	fld.revalidate()

	if fld.async == nil {
		f.mu.Unlock()
		return nil
	}

	fld.asyncSeq++
	seq := fld.asyncSeq
	fld.asyncViolation = nil
	f.markPending(fld)
	runner := fld.async
	f.mu.Unlock()

	// Scheduled outside the form lock: the runner publishes under its own
	// lock and re-enters ours.
	runner.Check(ctx, value, func(v *validate.Violation) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.closed || seq != fld.asyncSeq {
			return
		}
		fld.asyncViolation = v
		f.clearPending(fld)
	})
	return nil
}

// Touch marks a field as visited without changing its value.
func (f *Form) Touch(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fld, ok := f.fields[name]
	if !ok {
		return fmt.Errorf("form: unknown field %q", name)
	}
	fld.touched = true
	return nil
}

// TouchAll marks every field (and list entry) as visited, the usual move
// before a submit attempt so untouched errors become visible.
func (f *Form) TouchAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fld := range f.fields {
		fld.touched = true
		for _, entry := range fld.entries {
			entry.touched = true
		}
	}
}

// Append adds an empty entry to the named list field and returns its index.
func (f *Form) Append(name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, ErrClosed
	}
	fld, err := f.listField(name)
	if err != nil {
		return 0, err
	}
	fld.entries = append(fld.entries, fld.newEntry())
	return len(fld.entries) - 1, nil
}

// RemoveAt deletes the entry at index from the named list field, preserving
// the relative order of the remaining entries.
func (f *Form) RemoveAt(name string, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	fld, err := f.listField(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(fld.entries) {
		return fmt.Errorf("form: field %q has no entry %d", name, index)
	}
	fld.entries = append(fld.entries[:index], fld.entries[index+1:]...)
	return nil
}

// SetItem updates the list entry at index.
func (f *Form) SetItem(name string, index int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	fld, err := f.listField(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(fld.entries) {
		return fmt.Errorf("form: field %q has no entry %d", name, index)
	}
	entry := fld.entries[index]
	entry.value = value
	entry.dirty = true
	entry.revalidate()
	return nil
}

func (f *Form) listField(name string) (*field, error) {
	fld, ok := f.fields[name]
	if !ok {
		return nil, fmt.Errorf("form: unknown field %q", name)
	}
	if !fld.isList() {
		return nil, fmt.Errorf("form: field %q is not a list", name)
	}
	return fld, nil
}

// Field returns a snapshot of the named field.
func (f *Form) Field(name string) (FieldState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fld, ok := f.fields[name]
	if !ok {
		return FieldState{}, false
	}
	return fld.snapshot(), true
}

// Fields returns snapshots of every field in presentation order.
func (f *Form) Fields() []FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FieldState, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.fields[name].snapshot())
	}
	return out
}

// Valid reports whether every field has settled with no violations and no
// async check is in flight.
func (f *Form) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	for _, fld := range f.fields {
		if !fld.settled() {
			return false
		}
	}
	return true
}

// Values returns the current values: strings for scalar fields, string
// slices for list fields.
func (f *Form) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]any, len(f.fields))
	for name, fld := range f.fields {
		if fld.isList() {
			items := make([]string, 0, len(fld.entries))
			for _, entry := range fld.entries {
				items = append(items, entry.value)
			}
			out[name] = items
			continue
		}
		out[name] = fld.value
	}
	return out
}

// Reset returns the form to its pristine state: values cleared, flags reset,
// list fields collapsed to empty, and in-flight async checks discarded.
func (f *Form) Reset() {
	f.mu.Lock()
	var runners []*validate.Async
	for _, fld := range f.fields {
		if fld.async != nil {
			runners = append(runners, fld.async)
		}
		fld.value = ""
		fld.touched = false
		fld.dirty = false
		fld.asyncViolation = nil
		fld.asyncSeq++
		fld.entries = nil
		if fld.pending {
			fld.pending = false
			f.pending--
		}
		fld.revalidate()
	}
	f.signalIdleLocked()
	f.mu.Unlock()

	// Cancelled outside the form lock; see SetValue.
	for _, runner := range runners {
		runner.Cancel()
	}
}

// Wait blocks until no async validation is in flight or ctx expires.
func (f *Form) Wait(ctx context.Context) error {
	f.mu.Lock()
	if f.pending == 0 {
		f.mu.Unlock()
		return nil
	}
	if f.idle == nil {
		f.idle = make(chan struct{})
	}
	idle := f.idle
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-idle:
		return nil
	}
}

// Close tears the form down: pending async work is cancelled and further
// mutations fail with ErrClosed. Close is idempotent.
func (f *Form) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	var runners []*validate.Async
	for _, fld := range f.fields {
		if fld.async != nil {
			runners = append(runners, fld.async)
		}
		if fld.pending {
			fld.pending = false
			f.pending--
		}
	}
	f.signalIdleLocked()
	f.mu.Unlock()

	for _, runner := range runners {
		runner.Cancel()
	}
}

func (f *Form) markPending(fld *field) {
	if !fld.pending {
		fld.pending = true
		f.pending++
	}
}

func (f *Form) clearPending(fld *field) {
	if fld.pending {
		fld.pending = false
		f.pending--
		f.signalIdleLocked()
	}
}

func (f *Form) signalIdleLocked() {
	if f.pending == 0 && f.idle != nil {
		close(f.idle)
		f.idle = nil
	}
}
