package form

import (
	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/validate"
)

// field is the mutable runtime state behind a single control. All access is
// guarded by the owning Form's mutex except the async runner, which carries
// its own synchronisation.
type field struct {
	def     definition.Field
	value   string
	touched bool
	dirty   bool

	rules      []validate.Rule
	violations []validate.Violation

	async          *validate.Async
	asyncViolation *validate.Violation
	asyncSeq       uint64
	pending        bool

	// List fields: dynamically sized entries, each validated independently.
	itemRules []validate.Rule
	entries   []*field
}

func newField(def definition.Field, rules []validate.Rule) *field {
	f := &field{def: def, rules: rules}
	f.revalidate()
	return f
}

func (f *field) newEntry() *field {
	entry := &field{
		def:   itemDefinition(f.def),
		rules: f.itemRules,
	}
	entry.revalidate()
	return entry
}

func itemDefinition(list definition.Field) definition.Field {
	if list.Items != nil {
		return *list.Items
	}
	return definition.Field{Name: list.Name + "Item", Type: definition.FieldTypeString}
}

// revalidate runs every sync rule against the current value.
func (f *field) revalidate() {
	f.violations = f.violations[:0]
	for _, rule := range f.rules {
		if rule == nil {
			continue
		}
		if v := rule(f.value); v != nil {
			f.violations = append(f.violations, *v)
		}
	}
}

func (f *field) isList() bool {
	return f.def.IsList()
}

// settled reports whether the field (and, for lists, every entry) has no
// violations and no async work in flight.
func (f *field) settled() bool {
	if f.pending || len(f.violations) > 0 || f.asyncViolation != nil {
		return false
	}
	for _, entry := range f.entries {
		if !entry.settled() {
			return false
		}
	}
	return true
}

func (f *field) snapshot() FieldState {
	state := FieldState{
		Name:    f.def.Name,
		Label:   f.def.Label,
		Value:   f.value,
		Touched: f.touched,
		Dirty:   f.dirty,
		Pending: f.pending,
	}
	if len(f.violations) > 0 || f.asyncViolation != nil {
		state.Violations = make([]validate.Violation, 0, len(f.violations)+1)
		state.Violations = append(state.Violations, f.violations...)
		if f.asyncViolation != nil {
			state.Violations = append(state.Violations, *f.asyncViolation)
		}
	}
	if len(f.entries) > 0 {
		state.Items = make([]FieldState, 0, len(f.entries))
		for _, entry := range f.entries {
			state.Items = append(state.Items, entry.snapshot())
		}
	}
	return state
}
