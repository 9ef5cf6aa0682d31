// Package prompt drives a live form through an interactive terminal session.
// Each answer flows through the form engine so validation, including async
// checks, behaves exactly as it does for other front ends.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/definition"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/render"
)

// SelectSource produces the selectable options for a field given the values
// collected so far. Returning an empty slice skips the field, which lets a
// dependent select stay hidden until its parent has a value.
type SelectSource func(values map[string]any) []string

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the terminal driver.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithMessages overrides the violation message templates.
func WithMessages(messages map[string]string) Option {
	return func(s *Session) {
		if messages != nil {
			s.messages = messages
		}
	}
}

// WithSelectSource registers a dynamic option source for the named field.
func WithSelectSource(name string, source SelectSource) Option {
	return func(s *Session) {
		if name == "" || source == nil {
			return
		}
		if s.sources == nil {
			s.sources = make(map[string]SelectSource)
		}
		s.sources[name] = source
	}
}

// Session walks a user through every field of a form and submits it.
type Session struct {
	def     definition.Definition
	form    *form.Form
	flow    *flow.Controller
	driver  Driver
	sources map[string]SelectSource

	messages map[string]string
}

// New builds a session around an existing form and submission controller.
func New(def definition.Definition, f *form.Form, ctl *flow.Controller, options ...Option) (*Session, error) {
	if f == nil {
		return nil, errors.New("prompt: form is required")
	}
	if ctl == nil {
		return nil, errors.New("prompt: controller is required")
	}
	s := &Session{
		def:    def,
		form:   f,
		flow:   ctl,
		driver: NewSurveyDriver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Run collects a value for every field in order, then submits the form. It
// returns ErrAborted when the user bails out, or the submission error.
func (s *Session) Run(ctx context.Context) error {
	for _, st := range s.form.Fields() {
		meta, ok := s.def.FieldByName(st.Name)
		if !ok {
			continue
		}
		var err error
		switch {
		case meta.IsList():
			err = s.collectList(ctx, meta)
		case s.hasOptions(meta):
			err = s.collectSelect(ctx, st, meta)
		default:
			err = s.collectInput(ctx, st, meta)
		}
		if err != nil {
			return err
		}
	}

	confirmed, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrAborted
	}

	if err := s.flow.Submit(ctx); err != nil {
		if errors.Is(err, flow.ErrInvalid) {
			s.reportInvalid(ctx)
		}
		return err
	}
	return s.driver.Info(ctx, "Form submitted successfully.")
}

func (s *Session) collectInput(ctx context.Context, st form.FieldState, meta definition.Field) error {
	for {
		value, err := s.driver.Input(ctx, InputConfig{
			Message: labelFor(meta),
			Default: st.Value,
			Help:    meta.Description,
		})
		if err != nil {
			return err
		}

		ok, err := s.applyValue(ctx, meta.Name, value)
		if err != nil || ok {
			return err
		}
	}
}

func (s *Session) collectSelect(ctx context.Context, st form.FieldState, meta definition.Field) error {
	options := s.selectOptions(meta)
	if len(options) == 0 {
		return nil
	}

	defaultIndex := indexOf(options, st.Value)
	if defaultIndex < 0 {
		defaultIndex = 0
	}
	choice, err := s.driver.Select(ctx, SelectConfig{
		Message:      labelFor(meta),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         meta.Description,
	})
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(options) {
		return fmt.Errorf("prompt: selection out of range for %q", meta.Name)
	}

	_, err = s.applyValue(ctx, meta.Name, options[choice])
	return err
}

func (s *Session) collectList(ctx context.Context, meta definition.Field) error {
	label := labelFor(meta)
	for {
		more, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Add " + label + "?", Default: false})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		index, err := s.form.Append(meta.Name)
		if err != nil {
			return err
		}
		for {
			value, err := s.driver.Input(ctx, InputConfig{Message: label})
			if err != nil {
				return err
			}
			if err := s.form.SetItem(meta.Name, index, value); err != nil {
				return err
			}
			_ = s.form.Touch(meta.Name)

			st, _ := s.form.Field(meta.Name)
			if index >= len(st.Items) || st.Items[index].Valid() {
				break
			}
			for _, violation := range st.Items[index].Violations {
				if err := s.driver.Info(ctx, render.Message(violation, s.messages)); err != nil {
					return err
				}
			}
		}
	}
}

// applyValue pushes a value into the form, waits for async checks to settle,
// and reports the remaining violations. It returns true once the field is
// valid.
func (s *Session) applyValue(ctx context.Context, name, value string) (bool, error) {
	if err := s.form.SetValue(ctx, name, value); err != nil {
		return false, err
	}
	if err := s.form.Touch(name); err != nil {
		return false, err
	}
	if err := s.form.Wait(ctx); err != nil {
		return false, err
	}

	st, ok := s.form.Field(name)
	if !ok || st.Valid() {
		return true, nil
	}
	for _, violation := range st.Violations {
		if err := s.driver.Info(ctx, render.Message(violation, s.messages)); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (s *Session) reportInvalid(ctx context.Context) {
	for _, st := range s.form.Fields() {
		if st.Valid() {
			continue
		}
		for _, violation := range st.Violations {
			_ = s.driver.Info(ctx, st.Label+": "+render.Message(violation, s.messages))
		}
	}
}

func (s *Session) hasOptions(meta definition.Field) bool {
	if _, ok := s.sources[meta.Name]; ok {
		return true
	}
	return len(meta.Enum) > 0
}

func (s *Session) selectOptions(meta definition.Field) []string {
	if source, ok := s.sources[meta.Name]; ok {
		return source(s.form.Values())
	}
	out := make([]string, 0, len(meta.Enum))
	for _, value := range meta.Enum {
		if str, ok := value.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func labelFor(meta definition.Field) string {
	if meta.Label != "" {
		return meta.Label
	}
	return meta.Name
}
