package tui

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// Session drives a dom.Form from the terminal. Each attempt prompts every
// enabled control, starting at the focused one, then activates the submit
// button. Feedback is read back from the form's alert element, so the
// controller handling the form must report through ErrorSink.
type Session struct {
	form           *dom.Form
	driver         PromptDriver
	theme          Theme
	maxAttempts    int
	busyLabel      string
	successMessage string

	mu  sync.Mutex
	ctx context.Context
}

// Report summarises a finished session.
type Report struct {
	Attempts int
	Accepted bool
	// Message is the last error shown, if any.
	Message string
}

// NewSession binds a form to the terminal.
func NewSession(form *dom.Form, opts ...Option) (*Session, error) {
	if form == nil {
		return nil, errors.New("tui: form is required")
	}
	s := &Session{
		form:        form,
		maxAttempts: defaultMaxAttempts,
		busyLabel:   defaultBusyLabel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// ErrorSink routes controller messages into the form's alert element.
func (s *Session) ErrorSink() submission.ErrorSink {
	return submission.ErrorElement(s.form.Alert())
}

// BusySink prints the busy label when a submission starts.
func (s *Session) BusySink() submission.BusySink {
	return submission.BusyCallback(func(busy bool) {
		if busy {
			_ = s.driver.Info(s.context(), s.theme.InfoPrefix+s.busyLabel)
		}
	})
}

// Run fills in and submits the form until it settles without an error or
// the attempts run out.
func (s *Session) Run(ctx context.Context) (Report, error) {
	if _, ok := s.form.SubmitButton(); !ok {
		return Report{}, ErrNoSubmitButton
	}
	s.setContext(ctx)
	defer s.setContext(nil)

	var report Report
	for report.Attempts < s.maxAttempts {
		report.Attempts++
		if err := s.fill(ctx); err != nil {
			return report, err
		}

		clicked, err := s.form.Click(ctx, "")
		if err != nil {
			return report, err
		}
		if !clicked {
			_ = s.driver.Info(ctx, s.theme.InfoPrefix+"Submit is disabled; try again")
			continue
		}

		message := s.form.Alert().Text()
		if message == "" {
			report.Accepted = true
			if s.successMessage != "" {
				_ = s.driver.Info(ctx, s.theme.InfoPrefix+s.successMessage)
			}
			return report, nil
		}
		report.Message = message
		if err := s.driver.Info(ctx, s.theme.ErrorPrefix+message); err != nil {
			return report, err
		}
	}
	return report, ErrAttemptsExhausted
}

// fill prompts every enabled, non-button control once. Radios sharing a name
// are asked as a single choice.
func (s *Session) fill(ctx context.Context) error {
	asked := make(map[string]bool)
	for _, control := range s.order() {
		if control.Kind().IsButton() || control.Disabled() {
			continue
		}
		if control.Kind() == submission.KindRadio {
			if asked[control.Name()] {
				continue
			}
			asked[control.Name()] = true
		}
		if err := s.prompt(ctx, control); err != nil {
			return err
		}
	}
	return nil
}

// order returns the controls rotated so the focused one comes first.
func (s *Session) order() []*dom.Control {
	controls := s.form.Elements()
	focused, ok := s.form.Focused()
	if !ok {
		return controls
	}
	for i, control := range controls {
		if control == focused {
			return append(controls[i:], controls[:i]...)
		}
	}
	return controls
}

func (s *Session) prompt(ctx context.Context, control *dom.Control) error {
	message := s.theme.PromptPrefix + s.label(control)

	switch control.Kind() {
	case submission.KindCheckbox:
		checked, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: control.Checked()})
		if err != nil {
			return err
		}
		control.SetChecked(checked)
	case submission.KindSelect:
		options := control.Options()
		index, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, control.Value()),
		})
		if err != nil {
			return err
		}
		if index >= 0 && index < len(options) {
			control.SetValue(options[index])
		}
	case submission.KindRadio:
		return s.promptRadios(ctx, message, control.Name())
	case submission.KindTextArea:
		value, err := s.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: control.Value()})
		if err != nil {
			return err
		}
		control.SetValue(value)
	default:
		cfg := InputConfig{Message: message, Default: control.Value()}
		var (
			value string
			err   error
		)
		if control.Type() == "password" {
			cfg.Default = ""
			value, err = s.driver.Password(ctx, cfg)
		} else {
			value, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		control.SetValue(value)
	}
	return nil
}

func (s *Session) promptRadios(ctx context.Context, message, name string) error {
	var (
		group    []*dom.Control
		options  []string
		selected = -1
	)
	for _, control := range s.form.Elements() {
		if control.Kind() != submission.KindRadio || control.Name() != name || control.Disabled() {
			continue
		}
		if control.Checked() {
			selected = len(group)
		}
		group = append(group, control)
		options = append(options, radioOption(control))
	}
	index, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: selected})
	if err != nil {
		return err
	}
	if index >= 0 && index < len(group) {
		group[index].SetChecked(true)
	}
	return nil
}

func radioOption(control *dom.Control) string {
	if label := control.Label(); label != "" {
		return label
	}
	return control.Value()
}

func (s *Session) label(control *dom.Control) string {
	if label := control.Label(); label != "" {
		return label
	}
	return model.DefaultLabeler(control.Name())
}

func (s *Session) setContext(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *Session) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}
