package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/submission"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	textAreas    []string
	prompts      []string
	infoMessages []string
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type credentials struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Remember bool   `form:"remember"`
}

func loginForm() *dom.Form {
	form := dom.New("login")
	form.AddInput("email", "", dom.WithType("email"), dom.WithLabel("Email"))
	form.AddInput("password", "", dom.WithType("password"), dom.WithLabel("Password"))
	form.AddCheckbox("remember", false, dom.WithLabel("Remember me"))
	form.AddSubmit("Login")
	return form
}

func attach(t *testing.T, session *Session, form *dom.Form, submit submission.SubmitFunc[credentials]) {
	t.Helper()
	ctrl, err := submission.New(submission.Config[credentials]{
		Validator: validation.Struct[credentials](),
		OnSubmit:  submit,
		OnError:   session.ErrorSink(),
		OnBusy:    session.BusySink(),
	})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	ctrl.Attach(form)
}

func TestSession_RetriesFromInvalidField(t *testing.T) {
	form := loginForm()
	driver := &stubDriver{
		inputs:    []string{"bad", "john@example.com"},
		passwords: []string{"secret1", "secret1"},
		confirm:   []bool{true, true},
	}
	session, err := NewSession(form,
		WithPromptDriver(driver),
		WithTheme(Theme{PromptPrefix: "? ", InfoPrefix: "- ", ErrorPrefix: "! "}),
		WithSuccessMessage("Signed in"),
	)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	var got []credentials
	attach(t, session, form, func(_ context.Context, data credentials) submission.Outcome {
		got = append(got, data)
		return submission.Accepted()
	})

	report, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(Report{Attempts: 2, Accepted: true, Message: "Email is not formatted correctly"}, report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{"! Email is not formatted correctly", "- Processing...", "- Signed in"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	wantPrompts := []string{"? Email", "? Password", "? Remember me", "? Email", "? Password", "? Remember me"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	want := []credentials{{Email: "john@example.com", Password: "secret1", Remember: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted data mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_StartsAtFocusedControl(t *testing.T) {
	form := loginForm()
	driver := &stubDriver{
		inputs:    []string{"john@example.com", "john@example.com"},
		passwords: []string{"123", "secret1"},
		confirm:   []bool{false, false},
	}
	session, err := NewSession(form, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	attach(t, session, form, func(context.Context, credentials) submission.Outcome { return submission.Accepted() })

	if _, err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	wantPrompts := []string{"Email", "Password", "Remember me", "Password", "Remember me", "Email"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_AttemptsExhausted(t *testing.T) {
	form := loginForm()
	driver := &stubDriver{
		inputs:    []string{"john@example.com", "john@example.com"},
		passwords: []string{"secret1", "secret1"},
		confirm:   []bool{false, false},
	}
	session, err := NewSession(form, WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	attach(t, session, form, func(context.Context, credentials) submission.Outcome {
		return submission.Refused("Invalid password")
	})

	report, err := session.Run(context.Background())
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if report.Attempts != 2 || report.Accepted || report.Message != "Invalid password" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestSession_AbortStopsRun(t *testing.T) {
	form := loginForm()
	driver := &abortingDriver{}
	session, err := NewSession(form, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if _, err := session.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestSession_SelectsAndTextAreas(t *testing.T) {
	form := dom.New("profile")
	form.AddSelect("plan", "free", []string{"free", "pro"})
	form.Add(submission.KindRadio, "size", dom.WithLabel("Small"), dom.WithChecked())
	small, _ := form.Control("size")
	small.SetValue("s")
	large := form.Add(submission.KindRadio, "size", dom.WithLabel("Large"))
	large.SetValue("l")
	bio := form.AddTextArea("bio", "")
	form.AddSubmit("Save")

	driver := &stubDriver{selectIdx: []int{1, 1}, textAreas: []string{"hello"}}
	session, err := NewSession(form, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	var got map[string]string
	ctrl, err := submission.New(submission.Config[map[string]string]{
		Validator: submission.ValidatorFunc[map[string]string](func(_ context.Context, values submission.FieldValues) (submission.Validation[map[string]string], error) {
			return submission.Valid(values.Map()), nil
		}),
		OnSubmit: func(_ context.Context, data map[string]string) submission.Outcome {
			got = data
			return submission.Accepted()
		},
		OnError: session.ErrorSink(),
	})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	ctrl.Attach(form)

	if _, err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := map[string]string{"plan": "pro", "size": "l", "bio": "hello"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if bio.Value() != "hello" {
		t.Fatalf("unexpected bio %q", bio.Value())
	}
}

func TestNewSession_RequiresSubmitButton(t *testing.T) {
	session, err := NewSession(dom.New("empty"), WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if _, err := session.Run(context.Background()); !errors.Is(err, ErrNoSubmitButton) {
		t.Fatalf("expected ErrNoSubmitButton, got %v", err)
	}
	if _, err := NewSession(nil); err == nil {
		t.Fatalf("expected error for nil form")
	}
}

type abortingDriver struct{ stubDriver }

func (a *abortingDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}
