package metrics

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/submission"
)

func newLoginForm() *dom.Form {
	form := dom.New("login")
	form.AddInput("email", "")
	form.AddSubmit("Login")
	return form
}

func TestRecorder_CountsSettledAttempts(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}

	form := newLoginForm()
	ctrl, err := submission.New(submission.Config[string]{
		Validator: submission.ValidatorFunc[string](func(_ context.Context, values submission.FieldValues) (submission.Validation[string], error) {
			email, _ := values.Get("email")
			if email == "" {
				return submission.Invalid[string](submission.NewIssue("Email value is required", "email")), nil
			}
			return submission.Valid(email), nil
		}),
		OnSubmit: func(_ context.Context, email string) submission.Outcome {
			if email != "john@example.com" {
				return submission.Refused("Invalid password")
			}
			return submission.Accepted()
		},
	}, submission.WithObserver(recorder.Observer("login")))
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	ctrl.Attach(form)

	email, _ := form.Control("email")
	for _, value := range []string{"", "ada@example.com", "john@example.com", "john@example.com"} {
		email.SetValue(value)
		if _, err := form.Submit(context.Background()); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	checks := []struct {
		result submission.Result
		want   float64
	}{
		{submission.ResultInvalid, 1},
		{submission.ResultRefused, 1},
		{submission.ResultAccepted, 2},
	}
	for _, check := range checks {
		got := testutil.ToFloat64(recorder.attempts.WithLabelValues("login", string(check.result)))
		if got != check.want {
			t.Fatalf("%s attempts: want %v, got %v", check.result, check.want, got)
		}
	}
	if got := testutil.ToFloat64(recorder.transitions.WithLabelValues("login", string(submission.StateSubmitting))); got != 3 {
		t.Fatalf("submitting transitions: want 3, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.inFlight.WithLabelValues("login")); got != 0 {
		t.Fatalf("in flight must return to zero, got %v", got)
	}
	if got := testutil.CollectAndCount(recorder.duration); got != 3 {
		t.Fatalf("expected 3 duration series, got %d", got)
	}
}

func TestRecorder_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewRecorder(reg); err != nil {
		t.Fatalf("first recorder: %v", err)
	}
	if _, err := NewRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRecorder_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	observer := recorder.Observer("signup")
	observer.Transition("a1", submission.StateIdle, submission.StateValidating)
	observer.Transition("a1", submission.StateValidating, submission.StateIdle)
	observer.Settled("a1", submission.ResultInvalid, 0)

	expected := `
# HELP formsubmit_attempts_total Settled submission attempts by form and result.
# TYPE formsubmit_attempts_total counter
formsubmit_attempts_total{form="signup",result="invalid"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "formsubmit_attempts_total"); err != nil {
		t.Fatalf("exposition mismatch: %v", err)
	}
}
