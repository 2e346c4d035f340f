package submission_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/submission"
)

type credentials struct {
	Email    string
	Password string
	Remember bool
}

// loginValidator mirrors the demo login schema with hand-written rules so the
// controller can be exercised without a validation backend.
func loginValidator() submission.Validator[credentials] {
	return submission.ValidatorFunc[credentials](func(_ context.Context, values submission.FieldValues) (submission.Validation[credentials], error) {
		email, _ := values.Get("email")
		password, _ := values.Get("password")

		var issues []submission.Issue
		switch {
		case email == "":
			issues = append(issues, submission.NewIssue("Email value is required", "email"))
		case !strings.Contains(email, "@"):
			issues = append(issues, submission.NewIssue("Email is not formatted correctly", "email"))
		}
		if len(password) < 6 {
			issues = append(issues, submission.NewIssue("Password is required to be at least 6 characters", "password"))
		}
		if len(issues) > 0 {
			return submission.Invalid[credentials](issues...), nil
		}
		return submission.Valid(credentials{
			Email:    email,
			Password: password,
			Remember: values.Has("remember"),
		}), nil
	})
}

type loginForm struct {
	*dom.Form
	email    *dom.Control
	password *dom.Control
	remember *dom.Control
	button   *dom.Control
}

func newLoginForm(email, password string) loginForm {
	form := dom.New("login")
	return loginForm{
		Form:     form,
		email:    form.AddInput("email", email, dom.WithType("email")),
		password: form.AddInput("password", password, dom.WithType("password")),
		remember: form.AddCheckbox("remember", false),
		button:   form.AddSubmit("Login"),
	}
}

type messageLog struct {
	mu       sync.Mutex
	messages []submission.Message
}

func (l *messageLog) sink() submission.ErrorSink {
	return submission.ErrorCallback(func(msg submission.Message) {
		l.mu.Lock()
		l.messages = append(l.messages, msg)
		l.mu.Unlock()
	})
}

func (l *messageLog) all() []submission.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]submission.Message(nil), l.messages...)
}

// shown returns the visible values, with "" standing in for clears.
func (l *messageLog) shown() []string {
	var out []string
	for _, msg := range l.all() {
		if msg.Visible {
			out = append(out, msg.Value)
			continue
		}
		out = append(out, "")
	}
	return out
}

type busyLog struct {
	mu     sync.Mutex
	states []bool
}

func (l *busyLog) sink() submission.BusySink {
	return submission.BusyCallback(func(busy bool) {
		l.mu.Lock()
		l.states = append(l.states, busy)
		l.mu.Unlock()
	})
}

func (l *busyLog) all() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.states...)
}

type transition struct {
	From submission.State
	To   submission.State
}

type recordingObserver struct {
	mu          sync.Mutex
	transitions []transition
	results     []submission.Result
}

func (o *recordingObserver) Transition(_ string, from, to submission.State) {
	o.mu.Lock()
	o.transitions = append(o.transitions, transition{From: from, To: to})
	o.mu.Unlock()
}

func (o *recordingObserver) Settled(_ string, result submission.Result, _ time.Duration) {
	o.mu.Lock()
	o.results = append(o.results, result)
	o.mu.Unlock()
}

// steppingClock advances one millisecond per reading.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
}

func submitOnce(t *testing.T, form loginForm) {
	t.Helper()
	if _, err := form.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
}
