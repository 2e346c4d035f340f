package httpform_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/httpform"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/submission"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

type credentials struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Remember bool   `form:"remember"`
}

var loginModel = model.FormModel{
	OperationID: "login",
	SubmitLabel: "Login",
	Fields: []model.Field{
		{Name: "email", Type: model.FieldTypeString, Format: "email", Label: "Email", Required: true},
		{Name: "password", Type: model.FieldTypeString, Format: "password", Label: "Password", Required: true},
		{Name: "remember", Type: model.FieldTypeBoolean, Label: "Remember me"},
	},
}

func fixedClock() time.Time {
	return time.UnixMilli(1700000000000)
}

func newHandler(t *testing.T, submit submission.SubmitFunc[credentials], opts ...httpform.Option) *httpform.Handler[credentials] {
	t.Helper()
	opts = append([]httpform.Option{httpform.WithClock(fixedClock)}, opts...)
	h, err := httpform.New(loginModel, validation.Struct[credentials](), submit, opts...)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

func postForm(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) httpform.Reply {
	t.Helper()
	var reply httpform.Reply
	if err := json.NewDecoder(rec.Body).Decode(&reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return reply
}

func TestHandler_InvalidFieldIsReported(t *testing.T) {
	called := false
	h := newHandler(t, func(context.Context, credentials) submission.Outcome {
		called = true
		return submission.Accepted()
	})

	rec := postForm(h, url.Values{"email": {"bad"}, "password": {"secret1"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	want := httpform.Reply{
		Message:   "Email is not formatted correctly",
		Timestamp: 1700000000000,
		Focus:     "email",
		HTML:      "Email is not formatted correctly",
	}
	if diff := cmp.Diff(want, decodeReply(t, rec)); diff != "" {
		t.Fatalf("reply mismatch (-want +got):\n%s", diff)
	}
	if called {
		t.Fatalf("submit must not run for invalid input")
	}
}

func TestHandler_AcceptedSubmission(t *testing.T) {
	var got credentials
	h := newHandler(t, func(_ context.Context, data credentials) submission.Outcome {
		got = data
		return submission.Accepted()
	})

	rec := postForm(h, url.Values{"email": {"john@example.com"}, "password": {"secret1"}, "remember": {"on"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
	reply := decodeReply(t, rec)
	if !reply.Accepted || reply.Message != "" || reply.Focus != "" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	want := credentials{Email: "john@example.com", Password: "secret1", Remember: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted data mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_RefusedSubmission(t *testing.T) {
	h := newHandler(t, func(context.Context, credentials) submission.Outcome {
		return submission.Refused("Invalid password")
	})

	rec := postForm(h, url.Values{"email": {"john@example.com"}, "password": {"secret1"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	reply := decodeReply(t, rec)
	if reply.Accepted || reply.Message != "Invalid password" || reply.Focus != "" {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestHandler_JSONBody(t *testing.T) {
	var got credentials
	h := newHandler(t, func(_ context.Context, data credentials) submission.Outcome {
		got = data
		return submission.Accepted()
	})

	body := `{"email":"john@example.com","password":"secret1","remember":false}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := credentials{Email: "john@example.com", Password: "secret1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted data mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_RejectsBadRequests(t *testing.T) {
	h := newHandler(t, func(context.Context, credentials) submission.Outcome { return submission.Accepted() },
		httpform.WithMaxBodyBytes(64))

	cases := []struct {
		name        string
		method      string
		contentType string
		body        string
		status      int
	}{
		{name: "method", method: http.MethodGet, status: http.StatusMethodNotAllowed},
		{name: "malformed json", method: http.MethodPost, contentType: "application/json", body: `{"email":`, status: http.StatusBadRequest},
		{name: "json array", method: http.MethodPost, contentType: "application/json", body: `["email"]`, status: http.StatusBadRequest},
		{name: "nested json", method: http.MethodPost, contentType: "application/json", body: `{"email":{"a":1}}`, status: http.StatusBadRequest},
		{name: "too large", method: http.MethodPost, contentType: "application/json", body: `{"email":"` + strings.Repeat("a", 128) + `"}`, status: http.StatusRequestEntityTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/login", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_ValidatorErrorIsInternal(t *testing.T) {
	broken := submission.ValidatorFunc[credentials](func(context.Context, submission.FieldValues) (submission.Validation[credentials], error) {
		return submission.Validation[credentials]{}, errors.New("backend down")
	})
	h, err := httpform.New(loginModel, broken, func(context.Context, credentials) submission.Outcome {
		return submission.Accepted()
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	rec := postForm(h, url.Values{"email": {"john@example.com"}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "backend down") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

type countingObserver struct {
	results []submission.Result
}

func (c *countingObserver) Transition(string, submission.State, submission.State) {}

func (c *countingObserver) Settled(_ string, result submission.Result, _ time.Duration) {
	c.results = append(c.results, result)
}

func TestHandler_ForwardsObserver(t *testing.T) {
	observer := &countingObserver{}
	h := newHandler(t, func(context.Context, credentials) submission.Outcome {
		return submission.Failed(errors.New("timeout"))
	}, httpform.WithObserver(observer))

	postForm(h, url.Values{"email": {""}})
	rec := postForm(h, url.Values{"email": {"john@example.com"}, "password": {"secret1"}})
	if reply := decodeReply(t, rec); reply.Message != "timeout" {
		t.Fatalf("unexpected reply %+v", reply)
	}

	want := []submission.Result{submission.ResultInvalid, submission.ResultFailed}
	if diff := cmp.Diff(want, observer.results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := httpform.New[credentials](loginModel, nil, nil); !errors.Is(err, submission.ErrValidatorRequired) {
		t.Fatalf("expected ErrValidatorRequired, got %v", err)
	}
	if _, err := httpform.New(loginModel, validation.Struct[credentials](), nil); !errors.Is(err, submission.ErrSubmitRequired) {
		t.Fatalf("expected ErrSubmitRequired, got %v", err)
	}
}
