package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/internal/config"
	"github.com/goliatone/go-formsubmit/internal/demo"
	"github.com/goliatone/go-formsubmit/internal/metrics"
	"github.com/goliatone/go-formsubmit/pkg/httpform"
	"github.com/goliatone/go-formsubmit/pkg/model"
)

func newTestRouter(t *testing.T, typed bool) http.Handler {
	t.Helper()
	form, err := formsubmit.DefaultForm()
	if err != nil {
		t.Fatalf("default form: %v", err)
	}
	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	router, err := newRouter(routerConfig{
		form:     form,
		backend:  demo.NewBackend(map[string]string{"john@example.com": "hunter2"}, 0, nil),
		logger:   zap.NewNop(),
		recorder: recorder,
		gatherer: registry,
		typed:    typed,
		settings: config.Default().Form,
		maxBody:  1 << 16,
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return router
}

func post(router http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_LoginFlow(t *testing.T) {
	for _, typed := range []bool{true, false} {
		router := newTestRouter(t, typed)

		cases := []struct {
			values  url.Values
			status  int
			message string
		}{
			{url.Values{"email": {"bad"}, "password": {"hunter2"}}, http.StatusUnprocessableEntity, "Email is not formatted correctly"},
			{url.Values{"email": {"john@example.com"}, "password": {"123"}}, http.StatusUnprocessableEntity, "Password is required to be at least 6 characters"},
			{url.Values{"email": {"ada@example.com"}, "password": {"hunter2"}}, http.StatusUnprocessableEntity, "Invalid email"},
			{url.Values{"email": {"john@example.com"}, "password": {"secret1"}}, http.StatusUnprocessableEntity, "Invalid password"},
			{url.Values{"email": {"john@example.com"}, "password": {"hunter2"}, "remember": {"on"}}, http.StatusOK, ""},
		}
		for _, tc := range cases {
			rec := post(router, "/forms/login", tc.values)
			if rec.Code != tc.status {
				t.Fatalf("typed=%v %v: expected %d, got %d", typed, tc.values, tc.status, rec.Code)
			}
			var reply httpform.Reply
			if err := json.NewDecoder(rec.Body).Decode(&reply); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if reply.Message != tc.message {
				t.Fatalf("typed=%v %v: expected %q, got %q", typed, tc.values, tc.message, reply.Message)
			}
		}
	}
}

func TestRouter_Endpoints(t *testing.T) {
	router := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("form model: expected 200, got %d", rec.Code)
	}
	var form model.FormModel
	if err := json.NewDecoder(rec.Body).Decode(&form); err != nil {
		t.Fatalf("decode form: %v", err)
	}
	if form.OperationID != "login" || len(form.Fields) != 3 {
		t.Fatalf("unexpected form %+v", form)
	}

	rec = post(router, "/forms/signup", url.Values{})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown form: expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("healthz: expected 204, got %d", rec.Code)
	}

	post(router, "/forms/login", url.Values{"email": {"bad"}})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `formsubmit_attempts_total{form="login",result="invalid"} 1`) {
		t.Fatalf("metrics missing attempt counter:\n%s", rec.Body.String())
	}
}
