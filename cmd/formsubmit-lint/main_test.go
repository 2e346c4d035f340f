package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLint_BundledFormsAreClean(t *testing.T) {
	var out bytes.Buffer
	paths := []string{"../../forms/login.yaml", "../../forms/accounts.json"}
	if code := lint(context.Background(), paths, &out); code != 0 {
		t.Fatalf("expected clean lint, got %d:\n%s", code, out.String())
	}
}

func TestLint_ReportsViolations(t *testing.T) {
	dir := t.TempDir()
	definition := filepath.Join(dir, "signup.yaml")
	body := "operationId: signup\nfields:\n  - name: nickname\n    messages:\n      tooShort: Pick a longer nickname\n      minLength: Too short\n"
	if err := os.WriteFile(definition, []byte(body), 0o600); err != nil {
		t.Fatalf("write definition: %v", err)
	}

	document := filepath.Join(dir, "signup.json")
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "Signup", "version": "1"},
  "paths": {"/users": {"post": {
    "operationId": "signup",
    "x-submit-label": 5,
    "requestBody": {"content": {"application/json": {"schema": {
      "type": "object",
      "properties": {
        "nickname": {"type": "string", "x-order": "first", "x-messages": {"min": "Too small", "bogus": "Nope"}}
      }
    }}}},
    "responses": {"201": {"description": "created"}}
  }}}
}`
	if err := os.WriteFile(document, []byte(doc), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	var out bytes.Buffer
	if code := lint(context.Background(), []string{definition, document}, &out); code != 1 {
		t.Fatalf("expected violations, got %d:\n%s", code, out.String())
	}
	for _, want := range []string{
		`form > signup > fields.nickname -> message key "tooShort" is not a validation keyword`,
		`operation > signup -> x-submit-label must be a string`,
		`operation > signup > properties.nickname -> message key "bogus" is not a validation keyword`,
		`operation > signup > properties.nickname -> x-order must be a number`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), `"min"`) || strings.Contains(out.String(), `"minLength"`) {
		t.Fatalf("known keywords must not be reported:\n%s", out.String())
	}
}

func TestLint_UnreadableFile(t *testing.T) {
	var out bytes.Buffer
	if code := lint(context.Background(), []string{"does-not-exist.json"}, &out); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}
