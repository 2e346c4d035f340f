package validation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/submission"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

type credentials struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Remember bool   `form:"remember"`
}

type signup struct {
	Name  string   `form:"name" validate:"required" label:"Full name"`
	Age   int      `form:"age" validate:"gte=18"`
	Score *float64 `form:"score" validate:"omitempty,lte=10"`
	Plan  string   `validate:"omitempty,oneof=free pro"`
}

func messages(issues []submission.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Message)
	}
	return out
}

func TestStruct_LoginMessages(t *testing.T) {
	v := validation.Struct[credentials]()

	cases := []struct {
		name   string
		values submission.FieldValues
		want   []string
		fields []string
	}{
		{
			name:   "empty",
			values: submission.NewFieldValues("email", "", "password", ""),
			want:   []string{"Email value is required", "Password value is required"},
			fields: []string{"email", "password"},
		},
		{
			name:   "bad email",
			values: submission.NewFieldValues("email", "bad", "password", "secret1"),
			want:   []string{"Email is not formatted correctly"},
			fields: []string{"email"},
		},
		{
			name:   "short password",
			values: submission.NewFieldValues("email", "john@example.com", "password", "123"),
			want:   []string{"Password is required to be at least 6 characters"},
			fields: []string{"password"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := v.Validate(context.Background(), tc.values)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if result.OK() {
				t.Fatalf("expected invalid result")
			}
			if diff := cmp.Diff(tc.want, messages(result.Issues())); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
			var fields []string
			for _, issue := range result.Issues() {
				fields = append(fields, issue.Field())
			}
			if diff := cmp.Diff(tc.fields, fields); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStruct_Decodes(t *testing.T) {
	v := validation.Struct[credentials]()
	result, err := v.Validate(context.Background(), submission.NewFieldValues(
		"email", "john@example.com",
		"password", "secret1",
		"remember", "on",
	))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.OK() {
		t.Fatalf("unexpected issues: %v", result.Issues())
	}
	want := credentials{Email: "john@example.com", Password: "secret1", Remember: true}
	if diff := cmp.Diff(want, result.Data()); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestStruct_ConversionAndOrder(t *testing.T) {
	v := validation.Struct[signup]()
	result, err := v.Validate(context.Background(), submission.NewFieldValues(
		"plan", "gold",
		"age", "twelve",
		"score", "11",
		"name", "",
	))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []string{
		"Full name value is required",
		"Age must be a whole number",
		"Score must be at most 10",
		"Plan must be one of free pro",
	}
	if diff := cmp.Diff(want, messages(result.Issues())); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestStruct_OptionalPointerAndNumbers(t *testing.T) {
	v := validation.Struct[signup]()
	result, err := v.Validate(context.Background(), submission.NewFieldValues("name", "Ada", "age", "36", "score", ""))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.OK() {
		t.Fatalf("unexpected issues: %v", result.Issues())
	}
	got := result.Data()
	if got.Age != 36 || got.Score != nil {
		t.Fatalf("unexpected data %+v", got)
	}
}

func TestStruct_MessageOverrides(t *testing.T) {
	v := validation.Struct[credentials](validation.WithMessages(map[string]string{
		"email.required": "Tell us your email",
		"minLength":      "{label} needs {param}+ characters",
	}))
	result, err := v.Validate(context.Background(), submission.NewFieldValues("email", "", "password", "abc"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []string{"Tell us your email", "Password needs 6+ characters"}
	if diff := cmp.Diff(want, messages(result.Issues())); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestStruct_SharedValidator(t *testing.T) {
	shared := validator.New()
	v := validation.Struct[credentials](validation.WithValidate(shared))
	result, err := v.Validate(context.Background(), submission.NewFieldValues("email", "bad", "password", "secret1"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff([]any{"email"}, result.Issues()[0].Path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestStruct_RejectsNonStruct(t *testing.T) {
	_, err := validation.Struct[string]().Validate(context.Background(), submission.FieldValues{})
	if !errors.Is(err, validation.ErrNotStruct) {
		t.Fatalf("expected ErrNotStruct, got %v", err)
	}
}

func TestFunc(t *testing.T) {
	boom := errors.New("boom")
	v := validation.Func(func(_ context.Context, values submission.FieldValues) (string, []submission.Issue, error) {
		code, _ := values.Get("code")
		switch code {
		case "":
			return "", []submission.Issue{submission.NewIssue("Code value is required", "code")}, nil
		case "crash":
			return "", nil, boom
		}
		return code, nil, nil
	})

	invalid, err := v.Validate(context.Background(), submission.NewFieldValues("code", ""))
	if err != nil || invalid.OK() {
		t.Fatalf("expected invalid result, err=%v", err)
	}
	valid, err := v.Validate(context.Background(), submission.NewFieldValues("code", "X1"))
	if err != nil || !valid.OK() || valid.Data() != "X1" {
		t.Fatalf("expected valid result, err=%v", err)
	}
	if _, err := v.Validate(context.Background(), submission.NewFieldValues("code", "crash")); !errors.Is(err, boom) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}
