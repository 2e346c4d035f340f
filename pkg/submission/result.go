package submission

import (
	"context"
	"errors"
)

// Validation is the validator's verdict: either parsed data or an ordered,
// non-empty list of issues.
type Validation[T any] struct {
	data    T
	issues  []Issue
	invalid bool
}

// Valid wraps successfully parsed data.
func Valid[T any](data T) Validation[T] {
	return Validation[T]{data: data}
}

// Invalid wraps validation issues. Order is significant: the first issue is
// the one surfaced to the user.
func Invalid[T any](issues ...Issue) Validation[T] {
	return Validation[T]{issues: append([]Issue(nil), issues...), invalid: true}
}

// OK reports whether validation passed.
func (v Validation[T]) OK() bool {
	return !v.invalid
}

// Data returns the parsed value. It is the zero value for invalid results.
func (v Validation[T]) Data() T {
	return v.data
}

// Issues returns a copy of the reported issues.
func (v Validation[T]) Issues() []Issue {
	return append([]Issue(nil), v.issues...)
}

// Validator parses raw field values into T. A returned error is an unexpected
// failure and is propagated by the controller untouched.
type Validator[T any] interface {
	Validate(ctx context.Context, values FieldValues) (Validation[T], error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(ctx context.Context, values FieldValues) (Validation[T], error)

// Validate calls fn.
func (fn ValidatorFunc[T]) Validate(ctx context.Context, values FieldValues) (Validation[T], error) {
	return fn(ctx, values)
}

type outcomeKind int

const (
	outcomeAccepted outcomeKind = iota
	outcomeRefused
	outcomeFailed
)

// Outcome is the settled result of a submit function. The zero value is
// Accepted.
type Outcome struct {
	kind    outcomeKind
	message string
	issues  []Issue
	err     error
}

// Accepted reports a successful submission.
func Accepted() Outcome {
	return Outcome{kind: outcomeAccepted}
}

// Refused reports a soft failure: the submission completed but was rejected
// with a user-facing message. An empty message is treated as Accepted.
func Refused(message string) Outcome {
	if message == "" {
		return Accepted()
	}
	return Outcome{kind: outcomeRefused, message: message}
}

// Failed reports a hard failure; the error text is shown to the user.
func Failed(err error) Outcome {
	if err == nil {
		err = ErrSubmitFailed
	}
	return Outcome{kind: outcomeFailed, message: err.Error(), err: err}
}

// FailedWith reports a hard failure carrying field-shaped issues. The first
// issue's message is shown; focus does not move.
func FailedWith(issues ...Issue) Outcome {
	ierr := NewIssuesError(issues...)
	return Outcome{kind: outcomeFailed, message: ierr.Error(), issues: ierr.Issues, err: ierr}
}

// Message returns the text surfaced for refused and failed outcomes.
func (o Outcome) Message() string {
	return o.message
}

// Err returns the underlying error for failed outcomes.
func (o Outcome) Err() error {
	return o.err
}

// Issues returns the issues attached with FailedWith.
func (o Outcome) Issues() []Issue {
	return append([]Issue(nil), o.issues...)
}

// IsAccepted reports a successful submission.
func (o Outcome) IsAccepted() bool { return o.kind == outcomeAccepted }

// IsRefused reports a soft failure.
func (o Outcome) IsRefused() bool { return o.kind == outcomeRefused }

// IsFailed reports a hard failure.
func (o Outcome) IsFailed() bool { return o.kind == outcomeFailed }

// SubmitFunc receives the parsed data once validation has passed and blocks
// until the submission settles.
type SubmitFunc[T any] func(ctx context.Context, data T) Outcome

// SubmitE adapts a conventional Go function to SubmitFunc:
//
//	"", nil           -> Accepted
//	msg, nil          -> Refused(msg)
//	*IssuesError      -> FailedWith(issues...)
//	any other error   -> Failed(err)
func SubmitE[T any](fn func(ctx context.Context, data T) (string, error)) SubmitFunc[T] {
	if fn == nil {
		return nil
	}
	return func(ctx context.Context, data T) Outcome {
		message, err := fn(ctx, data)
		if err != nil {
			var issuesErr *IssuesError
			if errors.As(err, &issuesErr) && len(issuesErr.Issues) > 0 {
				return FailedWith(issuesErr.Issues...)
			}
			return Failed(err)
		}
		return Refused(message)
	}
}
