package submission

import "errors"

var (
	// ErrValidatorRequired is returned by New when Config.Validator is nil.
	ErrValidatorRequired = errors.New("submission: validator is required")
	// ErrSubmitRequired is returned by New when Config.OnSubmit is nil.
	ErrSubmitRequired = errors.New("submission: submit function is required")
	// ErrNilEvent is returned by Handle when called without an event.
	ErrNilEvent = errors.New("submission: event is nil")
	// ErrNilForm is returned by Handle when the event does not reference a form.
	ErrNilForm = errors.New("submission: event has no form")
	// ErrNoIssues signals a validator that reported failure without any
	// issue. It is treated as a programming error and propagated.
	ErrNoIssues = errors.New("submission: validation failed without issues")
	// ErrSubmitFailed is the message source for Failed(nil).
	ErrSubmitFailed = errors.New("submission failed")
)

// IssuesError carries field-shaped issues through a conventional error
// return. SubmitE converts it into FailedWith.
type IssuesError struct {
	Issues []Issue
}

// NewIssuesError wraps the supplied issues.
func NewIssuesError(issues ...Issue) *IssuesError {
	return &IssuesError{Issues: append([]Issue(nil), issues...)}
}

func (e *IssuesError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrNoIssues.Error()
	}
	return e.Issues[0].Message
}
