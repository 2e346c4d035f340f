package submission

import "time"

// State is a controller lifecycle state. The controller always returns to
// StateIdle; there is no persistent error or success state.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
)

// Result classifies how an attempt ended.
type Result string

const (
	ResultInvalid  Result = "invalid"
	ResultAccepted Result = "accepted"
	ResultRefused  Result = "refused"
	ResultFailed   Result = "failed"
	ResultError    Result = "error"
)

// Observer receives lifecycle notifications, e.g. for metrics. Calls happen
// synchronously on the goroutine running Handle.
type Observer interface {
	Transition(attempt string, from, to State)
	Settled(attempt string, result Result, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Transition(string, State, State) {}
func (nopObserver) Settled(string, Result, time.Duration) {}
