package submission

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type options struct {
	now       func() time.Time
	logger    *zap.Logger
	observer  Observer
	attemptID func() string
}

func defaultOptions() options {
	return options{
		now:       time.Now,
		logger:    zap.NewNop(),
		observer:  nopObserver{},
		attemptID: uuid.NewString,
	}
}

// Option configures a Controller.
type Option func(*options)

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger attaches a structured logger. Lifecycle events are logged at
// debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers a lifecycle observer.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithAttemptIDs overrides how attempt identifiers are generated. Defaults to
// random UUIDs.
func WithAttemptIDs(next func() string) Option {
	return func(o *options) {
		if next != nil {
			o.attemptID = next
		}
	}
}
