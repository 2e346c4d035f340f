package httpform

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formsubmit/pkg/submission"
)

const (
	defaultMaxBodyBytes = 1 << 20
	defaultBusyLabel    = "Processing..."
)

type options struct {
	logger       *zap.Logger
	observer     submission.Observer
	now          func() time.Time
	maxBodyBytes int64
	busyLabel    string
}

// Option configures a Handler.
type Option func(*options)

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver forwards controller lifecycle events, e.g. to metrics.
func WithObserver(observer submission.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithClock overrides the time source for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMaxBodyBytes limits request bodies. Defaults to 1 MiB.
func WithMaxBodyBytes(limit int64) Option {
	return func(o *options) {
		if limit > 0 {
			o.maxBodyBytes = limit
		}
	}
}

// WithBusyLabel overrides the submit label applied while a submission is in
// flight. The model's busy label is used otherwise.
func WithBusyLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.busyLabel = label
		}
	}
}
