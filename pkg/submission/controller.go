package submission

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config bundles the collaborators of one controller. It is captured at
// construction and never mutated afterwards.
type Config[T any] struct {
	// Validator parses FieldValues into T. Required.
	Validator Validator[T]
	// OnSubmit receives the parsed data. Required.
	OnSubmit SubmitFunc[T]
	// OnError receives clears and error messages. The zero value discards
	// them.
	OnError ErrorSink
	// OnBusy receives busy transitions. The zero value applies none.
	OnBusy BusySink
}

// Controller owns the submission lifecycle for one form. It is safe to call
// Handle from several goroutines; the controller holds no lock and does not
// queue attempts, so overlapping submissions are only prevented by the busy
// sink disabling the triggering controls.
type Controller[T any] struct {
	validator Validator[T]
	submit    SubmitFunc[T]
	onError   ErrorSink
	onBusy    BusySink
	opts      options
}

// New validates cfg and returns a Controller.
func New[T any](cfg Config[T], opts ...Option) (*Controller[T], error) {
	if cfg.Validator == nil {
		return nil, ErrValidatorRequired
	}
	if cfg.OnSubmit == nil {
		return nil, ErrSubmitRequired
	}

	resolved := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&resolved)
	}

	return &Controller[T]{
		validator: cfg.Validator,
		submit:    cfg.OnSubmit,
		onError:   cfg.OnError,
		onBusy:    cfg.OnBusy,
		opts:      resolved,
	}, nil
}

// Create builds a controller and returns its Handler.
func Create[T any](cfg Config[T], opts ...Option) (Handler, error) {
	ctrl, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return ctrl.Handler(), nil
}

// Handler exposes Handle as a reusable function value.
func (c *Controller[T]) Handler() Handler {
	return c.Handle
}

// Attach registers the controller on target. See Attach.
func (c *Controller[T]) Attach(target SubmitTarget) *Attachment {
	return Attach(target, c.Handler())
}

// Handle runs one submission attempt. It returns nil for every handled path
// (validation issues, accepted, refused and failed submissions) and an error
// only for unexpected failures.
func (c *Controller[T]) Handle(ctx context.Context, event Event) error {
	if event == nil {
		return ErrNilEvent
	}
	event.PreventDefault()
	c.onError.report(ClearMessage(c.timestamp()))

	form := event.Form()
	if form == nil {
		return ErrNilForm
	}
	if ctx == nil {
		ctx = context.Background()
	}

	attempt := c.opts.attemptID()
	started := c.opts.now()
	log := c.opts.logger.With(zap.String("attempt", attempt))

	snap := takeSnapshot(form)
	c.opts.observer.Transition(attempt, StateIdle, StateValidating)
	log.Debug("submission validating", zap.Int("fields", snap.values.Len()))

	verdict, err := c.validator.Validate(ctx, snap.values)
	if err != nil {
		c.settle(log, attempt, StateValidating, ResultError, started)
		return fmt.Errorf("submission: validate: %w", err)
	}

	if !verdict.OK() {
		issues := verdict.Issues()
		if len(issues) == 0 {
			c.settle(log, attempt, StateValidating, ResultError, started)
			return ErrNoIssues
		}
		first := issues[0]
		focused := snap.focus(first.Field())
		c.onError.report(ShowMessage(first.Message, c.timestamp()))
		log.Debug("submission invalid",
			zap.String("field", first.Field()),
			zap.Int("issues", len(issues)),
			zap.Bool("focused", focused),
		)
		c.settle(log, attempt, StateValidating, ResultInvalid, started)
		return nil
	}

	c.submitParsed(ctx, log, attempt, snap, verdict.Data(), started)
	return nil
}

func (c *Controller[T]) submitParsed(ctx context.Context, log *zap.Logger, attempt string, snap *snapshot, data T, started time.Time) {
	c.opts.observer.Transition(attempt, StateValidating, StateSubmitting)
	log.Debug("submission in flight", zap.Bool("busy", c.onBusy.Configured()))

	release := c.onBusy.engage(snap)
	settled := false
	defer func() {
		// Reached without settling only when OnSubmit panics.
		release()
		if !settled {
			c.settle(log, attempt, StateSubmitting, ResultError, started)
		}
	}()

	outcome := c.submit(ctx, data)
	release()

	result := ResultAccepted
	switch {
	case outcome.IsRefused():
		result = ResultRefused
		c.onError.report(ShowMessage(outcome.Message(), c.timestamp()))
	case outcome.IsFailed():
		result = ResultFailed
		c.onError.report(ShowMessage(outcome.Message(), c.timestamp()))
		log.Debug("submission failed", zap.Error(outcome.Err()))
	}

	settled = true
	c.settle(log, attempt, StateSubmitting, result, started)
}

func (c *Controller[T]) settle(log *zap.Logger, attempt string, from State, result Result, started time.Time) {
	elapsed := c.opts.now().Sub(started)
	c.opts.observer.Transition(attempt, from, StateIdle)
	c.opts.observer.Settled(attempt, result, elapsed)
	log.Debug("submission settled",
		zap.String("result", string(result)),
		zap.Duration("elapsed", elapsed),
	)
}

func (c *Controller[T]) timestamp() int64 {
	return c.opts.now().UnixMilli()
}
