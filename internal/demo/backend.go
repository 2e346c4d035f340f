// Package demo is the fake login backend used by the formsubmit binaries.
package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// Credentials is the parsed login form.
type Credentials struct {
	Email    string `form:"email" label:"Email" validate:"required,email"`
	Password string `form:"password" label:"Password" validate:"required,min=6"`
	Remember bool   `form:"remember"`
}

// ErrBadPayload is returned when submitted data lacks credentials.
var ErrBadPayload = errors.New("demo: email and password must be strings")

// Backend accepts known accounts after a delay.
type Backend struct {
	accounts map[string]string
	delay    time.Duration
	logger   *zap.Logger
}

// NewBackend returns a backend that knows accounts (email to password).
func NewBackend(accounts map[string]string, delay time.Duration, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	known := make(map[string]string, len(accounts))
	for email, password := range accounts {
		known[email] = password
	}
	return &Backend{accounts: known, delay: delay, logger: logger}
}

// Login checks c against the known accounts. Unknown emails and wrong
// passwords are refused; a cancelled context fails the attempt.
func (b *Backend) Login(ctx context.Context, c Credentials) submission.Outcome {
	if b.delay > 0 {
		timer := time.NewTimer(b.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return submission.Failed(fmt.Errorf("demo: login interrupted: %w", ctx.Err()))
		case <-timer.C:
		}
	}

	password, ok := b.accounts[c.Email]
	switch {
	case !ok:
		b.logger.Info("login refused", zap.String("reason", "unknown email"))
		return submission.Refused("Invalid email")
	case password != c.Password:
		b.logger.Info("login refused", zap.String("reason", "wrong password"))
		return submission.Refused("Invalid password")
	}
	b.logger.Info("login accepted", zap.Bool("remember", c.Remember))
	return submission.Accepted()
}

// SubmitValues adapts Login to generically validated data.
func (b *Backend) SubmitValues(ctx context.Context, data map[string]any) submission.Outcome {
	email, okEmail := data["email"].(string)
	password, okPassword := data["password"].(string)
	if !okEmail || !okPassword {
		return submission.Failed(ErrBadPayload)
	}
	remember, _ := data["remember"].(bool)
	return b.Login(ctx, Credentials{Email: email, Password: password, Remember: remember})
}
