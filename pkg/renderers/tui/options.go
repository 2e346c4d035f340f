package tui

const (
	defaultMaxAttempts = 3
	defaultBusyLabel   = "Processing..."
)

// Theme captures optional formatting hints the session applies when printing
// messages. Keep minimal to avoid coupling session logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithMaxAttempts bounds how many times the form is filled in and submitted.
// Values below one are ignored.
func WithMaxAttempts(attempts int) Option {
	return func(s *Session) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithBusyLabel sets the line printed while a submission is in flight.
func WithBusyLabel(label string) Option {
	return func(s *Session) {
		if label != "" {
			s.busyLabel = label
		}
	}
}

// WithSuccessMessage sets the line printed once the form settles without an
// error.
func WithSuccessMessage(message string) Option {
	return func(s *Session) {
		s.successMessage = message
	}
}
