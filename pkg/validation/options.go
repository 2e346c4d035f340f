package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formsubmit/pkg/model"
)

const formTag = "form"

type config struct {
	validate      *validator.Validate
	messages      map[string]string
	labeler       model.Labeler
	strictFormats bool
}

// Option configures the validators in this package.
type Option func(*config)

// WithMessages overrides messages. Keys are either "<field>.<keyword>" or a
// bare keyword applying to every field. Templates may reference {label} and
// {param}.
func WithMessages(messages map[string]string) Option {
	return func(c *config) {
		for key, value := range messages {
			c.messages[key] = value
		}
	}
}

// WithValidate shares a validator instance. StructValidator registers its
// tag name function on it.
func WithValidate(v *validator.Validate) Option {
	return func(c *config) {
		if v != nil {
			c.validate = v
		}
	}
}

// WithLabeler changes how labels are derived for fields without an explicit
// label or title.
func WithLabeler(labeler model.Labeler) Option {
	return func(c *config) {
		if labeler != nil {
			c.labeler = labeler
		}
	}
}

// WithStrictFormats makes unknown formats an error instead of being ignored.
func WithStrictFormats() Option {
	return func(c *config) {
		c.strictFormats = true
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		messages: make(map[string]string),
		labeler:  model.DefaultLabeler,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.validate == nil {
		cfg.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	cfg.validate.RegisterTagNameFunc(fieldName)
	return cfg
}

// fieldName returns the control name a struct field binds to: the `form` tag
// or the Go name with a lower-cased first letter.
func fieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get(formTag), ",")
	if name == "-" {
		return ""
	}
	if name != "" {
		return name
	}
	if field.Name == "" {
		return ""
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}
