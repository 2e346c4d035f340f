package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Keywords used to key messages. They follow OpenAPI/JSON Schema names.
const (
	KeywordRequired  = "required"
	KeywordFormat    = "format"
	KeywordMinLength = "minLength"
	KeywordMaxLength = "maxLength"
	KeywordLength    = "length"
	KeywordMinimum   = "minimum"
	KeywordMaximum   = "maximum"
	KeywordPattern   = "pattern"
	KeywordEnum      = "enum"
	KeywordType      = "type"
	KeywordInteger   = "integer"
	KeywordNumber    = "number"
	KeywordBoolean   = "boolean"
	KeywordInvalid   = "invalid"
)

var defaultTemplates = map[string]string{
	KeywordRequired:  "{label} value is required",
	KeywordFormat:    "{label} is not formatted correctly",
	KeywordMinLength: "{label} is required to be at least {param} characters",
	KeywordMaxLength: "{label} must be at most {param} characters",
	KeywordLength:    "{label} must be exactly {param} characters",
	KeywordMinimum:   "{label} must be at least {param}",
	KeywordMaximum:   "{label} must be at most {param}",
	KeywordPattern:   "{label} is not formatted correctly",
	KeywordEnum:      "{label} must be one of {param}",
	KeywordType:      "{label} has an invalid value",
	KeywordInteger:   "{label} must be a whole number",
	KeywordNumber:    "{label} must be a number",
	KeywordBoolean:   "{label} must be yes or no",
	KeywordInvalid:   "{label} is invalid",
}

// aliases lets messages keyed by model rule kinds serve schema keywords.
var aliases = map[string][]string{
	KeywordMinimum: {"min"},
	KeywordMaximum: {"max"},
}

type messageRequest struct {
	field   string
	label   string
	keyword string
	param   string
	// local holds messages attached to the field by its schema or model.
	local map[string]string
	// fallback is used when nothing else matches.
	fallback string
}

func (c config) message(req messageRequest) string {
	keys := append([]string{req.keyword}, aliases[req.keyword]...)

	template := ""
	for _, key := range keys {
		if msg, ok := c.messages[req.field+"."+key]; ok {
			template = msg
			break
		}
	}
	if template == "" {
		for _, key := range keys {
			if msg, ok := req.local[key]; ok && strings.TrimSpace(msg) != "" {
				template = msg
				break
			}
		}
	}
	if template == "" {
		for _, key := range keys {
			if msg, ok := c.messages[key]; ok {
				template = msg
				break
			}
		}
	}
	if template == "" {
		if req.fallback != "" {
			return req.fallback
		}
		template = defaultTemplates[req.keyword]
	}
	if template == "" {
		template = defaultTemplates[KeywordInvalid]
	}

	label := req.label
	if label == "" {
		label = c.labeler(req.field)
	}
	return strings.NewReplacer("{label}", label, "{param}", req.param).Replace(template)
}

// formatTags maps OpenAPI string formats onto validator tags.
var formatTags = map[string]string{
	"email":     "email",
	"uri":       "uri",
	"url":       "url",
	"uuid":      "uuid",
	"hostname":  "hostname_rfc1123",
	"ipv4":      "ipv4",
	"ipv6":      "ipv6",
	"date":      "datetime=2006-01-02",
	"date-time": "datetime=2006-01-02T15:04:05Z07:00",
	"time":      "datetime=15:04:05",
}

// presentationalFormats only affect rendering.
var presentationalFormats = map[string]struct{}{
	"password": {},
	"textarea": {},
	"byte":     {},
	"binary":   {},
}

// checkFormat reports whether value satisfies format. Unknown formats pass
// unless strict is set.
func (c config) checkFormat(ctx context.Context, format, value string) (bool, error) {
	if format == "" {
		return true, nil
	}
	if _, ok := presentationalFormats[format]; ok {
		return true, nil
	}
	tag, ok := formatTags[format]
	if !ok {
		if c.strictFormats {
			return false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		return true, nil
	}
	return c.check(ctx, value, tag)
}

// check runs a single validator tag against value. Validation failures are
// reported as false; anything else is an error.
func (c config) check(ctx context.Context, value any, tag string) (bool, error) {
	err := c.validate.VarCtx(ctx, value, tag)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(validator.ValidationErrors); ok {
		return false, nil
	}
	return false, fmt.Errorf("validation: %s: %w", tag, err)
}

// IsKeyword reports whether key can address a message, either as a keyword
// or as one of its model rule aliases.
func IsKeyword(key string) bool {
	if _, ok := defaultTemplates[key]; ok {
		return true
	}
	for _, names := range aliases {
		for _, name := range names {
			if name == key {
				return true
			}
		}
	}
	return false
}
