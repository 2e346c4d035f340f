package validation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// ModelValidator validates field values against a model.FormModel. Each
// field reports at most one issue: the first rule it breaks.
type ModelValidator struct {
	form model.FormModel
	cfg  config

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// Model returns a validator for form.
func Model(form model.FormModel, opts ...Option) *ModelValidator {
	return &ModelValidator{
		form:     form,
		cfg:      newConfig(opts),
		patterns: make(map[string]*regexp.Regexp),
	}
}

var _ submission.Validator[map[string]any] = (*ModelValidator)(nil)

// Validate implements submission.Validator. Undeclared values are ignored.
func (m *ModelValidator) Validate(ctx context.Context, values submission.FieldValues) (submission.Validation[map[string]any], error) {
	data := make(map[string]any, len(m.form.Fields))
	var collected []rankedIssue
	for rank, field := range m.form.Fields {
		raw, _ := values.Get(field.Name)
		value, keyword, param, err := m.checkField(ctx, field, raw)
		if err != nil {
			return submission.Validation[map[string]any]{}, fmt.Errorf("validation: field %q: %w", field.Name, err)
		}
		if keyword != "" {
			collected = append(collected, rankedIssue{
				rank: rank,
				issue: submission.NewIssue(m.cfg.message(messageRequest{
					field:   field.Name,
					label:   field.Label,
					keyword: keyword,
					param:   param,
					local:   field.Messages,
				}), field.Name),
			})
			continue
		}
		if value != nil {
			data[field.Name] = value
		}
	}

	if len(collected) > 0 {
		return submission.Invalid[map[string]any](sortIssues(collected)...), nil
	}
	return submission.Valid(data), nil
}

// checkField returns the coerced value or the keyword and parameter of the
// first failing rule.
func (m *ModelValidator) checkField(ctx context.Context, field model.Field, raw string) (value any, keyword, param string, err error) {
	if field.Type == model.FieldTypeBoolean {
		checked, ok := parseToggle(raw)
		if !ok {
			return nil, KeywordBoolean, "", nil
		}
		if field.Required && !checked {
			return nil, KeywordRequired, "", nil
		}
		return checked, "", "", nil
	}

	if blank(raw) {
		if field.Required {
			return nil, KeywordRequired, "", nil
		}
		return nil, "", "", nil
	}

	switch field.Type {
	case model.FieldTypeInteger:
		parsed, ok := parseInteger(raw)
		if !ok {
			return nil, KeywordInteger, "", nil
		}
		value = parsed
	case model.FieldTypeNumber:
		parsed, ok := parseNumber(raw)
		if !ok {
			return nil, KeywordNumber, "", nil
		}
		value = parsed
	default:
		value = raw
	}

	for _, rule := range field.Validations {
		keyword, param, err := m.checkRule(ctx, field, rule, value)
		if err != nil || keyword != "" {
			return nil, keyword, param, err
		}
	}
	if len(field.Enum) > 0 && !inEnum(field.Enum, value) {
		return nil, KeywordEnum, enumParam(field.Enum), nil
	}
	return value, "", "", nil
}

func (m *ModelValidator) checkRule(ctx context.Context, field model.Field, rule model.ValidationRule, value any) (string, string, error) {
	switch rule.Kind {
	case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
		text, ok := value.(string)
		limit := rule.Params["value"]
		if !ok || limit == "" {
			return "", "", nil
		}
		tag, keyword := "min="+limit, KeywordMinLength
		if rule.Kind == model.ValidationRuleMaxLength {
			tag, keyword = "max="+limit, KeywordMaxLength
		}
		valid, err := m.cfg.check(ctx, text, tag)
		if err != nil || valid {
			return "", "", err
		}
		return keyword, limit, nil
	case model.ValidationRuleMin, model.ValidationRuleMax:
		limit := rule.Params["value"]
		if limit == "" {
			return "", "", nil
		}
		number, ok := asFloat(value)
		if !ok {
			return "", "", nil
		}
		tag, keyword := "gte="+limit, KeywordMinimum
		if rule.Kind == model.ValidationRuleMax {
			tag, keyword = "lte="+limit, KeywordMaximum
		}
		valid, err := m.cfg.check(ctx, number, tag)
		if err != nil || valid {
			return "", "", err
		}
		return keyword, limit, nil
	case model.ValidationRulePattern:
		expr := rule.Params["pattern"]
		text, ok := value.(string)
		if expr == "" || !ok {
			return "", "", nil
		}
		pattern, err := m.pattern(expr)
		if err != nil {
			return "", "", err
		}
		if !pattern.MatchString(text) {
			return KeywordPattern, expr, nil
		}
	case model.ValidationRuleFormat:
		format := rule.Params["format"]
		if format == "" {
			format = field.Format
		}
		text, ok := value.(string)
		if !ok {
			return "", "", nil
		}
		valid, err := m.cfg.checkFormat(ctx, format, text)
		if err != nil || valid {
			return "", "", err
		}
		return KeywordFormat, format, nil
	}
	return "", "", nil
}

func (m *ModelValidator) pattern(expr string) (*regexp.Regexp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if compiled, ok := m.patterns[expr]; ok {
		return compiled, nil
	}
	compiled, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", expr, err)
	}
	m.patterns[expr] = compiled
	return compiled, nil
}

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int64:
		return float64(typed), true
	case float64:
		return typed, true
	case string:
		return parseNumber(typed)
	default:
		return 0, false
	}
}

func inEnum(choices []any, value any) bool {
	needle := fmt.Sprint(value)
	for _, choice := range choices {
		if fmt.Sprint(choice) == needle {
			return true
		}
	}
	return false
}

func enumParam(choices []any) string {
	parts := make([]string, 0, len(choices))
	for _, choice := range choices {
		switch typed := choice.(type) {
		case float64:
			parts = append(parts, strconv.FormatFloat(typed, 'f', -1, 64))
		default:
			parts = append(parts, fmt.Sprint(typed))
		}
	}
	return strings.Join(parts, ", ")
}
