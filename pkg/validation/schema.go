package validation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// SchemaValidator validates field values against an OpenAPI object schema,
// typically an operation's request body. Values are coerced by the declared
// property type before validation; empty strings count as absent.
type SchemaValidator struct {
	schema *openapi3.Schema
	cfg    config
}

// Schema returns a validator for the object schema.
func Schema(schema *openapi3.Schema, opts ...Option) *SchemaValidator {
	return &SchemaValidator{schema: schema, cfg: newConfig(opts)}
}

var _ submission.Validator[map[string]any] = (*SchemaValidator)(nil)

// Validate implements submission.Validator.
func (s *SchemaValidator) Validate(ctx context.Context, values submission.FieldValues) (submission.Validation[map[string]any], error) {
	if s.schema == nil {
		return submission.Validation[map[string]any]{}, ErrSchemaRequired
	}

	rank := func(name string) int {
		if index := values.Index(name); index >= 0 {
			return index
		}
		return values.Len() + propertyRank(s.schema, name)
	}

	data := make(map[string]any, values.Len())
	var collected []rankedIssue
	for name, raw := range values.All() {
		prop := s.property(name)
		value, keep, keyword := coerceProperty(prop, raw)
		if keyword != "" {
			collected = append(collected, rankedIssue{
				rank:  rank(name),
				issue: submission.NewIssue(s.message(name, keyword, ""), name),
			})
			continue
		}
		if keep {
			data[name] = value
		}
	}
	for name, ref := range s.schema.Properties {
		if values.Has(name) || ref == nil || ref.Value == nil {
			continue
		}
		if ref.Value.Type.Is(openapi3.TypeBoolean) {
			data[name] = false
		}
	}

	err := s.schema.VisitJSON(data, openapi3.MultiErrors(), openapi3.VisitAsRequest())
	schemaErrs := flattenSchemaErrors(err)
	if err != nil && len(schemaErrs) == 0 {
		return submission.Validation[map[string]any]{}, fmt.Errorf("validation: schema: %w", err)
	}
	for _, schemaErr := range schemaErrs {
		// Formats are checked below for every field.
		if schemaErr.SchemaField == KeywordFormat {
			continue
		}
		path := pathFromPointer(schemaErr.JSONPointer())
		if len(path) == 0 {
			path = pathFromReason(schemaErr.Reason)
		}
		field := ""
		if len(path) > 0 {
			field, _ = path[0].(string)
		}
		collected = append(collected, rankedIssue{
			rank: rank(field),
			issue: submission.NewIssue(
				s.message(field, schemaErr.SchemaField, schemaParam(s.property(field), schemaErr.SchemaField), capitalize(schemaErr.Reason)),
				path...,
			),
		})
	}
	for name, value := range data {
		prop := s.property(name)
		text, ok := value.(string)
		if prop == nil || prop.Format == "" || !ok {
			continue
		}
		valid, err := s.cfg.checkFormat(ctx, prop.Format, text)
		if err != nil {
			return submission.Validation[map[string]any]{}, err
		}
		if !valid {
			collected = append(collected, rankedIssue{
				rank:  rank(name),
				issue: submission.NewIssue(s.message(name, KeywordFormat, prop.Format), name),
			})
		}
	}

	if len(collected) > 0 {
		return submission.Invalid[map[string]any](sortIssues(collected)...), nil
	}
	return submission.Valid(data), nil
}

func (s *SchemaValidator) property(name string) *openapi3.Schema {
	if name == "" {
		return nil
	}
	ref := s.schema.Properties[name]
	if ref == nil {
		return nil
	}
	return ref.Value
}

func (s *SchemaValidator) message(field, keyword, param string, fallback ...string) string {
	req := messageRequest{field: field, keyword: keyword, param: param}
	if prop := s.property(field); prop != nil {
		req.label = prop.Title
		req.local = model.ExtensionMessages(prop.Extensions)
	}
	if _, known := defaultTemplates[keyword]; !known && len(fallback) > 0 {
		req.fallback = fallback[0]
	}
	return s.cfg.message(req)
}

// coerceProperty converts raw by the declared type. Undeclared properties
// pass through as strings so additionalProperties rules still apply.
func coerceProperty(prop *openapi3.Schema, raw string) (value any, keep bool, keyword string) {
	if prop == nil || prop.Type == nil {
		return raw, !blank(raw), ""
	}
	switch {
	case prop.Type.Is(openapi3.TypeBoolean):
		parsed, ok := parseToggle(raw)
		if !ok {
			return nil, false, KeywordBoolean
		}
		return parsed, true, ""
	case prop.Type.Is(openapi3.TypeInteger):
		if blank(raw) {
			return nil, false, ""
		}
		parsed, ok := parseInteger(raw)
		if !ok {
			return nil, false, KeywordInteger
		}
		return parsed, true, ""
	case prop.Type.Is(openapi3.TypeNumber):
		if blank(raw) {
			return nil, false, ""
		}
		parsed, ok := parseNumber(raw)
		if !ok || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, false, KeywordNumber
		}
		return parsed, true, ""
	default:
		return raw, raw != "", ""
	}
}

func schemaParam(prop *openapi3.Schema, keyword string) string {
	if prop == nil {
		return ""
	}
	switch keyword {
	case KeywordMinLength:
		return fmt.Sprint(prop.MinLength)
	case KeywordMaxLength:
		if prop.MaxLength != nil {
			return fmt.Sprint(*prop.MaxLength)
		}
	case KeywordMinimum:
		if prop.Min != nil {
			return formatNumber(*prop.Min)
		}
	case KeywordMaximum:
		if prop.Max != nil {
			return formatNumber(*prop.Max)
		}
	case KeywordEnum:
		choices := make([]string, 0, len(prop.Enum))
		for _, choice := range prop.Enum {
			choices = append(choices, fmt.Sprint(choice))
		}
		return strings.Join(choices, ", ")
	case KeywordPattern:
		return prop.Pattern
	case KeywordFormat:
		return prop.Format
	}
	return ""
}

func flattenSchemaErrors(err error) []*openapi3.SchemaError {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []*openapi3.SchemaError
		for _, inner := range multi {
			out = append(out, flattenSchemaErrors(inner)...)
		}
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return []*openapi3.SchemaError{schemaErr}
	}
	return nil
}

// pathFromPointer converts JSON pointer segments into issue path segments;
// numeric segments become array indexes.
func pathFromPointer(pointer []string) []any {
	path := make([]any, 0, len(pointer))
	for _, segment := range pointer {
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if segment == "" {
			continue
		}
		if index, err := strconv.Atoi(segment); err == nil && isNumeric(segment) {
			path = append(path, index)
			continue
		}
		path = append(path, segment)
	}
	return path
}

var missingPropertyPattern = regexp.MustCompile(`property "([^"]+)" is missing`)

// pathFromReason recovers the property from reasons like
// `property "email" is missing` when the error carries no pointer.
func pathFromReason(reason string) []any {
	match := missingPropertyPattern.FindStringSubmatch(reason)
	if match == nil {
		return nil
	}
	return []any{match[1]}
}

func propertyRank(schema *openapi3.Schema, name string) int {
	names := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		names = append(names, key)
	}
	sort.Strings(names)
	for i, key := range names {
		if key == name {
			return i
		}
	}
	return len(names)
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func capitalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

func formatNumber(value float64) string {
	return fmt.Sprint(value)
}
