package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/goliatone/go-formsubmit/pkg/submission"
)

// StructValidator decodes field values into T and validates it with
// `validate` struct tags. Fields bind to controls by their `form` tag; a
// `label` tag names the field in messages.
//
//	type Credentials struct {
//		Email    string `form:"email" validate:"required,email"`
//		Password string `form:"password" validate:"required,min=6"`
//	}
type StructValidator[T any] struct {
	cfg config

	once    sync.Once
	fields  []structField
	typeErr error
}

type structField struct {
	index int
	name  string
	label string
	kind  reflect.Kind
}

// Struct returns a validator for T.
func Struct[T any](opts ...Option) *StructValidator[T] {
	return &StructValidator[T]{cfg: newConfig(opts)}
}

var _ submission.Validator[struct{}] = (*StructValidator[struct{}])(nil)

func (s *StructValidator[T]) inspect() {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		s.typeErr = fmt.Errorf("%w: %s", ErrNotStruct, typ)
		return
	}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "" {
			continue
		}
		kind := field.Type.Kind()
		if kind == reflect.Pointer {
			kind = field.Type.Elem().Kind()
		}
		s.fields = append(s.fields, structField{
			index: i,
			name:  name,
			label: field.Tag.Get("label"),
			kind:  kind,
		})
	}
}

// Validate implements submission.Validator.
func (s *StructValidator[T]) Validate(ctx context.Context, values submission.FieldValues) (submission.Validation[T], error) {
	s.once.Do(s.inspect)
	if s.typeErr != nil {
		return submission.Validation[T]{}, s.typeErr
	}

	input := make(map[string]any, len(s.fields))
	var collected []rankedIssue
	rejected := make(map[string]bool)
	for rank, field := range s.fields {
		raw, present := values.Get(field.name)
		value, keep, keyword := coerceField(field.kind, raw, present)
		if keyword != "" {
			rejected[field.name] = true
			collected = append(collected, rankedIssue{
				rank: rank,
				issue: submission.NewIssue(s.cfg.message(messageRequest{
					field:   field.name,
					label:   field.label,
					keyword: keyword,
				}), field.name),
			})
			continue
		}
		if keep {
			input[field.name] = value
		}
	}

	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          formTag,
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return submission.Validation[T]{}, fmt.Errorf("validation: decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return submission.Validation[T]{}, fmt.Errorf("validation: decode: %w", err)
	}

	if err := s.cfg.validate.StructCtx(ctx, out); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return submission.Validation[T]{}, fmt.Errorf("validation: %w", err)
		}
		for _, fieldErr := range fieldErrs {
			path := namespacePath(fieldErr.Namespace())
			if len(path) == 0 {
				continue
			}
			top, _ := path[0].(string)
			if rejected[top] {
				continue
			}
			rank, label := s.lookup(top)
			collected = append(collected, rankedIssue{
				rank: rank,
				issue: submission.NewIssue(s.cfg.message(messageRequest{
					field:   top,
					label:   label,
					keyword: keywordForTag(fieldErr),
					param:   fieldErr.Param(),
				}), path...),
			})
		}
	}

	if len(collected) > 0 {
		return submission.Invalid[T](sortIssues(collected)...), nil
	}
	return submission.Valid(out), nil
}

func (s *StructValidator[T]) lookup(name string) (int, string) {
	for rank, field := range s.fields {
		if field.name == name {
			return rank, field.label
		}
	}
	return len(s.fields), ""
}

// coerceField converts raw into a value mapstructure can assign. keep is
// false when the field should stay at its zero value; a non-empty keyword
// reports a conversion failure.
func coerceField(kind reflect.Kind, raw string, present bool) (value any, keep bool, keyword string) {
	switch kind {
	case reflect.String:
		return raw, present, ""
	case reflect.Bool:
		if !present {
			return nil, false, ""
		}
		parsed, ok := parseToggle(raw)
		if !ok {
			return nil, false, KeywordBoolean
		}
		return parsed, true, ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !present || blank(raw) {
			return nil, false, ""
		}
		parsed, ok := parseInteger(raw)
		if !ok {
			return nil, false, KeywordInteger
		}
		return parsed, true, ""
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !present || blank(raw) {
			return nil, false, ""
		}
		parsed, ok := parseUnsigned(raw)
		if !ok {
			return nil, false, KeywordInteger
		}
		return parsed, true, ""
	case reflect.Float32, reflect.Float64:
		if !present || blank(raw) {
			return nil, false, ""
		}
		parsed, ok := parseNumber(raw)
		if !ok {
			return nil, false, KeywordNumber
		}
		return parsed, true, ""
	default:
		return raw, present, ""
	}
}

// keywordForTag maps validator tags onto message keywords. Length tags on
// strings and collections count characters or items; on numbers they bound
// the value.
func keywordForTag(fieldErr validator.FieldError) string {
	sized := false
	switch fieldErr.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		sized = true
	}

	switch fieldErr.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return KeywordRequired
	case "email", "url", "uri", "uuid", "uuid4", "datetime", "hostname", "hostname_rfc1123", "ip", "ipv4", "ipv6", "e164":
		return KeywordFormat
	case "min", "gte":
		if sized {
			return KeywordMinLength
		}
		return KeywordMinimum
	case "max", "lte":
		if sized {
			return KeywordMaxLength
		}
		return KeywordMaximum
	case "gt":
		return KeywordMinimum
	case "lt":
		return KeywordMaximum
	case "len":
		return KeywordLength
	case "oneof":
		return KeywordEnum
	case "alpha", "alphanum", "numeric", "number", "lowercase", "uppercase":
		return KeywordPattern
	default:
		return fieldErr.Tag()
	}
}

// namespacePath turns "Credentials.items[2].name" into [items 2 name],
// dropping the root type name.
func namespacePath(namespace string) []any {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	var path []any
	for _, part := range parts {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				path = append(path, part)
				break
			}
			if open > 0 {
				path = append(path, part[:open])
			}
			end := strings.IndexByte(part[open:], ']')
			if end < 0 {
				path = append(path, part[open:])
				break
			}
			key := part[open+1 : open+end]
			if index, err := strconv.Atoi(key); err == nil {
				path = append(path, index)
			} else {
				path = append(path, key)
			}
			part = part[open+end+1:]
		}
	}
	return path
}

type rankedIssue struct {
	rank  int
	issue submission.Issue
}

// sortIssues orders by rank, keeping discovery order within a rank, and
// drops repeated (path, message) pairs.
func sortIssues(collected []rankedIssue) []submission.Issue {
	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].rank < collected[j].rank
	})
	seen := make(map[string]struct{}, len(collected))
	out := make([]submission.Issue, 0, len(collected))
	for _, entry := range collected {
		key := entry.issue.PathString() + "\x00" + entry.issue.Message
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry.issue)
	}
	return out
}
