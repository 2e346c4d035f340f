package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formsubmit/pkg/openapi"
)

const (
	orderExtensionKey       = "x-order"
	messagesExtensionKey    = "x-messages"
	submitLabelExtensionKey = "x-submit-label"
	busyLabelExtensionKey   = "x-busy-label"
)

var errBodyMissing = errors.New("model builder: operation has no object request body")

// Builder converts OpenAPI operations into form models.
type Builder struct {
	labeler Labeler
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLabeler overrides how labels are derived from field names.
func WithLabeler(labeler Labeler) BuilderOption {
	return func(b *Builder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

// NewBuilder creates a Builder.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{labeler: DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Build transforms op using the default builder.
func Build(op pkgopenapi.Operation) (FormModel, error) {
	return NewBuilder().Build(op)
}

// Build transforms the operation's request body into a flat FormModel. Nested
// objects and arrays are rejected: every field maps onto one control.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	if op.ID == "" {
		return FormModel{}, errors.New("model builder: operation id is required")
	}
	if !op.HasBody() {
		return FormModel{}, errBodyMissing
	}

	form := FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Summary:     op.Summary,
		SubmitLabel: stringExtension(op.Extensions, submitLabelExtensionKey),
		BusyLabel:   stringExtension(op.Extensions, busyLabelExtensionKey),
	}

	required := make(map[string]bool, len(op.RequestBody.Required))
	for _, name := range op.RequestBody.Required {
		required[name] = true
	}

	for _, name := range orderedProperties(op.RequestBody.Properties) {
		ref := op.RequestBody.Properties[name]
		if ref == nil || ref.Value == nil {
			return FormModel{}, fmt.Errorf("model builder: field %q has an unresolved schema", name)
		}
		field, err := b.fieldFromSchema(name, ref.Value, required[name])
		if err != nil {
			return FormModel{}, err
		}
		form.Fields = append(form.Fields, field)
	}
	return form, nil
}

func (b *Builder) fieldFromSchema(name string, schema *openapi3.Schema, required bool) (Field, error) {
	fieldType, err := mapType(schema.Type)
	if err != nil {
		return Field{}, fmt.Errorf("model builder: field %q: %w", name, err)
	}

	label := schema.Title
	if label == "" {
		label = b.labeler(name)
	}
	field := Field{
		Name:        name,
		Type:        fieldType,
		Format:      schema.Format,
		Required:    required,
		Label:       label,
		Description: schema.Description,
		Default:     schema.Default,
		Messages:    ExtensionMessages(schema.Extensions),
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}
	applyValidations(&field, schema)
	return field, nil
}

func mapType(types *openapi3.Types) (FieldType, error) {
	if types == nil || len(types.Slice()) == 0 {
		return FieldTypeString, nil
	}
	switch {
	case types.Is(openapi3.TypeString):
		return FieldTypeString, nil
	case types.Is(openapi3.TypeInteger):
		return FieldTypeInteger, nil
	case types.Is(openapi3.TypeNumber):
		return FieldTypeNumber, nil
	case types.Is(openapi3.TypeBoolean):
		return FieldTypeBoolean, nil
	default:
		return "", fmt.Errorf("nested %s fields are not supported", strings.Join(types.Slice(), ","))
	}
}

func applyValidations(field *Field, schema *openapi3.Schema) {
	if field.Required {
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleRequired})
	}
	if schema.Min != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMin,
			Params: map[string]string{"value": formatFloat(*schema.Min)},
		})
	}
	if schema.Max != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMax,
			Params: map[string]string{"value": formatFloat(*schema.Max)},
		})
	}
	if schema.MinLength > 0 {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(schema.MinLength, 10)},
		})
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*schema.MaxLength, 10)},
		})
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
	if schema.Format != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleFormat,
			Params: map[string]string{"format": schema.Format},
		})
	}
}

// orderedProperties sorts by the x-order extension, then by name.
func orderedProperties(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	order := func(name string) float64 {
		ref := properties[name]
		if ref == nil || ref.Value == nil {
			return math.MaxFloat64
		}
		if value, ok := numberExtension(ref.Value.Extensions, orderExtensionKey); ok {
			return value
		}
		return math.MaxFloat64
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

// ExtensionMessages reads the x-messages extension: user-facing messages keyed
// by validation keyword (required, minLength, format, ...).
func ExtensionMessages(extensions map[string]any) map[string]string {
	raw, ok := extensions[messagesExtensionKey]
	if !ok {
		return nil
	}
	var decoded map[string]any
	switch typed := raw.(type) {
	case map[string]any:
		decoded = typed
	case json.RawMessage:
		if err := json.Unmarshal(typed, &decoded); err != nil {
			return nil
		}
	default:
		return nil
	}
	out := make(map[string]string, len(decoded))
	for key, value := range decoded {
		if text, ok := value.(string); ok && strings.TrimSpace(text) != "" {
			out[key] = text
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringExtension(extensions map[string]any, key string) string {
	switch typed := extensions[key].(type) {
	case string:
		return typed
	case json.RawMessage:
		var out string
		if err := json.Unmarshal(typed, &out); err == nil {
			return out
		}
	}
	return ""
}

func numberExtension(extensions map[string]any, key string) (float64, bool) {
	switch typed := extensions[key].(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case json.Number:
		value, err := typed.Float64()
		return value, err == nil
	case json.RawMessage:
		var out float64
		if err := json.Unmarshal(typed, &out); err == nil {
			return out, true
		}
	}
	return 0, false
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
