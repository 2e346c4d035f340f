package model

import "strings"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleFormat    = "format"
	ValidationRuleEnum      = "enum"
)

// ValidationRule represents a single constraint applied to a field. Numeric
// bounds and length limits encode their threshold in Params["value"]; pattern
// rules keep the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Field models an individual control inside a form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Required    bool              `json:"required" yaml:"required"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any               `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty" yaml:"enum,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Messages    map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// FormModel is the top-level form definition.
type FormModel struct {
	OperationID string  `json:"operationId" yaml:"operationId"`
	Endpoint    string  `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method      string  `json:"method,omitempty" yaml:"method,omitempty"`
	Summary     string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	SubmitLabel string  `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	BusyLabel   string  `json:"busyLabel,omitempty" yaml:"busyLabel,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Field returns the field named name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Message returns the user message configured for a rule kind.
func (f Field) Message(kind string) (string, bool) {
	msg, ok := f.Messages[kind]
	if !ok || strings.TrimSpace(msg) == "" {
		return "", false
	}
	return msg, true
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// InputType maps the field onto an HTML-style input type.
func (f Field) InputType() string {
	switch f.Type {
	case FieldTypeInteger, FieldTypeNumber:
		return "number"
	case FieldTypeBoolean:
		return "checkbox"
	}
	switch f.Format {
	case "email", "password", "date", "url":
		return f.Format
	case "uri":
		return "url"
	}
	return "text"
}

// IsTextArea reports whether the field asks for multi-line input.
func (f Field) IsTextArea() bool {
	return f.Format == "textarea"
}
