package model

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDefinition parses a YAML form definition:
//
//	operationId: login
//	submitLabel: Login
//	busyLabel: Processing...
//	fields:
//	  - name: email
//	    type: string
//	    format: email
//	    required: true
//	    messages:
//	      format: Email is not formatted correctly
//
// Missing labels are derived with DefaultLabeler and required fields gain a
// required validation rule.
func LoadDefinition(raw []byte) (FormModel, error) {
	var form FormModel
	if err := yaml.Unmarshal(raw, &form); err != nil {
		return FormModel{}, fmt.Errorf("model definition: %w", err)
	}
	if err := normalizeDefinition(&form); err != nil {
		return FormModel{}, err
	}
	return form, nil
}

func normalizeDefinition(form *FormModel) error {
	if strings.TrimSpace(form.OperationID) == "" {
		return errors.New("model definition: operationId is required")
	}
	if len(form.Fields) == 0 {
		return errors.New("model definition: at least one field is required")
	}

	seen := make(map[string]struct{}, len(form.Fields))
	for i := range form.Fields {
		field := &form.Fields[i]
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return fmt.Errorf("model definition: field %d has no name", i)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("model definition: duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}

		switch field.Type {
		case "":
			field.Type = FieldTypeString
		case FieldTypeString, FieldTypeInteger, FieldTypeNumber, FieldTypeBoolean:
		default:
			return fmt.Errorf("model definition: field %q has unsupported type %q", field.Name, field.Type)
		}
		if field.Label == "" {
			field.Label = DefaultLabeler(field.Name)
		}
		if field.Required {
			if _, ok := field.Rule(ValidationRuleRequired); !ok {
				field.Validations = append([]ValidationRule{{Kind: ValidationRuleRequired}}, field.Validations...)
			}
		}
		if field.Format != "" {
			if _, ok := field.Rule(ValidationRuleFormat); !ok {
				field.Validations = append(field.Validations, ValidationRule{
					Kind:   ValidationRuleFormat,
					Params: map[string]string{"format": field.Format},
				})
			}
		}
	}
	return nil
}
