package dom

import (
	"fmt"
	"net/url"

	"github.com/goliatone/go-formsubmit/pkg/model"
)

const defaultSubmitLabel = "Submit"

type buildConfig struct {
	values      url.Values
	submitLabel string
}

// BuildOption configures FromModel.
type BuildOption func(*buildConfig)

// WithValues prefills controls from posted values. Boolean fields are checked
// when their name is present.
func WithValues(values url.Values) BuildOption {
	return func(cfg *buildConfig) {
		cfg.values = values
	}
}

// WithSubmitLabel overrides the submit button label.
func WithSubmitLabel(label string) BuildOption {
	return func(cfg *buildConfig) {
		cfg.submitLabel = label
	}
}

// FromModel builds a form with one control per field followed by a submit
// button. Defaults from the model apply unless WithValues supplies a value.
func FromModel(form model.FormModel, opts ...BuildOption) *Form {
	cfg := buildConfig{submitLabel: form.SubmitLabel}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.submitLabel == "" {
		cfg.submitLabel = defaultSubmitLabel
	}

	out := New(form.OperationID)
	for _, field := range form.Fields {
		common := []ControlOption{WithLabel(field.Label)}
		if field.Required {
			common = append(common, WithRequired())
		}

		value, posted := initialValue(field, cfg.values)
		switch {
		case field.Type == model.FieldTypeBoolean:
			checked := posted
			if cfg.values == nil {
				checked = isTruthy(field.Default)
			}
			out.AddCheckbox(field.Name, checked, common...)
		case len(field.Enum) > 0:
			choices := make([]string, 0, len(field.Enum))
			for _, choice := range field.Enum {
				choices = append(choices, fmt.Sprint(choice))
			}
			out.AddSelect(field.Name, value, choices, common...)
		case field.IsTextArea():
			out.AddTextArea(field.Name, value, common...)
		default:
			out.AddInput(field.Name, value, append(common, WithType(field.InputType()))...)
		}
	}
	out.AddSubmit(cfg.submitLabel)
	return out
}

func initialValue(field model.Field, values url.Values) (string, bool) {
	if values != nil {
		if posted, ok := values[field.Name]; ok {
			if len(posted) == 0 {
				return "", true
			}
			return posted[len(posted)-1], true
		}
		return "", false
	}
	if field.Default == nil {
		return "", false
	}
	return fmt.Sprint(field.Default), false
}

func isTruthy(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		return typed == "true" || typed == "on" || typed == "1"
	default:
		return false
	}
}
