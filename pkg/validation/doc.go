// Package validation provides submission.Validator implementations.
//
// Struct decodes field values into a Go struct using `form` tags and checks
// it with go-playground/validator tags. Schema validates against an OpenAPI
// request body schema. Model validates against a model.FormModel loaded from
// OpenAPI or a YAML definition. Func adapts a plain function.
//
// All three produce issues in form order with user-facing messages. Messages
// resolve from WithMessages overrides, then per-field messages carried by the
// schema or model, then the package defaults:
//
//	required   "{label} value is required"
//	format     "{label} is not formatted correctly"
//	minLength  "{label} is required to be at least {param} characters"
package validation
