// Package model defines the typed form definition shared by the form
// environments and validators. A FormModel is built from an OpenAPI request
// body (Build) or loaded from a YAML definition (LoadDefinition). Validation
// rules keep canonical identifiers (min/max, minLength/maxLength, pattern)
// with string parameters so environments can map them onto prompts or markup
// attributes. Per-rule user messages come from the `x-messages` extension.
package model
