package validation

import "errors"

var (
	// ErrNotStruct is returned by StructValidator when T is not a struct type.
	ErrNotStruct = errors.New("validation: target type must be a struct")
	// ErrSchemaRequired is returned by SchemaValidator without a schema.
	ErrSchemaRequired = errors.New("validation: schema is required")
	// ErrUnsupportedFormat is returned when a field declares a format the
	// format checker does not know and WithStrictFormats is set.
	ErrUnsupportedFormat = errors.New("validation: unsupported format")
)
