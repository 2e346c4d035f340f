package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formsubmit/pkg/openapi"
)

// formMediaTypes lists request body media types in preference order.
var formMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"application/json",
	"multipart/form-data",
}

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{options: options}
}

// Operations converts a Document into a map keyed by operationId. Operations
// without an id are keyed "method:path".
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.AllowExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			collectOperation(operations, method, path, operation)
		}
	}

	if len(operations) == 0 {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

func collectOperation(target map[string]pkgopenapi.Operation, method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}

	contentType, body := requestSchema(operation.RequestBody)
	op, err := pkgopenapi.NewOperation(opID, method, path, body)
	if err != nil {
		// Invalid operations are skipped.
		return
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	op.ContentType = contentType
	if len(operation.Extensions) > 0 {
		op.Extensions = make(map[string]any, len(operation.Extensions))
		for key, value := range operation.Extensions {
			op.Extensions[key] = value
		}
	}
	target[opID] = op
}

func requestSchema(body *openapi3.RequestBodyRef) (string, *openapi3.Schema) {
	if body == nil || body.Value == nil {
		return "", nil
	}
	content := body.Value.Content
	for _, mediaType := range formMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mediaType, mt.Schema.Value
		}
	}
	return "", nil
}

// Operation loads doc and returns the operation identified by id.
func Operation(ctx context.Context, p pkgopenapi.Parser, doc pkgopenapi.Document, id string) (pkgopenapi.Operation, error) {
	operations, err := p.Operations(ctx, doc)
	if err != nil {
		return pkgopenapi.Operation{}, err
	}
	op, ok := operations[id]
	if !ok {
		return pkgopenapi.Operation{}, fmt.Errorf("openapi parser: operation %q not found", id)
	}
	if op.Method != http.MethodPost && op.Method != http.MethodPut && op.Method != http.MethodPatch {
		return pkgopenapi.Operation{}, fmt.Errorf("openapi parser: operation %q uses %s and cannot accept a form", id, op.Method)
	}
	return op, nil
}
