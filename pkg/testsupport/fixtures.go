package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	internalParser "github.com/goliatone/go-formsubmit/internal/openapi/parser"
	pkgmodel "github.com/goliatone/go-formsubmit/pkg/model"
	pkgopenapi "github.com/goliatone/go-formsubmit/pkg/openapi"
)

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source. Testing helpers fail the test on error to keep callers concise.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustOperation loads the document at path and returns the form-capable
// operation id.
func MustOperation(t *testing.T, path, id string) pkgopenapi.Operation {
	t.Helper()

	doc := LoadDocument(t, path)
	parser := internalParser.New(pkgopenapi.NewParserOptions())
	op, err := internalParser.Operation(context.Background(), parser, doc, id)
	if err != nil {
		t.Fatalf("operation %q: %v", id, err)
	}
	return op
}

// MustLoadDefinition reads a YAML form definition fixture.
func MustLoadDefinition(t *testing.T, path string) pkgmodel.FormModel {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read definition: %v", err)
	}
	form, err := pkgmodel.LoadDefinition(data)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return form
}
