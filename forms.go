package formsubmit

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	internalParser "github.com/goliatone/go-formsubmit/internal/openapi/parser"
	"github.com/goliatone/go-formsubmit/pkg/model"
	pkgopenapi "github.com/goliatone/go-formsubmit/pkg/openapi"
)

const remoteTimeout = 10 * time.Second

//go:embed forms/*.yaml forms/*.json
var embeddedForms embed.FS

// FormsFS exposes the bundled form definitions: login.yaml and the
// accounts.json OpenAPI document it was derived from.
func FormsFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}

// DefaultForm returns the bundled login form.
func DefaultForm() (model.FormModel, error) {
	raw, err := fs.ReadFile(FormsFS(), "login.yaml")
	if err != nil {
		return model.FormModel{}, err
	}
	return model.LoadDefinition(raw)
}

// LoadOperation loads an OpenAPI document and builds the form model for
// operationID from its request body.
func LoadOperation(ctx context.Context, source pkgopenapi.Source, operationID string, options ...pkgopenapi.LoaderOption) (model.FormModel, error) {
	doc, err := NewLoader(options...).Load(ctx, source)
	if err != nil {
		return model.FormModel{}, err
	}
	op, err := internalParser.Operation(ctx, NewParser(), doc, operationID)
	if err != nil {
		return model.FormModel{}, err
	}
	return model.Build(op)
}

// LoadForm resolves location into a form model. An empty location yields
// the bundled login form. YAML files are read as form definitions; anything
// else is treated as an OpenAPI document and requires operationID.
func LoadForm(ctx context.Context, location, operationID string) (model.FormModel, error) {
	if strings.TrimSpace(location) == "" {
		return DefaultForm()
	}

	ext := strings.ToLower(filepath.Ext(location))
	if operationID == "" && (ext == ".yaml" || ext == ".yml") {
		raw, err := os.ReadFile(location)
		if err != nil {
			return model.FormModel{}, fmt.Errorf("formsubmit: read definition: %w", err)
		}
		return model.LoadDefinition(raw)
	}
	if operationID == "" {
		return model.FormModel{}, fmt.Errorf("formsubmit: %s needs an operation id", location)
	}

	source, err := pkgopenapi.ParseSource(location)
	if err != nil {
		return model.FormModel{}, err
	}
	return LoadOperation(ctx, source, operationID, pkgopenapi.WithHTTPFallback(remoteTimeout))
}
