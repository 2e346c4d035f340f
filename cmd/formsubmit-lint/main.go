package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/pkg/model"
	pkgopenapi "github.com/goliatone/go-formsubmit/pkg/openapi"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

const (
	messagesExtension = "x-messages"
	orderExtension    = "x-order"
)

var labelExtensions = []string{"x-submit-label", "x-busy-label"}

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint form definitions and OpenAPI documents for unusable message keys and extensions.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"forms/login.yaml", "forms/accounts.json"}
	}
	os.Exit(lint(context.Background(), paths, os.Stderr))
}

func lint(ctx context.Context, paths []string, out io.Writer) int {
	parser := formsubmit.NewParser()

	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(ctx, parser, path)
		if err != nil {
			fmt.Fprintf(out, "lint %s: %v\n", path, err)
			return 2
		}
		violations = append(violations, linted...)
	}
	if len(violations) == 0 {
		return 0
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	for _, v := range violations {
		fmt.Fprintf(out, "%s: %s -> %s\n", v.file, v.location, v.message)
	}
	return 1
}

func lintFile(ctx context.Context, parser pkgopenapi.Parser, path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		form, err := model.LoadDefinition(raw)
		if err != nil {
			return nil, err
		}
		return lintDefinition(path, form), nil
	}

	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), raw)
	if err != nil {
		return nil, fmt.Errorf("construct document: %w", err)
	}
	operations, err := parser.Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("parse operations: %w", err)
	}

	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result []violation
	for _, id := range ids {
		op := operations[id]
		base := []string{"operation", id}
		for _, key := range labelExtensions {
			if value, ok := op.Extensions[key]; ok {
				if _, isString := value.(string); !isString {
					result = append(result, violation{path, formatLocation(base), fmt.Sprintf("%s must be a string (got %T)", key, value)})
				}
			}
		}
		if !op.HasBody() {
			continue
		}
		names := make([]string, 0, len(op.RequestBody.Properties))
		for name := range op.RequestBody.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ref := op.RequestBody.Properties[name]
			if ref == nil || ref.Value == nil {
				continue
			}
			location := appendPath(base, "properties."+name)
			result = append(result, lintExtensions(path, location, ref.Value.Extensions)...)
		}
	}
	return result, nil
}

func lintExtensions(file string, path []string, extensions map[string]any) []violation {
	var result []violation
	if raw, ok := extensions[messagesExtension]; ok {
		messages := model.ExtensionMessages(extensions)
		if messages == nil {
			result = append(result, violation{file, formatLocation(path), fmt.Sprintf("%s must be an object of non-empty strings (got %T)", messagesExtension, raw)})
		}
		result = append(result, lintMessageKeys(file, path, messages)...)
	}
	if raw, ok := extensions[orderExtension]; ok {
		if _, isNumber := raw.(float64); !isNumber {
			result = append(result, violation{file, formatLocation(path), fmt.Sprintf("%s must be a number (got %T)", orderExtension, raw)})
		}
	}
	return result
}

func lintDefinition(file string, form model.FormModel) []violation {
	var result []violation
	for _, field := range form.Fields {
		path := []string{"form", form.OperationID, "fields." + field.Name}
		result = append(result, lintMessageKeys(file, path, field.Messages)...)
	}
	return result
}

func lintMessageKeys(file string, path []string, messages map[string]string) []violation {
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []violation
	for _, key := range keys {
		if !validation.IsKeyword(key) {
			result = append(result, violation{
				file:     file,
				location: formatLocation(path),
				message:  fmt.Sprintf("message key %q is not a validation keyword", key),
			})
		}
	}
	return result
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
