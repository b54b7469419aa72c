package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-customerform/pkg/forms"
)

const (
	defaultVersion = "1.0.0"
	openAPIVersion = "3.0.3"
)

// DocumentOptions describes the operation that accepts the form payload.
type DocumentOptions struct {
	Title       string
	Version     string
	SchemaName  string
	Path        string
	OperationID string
}

// DocumentOption mutates DocumentOptions. Empty values keep the defaults.
type DocumentOption func(*DocumentOptions)

// WithTitle sets info.title.
func WithTitle(title string) DocumentOption {
	return func(o *DocumentOptions) {
		setIfSet(&o.Title, title)
	}
}

// WithVersion sets info.version.
func WithVersion(version string) DocumentOption {
	return func(o *DocumentOptions) {
		setIfSet(&o.Version, version)
	}
}

// WithOperation sets the path and operationId of the submit operation.
// Paths without a leading slash get one.
func WithOperation(path, operationID string) DocumentOption {
	return func(o *DocumentOptions) {
		if path = strings.TrimSpace(path); path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		setIfSet(&o.Path, path)
		setIfSet(&o.OperationID, operationID)
	}
}

// WithSchemaName sets the components.schemas key for the form schema.
func WithSchemaName(name string) DocumentOption {
	return func(o *DocumentOptions) {
		setIfSet(&o.SchemaName, name)
	}
}

func setIfSet(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

// NewDocument wraps the schema of root in a minimal OpenAPI document with a
// single POST operation taking the form value as its JSON body. The document
// is validated before it is returned.
func NewDocument(ctx context.Context, root *forms.Group, opts ...DocumentOption) (*openapi3.T, error) {
	if root == nil {
		return nil, errors.New("openapi: form is required")
	}
	options := documentOptions(root, opts)

	schema := SchemaFor(root)
	ref := openapi3.NewSchemaRef("#/components/schemas/"+options.SchemaName, schema)

	response := openapi3.NewResponse().WithDescription("Saved")
	response.WithJSONSchemaRef(ref)

	operation := openapi3.NewOperation()
	operation.OperationID = options.OperationID
	operation.Summary = "Submit " + root.Label()
	operation.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
	}
	operation.AddResponse(http.StatusCreated, response)

	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:   options.Title,
			Version: options.Version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(options.Path, &openapi3.PathItem{Post: operation})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				options.SchemaName: openapi3.NewSchemaRef("", schema),
			},
		},
	}

	// Field defaults are initial values, not valid submissions.
	if err := doc.Validate(ctx, openapi3.DisableSchemaDefaultsValidation(), openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// ParseDocument loads and validates a JSON or YAML OpenAPI document.
func ParseDocument(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableSchemaDefaultsValidation(), openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// RequestSchema returns the JSON request body schema of the operation with
// the given id, or nil when the document has no such operation.
func RequestSchema(doc *openapi3.T, operationID string) *openapi3.Schema {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation == nil || operation.OperationID != operationID {
				continue
			}
			if operation.RequestBody == nil || operation.RequestBody.Value == nil {
				return nil
			}
			media := operation.RequestBody.Value.Content.Get("application/json")
			if media == nil || media.Schema == nil {
				return nil
			}
			return media.Schema.Value
		}
	}
	return nil
}

func documentOptions(root *forms.Group, opts []DocumentOption) DocumentOptions {
	name := root.Name()
	if name == "" {
		name = "form"
	}
	options := DocumentOptions{
		Title:       root.Label(),
		Version:     defaultVersion,
		SchemaName:  exportedName(name),
		Path:        "/" + strings.ToLower(name) + "s",
		OperationID: "save" + exportedName(name),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if strings.TrimSpace(options.Title) == "" {
		options.Title = name
	}
	return options
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
