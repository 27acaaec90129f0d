// Package schemas validates externally supplied scoring documents against
// JSON Schemas embedded at compile time.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names accepted by Validate.
const (
	EvidenceBundleSchema = "evidence_bundle.schema.json"
	ScoreInputSchema     = "score_input.schema.json"
)

// cache stores compiled schemas to avoid repeated parsing
var (
	cache   = make(map[string]*gojsonschema.Schema)
	cacheMu sync.RWMutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or compiling an embedded schema
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateEvidenceBundle checks a resolved evidence-bundle document.
func ValidateEvidenceBundle(doc []byte) error {
	return Validate(EvidenceBundleSchema, doc)
}

// ValidateScoreInput checks a replay document: a parsed resume plus its
// resolved evidence, scored without any network activity.
func ValidateScoreInput(doc []byte) error {
	return Validate(ScoreInputSchema, doc)
}

// Validate checks a JSON document against the named embedded schema.
// Violations come back as a *ValidationError; a schema that cannot be
// loaded or compiled comes back as a *SchemaLoadError.
func Validate(schemaName string, doc []byte) error {
	schema, err := loadSchema(schemaName)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

// loadSchema compiles and caches an embedded schema.
func loadSchema(name string) (*gojsonschema.Schema, error) {
	// Check cache first
	cacheMu.RLock()
	if schema, exists := cache[name]; exists {
		cacheMu.RUnlock()
		return schema, nil
	}
	cacheMu.RUnlock()

	// Load from embedded filesystem
	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{
			Name:    name,
			Message: "schema not embedded",
			Cause:   err,
		}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{
			Name:    name,
			Message: "schema failed to compile",
			Cause:   err,
		}
	}

	// Cache the result
	cacheMu.Lock()
	cache[name] = schema
	cacheMu.Unlock()

	return schema, nil
}
