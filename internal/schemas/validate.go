// Package schemas provides JSON Schema validation for structured data
// crossing the system boundary.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed feedback.schema.json
var feedbackSchemaJSON []byte

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for _, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", fe.Field, fe.Message))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ValidateFeedback validates a raw JobFeedback JSON document against the
// feedback schema. Returns a *ValidationError describing every violation, or
// nil when the document is valid.
func ValidateFeedback(doc []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(feedbackSchemaJSON)
	docLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("failed to validate feedback document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
