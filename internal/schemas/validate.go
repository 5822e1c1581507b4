// Package schemas validates tailoring output against its JSON Schema before
// it is persisted or rendered. The schema enforces the structural contract
// the renderer depends on, most importantly that every included source
// carries between 3 and 5 bullet points.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jmartell/cherrypick/internal/types"
)

//go:embed tailored_resume.schema.json
var tailoredResumeSchema string

// ValidationError reports every field that failed schema validation
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at one field path
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("tailored resume failed schema validation:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateTailoredResume marshals the resume and checks it against the
// embedded schema. Returns the marshaled JSON on success so callers can
// persist exactly what was validated.
func ValidateTailoredResume(resume *types.TailoredResume) ([]byte, error) {
	doc, err := json.Marshal(resume)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tailored resume: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(tailoredResumeSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return doc, nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return nil, ve
}
