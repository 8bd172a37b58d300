// Package template validates evaluation template documents before they
// are stored, so the workflow engine can trust section and question
// structure at answer time.
package template

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
	"github.com/Jonp4208/cfa-eval-app-sub002/schemas"
)

// FieldError is a single schema violation at one field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every schema violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("template validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateDocument checks a raw template document against the embedded
// schema and returns the decoded template when it passes.
func ValidateDocument(doc []byte) (*evaluation.Template, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemas.EvaluationTemplate),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run schema validation: %w", err)
	}

	if !result.Valid() {
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
		return nil, validationErr
	}

	var tmpl evaluation.Template
	if err := json.Unmarshal(doc, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to decode template document: %w", err)
	}

	// The schema cannot express the cross-field rule: rating questions
	// must carry a grading scale.
	var missing []FieldError
	for si, section := range tmpl.Sections {
		for qi, q := range section.Questions {
			if q.Type == evaluation.QuestionTypeRating && q.GradingScale == nil {
				missing = append(missing, FieldError{
					Field:   fmt.Sprintf("sections.%d.questions.%d", si, qi),
					Message: "rating question requires a grading_scale",
				})
			}
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Errors: missing}
	}

	return &tmpl, nil
}
