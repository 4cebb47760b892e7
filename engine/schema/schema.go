package schema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// Schema is a JSON Schema document expressed as a plain map.
type Schema map[string]any

func (s *Schema) String() string {
	bytes, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(bytes)
}

// Compile builds a reusable Validator from the document. Callers that
// validate repeatedly should compile once and hold the Validator. A nil
// schema compiles to a nil Validator, which accepts anything.
func (s *Schema) Compile() (*Validator, error) {
	if s == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}
	compiled, err := jsonschema.NewCompiler().Compile(bytes)
	if err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate is a convenience for one-shot checks; it compiles on every call.
func (s *Schema) Validate(ctx context.Context, value any) error {
	validator, err := s.Compile()
	if err != nil {
		return err
	}
	return validator.Validate(ctx, value)
}

// Validator is a compiled schema ready for repeated validation.
type Validator struct {
	compiled *jsonschema.Schema
}

// Validate checks value against the compiled schema. A nil Validator
// accepts anything.
func (v *Validator) Validate(_ context.Context, value any) error {
	if v == nil {
		return nil
	}
	result := v.compiled.Validate(value)
	if result.Valid {
		return nil
	}
	return fmt.Errorf("value does not conform to schema: %v", result.Errors)
}
