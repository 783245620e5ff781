package llm

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Schema is a named JSON schema generated from a Go type.
type Schema struct {
	Name       string
	Definition jsonschema.Definition
}

var (
	schemaMu    sync.Mutex
	schemaCache = map[reflect.Type]*Schema{}
)

// SchemaFor derives the schema of T from its json tags. Schemas are cached per
// type since they never change at runtime.
func SchemaFor[T any]() (*Schema, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("structured output type must be a struct, got %v", t)
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[t]; ok {
		return s, nil
	}

	def, err := jsonschema.GenerateSchemaForType(zero)
	if err != nil {
		return nil, fmt.Errorf("generate schema for %s: %w", t.Name(), err)
	}
	s := &Schema{Name: t.Name(), Definition: *def}
	schemaCache[t] = s
	return s, nil
}

// Decode parses raw model output into T. The value must satisfy both the JSON
// schema and T's validate tags; anything else is an error.
func Decode[T any](schema *Schema, raw string, v *validator.Validate) (T, error) {
	var out T
	cleaned := StripCodeFences(StripReasoning(raw))
	if cleaned == "" {
		return out, fmt.Errorf("%s: empty response", schema.Name)
	}
	if err := jsonschema.VerifySchemaAndUnmarshal(schema.Definition, []byte(cleaned), &out); err != nil {
		return out, fmt.Errorf("%s: schema validation: %w", schema.Name, err)
	}
	if v != nil {
		if err := v.Struct(out); err != nil {
			return out, fmt.Errorf("%s: field validation: %w", schema.Name, err)
		}
	}
	return out, nil
}
