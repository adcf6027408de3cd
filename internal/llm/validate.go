package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	judgmentSchemaOnce sync.Once
	judgmentSchema     *jsonschema.Schema
	judgmentSchemaErr  error
)

// ValidateJudgment checks the object span of a raw oracle response against the judgment
// schema. It is advisory: ParseJudgment accepts non-conforming responses.
func ValidateJudgment(raw string) error {
	span, ok := ObjectSpan(StripCodeFence(raw))
	if !ok {
		return fmt.Errorf("no json object in response")
	}
	judgmentSchemaOnce.Do(func() {
		judgmentSchema, judgmentSchemaErr = compileSchema(BuildJudgmentJSONSchema())
	})
	if judgmentSchemaErr != nil {
		return judgmentSchemaErr
	}
	var v any
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := judgmentSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
