package llm

// BuildJudgmentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// It is sent to backends that support structured output and used locally by ValidateJudgment.
func BuildJudgmentJSONSchema() map[string]any {
	props := map[string]any{
		KeyIsNewDocument: map[string]any{"type": "boolean"},
	}
	for _, k := range metadataKeys {
		props[k] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
		"required":             append([]string{KeyIsNewDocument}, metadataKeys...),
	}
}
