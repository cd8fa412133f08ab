package tool

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITools converts a role's catalogue into the function-calling
// tool list the model consumes. Input schemas pass through unchanged:
// they are already JSON Schema.
func (c *Catalog) OpenAITools() []openai.Tool {
	defs := c.List()
	out := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  json.RawMessage(d.InputSchema),
			},
		})
	}
	return out
}

// ParseToolCall decodes a model-emitted tool call into a name and raw
// argument object. The arguments are untrusted and must go through
// Definition.Validate before any handler sees them.
func ParseToolCall(call openai.ToolCall) (name string, raw map[string]interface{}, err error) {
	name = call.Function.Name
	raw = map[string]interface{}{}
	if call.Function.Arguments == "" {
		return name, raw, nil
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &raw); err != nil {
		return name, nil, fmt.Errorf("tool call %s: arguments are not a JSON object: %w", name, err)
	}
	return name, raw, nil
}
