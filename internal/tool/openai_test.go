package tool

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventra-io/eventra/internal/identity"
)

func TestOpenAITools(t *testing.T) {
	catalog := BuildCatalogs()[identity.RoleClient]
	tools := catalog.OpenAITools()
	require.Len(t, tools, len(catalog.List()))

	for _, tl := range tools {
		assert.Equal(t, openai.ToolTypeFunction, tl.Type)
		require.NotNil(t, tl.Function)
		assert.NotEmpty(t, tl.Function.Name)
		assert.NotEmpty(t, tl.Function.Description)
	}
}

func TestParseToolCall(t *testing.T) {
	name, raw, err := ParseToolCall(openai.ToolCall{
		Function: openai.FunctionCall{
			Name:      "add_guest",
			Arguments: `{"event_id": "evt_1", "name": "Dana", "plus_ones": 2}`,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "add_guest", name)
	assert.Equal(t, "evt_1", raw["event_id"])
	assert.Equal(t, float64(2), raw["plus_ones"])
}

func TestParseToolCall_EmptyAndMalformed(t *testing.T) {
	_, raw, err := ParseToolCall(openai.ToolCall{Function: openai.FunctionCall{Name: "get_event_details"}})
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, _, err = ParseToolCall(openai.ToolCall{
		Function: openai.FunctionCall{Name: "add_guest", Arguments: `[1,2]`},
	})
	require.Error(t, err)
}
