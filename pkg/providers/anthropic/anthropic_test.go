package anthropic

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valyu-network/valyu-go/valyu"
)

func TestTools(t *testing.T) {
	client, err := valyu.NewClient(valyu.WithAPIKey("test-key"))
	require.NoError(t, err)

	tools := New(client).Tools()
	require.Len(t, tools, 1)

	toolParam, ok := tools[0].(anthropic.ToolParam)
	require.True(t, ok)

	encoded, err := json.Marshal(toolParam)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"valyu_search"`)
	assert.Contains(t, string(encoded), `"input_schema"`)
	assert.Contains(t, string(encoded), `"max_num_results"`)
}

func TestToolResultMessage(t *testing.T) {
	results := []anthropic.ContentBlockParamUnion{
		anthropic.NewToolResultBlock("call-1", `{"success": true}`, false),
	}
	message := ToolResultMessage(results)

	encoded, err := json.Marshal(message)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"user"`)
	assert.Contains(t, string(encoded), `"tool_result"`)
	assert.Contains(t, string(encoded), `"call-1"`)
}
