package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valyu-network/valyu-go/valyu"
)

func newTestExecutor(t *testing.T, handler http.Handler) *Executor {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := valyu.NewClient(
		valyu.WithAPIKey("test-key"),
		valyu.WithBaseURL(server.URL),
	)
	require.NoError(t, err)
	return NewExecutor(client)
}

func TestSearchToolShape(t *testing.T) {
	tool := SearchTool()

	assert.Equal(t, SearchToolSlug, tool.Slug)
	assert.NotEmpty(t, tool.Description)
	assert.Equal(t, "object", tool.InputSchema["type"])

	props, ok := tool.InputSchema["properties"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{
		"query", "max_num_results", "included_sources", "excluded_sources",
		"category", "start_date", "end_date", "relevance_threshold", "response_length",
	} {
		assert.Contains(t, props, name)
	}

	required, ok := tool.InputSchema["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"query"}, required)

	// The schema must survive JSON encoding for tool registration
	_, err := json.Marshal(tool.InputSchema)
	require.NoError(t, err)
}

func TestSchemaFor(t *testing.T) {
	type args struct {
		City string `json:"city" jsonschema:"required,description=City name"`
		Days int    `json:"days" jsonschema:"description=Forecast days"`
	}

	schema, err := SchemaFor[args]()
	require.NoError(t, err)

	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "city")
	assert.Contains(t, props, "days")
}

func TestExecuteSearch(t *testing.T) {
	var gotBody map[string]any
	executor := newTestExecutor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deepsearch", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"success": true, "query": "golang generics", "results": [{"title": "Go generics", "url": "https://go.dev/blog/intro-generics", "content": "text", "source": "go.dev", "price": 0, "length": 4, "relevance_score": 0.95}]}`))
	}))

	args := json.RawMessage(`{
		"query": "golang generics",
		"max_num_results": 3,
		"included_sources": ["go.dev"],
		"relevance_threshold": 0.7,
		"response_length": "short"
	}`)
	result := executor.Execute(context.Background(), SearchToolSlug, args)

	require.False(t, result.IsError(), result.Err)

	var resp valyu.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(result.Output), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Go generics", resp.Results[0].Title)

	// Model arguments mapped onto the wire request
	assert.Equal(t, float64(3), gotBody["max_num_results"])
	assert.Equal(t, []any{"go.dev"}, gotBody["included_sources"])
	assert.Equal(t, float64(0.7), gotBody["relevance_threshold"])
	assert.Equal(t, "short", gotBody["response_length"])
	// Tool-originated searches are flagged as such
	assert.Equal(t, true, gotBody["is_tool_call"])
}

func TestExecuteErrors(t *testing.T) {
	executor := newTestExecutor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "query": "q", "results": []}`))
	}))

	t.Run("unknown slug", func(t *testing.T) {
		result := executor.Execute(context.Background(), "valyu_teleport", json.RawMessage(`{}`))
		require.True(t, result.IsError())
		assert.Contains(t, result.Err, "unknown tool")
		assert.Equal(t, result.Err, result.Content())
	})

	t.Run("malformed arguments", func(t *testing.T) {
		result := executor.Execute(context.Background(), SearchToolSlug, json.RawMessage(`{"query": 42`))
		require.True(t, result.IsError())
		assert.Contains(t, result.Err, "invalid tool arguments")
	})

	t.Run("local validation failure", func(t *testing.T) {
		result := executor.Execute(context.Background(), SearchToolSlug, json.RawMessage(`{"query": ""}`))
		require.True(t, result.IsError())
		assert.Contains(t, result.Err, "query")
	})
}
