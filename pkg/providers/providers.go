// Package providers bridges the Valyu search API into LLM tool-calling
// loops. It defines the provider-neutral tool description and executor;
// the anthropic and openai subpackages wrap them into each vendor's tool
// format.
package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/valyu-network/valyu-go/valyu"
)

// SearchToolSlug is the tool name models invoke to run a search.
const SearchToolSlug = "valyu_search"

// Tool is a provider-neutral tool definition: a slug, a description for
// the model, and a JSON schema for the arguments.
type Tool struct {
	Slug        string
	Description string
	InputSchema map[string]any
}

// SearchTool returns the search tool definition. The schema is written
// out by hand rather than reflected so the per-field descriptions read
// well in model prompts.
func SearchTool() Tool {
	return Tool{
		Slug:        SearchToolSlug,
		Description: "Performs a deep search using the Valyu Deepsearch API to find relevant information from academic papers, news, financial market data, and authoritative sources.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query to perform",
				},
				"max_num_results": map[string]any{
					"type":        []string{"integer", "null"},
					"description": "The maximum number of results to return (1-20)",
				},
				"included_sources": map[string]any{
					"type":        []string{"array", "null"},
					"description": "Search over specific sources, can pass a domain (e.g. news.ycombinator.com), a url (e.g. https://arxiv.org/abs/1706.03762), or a specific valyu dataset (e.g. valyu/valyu-arxiv, wiley/wiley-finance-books). For most cases, do not use unless the user asks for it.",
					"items":       map[string]any{"type": "string"},
				},
				"excluded_sources": map[string]any{
					"type":        []string{"array", "null"},
					"description": "Select specific sources to exclude from the search, can pass a domain (e.g. news.ycombinator.com), a url (e.g. https://arxiv.org/abs/1706.03762), or a specific valyu dataset (e.g. valyu/valyu-arxiv, wiley/wiley-finance-books). For most cases, do not use unless the user asks for it.",
					"items":       map[string]any{"type": "string"},
				},
				"category": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Natural language category/guide phrase to help guide the search to the most relevant content. For example 'agentic use-cases'",
				},
				"start_date": map[string]any{
					"type":        []string{"string", "null"},
					"description": "The start date of the search in the format YYYY-MM-DD",
				},
				"end_date": map[string]any{
					"type":        []string{"string", "null"},
					"description": "The end date of the search in the format YYYY-MM-DD",
				},
				"relevance_threshold": map[string]any{
					"type":        []string{"number", "null"},
					"description": "The relevance threshold of the search in the range of 0-1, default is 0.5, you can set to >0.7 for only hyper-relevant results",
				},
				"response_length": map[string]any{
					"type":        []string{"string", "integer", "null"},
					"description": "The length of the response. Can be 'short', 'medium', 'large', 'max', or an integer (for character length). Default is max. Only use this if the user asks for it, e.g. to not use much input tokens.",
				},
			},
			"required":             []string{"query"},
			"additionalProperties": false,
		},
	}
}

// SchemaFor reflects a JSON schema map from the Go type T, respecting
// jsonschema struct tags. Useful when defining custom tools alongside the
// built-in search tool.
func SchemaFor[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(&v)
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("reflect tool schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("reflect tool schema: %w", err)
	}
	return out, nil
}

// SearchToolArgs mirrors the search tool's input schema for decoding
// model-produced arguments.
type SearchToolArgs struct {
	Query              string               `json:"query"`
	MaxNumResults      *int                 `json:"max_num_results,omitempty"`
	IncludedSources    []string             `json:"included_sources,omitempty"`
	ExcludedSources    []string             `json:"excluded_sources,omitempty"`
	Category           string               `json:"category,omitempty"`
	StartDate          string               `json:"start_date,omitempty"`
	EndDate            string               `json:"end_date,omitempty"`
	RelevanceThreshold *float64             `json:"relevance_threshold,omitempty"`
	ResponseLength     valyu.ResponseLength `json:"response_length,omitempty"`
}

// ExecutionResult is the outcome of one tool invocation. Output is a
// JSON document ready to hand back to the model; Err is set instead when
// the invocation could not run at all.
type ExecutionResult struct {
	Output string
	Err    string
}

// IsError reports whether the result carries an error instead of output.
func (r ExecutionResult) IsError() bool {
	return r.Err != ""
}

// Content returns the text to send back to the model, whichever side of
// the result is populated.
func (r ExecutionResult) Content() string {
	if r.IsError() {
		return r.Err
	}
	return r.Output
}

// Executor runs tool calls against a Valyu client. It is shared by the
// provider subpackages.
type Executor struct {
	client *valyu.Client
}

// NewExecutor wraps a Valyu client for tool execution.
func NewExecutor(client *valyu.Client) *Executor {
	return &Executor{client: client}
}

// Execute dispatches one tool call by slug, decoding args from the raw
// JSON the model produced. Unknown slugs and malformed arguments are
// reported through ExecutionResult.Err so the model can recover.
func (e *Executor) Execute(ctx context.Context, slug string, args json.RawMessage) ExecutionResult {
	if slug != SearchToolSlug {
		return ExecutionResult{Err: fmt.Sprintf("unknown tool: %s", slug)}
	}

	var toolArgs SearchToolArgs
	if err := json.Unmarshal(args, &toolArgs); err != nil {
		return ExecutionResult{Err: fmt.Sprintf("invalid tool arguments: %v", err)}
	}

	opts := &valyu.SearchOptions{
		IncludedSources:    toolArgs.IncludedSources,
		ExcludedSources:    toolArgs.ExcludedSources,
		Category:           toolArgs.Category,
		StartDate:          toolArgs.StartDate,
		EndDate:            toolArgs.EndDate,
		RelevanceThreshold: toolArgs.RelevanceThreshold,
		ResponseLength:     toolArgs.ResponseLength,
		IsToolCall:         valyu.Ptr(true),
	}
	if toolArgs.MaxNumResults != nil {
		opts.MaxNumResults = *toolArgs.MaxNumResults
	}

	resp, err := e.client.Search(ctx, toolArgs.Query, opts)
	if err != nil {
		return ExecutionResult{Err: err.Error()}
	}

	encoded, err := json.Marshal(resp)
	if err != nil {
		return ExecutionResult{Err: fmt.Sprintf("encode search response: %v", err)}
	}
	return ExecutionResult{Output: string(encoded)}
}
