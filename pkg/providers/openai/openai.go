// Package openai adapts the Valyu search tool to the OpenAI Chat
// Completions API: tool registration params plus a handler that executes
// tool calls and produces the tool messages for the next turn.
package openai

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared/constant"

	"github.com/valyu-network/valyu-go/pkg/providers"
	"github.com/valyu-network/valyu-go/valyu"
)

// Provider wraps a Valyu client for use inside an OpenAI tool loop.
type Provider struct {
	executor *providers.Executor
}

// New builds a Provider over an existing Valyu client.
func New(client *valyu.Client) *Provider {
	return &Provider{executor: providers.NewExecutor(client)}
}

// Tools returns the Valyu tool definitions in Chat Completions format,
// ready to pass as ChatCompletionNewParams.Tools.
func (p *Provider) Tools() []openai.ChatCompletionToolUnionParam {
	tools := make([]openai.ChatCompletionToolUnionParam, 0, 1)
	for _, tool := range []providers.Tool{providers.SearchTool()} {
		function := openai.FunctionDefinitionParam{
			Name:        tool.Slug,
			Description: openai.String(tool.Description),
			Parameters:  openai.FunctionParameters(tool.InputSchema),
		}
		tools = append(tools, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: function,
				Type:     constant.ValueOf[constant.Function](),
			},
		})
	}
	return tools
}

// HandleToolCalls executes every Valyu tool call in a completion's first
// choice and returns the tool messages to append before the next model
// call. An empty slice means the completion contained no Valyu tool
// calls.
func (p *Provider) HandleToolCalls(ctx context.Context, completion *openai.ChatCompletion) []openai.ChatCompletionMessageParamUnion {
	var results []openai.ChatCompletionMessageParamUnion
	if completion == nil || len(completion.Choices) == 0 {
		return results
	}

	for _, call := range completion.Choices[0].Message.ToolCalls {
		if call.Function.Name != providers.SearchToolSlug {
			continue
		}
		result := p.executor.Execute(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
		results = append(results, openai.ToolMessage(result.Content(), call.ID))
	}
	return results
}
