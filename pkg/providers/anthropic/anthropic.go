// Package anthropic adapts the Valyu search tool to the Anthropic
// Messages API: tool registration params plus a handler that executes
// tool_use blocks and folds the results back into the conversation.
package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/valyu-network/valyu-go/pkg/providers"
	"github.com/valyu-network/valyu-go/valyu"
)

// Provider wraps a Valyu client for use inside an Anthropic tool loop.
type Provider struct {
	executor *providers.Executor
}

// New builds a Provider over an existing Valyu client.
func New(client *valyu.Client) *Provider {
	return &Provider{executor: providers.NewExecutor(client)}
}

// Tools returns the Valyu tool definitions in Anthropic format, ready to
// pass as MessageNewParams.Tools.
func (p *Provider) Tools() []anthropic.ToolUnionUnionParam {
	tools := make([]anthropic.ToolUnionUnionParam, 0, 1)
	for _, tool := range []providers.Tool{providers.SearchTool()} {
		var schema interface{} = tool.InputSchema
		tools = append(tools, anthropic.ToolParam{
			Name:        anthropic.F(tool.Slug),
			Description: anthropic.F(tool.Description),
			InputSchema: anthropic.F(schema),
		})
	}
	return tools
}

// HandleToolCalls executes every Valyu tool_use block in a message and
// returns the matching tool_result blocks. An empty slice means the
// message contained no Valyu tool calls and the conversation is done.
func (p *Provider) HandleToolCalls(ctx context.Context, message *anthropic.Message) []anthropic.ContentBlockParamUnion {
	var results []anthropic.ContentBlockParamUnion
	if message == nil {
		return results
	}

	for _, block := range message.Content {
		toolUse, ok := block.AsUnion().(anthropic.ToolUseBlock)
		if !ok || toolUse.Name != providers.SearchToolSlug {
			continue
		}
		result := p.executor.Execute(ctx, toolUse.Name, toolUse.Input)
		results = append(results, anthropic.NewToolResultBlock(toolUse.ID, result.Content(), result.IsError()))
	}
	return results
}

// ToolResultMessage wraps tool_result blocks into the user message that
// continues the conversation after a tool turn.
func ToolResultMessage(results []anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{
		Role:    anthropic.F(anthropic.MessageParamRoleUser),
		Content: anthropic.F(results),
	}
}
