// Package anthropic provides a model.Gateway implementation over the
// Anthropic Claude Messages API. Generation runs non-streaming against the
// API; the completed response is replayed as the normalized event sequence
// so the orchestrator consumes every provider through the same contract.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/model"
)

// Options configures the Anthropic gateway (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Gateway wraps the Anthropic Messages API behind the generic model.Gateway
// interface.
type Gateway struct {
	client *anthropic.Client
	opts   Options
}

// NewGateway creates a new Anthropic gateway using the official client.
func NewGateway(optFns ...func(o *Options)) *Gateway {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Gateway{client: &client, opts: opts}
}

// NewGatewayFromClient creates a new Anthropic gateway from an existing client.
func NewGatewayFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Gateway {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Generate runs one turn. The response content blocks are emitted in order:
// each text block as one TextDelta, each tool_use block as one complete
// ToolCallDelta carrying the full argument payload, followed by EndOfTurn
// with the provider stop reason.
func (g *Gateway) Generate(ctx context.Context, req model.Request) (<-chan model.StreamEvent, <-chan error) {
	out := make(chan model.StreamEvent, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := anthropic.MessageNewParams{
			Model:       g.opts.Model,
			Messages:    buildMessages(req.Messages),
			MaxTokens:   g.opts.MaxTokens,
			Temperature: anthropic.Float(g.opts.Temperature),
		}
		if req.Instructions != "" {
			params.System = []anthropic.TextBlockParam{{Text: req.Instructions}}
		}
		if len(req.Tools) > 0 {
			params.Tools = buildTools(req.Tools)
		}

		resp, err := g.client.Messages.New(ctx, params)
		if err != nil {
			errCh <- fmt.Errorf("anthropic api error: %w", err)
			return
		}

		toolIndex := 0
		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				textBlock := block.AsText()
				if textBlock.Text != "" {
					out <- model.TextDelta{Text: textBlock.Text}
				}
			case "tool_use":
				toolBlock := block.AsToolUse()
				args := ""
				if toolBlock.Input != nil {
					if argsBytes, err := json.Marshal(toolBlock.Input); err == nil {
						args = string(argsBytes)
					}
				}
				out <- model.ToolCallDelta{
					Index:             toolIndex,
					ID:                toolBlock.ID,
					Type:              "function",
					Name:              toolBlock.Name,
					ArgumentsFragment: args,
				}
				toolIndex++
			}
		}

		finishReason := "stop"
		if resp.StopReason != "" {
			finishReason = string(resp.StopReason)
		}
		out <- model.EndOfTurn{FinishReason: finishReason}
	}()

	return out, errCh
}

// buildMessages converts the normalized conversation to Anthropic message
// format. Tool results become tool_result blocks inside user messages as
// the API requires.
func buildMessages(msgs []core.Message) []anthropic.MessageParam {
	var messages []anthropic.MessageParam

	for _, m := range msgs {
		switch m.Role {
		case core.RoleUser:
			if m.Text != "" {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
			}
		case core.RoleAssistant:
			content := buildAssistantContent(m)
			if len(content) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(content...))
			}
		case core.RoleTool:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(m.ToolCallID, m.Text, false),
			))
		default:
			if m.Text != "" {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
			}
		}
	}

	return messages
}

// buildAssistantContent renders an assistant message's text and tool calls
// as content blocks.
func buildAssistantContent(m core.Message) []anthropic.ContentBlockParamUnion {
	var content []anthropic.ContentBlockParamUnion

	if m.Text != "" {
		content = append(content, anthropic.NewTextBlock(m.Text))
	}

	for _, tc := range m.ToolCalls {
		var input interface{}
		if tc.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Arguments), &input); err != nil {
				input = tc.Arguments // fallback to string
			}
		}
		content = append(content, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
	}

	return content
}

// buildTools converts normalized tool definitions to Anthropic tool format.
func buildTools(tools []model.ToolDefinition) []anthropic.ToolUnionParam {
	anthropicTools := make([]anthropic.ToolUnionParam, len(tools))

	for i, tool := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}

		if params := tool.Function.Parameters; params != nil {
			if properties, exists := params["properties"]; exists {
				inputSchema.Properties = properties
			}
			if required, exists := params["required"]; exists {
				inputSchema.Required = requiredFields(required)
			}
		}

		anthropicTools[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Function.Name)
	}

	return anthropicTools
}

// requiredFields normalizes a schema "required" entry to []string.
func requiredFields(required any) []string {
	switch req := required.(type) {
	case []string:
		return req
	case []interface{}:
		var out []string
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Info returns metadata describing this Anthropic gateway implementation.
func (g *Gateway) Info() model.Info {
	return model.Info{
		Name:          string(g.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}

var _ model.Gateway = (*Gateway)(nil)
