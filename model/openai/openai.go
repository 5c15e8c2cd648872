// Package openai provides a model.Gateway implementation over the OpenAI
// Chat Completions streaming API (including function/tool calling). It
// adapts the normalized Request/StreamEvent structures into the SDK's
// message format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/model"
)

// Options configure the OpenAI gateway.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Gateway wraps the OpenAI Chat Completions API behind the generic
// model.Gateway interface.
type Gateway struct {
	client *openai.Client
	opts   Options
}

// NewGateway creates a new OpenAI gateway using the official client.
func NewGateway(optFns ...func(o *Options)) *Gateway {
	client := openai.NewClient()
	return NewGatewayFromClient(&client, optFns...)
}

// NewGatewayFromClient creates a new OpenAI gateway from an existing client.
func NewGatewayFromClient(client *openai.Client, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{client: client, opts: opts}
}

// Generate streams one turn. Text and tool call fragments are forwarded as
// they arrive; the SDK's finish reason becomes the EndOfTurn signal.
func (g *Gateway) Generate(ctx context.Context, req model.Request) (<-chan model.StreamEvent, <-chan error) {
	out := make(chan model.StreamEvent, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := g.buildParams(req, buildMessages(req))

		stream := g.client.Chat.Completions.NewStreaming(ctx, params)
		ended := false
		for stream.Next() {
			ck := stream.Current()
			for _, ch := range ck.Choices {
				if ch.Delta.Content != "" {
					out <- model.TextDelta{Text: ch.Delta.Content}
				}
				for _, tc := range ch.Delta.ToolCalls {
					out <- model.ToolCallDelta{
						Index:             int(tc.Index),
						ID:                tc.ID,
						Type:              "function",
						Name:              tc.Function.Name,
						ArgumentsFragment: tc.Function.Arguments,
					}
				}
				if ch.FinishReason != "" {
					ended = true
					out <- model.EndOfTurn{FinishReason: ch.FinishReason}
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("openai streaming error: %w", err)
			return
		}
		if !ended {
			errCh <- fmt.Errorf("openai stream closed without finish reason")
		}
	}()

	return out, errCh
}

// buildMessages converts the normalized conversation into OpenAI chat
// messages. Instructions become the leading system message; tool results
// are linked to their originating call by id.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}

	for _, m := range req.Messages {
		switch m.Role {
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(m.Text))
		case core.RoleAssistant:
			if len(m.ToolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(m.Text))
				continue
			}
			messages = append(messages, assistantToolCallMessage(m))
		case core.RoleTool:
			messages = append(messages, openai.ToolMessage(m.Text, m.ToolCallID))
		default:
			if m.Text != "" {
				messages = append(messages, openai.UserMessage(m.Text))
			}
		}
	}
	return messages
}

// assistantToolCallMessage renders an assistant message that carries tool
// calls, preserving any streamed text alongside them.
func assistantToolCallMessage(m core.Message) openai.ChatCompletionMessageParamUnion {
	toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(m.ToolCalls))
	for i, tc := range m.ToolCalls {
		toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
			ID:   tc.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		}
	}

	param := &openai.ChatCompletionAssistantMessageParam{
		Role:      "assistant",
		ToolCalls: toolCalls,
	}
	if m.Text != "" {
		param.Content.OfString = openai.String(m.Text)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: param}
}

// buildParams assembles the OpenAI request parameters including tool definitions.
func (g *Gateway) buildParams(
	req model.Request,
	messages []openai.ChatCompletionMessageParamUnion,
) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               g.opts.Model,
		Temperature:         openai.Float(g.opts.Temperature),
		MaxCompletionTokens: openai.Int(g.opts.MaxCompletionTokens),
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Function.Name,
				Description: openai.String(tdef.Function.Description),
				Parameters:  tdef.Function.Parameters,
			},
		}
	}
	params.Tools = tools
	return params
}

// Info returns metadata describing this OpenAI gateway implementation.
func (g *Gateway) Info() model.Info {
	return model.Info{
		Name:          g.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}

var _ model.Gateway = (*Gateway)(nil)
