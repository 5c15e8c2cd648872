// Package gollm provides a text-only model.Gateway over the gollm
// multi-provider client. It never proposes tool calls; it is useful for
// plain conversational runs and for providers that only ship a unified
// text API. SupportsTools reports false so callers can pick a richer
// gateway when tool use matters.
package gollm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/teilomillet/gollm"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/model"
)

// Options configures the gollm gateway.
type Options struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	APIKey      string
	// ExtraConfig forwards additional gollm configuration options.
	ExtraConfig []gollm.ConfigOption
}

// Gateway wraps a gollm.LLM behind the generic model.Gateway interface.
type Gateway struct {
	llm  gollm.LLM
	opts Options
}

// NewGateway creates a gollm-backed gateway. If APIKey is empty gollm reads
// it from the provider's environment variable.
func NewGateway(optFns ...func(o *Options)) (*Gateway, error) {
	opts := Options{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := []gollm.ConfigOption{
		gollm.SetProvider(opts.Provider),
		gollm.SetModel(opts.Model),
		gollm.SetMaxTokens(opts.MaxTokens),
		gollm.SetTemperature(opts.Temperature),
		gollm.SetMaxRetries(0),
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if opts.APIKey != "" {
		cfg = append(cfg, gollm.SetAPIKey(opts.APIKey))
	}
	cfg = append(cfg, opts.ExtraConfig...)

	llm, err := gollm.NewLLM(cfg...)
	if err != nil {
		return nil, fmt.Errorf("create gollm client for provider %s: %w", opts.Provider, err)
	}

	return &Gateway{llm: llm, opts: opts}, nil
}

// NewGatewayFromLLM wraps an existing gollm.LLM instance.
func NewGatewayFromLLM(llm gollm.LLM, optFns ...func(o *Options)) *Gateway {
	opts := Options{Provider: "gollm"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{llm: llm, opts: opts}
}

// Generate runs one text turn. Providers with native streaming yield one
// TextDelta per token; others yield the full completion as a single delta.
// Every successful turn ends with EndOfTurn{"stop"}.
func (g *Gateway) Generate(ctx context.Context, req model.Request) (<-chan model.StreamEvent, <-chan error) {
	out := make(chan model.StreamEvent, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		prompt := translateRequest(req)

		if !g.llm.SupportsStreaming() {
			text, err := g.llm.Generate(ctx, prompt)
			if err != nil {
				errCh <- fmt.Errorf("gollm generate: %w", err)
				return
			}
			if text != "" {
				out <- model.TextDelta{Text: text}
			}
			out <- model.EndOfTurn{FinishReason: "stop"}
			return
		}

		stream, err := g.llm.Stream(ctx, prompt)
		if err != nil {
			errCh <- fmt.Errorf("gollm stream: %w", err)
			return
		}
		defer stream.Close()

		for {
			token, err := stream.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				errCh <- fmt.Errorf("gollm stream: %w", err)
				return
			}
			if token == nil || token.Text == "" {
				continue
			}
			out <- model.TextDelta{Text: token.Text}
		}
		out <- model.EndOfTurn{FinishReason: "stop"}
	}()

	return out, errCh
}

// translateRequest flattens the conversation into a gollm prompt. gollm
// exposes a single prompt string, so history is serialized with role
// prefixes; instructions map to the system prompt.
func translateRequest(req model.Request) *gollm.Prompt {
	var parts []string
	for _, m := range req.Messages {
		switch m.Role {
		case core.RoleUser:
			parts = append(parts, m.Text)
		case core.RoleAssistant:
			if m.Text != "" {
				parts = append(parts, "[Assistant]: "+m.Text)
			}
		case core.RoleTool:
			parts = append(parts, "[Tool Result]: "+m.Text)
		}
	}

	promptText := strings.Join(parts, "\n")
	if promptText == "" {
		promptText = "Hello"
	}

	var promptOpts []gollm.PromptOption
	if req.Instructions != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(strings.TrimSpace(req.Instructions), gollm.CacheTypeEphemeral))
	}

	return gollm.NewPrompt(promptText, promptOpts...)
}

// Info returns metadata describing this gollm gateway implementation.
func (g *Gateway) Info() model.Info {
	return model.Info{
		Name:          g.opts.Model,
		Provider:      g.opts.Provider,
		SupportsTools: false,
	}
}

var _ model.Gateway = (*Gateway)(nil)
