package tool

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"split-server/internal/domain/llm"
	"split-server/internal/infrastructure/metrics"
)

// ErrToolDepthExceeded is returned when the orchestrator hits the max
// number of oracle round trips.
var ErrToolDepthExceeded = errors.New("tool orchestration depth exceeded")

// Orchestrator drives the oracle until it answers without requesting tools.
// The inference result is dispatched explicitly: either a final assistant
// message, or pending tool calls that are executed synchronously and fed
// back as tool turns.
type Orchestrator struct {
	provider    llm.Provider
	registry    *Registry
	model       string
	temperature float64
	maxDepth    int
	log         zerolog.Logger
}

// NewOrchestrator constructs the orchestration loop.
func NewOrchestrator(provider llm.Provider, registry *Registry, model string, temperature float64, maxDepth int, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		provider:    provider,
		registry:    registry,
		model:       model,
		temperature: temperature,
		maxDepth:    maxDepth,
		log:         log.With().Str("domain", "tool").Logger(),
	}
}

// ExecuteResult captures the final assistant message plus every message the
// loop produced (assistant tool-call turns and tool result turns included),
// in order.
type ExecuteResult struct {
	FinalMessage llm.ChatMessage
	NewMessages  []llm.ChatMessage
	Usage        *llm.Usage
}

// Execute runs the loop over the given history. The history itself is not
// mutated; produced messages are returned in NewMessages.
func (o *Orchestrator) Execute(ctx context.Context, history []llm.ChatMessage) (*ExecuteResult, error) {
	messages := append([]llm.ChatMessage(nil), history...)
	var produced []llm.ChatMessage
	var usage *llm.Usage

	temperature := o.temperature

	for depth := 0; depth < o.maxDepth; depth++ {
		resp, err := o.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
			Model:       o.model,
			Messages:    messages,
			Tools:       o.registry.Definitions(),
			Temperature: &temperature,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("oracle returned no choices")
		}
		choice := resp.Choices[0]
		usage = resp.Usage

		messages = append(messages, choice.Message)
		produced = append(produced, choice.Message)

		if len(choice.Message.ToolCalls) == 0 {
			return &ExecuteResult{
				FinalMessage: choice.Message,
				NewMessages:  produced,
				Usage:        usage,
			}, nil
		}

		for _, call := range choice.Message.ToolCalls {
			started := time.Now()
			outcome := o.registry.Call(ctx, call.Function.Name, call.Function.Arguments)
			metrics.ObserveToolCall(call.Function.Name, outcome, time.Since(started))

			o.log.Debug().
				Str("tool", call.Function.Name).
				Str("call_id", call.ID).
				Msg("executed tool call")

			callID := call.ID
			toolMsg := llm.ChatMessage{
				Role:       "tool",
				Content:    outcome,
				ToolCallID: &callID,
			}
			messages = append(messages, toolMsg)
			produced = append(produced, toolMsg)
		}
	}

	return nil, ErrToolDepthExceeded
}
