package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"split-server/internal/domain/llm"
)

type mockProvider struct {
	CreateChatCompletionFunc func(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
	calls                    []llm.ChatCompletionRequest
}

func (m *mockProvider) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	m.calls = append(m.calls, req)
	if m.CreateChatCompletionFunc != nil {
		return m.CreateChatCompletionFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func assistantResponse(msg llm.ChatMessage) *llm.ChatCompletionResponse {
	return &llm.ChatCompletionResponse{
		Choices: []llm.ChatCompletionChoice{{Message: msg}},
	}
}

func echoRegistry() *Registry {
	return NewRegistry(Definition{
		Name:        "echo",
		Description: "echo the argument back",
		Parameters:  map[string]any{"type": "object"},
		Run: func(_ context.Context, args json.RawMessage) string {
			var req struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(args, &req); err != nil {
				return "Error: bad args"
			}
			return "echo: " + req.Text
		},
	})
}

func TestExecuteFinalMessageWithoutTools(t *testing.T) {
	provider := &mockProvider{
		CreateChatCompletionFunc: func(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
			return assistantResponse(llm.ChatMessage{Role: "assistant", Content: "done"}), nil
		},
	}
	orchestrator := NewOrchestrator(provider, echoRegistry(), "test-model", 0.7, 8, zerolog.Nop())

	result, err := orchestrator.Execute(context.Background(), []llm.ChatMessage{
		{Role: "user", Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.FinalMessage.Content != "done" {
		t.Errorf("FinalMessage.Content = %q, want done", result.FinalMessage.Content)
	}
	if len(result.NewMessages) != 1 {
		t.Errorf("len(NewMessages) = %d, want 1", len(result.NewMessages))
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider called %d times, want 1", len(provider.calls))
	}
}

func TestExecuteToolRoundTrip(t *testing.T) {
	toolCall := llm.ToolCall{
		ID:   "call-1",
		Type: "function",
		Function: llm.ToolFunction{
			Name:      "echo",
			Arguments: json.RawMessage(`{"text": "26 / 2"}`),
		},
	}

	provider := &mockProvider{}
	provider.CreateChatCompletionFunc = func(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		if len(provider.calls) == 1 {
			return assistantResponse(llm.ChatMessage{Role: "assistant", ToolCalls: []llm.ToolCall{toolCall}}), nil
		}
		last := req.Messages[len(req.Messages)-1]
		if last.Role != "tool" || last.ToolCallID == nil || *last.ToolCallID != "call-1" {
			t.Errorf("second request last message = %+v, want tool result for call-1", last)
		}
		if last.Content != "echo: 26 / 2" {
			t.Errorf("tool outcome = %q", last.Content)
		}
		return assistantResponse(llm.ChatMessage{Role: "assistant", Content: "all settled"}), nil
	}

	orchestrator := NewOrchestrator(provider, echoRegistry(), "test-model", 0.7, 8, zerolog.Nop())
	result, err := orchestrator.Execute(context.Background(), []llm.ChatMessage{
		{Role: "user", Content: "split the bill"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.FinalMessage.Content != "all settled" {
		t.Errorf("FinalMessage.Content = %q", result.FinalMessage.Content)
	}
	// assistant tool-call turn, tool result turn, final assistant turn
	if len(result.NewMessages) != 3 {
		t.Fatalf("len(NewMessages) = %d, want 3", len(result.NewMessages))
	}
	if len(result.NewMessages[0].ToolCalls) != 1 {
		t.Errorf("NewMessages[0] missing tool calls")
	}
	if result.NewMessages[1].Role != "tool" {
		t.Errorf("NewMessages[1].Role = %q, want tool", result.NewMessages[1].Role)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	toolCall := llm.ToolCall{
		ID:   "call-1",
		Type: "function",
		Function: llm.ToolFunction{
			Name:      "teleport",
			Arguments: json.RawMessage(`{}`),
		},
	}

	provider := &mockProvider{}
	provider.CreateChatCompletionFunc = func(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
		if len(provider.calls) == 1 {
			return assistantResponse(llm.ChatMessage{Role: "assistant", ToolCalls: []llm.ToolCall{toolCall}}), nil
		}
		last := req.Messages[len(req.Messages)-1]
		if last.Content != "Error: unknown tool 'teleport'" {
			t.Errorf("tool outcome = %q", last.Content)
		}
		return assistantResponse(llm.ChatMessage{Role: "assistant", Content: "sorry"}), nil
	}

	orchestrator := NewOrchestrator(provider, echoRegistry(), "test-model", 0.7, 8, zerolog.Nop())
	if _, err := orchestrator.Execute(context.Background(), []llm.ChatMessage{{Role: "user", Content: "go"}}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestExecuteDepthExceeded(t *testing.T) {
	toolCall := llm.ToolCall{
		ID:   "call-1",
		Type: "function",
		Function: llm.ToolFunction{
			Name:      "echo",
			Arguments: json.RawMessage(`{"text": "again"}`),
		},
	}

	provider := &mockProvider{
		CreateChatCompletionFunc: func(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
			return assistantResponse(llm.ChatMessage{Role: "assistant", ToolCalls: []llm.ToolCall{toolCall}}), nil
		},
	}

	orchestrator := NewOrchestrator(provider, echoRegistry(), "test-model", 0.7, 3, zerolog.Nop())
	_, err := orchestrator.Execute(context.Background(), []llm.ChatMessage{{Role: "user", Content: "loop"}})
	if !errors.Is(err, ErrToolDepthExceeded) {
		t.Fatalf("err = %v, want ErrToolDepthExceeded", err)
	}
	if len(provider.calls) != 3 {
		t.Errorf("provider called %d times, want 3", len(provider.calls))
	}
}

func TestExecuteProviderError(t *testing.T) {
	provider := &mockProvider{
		CreateChatCompletionFunc: func(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
			return nil, errors.New("llm api error: rate limited")
		},
	}

	orchestrator := NewOrchestrator(provider, echoRegistry(), "test-model", 0.7, 8, zerolog.Nop())
	_, err := orchestrator.Execute(context.Background(), []llm.ChatMessage{{Role: "user", Content: "hello"}})
	if err == nil || err.Error() != "llm api error: rate limited" {
		t.Fatalf("err = %v, want provider error passthrough", err)
	}
}
