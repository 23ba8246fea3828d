package conversation

import (
	"time"

	"split-server/internal/domain/llm"
)

// Role indicates who authored the conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is one persisted entry in a group's conversation. Assistant turns
// may carry tool calls; tool turns carry the id of the call they answer.
type Turn struct {
	ID         uint
	ThreadID   string
	Sequence   int
	Role       Role
	Content    string
	ToolCalls  []llm.ToolCall
	ToolCallID string
	CreatedAt  time.Time
}

// ToChatMessage converts a persisted turn into the oracle wire shape.
func (t Turn) ToChatMessage() llm.ChatMessage {
	msg := llm.ChatMessage{
		Role:      string(t.Role),
		Content:   t.Content,
		ToolCalls: t.ToolCalls,
	}
	if t.ToolCallID != "" {
		id := t.ToolCallID
		msg.ToolCallID = &id
	}
	return msg
}

// TurnFromChatMessage converts an oracle message back into a turn.
func TurnFromChatMessage(threadID string, msg llm.ChatMessage) Turn {
	turn := Turn{
		ThreadID:  threadID,
		Role:      Role(msg.Role),
		Content:   msg.Content,
		ToolCalls: msg.ToolCalls,
	}
	if msg.ToolCallID != nil {
		turn.ToolCallID = *msg.ToolCallID
	}
	return turn
}
