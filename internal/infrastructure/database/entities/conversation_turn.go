package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"split-server/internal/domain/conversation"
	"split-server/internal/domain/llm"
)

// ConversationTurn represents the database schema for one persisted turn of
// a group conversation. Sequence orders turns within a thread and is unique
// per thread.
type ConversationTurn struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	ThreadID   string         `gorm:"type:varchar(128);uniqueIndex:idx_turn_thread_sequence;not null"`
	Sequence   int            `gorm:"uniqueIndex:idx_turn_thread_sequence;not null"`
	Role       string         `gorm:"type:varchar(20);not null"`
	Content    string         `gorm:"type:text;not null"`
	ToolCalls  datatypes.JSON `gorm:"type:jsonb"`
	ToolCallID *string        `gorm:"type:varchar(64)"`
}

// TableName specifies the table name for ConversationTurn.
func (ConversationTurn) TableName() string {
	return "conversation_turns"
}

// EtoD converts database entity to domain model
func (t *ConversationTurn) EtoD() (*conversation.Turn, error) {
	turn := &conversation.Turn{
		ID:        t.ID,
		ThreadID:  t.ThreadID,
		Sequence:  t.Sequence,
		Role:      conversation.Role(t.Role),
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}

	if len(t.ToolCalls) > 0 {
		var calls []llm.ToolCall
		if err := json.Unmarshal(t.ToolCalls, &calls); err != nil {
			return nil, fmt.Errorf("unmarshal tool calls: %w", err)
		}
		turn.ToolCalls = calls
	}

	if t.ToolCallID != nil {
		turn.ToolCallID = *t.ToolCallID
	}

	return turn, nil
}

// NewSchemaConversationTurn creates a database entity from domain model
func NewSchemaConversationTurn(turn *conversation.Turn) (*ConversationTurn, error) {
	entity := &ConversationTurn{
		ID:        turn.ID,
		ThreadID:  turn.ThreadID,
		Sequence:  turn.Sequence,
		Role:      string(turn.Role),
		Content:   turn.Content,
		CreatedAt: turn.CreatedAt,
	}

	if len(turn.ToolCalls) > 0 {
		raw, err := json.Marshal(turn.ToolCalls)
		if err != nil {
			return nil, fmt.Errorf("marshal tool calls: %w", err)
		}
		entity.ToolCalls = datatypes.JSON(raw)
	}

	if turn.ToolCallID != "" {
		id := turn.ToolCallID
		entity.ToolCallID = &id
	}

	return entity, nil
}
