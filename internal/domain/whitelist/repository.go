package whitelist

import "context"

// Repository persists whitelisted chats. GetByGroupID returns (nil, nil)
// when the group is not whitelisted.
type Repository interface {
	Create(ctx context.Context, chat *Chat) error
	GetByGroupID(ctx context.Context, groupID string) (*Chat, error)
	List(ctx context.Context) ([]Chat, error)
	Delete(ctx context.Context, groupID string) (bool, error)
}
