package conversation

import "context"

// Store persists the ordered turn sequence of each thread.
type Store interface {
	// Append adds turns to the end of the thread's sequence, creating the
	// thread implicitly on first use.
	Append(ctx context.Context, threadID string, turns []Turn) error
	// Load returns the thread's full sequence in append order. An unknown
	// thread yields an empty slice.
	Load(ctx context.Context, threadID string) ([]Turn, error)
	// Replace swaps the thread's entire persisted sequence for the given
	// turns inside one transaction.
	Replace(ctx context.Context, threadID string, turns []Turn) error
}
