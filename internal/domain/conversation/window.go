package conversation

import (
	"context"

	"github.com/rs/zerolog"
)

// Window bounds each thread's persisted conversation to the most recent
// maxTurns entries. Trimming is a read-modify-write over the whole
// sequence, so all mutations for one thread are serialized; threads are
// independent.
type Window struct {
	store    Store
	maxTurns int
	locks    *KeyedMutex
	log      zerolog.Logger
}

// NewWindow constructs a context window manager.
func NewWindow(store Store, maxTurns int, log zerolog.Logger) *Window {
	return &Window{
		store:    store,
		maxTurns: maxTurns,
		locks:    NewKeyedMutex(),
		log:      log.With().Str("domain", "conversation").Logger(),
	}
}

// AppendTurn appends one turn to the thread's persisted sequence.
func (w *Window) AppendTurn(ctx context.Context, threadID string, turn Turn) error {
	unlock := w.locks.Lock(threadID)
	defer unlock()

	turn.ThreadID = threadID
	return w.store.Append(ctx, threadID, []Turn{turn})
}

// AppendTurns appends several turns atomically, preserving their order.
func (w *Window) AppendTurns(ctx context.Context, threadID string, turns []Turn) error {
	if len(turns) == 0 {
		return nil
	}
	unlock := w.locks.Lock(threadID)
	defer unlock()

	for i := range turns {
		turns[i].ThreadID = threadID
	}
	return w.store.Append(ctx, threadID, turns)
}

// LoadForInference returns at most maxTurns of the thread's most recent
// turns in append order. When the stored sequence is longer, the persisted
// sequence is replaced with the returned suffix in one operation so a
// partial trim can never be observed. Trimming is silent.
func (w *Window) LoadForInference(ctx context.Context, threadID string) ([]Turn, error) {
	unlock := w.locks.Lock(threadID)
	defer unlock()

	turns, err := w.store.Load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if len(turns) <= w.maxTurns {
		return turns, nil
	}

	trimmed := turns[len(turns)-w.maxTurns:]
	if err := w.store.Replace(ctx, threadID, trimmed); err != nil {
		return nil, err
	}
	w.log.Debug().
		Str("thread_id", threadID).
		Int("dropped", len(turns)-len(trimmed)).
		Msg("trimmed conversation window")
	return trimmed, nil
}
