package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

type fakeStore struct {
	turns        map[string][]Turn
	replaceCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{turns: map[string][]Turn{}}
}

func (s *fakeStore) Append(ctx context.Context, threadID string, turns []Turn) error {
	existing := s.turns[threadID]
	for i := range turns {
		turns[i].Sequence = len(existing) + i
	}
	s.turns[threadID] = append(existing, turns...)
	return nil
}

func (s *fakeStore) Load(ctx context.Context, threadID string) ([]Turn, error) {
	return append([]Turn(nil), s.turns[threadID]...), nil
}

func (s *fakeStore) Replace(ctx context.Context, threadID string, turns []Turn) error {
	s.replaceCalls++
	resequenced := make([]Turn, len(turns))
	for i, turn := range turns {
		turn.Sequence = i
		resequenced[i] = turn
	}
	s.turns[threadID] = resequenced
	return nil
}

func seedTurns(t *testing.T, store *fakeStore, threadID string, count int) {
	t.Helper()
	turns := make([]Turn, count)
	for i := range turns {
		turns[i] = Turn{Role: RoleUser, Content: fmt.Sprintf("turn %d", i+1)}
	}
	if err := store.Append(context.Background(), threadID, turns); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestLoadForInferenceTrimsToWindow(t *testing.T) {
	store := newFakeStore()
	seedTurns(t, store, "group-1", 25)

	window := NewWindow(store, 20, zerolog.Nop())
	turns, err := window.LoadForInference(context.Background(), "group-1")
	if err != nil {
		t.Fatalf("LoadForInference: %v", err)
	}

	if len(turns) != 20 {
		t.Fatalf("len(turns) = %d, want 20", len(turns))
	}
	if turns[0].Content != "turn 6" || turns[19].Content != "turn 25" {
		t.Errorf("window spans %q..%q, want turn 6..turn 25", turns[0].Content, turns[19].Content)
	}
	if store.replaceCalls != 1 {
		t.Errorf("replaceCalls = %d, want 1", store.replaceCalls)
	}

	persisted := store.turns["group-1"]
	if len(persisted) != 20 {
		t.Fatalf("persisted = %d turns, want 20", len(persisted))
	}
	if persisted[0].Sequence != 0 || persisted[0].Content != "turn 6" {
		t.Errorf("persisted head = seq %d %q, want resequenced from 0 at turn 6", persisted[0].Sequence, persisted[0].Content)
	}
}

func TestLoadForInferenceWithinWindow(t *testing.T) {
	store := newFakeStore()
	seedTurns(t, store, "group-1", 12)

	window := NewWindow(store, 20, zerolog.Nop())
	turns, err := window.LoadForInference(context.Background(), "group-1")
	if err != nil {
		t.Fatalf("LoadForInference: %v", err)
	}

	if len(turns) != 12 {
		t.Errorf("len(turns) = %d, want 12", len(turns))
	}
	if store.replaceCalls != 0 {
		t.Errorf("replaceCalls = %d, want 0", store.replaceCalls)
	}
}

func TestAppendTurnsSetsThreadID(t *testing.T) {
	store := newFakeStore()
	window := NewWindow(store, 20, zerolog.Nop())

	err := window.AppendTurns(context.Background(), "group-2", []Turn{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("AppendTurns: %v", err)
	}

	persisted := store.turns["group-2"]
	if len(persisted) != 2 {
		t.Fatalf("persisted = %d turns, want 2", len(persisted))
	}
	for i, turn := range persisted {
		if turn.ThreadID != "group-2" {
			t.Errorf("turn %d ThreadID = %q, want group-2", i, turn.ThreadID)
		}
	}
}

func TestThreadsAreIndependent(t *testing.T) {
	store := newFakeStore()
	seedTurns(t, store, "group-a", 25)
	seedTurns(t, store, "group-b", 3)

	window := NewWindow(store, 20, zerolog.Nop())
	if _, err := window.LoadForInference(context.Background(), "group-a"); err != nil {
		t.Fatalf("LoadForInference group-a: %v", err)
	}

	if got := len(store.turns["group-b"]); got != 3 {
		t.Errorf("group-b turns = %d after trimming group-a, want 3", got)
	}
}
