package conversation

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ankithreddys/orchestrai/internal/fsstore"
)

// Store loads and persists per-thread state. Load returns a fresh
// state for unknown thread ids.
type Store interface {
	Load(ctx context.Context, threadID string) (State, error)
	Save(ctx context.Context, state State) error
}

// FileStore keeps one JSON file per thread under root.
type FileStore struct {
	root string
	mu   sync.Mutex
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: strings.TrimSpace(root)}
}

func (s *FileStore) Load(ctx context.Context, threadID string) (State, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return State{}, fmt.Errorf("conversation: empty thread id")
	}
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.threadPath(threadID)
	if err != nil {
		return State{}, err
	}
	var state State
	found, err := fsstore.ReadJSON(path, &state)
	if err != nil {
		return State{}, err
	}
	if !found {
		now := time.Now().UTC()
		return State{ThreadID: threadID, CreatedAt: now, UpdatedAt: now}, nil
	}
	state.ThreadID = threadID
	return state, nil
}

func (s *FileStore) Save(ctx context.Context, state State) error {
	if strings.TrimSpace(state.ThreadID) == "" {
		return fmt.Errorf("conversation: empty thread id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.threadPath(state.ThreadID)
	if err != nil {
		return err
	}
	state.UpdatedAt = time.Now().UTC()
	return fsstore.WriteJSONAtomic(path, state)
}

func (s *FileStore) threadPath(threadID string) (string, error) {
	safe := sanitizeThreadID(threadID)
	if safe == "" {
		return "", fmt.Errorf("conversation: unusable thread id %q", threadID)
	}
	return filepath.Join(s.root, safe+".json"), nil
}

func sanitizeThreadID(threadID string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(threadID)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
