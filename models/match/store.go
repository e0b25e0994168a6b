package match

import (
	"context"
	"sync"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// Store keeps serialized games by key. Load returns
// cerr.ErrSaveNotFound when the key holds nothing.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
}

// Analytics receives game lifecycle events. Failures are logged
// by the match and never reach the player.
type Analytics interface {
	RecordGameStarted(ctx context.Context, mode mb.GameMode) error
	RecordGameFinished(ctx context.Context, victor mb.Player) error
}

type MemoryStore struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte, 10)}
}

func (ms *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	blob, prs := ms.blobs[key]
	if !prs {
		return nil, cerr.ErrSaveNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (ms *MemoryStore) Save(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return cerr.ErrEmptySaveKey()
	}

	ms.mu.Lock()
	ms.blobs[key] = append([]byte(nil), blob...)
	ms.mu.Unlock()
	return nil
}
