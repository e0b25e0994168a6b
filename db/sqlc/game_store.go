package sqlc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sqlc-dev/pqtype"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/saeidalz13/battleship-solo/models/match"
)

// GameStore keeps serialized games in the saved_games table
type GameStore struct {
	queries Querier
}

var _ match.Store = (*GameStore)(nil)

func NewGameStore(queries Querier) *GameStore {
	return &GameStore{queries: queries}
}

// A missing row and a NULL state both read as no save
func (gs *GameStore) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	state, err := gs.queries.GetSavedGame(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cerr.ErrSaveNotFound
		}
		return nil, err
	}

	if !state.Valid {
		return nil, cerr.ErrSaveNotFound
	}
	return state.RawMessage, nil
}

// The blob goes into a jsonb column, so it must at least be valid
// JSON; anything else is refused before reaching the database.
func (gs *GameStore) Save(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return cerr.ErrEmptySaveKey()
	}
	if !json.Valid(blob) {
		return cerr.ErrInvalidSaveBlob()
	}

	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	return gs.queries.UpsertSavedGame(ctx, UpsertSavedGameParams{
		SaveKey: key,
		State:   pqtype.NullRawMessage{RawMessage: blob, Valid: true},
	})
}

func (gs *GameStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()

	return gs.queries.DeleteSavedGame(ctx, key)
}
