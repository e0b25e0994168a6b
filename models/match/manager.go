package match

import (
	"context"
	"log"
	"sync"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/saeidalz13/battleship-solo/internal/scheduler"
)

type MatchManager interface {
	OpenMatch(ctx context.Context, sessionId string, opts ...Option) *Match
	GetMatch(sessionId string) (*Match, error)
	TerminateMatch(sessionId string, m *Match)
	CountMatches() int
}

// BattleshipMatchManager keeps at most one live match per session.
// Options given at construction apply to every match it opens.
type BattleshipMatchManager struct {
	matches map[string]*Match
	store   Store
	sched   scheduler.Scheduler
	opts    []Option
	mu      sync.RWMutex
}

var _ MatchManager = (*BattleshipMatchManager)(nil)

func NewBattleshipMatchManager(store Store, sched scheduler.Scheduler, opts ...Option) *BattleshipMatchManager {
	return &BattleshipMatchManager{
		matches: make(map[string]*Match, 10),
		store:   store,
		sched:   sched,
		opts:    opts,
	}
}

// Opens the match of a session, resuming its saved game. A match
// still open for the same session is closed first.
func (bmm *BattleshipMatchManager) OpenMatch(ctx context.Context, sessionId string, opts ...Option) *Match {
	bmm.mu.Lock()
	previous, prs := bmm.matches[sessionId]
	delete(bmm.matches, sessionId)
	bmm.mu.Unlock()

	if prs {
		log.Printf("closing previous match of session: %s\n", sessionId)
		previous.Close()
	}

	allOpts := append(append([]Option{}, bmm.opts...), opts...)
	m := New(ctx, sessionId, bmm.store, bmm.sched, allOpts...)

	bmm.mu.Lock()
	bmm.matches[sessionId] = m
	bmm.mu.Unlock()
	return m
}

func (bmm *BattleshipMatchManager) GetMatch(sessionId string) (*Match, error) {
	bmm.mu.RLock()
	m, prs := bmm.matches[sessionId]
	bmm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrMatchNotExists(sessionId)
	}

	return m, nil
}

// Closes m and forgets it, unless the session already moved on to a
// newer match.
func (bmm *BattleshipMatchManager) TerminateMatch(sessionId string, m *Match) {
	if m == nil {
		return
	}
	m.Close()

	bmm.mu.Lock()
	if current, prs := bmm.matches[sessionId]; prs && current == m {
		delete(bmm.matches, sessionId)
	}
	bmm.mu.Unlock()
}

func (bmm *BattleshipMatchManager) CountMatches() int {
	bmm.mu.RLock()
	defer bmm.mu.RUnlock()
	return len(bmm.matches)
}
