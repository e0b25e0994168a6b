package match

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/saeidalz13/battleship-solo/internal/scheduler"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	"github.com/saeidalz13/battleship-solo/models/timer"
)

const (
	// Time the computer "thinks" before firing back
	ThinkingDelay time.Duration = time.Second

	storeCtxTimeout time.Duration = time.Second * 5
)

type ActionType uint8

const (
	ActionStartGame ActionType = iota
	ActionHumanAttack
	ActionComputerAttack
	ActionResetGame
)

type Action struct {
	Type ActionType
	Mode mb.GameMode
	Row  int
	Col  int
}

func StartGame(mode mb.GameMode) Action {
	return Action{Type: ActionStartGame, Mode: mode}
}

func HumanAttack(row, col int) Action {
	return Action{Type: ActionHumanAttack, Row: row, Col: col}
}

func ComputerAttack() Action {
	return Action{Type: ActionComputerAttack}
}

func ResetGame() Action {
	return Action{Type: ActionResetGame}
}

// Result of a dispatched action. A refused action leaves the game
// untouched; Err may explain why.
type Result struct {
	Accepted bool
	Err      error
	Snapshot mb.Snapshot
}

type EventType uint8

const (
	EventTimerTick EventType = iota
	EventComputerAttack
)

// Event is pushed to the listener for changes no request asked for
type Event struct {
	Type     EventType
	Snapshot mb.Snapshot
}

// Match owns one game for the lifetime of a session, together with
// its timer, its store and the pending computer move.
type Match struct {
	key           string
	game          *mb.Game
	timer         *timer.Timer
	sched         scheduler.Scheduler
	store         Store
	analytics     Analytics
	onChange      func(Event)
	thinkingDelay time.Duration
	gameOpts      []mb.GameOption

	cancelOpponent scheduler.Cancel
	opponentGen    uint64
	closed         bool
	mu             sync.Mutex
}

type Option func(*Match)

func WithOnChange(onChange func(Event)) Option {
	return func(m *Match) {
		m.onChange = onChange
	}
}

func WithAnalytics(analytics Analytics) Option {
	return func(m *Match) {
		m.analytics = analytics
	}
}

func WithThinkingDelay(d time.Duration) Option {
	return func(m *Match) {
		m.thinkingDelay = d
	}
}

func WithGameOptions(opts ...mb.GameOption) Option {
	return func(m *Match) {
		m.gameOpts = append(m.gameOpts, opts...)
	}
}

// New loads the game saved under key. A missing or broken save gives
// a fresh game; New never fails.
func New(ctx context.Context, key string, store Store, sched scheduler.Scheduler, opts ...Option) *Match {
	m := &Match{
		key:           key,
		store:         store,
		sched:         sched,
		thinkingDelay: ThinkingDelay,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.timer = timer.New(sched)
	m.game = m.load(ctx)

	if !m.game.IsFinished() {
		m.timer.Start(m.handleTick)
	}

	// A save taken while the computer was thinking
	m.mu.Lock()
	m.scheduleOpponentLocked()
	m.mu.Unlock()

	return m
}

func (m *Match) load(ctx context.Context) *mb.Game {
	if m.store == nil || m.key == "" {
		return mb.NewGame(m.gameOpts...)
	}

	ctx, cancel := context.WithTimeout(ctx, storeCtxTimeout)
	defer cancel()

	blob, err := m.store.Load(ctx, m.key)
	if err != nil {
		if !errors.Is(err, cerr.ErrSaveNotFound) {
			log.Printf("failed to load saved game [%s]; starting fresh: %v\n", m.key, err)
		}
		return mb.NewGame(m.gameOpts...)
	}

	return mb.Deserialize(blob, m.gameOpts...)
}

func (m *Match) Key() string {
	return m.key
}

type sideEffects struct {
	started  mb.GameMode
	finished mb.Player
}

func (m *Match) Dispatch(ctx context.Context, action Action) Result {
	m.mu.Lock()
	if m.closed {
		snapshot := m.snapshotLocked()
		m.mu.Unlock()
		return Result{Err: cerr.ErrMatchClosed(), Snapshot: snapshot}
	}
	result, effects := m.applyLocked(ctx, action)
	m.mu.Unlock()

	m.report(ctx, effects)
	return result
}

// Applies one action to the game. The caller holds m.mu for the whole
// call, so an action is never seen half applied.
func (m *Match) applyLocked(ctx context.Context, action Action) (Result, sideEffects) {
	var (
		accepted bool
		err      error
		effects  sideEffects
	)
	wasFinished := m.game.IsFinished()

	switch action.Type {
	case ActionStartGame:
		err = m.game.Start(action.Mode)
		accepted = err == nil

	case ActionResetGame:
		err = m.game.Reset()
		accepted = err == nil

	case ActionHumanAttack:
		err = m.game.ValidateHumanAttack(action.Row, action.Col)
		accepted = m.game.HumanAttack(action.Row, action.Col)
		if accepted {
			err = nil
		}

	case ActionComputerAttack:
		accepted = m.game.ComputerAttack()
		if accepted {
			// the scheduled move is spent; the next one waits a full delay
			m.cancelOpponentLocked()
		}

	default:
		err = fmt.Errorf("unknown action type: %d", action.Type)
	}

	if accepted {
		if action.Type == ActionStartGame || action.Type == ActionResetGame {
			m.cancelOpponentLocked()
			m.timer.Reset()
			m.timer.Start(m.handleTick)
			effects.started = m.game.GameType()
		}

		if !wasFinished && m.game.IsFinished() {
			m.timer.Pause()
			effects.finished = m.game.Victor()
		}

		m.saveLocked(ctx)
	}

	// A refused computer move is not retried
	if accepted || action.Type != ActionComputerAttack {
		m.scheduleOpponentLocked()
	}

	return Result{Accepted: accepted, Err: err, Snapshot: m.snapshotLocked()}, effects
}

func (m *Match) saveLocked(ctx context.Context) {
	if m.store == nil || m.key == "" {
		return
	}

	blob, err := m.game.Serialize()
	if err != nil {
		log.Printf("failed to serialize game [%s]: %v\n", m.key, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storeCtxTimeout)
	defer cancel()
	if err := m.store.Save(ctx, m.key, blob); err != nil {
		log.Printf("failed to save game [%s]: %v\n", m.key, err)
	}
}

func (m *Match) report(ctx context.Context, effects sideEffects) {
	if m.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storeCtxTimeout)
	defer cancel()

	if effects.started != mb.GameModeNone {
		if err := m.analytics.RecordGameStarted(ctx, effects.started); err != nil {
			log.Println("failed to record game start:", err)
		}
	}
	if effects.finished != mb.PlayerNone {
		if err := m.analytics.RecordGameFinished(ctx, effects.finished); err != nil {
			log.Println("failed to record game result:", err)
		}
	}
}

// Schedules the computer's move once, never synchronously
func (m *Match) scheduleOpponentLocked() {
	if m.closed || m.cancelOpponent != nil || !m.game.IsComputerThinking() {
		return
	}

	gen := m.opponentGen
	m.cancelOpponent = m.sched.AfterFunc(m.thinkingDelay, func() { m.opponentMove(gen) })
}

func (m *Match) cancelOpponentLocked() {
	if m.cancelOpponent != nil {
		m.cancelOpponent()
		m.cancelOpponent = nil
	}
	m.opponentGen++
}

func (m *Match) opponentMove(gen uint64) {
	m.mu.Lock()
	if m.closed || gen != m.opponentGen {
		m.mu.Unlock()
		return
	}
	m.cancelOpponent = nil

	ctx := context.Background()
	result, effects := m.applyLocked(ctx, ComputerAttack())
	m.mu.Unlock()

	m.report(ctx, effects)
	if result.Accepted {
		m.notify(Event{Type: EventComputerAttack, Snapshot: result.Snapshot})
	}
}

func (m *Match) handleTick(elapsed int) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	snapshot := m.game.Snapshot().WithElapsed(elapsed)
	m.mu.Unlock()

	m.notify(Event{Type: EventTimerTick, Snapshot: snapshot})
}

func (m *Match) notify(event Event) {
	if m.onChange != nil {
		m.onChange(event)
	}
}

func (m *Match) snapshotLocked() mb.Snapshot {
	return m.game.Snapshot().WithElapsed(m.timer.Elapsed())
}

func (m *Match) Snapshot() mb.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Whether the computer's move is scheduled and not yet played
func (m *Match) IsOpponentPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelOpponent != nil
}

// Close cancels the pending computer move and stops the timer. The
// saved game stays in the store.
func (m *Match) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.cancelOpponentLocked()
	m.mu.Unlock()

	m.timer.Stop()
}
