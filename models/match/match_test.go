package match

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/saeidalz13/battleship-solo/internal/scheduler"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const testKey = "test-session"

type recordingAnalytics struct {
	started  []mb.GameMode
	finished []mb.Player
	mu       sync.Mutex
}

func (ra *recordingAnalytics) RecordGameStarted(ctx context.Context, mode mb.GameMode) error {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	ra.started = append(ra.started, mode)
	return nil
}

func (ra *recordingAnalytics) RecordGameFinished(ctx context.Context, victor mb.Player) error {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	ra.finished = append(ra.finished, victor)
	return nil
}

type failingStore struct{}

func (failingStore) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Save(ctx context.Context, key string, blob []byte) error {
	return errors.New("connection refused")
}

func newTestMatch(t *testing.T, store Store, opts ...Option) (*Match, *scheduler.ManualScheduler) {
	t.Helper()

	sched := scheduler.NewManual()
	opts = append([]Option{WithGameOptions(mb.WithSeed(11))}, opts...)
	m := New(context.Background(), testKey, store, sched, opts...)
	t.Cleanup(m.Close)
	return m, sched
}

func mustDispatch(t *testing.T, m *Match, action Action) Result {
	t.Helper()

	result := m.Dispatch(context.Background(), action)
	if !result.Accepted {
		t.Fatalf("action %d refused: %v", action.Type, result.Err)
	}
	return result
}

func findCells(snapshot mb.Snapshot, vessel bool) []mb.Coordinates {
	out := []mb.Coordinates{}
	for i, row := range snapshot.ComputerGrid {
		for j, cell := range row {
			if cell.HasVessel == vessel && !cell.IsExposed {
				out = append(out, mb.NewCoordinates(i, j))
			}
		}
	}
	return out
}

func exposedCells(grid [][]mb.Cell) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell.IsExposed {
				count++
			}
		}
	}
	return count
}

func TestNewMatchStartsFresh(t *testing.T) {
	m, sched := newTestMatch(t, NewMemoryStore())

	if m.Key() != testKey {
		t.Fatalf("expected key %s, got %s", testKey, m.Key())
	}

	snapshot := m.Snapshot()
	if snapshot.GameType != mb.GameModeNone || snapshot.GameFinished {
		t.Fatalf("expected fresh game, got %+v", snapshot.GameType)
	}

	sched.Advance(2 * time.Second)
	if m.Snapshot().ElapsedTime != 2 {
		t.Fatalf("timer must run for an unfinished game, got %d", m.Snapshot().ElapsedTime)
	}
}

func TestComputerAnswersAfterThinkingDelay(t *testing.T) {
	events := make([]Event, 0)
	m, sched := newTestMatch(t, NewMemoryStore(), WithOnChange(func(e Event) { events = append(events, e) }))

	result := mustDispatch(t, m, StartGame(mb.GameModeStandard))
	water := findCells(result.Snapshot, false)[0]

	result = mustDispatch(t, m, HumanAttack(water.Row, water.Col))
	if result.Snapshot.ActivePlayer != mb.PlayerComputer {
		t.Fatalf("expected computer turn, got %s", result.Snapshot.ActivePlayer)
	}
	if !m.IsOpponentPending() {
		t.Fatal("computer move must be scheduled")
	}
	if exposedCells(result.Snapshot.HumanGrid) != 0 {
		t.Fatal("computer must not fire synchronously")
	}

	sched.Advance(ThinkingDelay - time.Millisecond)
	if m.Snapshot().ActivePlayer != mb.PlayerComputer {
		t.Fatal("computer fired before the thinking delay")
	}

	sched.Advance(time.Millisecond)
	snapshot := m.Snapshot()
	if snapshot.ActivePlayer != mb.PlayerHuman {
		t.Fatalf("expected human turn after computer move, got %s", snapshot.ActivePlayer)
	}
	if exposedCells(snapshot.HumanGrid) != 1 {
		t.Fatalf("expected exactly one computer shot, got %d", exposedCells(snapshot.HumanGrid))
	}
	if m.IsOpponentPending() {
		t.Fatal("no computer move should be pending")
	}

	computerEvents := 0
	for _, e := range events {
		if e.Type == EventComputerAttack {
			computerEvents++
		}
	}
	if computerEvents != 1 {
		t.Fatalf("expected one computer attack event, got %d", computerEvents)
	}
}

func TestDispatchedComputerAttackRearmsDelay(t *testing.T) {
	m, sched := newTestMatch(t, NewMemoryStore())

	result := mustDispatch(t, m, StartGame(mb.GameModeStandard))
	water := findCells(result.Snapshot, false)
	mustDispatch(t, m, HumanAttack(water[0].Row, water[0].Col))

	// answered before the scheduled move came due
	mustDispatch(t, m, ComputerAttack())
	if m.IsOpponentPending() {
		t.Fatal("the spent computer move is still scheduled")
	}

	sched.Advance(900 * time.Millisecond)
	result = mustDispatch(t, m, HumanAttack(water[1].Row, water[1].Col))
	if result.Snapshot.ActivePlayer != mb.PlayerComputer {
		t.Fatalf("expected computer turn, got %s", result.Snapshot.ActivePlayer)
	}

	sched.Advance(100 * time.Millisecond)
	if m.Snapshot().ActivePlayer != mb.PlayerComputer {
		t.Fatal("computer fired before a full thinking delay")
	}

	sched.Advance(ThinkingDelay - 100*time.Millisecond)
	snapshot := m.Snapshot()
	if snapshot.ActivePlayer != mb.PlayerHuman {
		t.Fatal("computer did not fire after the thinking delay")
	}
	if exposedCells(snapshot.HumanGrid) != 2 {
		t.Fatalf("expected two computer shots, got %d", exposedCells(snapshot.HumanGrid))
	}
}

func TestHumanAttackOnComputerTurnIsRefused(t *testing.T) {
	m, _ := newTestMatch(t, NewMemoryStore())

	result := mustDispatch(t, m, StartGame(mb.GameModeStandard))
	water := findCells(result.Snapshot, false)
	mustDispatch(t, m, HumanAttack(water[0].Row, water[0].Col))

	refused := m.Dispatch(context.Background(), HumanAttack(water[1].Row, water[1].Col))
	if refused.Accepted || refused.Err == nil {
		t.Fatal("attack on the computer's turn must be refused with a reason")
	}
	if exposedCells(refused.Snapshot.ComputerGrid) != 1 {
		t.Fatal("refused attack changed the board")
	}
}

func TestTrainingNeverSchedulesComputer(t *testing.T) {
	m, sched := newTestMatch(t, NewMemoryStore())

	result := mustDispatch(t, m, StartGame(mb.GameModeTraining))
	for _, c := range findCells(result.Snapshot, false)[:5] {
		mustDispatch(t, m, HumanAttack(c.Row, c.Col))
		if m.IsOpponentPending() {
			t.Fatal("training mode must never schedule the computer")
		}
	}

	sched.Advance(10 * time.Second)
	if exposedCells(m.Snapshot().HumanGrid) != 0 {
		t.Fatal("computer fired in training mode")
	}
	if m.Dispatch(context.Background(), ComputerAttack()).Accepted {
		t.Fatal("computer attack dispatched in training mode must be refused")
	}
}

func TestCloseCancelsPendingMove(t *testing.T) {
	m, sched := newTestMatch(t, NewMemoryStore())

	result := mustDispatch(t, m, StartGame(mb.GameModeStandard))
	water := findCells(result.Snapshot, false)[0]
	mustDispatch(t, m, HumanAttack(water.Row, water.Col))

	m.Close()
	m.Close()
	if sched.Pending() != 0 {
		t.Fatalf("close must cancel every scheduled task, pending=%d", sched.Pending())
	}

	sched.Advance(5 * time.Second)
	snapshot := m.Snapshot()
	if exposedCells(snapshot.HumanGrid) != 0 {
		t.Fatal("orphaned computer attack ran after close")
	}
	if m.Dispatch(context.Background(), ResetGame()).Accepted {
		t.Fatal("closed match must refuse actions")
	}
}

func TestStartCancelsPendingMoveAndResetsTimer(t *testing.T) {
	m, sched := newTestMatch(t, NewMemoryStore())

	result := mustDispatch(t, m, StartGame(mb.GameModeStandard))
	sched.Advance(5 * time.Second)

	water := findCells(result.Snapshot, false)[0]
	mustDispatch(t, m, HumanAttack(water.Row, water.Col))

	result = mustDispatch(t, m, StartGame(mb.GameModeTraining))
	if result.Snapshot.ElapsedTime != 0 {
		t.Fatalf("start must reset the timer, got %d", result.Snapshot.ElapsedTime)
	}
	if m.IsOpponentPending() {
		t.Fatal("start must cancel the pending computer move")
	}

	sched.Advance(3 * time.Second)
	snapshot := m.Snapshot()
	if exposedCells(snapshot.HumanGrid) != 0 {
		t.Fatal("stale computer move hit the new game")
	}
	if snapshot.ElapsedTime != 3 {
		t.Fatalf("expected timer at 3, got %d", snapshot.ElapsedTime)
	}
}

func TestFinishPausesTimerAndRecordsAnalytics(t *testing.T) {
	analytics := &recordingAnalytics{}
	m, sched := newTestMatch(t, NewMemoryStore(), WithAnalytics(analytics))

	result := mustDispatch(t, m, StartGame(mb.GameModeTraining))
	vessels := findCells(result.Snapshot, true)
	if len(vessels) != mb.FleetCells {
		t.Fatalf("expected %d vessel cells, got %d", mb.FleetCells, len(vessels))
	}

	sched.Advance(4 * time.Second)
	for i, c := range vessels {
		result = mustDispatch(t, m, HumanAttack(c.Row, c.Col))
		if i < len(vessels)-1 && result.Snapshot.GameFinished {
			t.Fatalf("finished after %d of %d hits", i+1, len(vessels))
		}
	}

	if !result.Snapshot.GameFinished || result.Snapshot.Victor != mb.PlayerHuman {
		t.Fatalf("expected human victory, got finished=%t victor=%s", result.Snapshot.GameFinished, result.Snapshot.Victor)
	}

	sched.Advance(10 * time.Second)
	if m.Snapshot().ElapsedTime != 4 {
		t.Fatalf("finished game must pause the timer, got %d", m.Snapshot().ElapsedTime)
	}

	water := findCells(result.Snapshot, false)[0]
	if m.Dispatch(context.Background(), HumanAttack(water.Row, water.Col)).Accepted {
		t.Fatal("attack after finish must be refused")
	}

	result = mustDispatch(t, m, ResetGame())
	if result.Snapshot.GameFinished || result.Snapshot.GameType != mb.GameModeTraining {
		t.Fatal("reset must start a new training game")
	}
	sched.Advance(2 * time.Second)
	if m.Snapshot().ElapsedTime != 2 {
		t.Fatalf("reset must restart the timer from zero, got %d", m.Snapshot().ElapsedTime)
	}

	expectedStarted := []mb.GameMode{mb.GameModeTraining, mb.GameModeTraining}
	if !reflect.DeepEqual(analytics.started, expectedStarted) {
		t.Fatalf("expected started %v, got %v", expectedStarted, analytics.started)
	}
	if !reflect.DeepEqual(analytics.finished, []mb.Player{mb.PlayerHuman}) {
		t.Fatalf("expected one human victory, got %v", analytics.finished)
	}
}

func TestMatchResumesSavedGame(t *testing.T) {
	store := NewMemoryStore()
	first, _ := newTestMatch(t, store)

	result := mustDispatch(t, first, StartGame(mb.GameModeStandard))
	water := findCells(result.Snapshot, false)[0]
	saved := mustDispatch(t, first, HumanAttack(water.Row, water.Col)).Snapshot
	first.Close()

	second, sched := newTestMatch(t, store)
	resumed := second.Snapshot()
	if !reflect.DeepEqual(saved.HumanGrid, resumed.HumanGrid) || !reflect.DeepEqual(saved.ComputerGrid, resumed.ComputerGrid) {
		t.Fatal("grids were not restored from the store")
	}
	if resumed.ActivePlayer != mb.PlayerComputer || resumed.GameType != mb.GameModeStandard {
		t.Fatalf("expected standard game on computer turn, got %s / %s", resumed.GameType, resumed.ActivePlayer)
	}

	// restored mid-turn, the computer still gets its move
	if !second.IsOpponentPending() {
		t.Fatal("restored game waiting on the computer must schedule its move")
	}
	sched.Advance(ThinkingDelay)
	if second.Snapshot().ActivePlayer != mb.PlayerHuman {
		t.Fatal("computer move of the restored game did not run")
	}
}

func TestMatchFallsBackOnBadSave(t *testing.T) {
	tests := []struct {
		name  string
		store Store
	}{
		{name: "store failure", store: failingStore{}},
		{name: "corrupt blob", store: func() Store {
			s := NewMemoryStore()
			_ = s.Save(context.Background(), testKey, []byte(`{"humanGrid": 12, "gameFinished": "maybe"`))
			return s
		}()},
		{name: "not an object", store: func() Store {
			s := NewMemoryStore()
			_ = s.Save(context.Background(), testKey, []byte(`[true, false]`))
			return s
		}()},
		{name: "no store", store: nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, _ := newTestMatch(t, test.store)
			snapshot := m.Snapshot()

			if snapshot.GameFinished || snapshot.GameType != mb.GameModeNone {
				t.Fatal("expected a fresh unfinished game")
			}
			if len(snapshot.HumanGrid) != mb.GridSize || len(snapshot.ComputerGrid[0]) != mb.GridSize {
				t.Fatal("expected full size grids")
			}

			// the match stays playable even when saving fails
			mustDispatch(t, m, StartGame(mb.GameModeTraining))
		})
	}
}

func TestTimerTickEvents(t *testing.T) {
	ticks := make([]int, 0)
	m, sched := newTestMatch(t, nil, WithOnChange(func(e Event) {
		if e.Type == EventTimerTick {
			ticks = append(ticks, e.Snapshot.ElapsedTime)
		}
	}))
	mustDispatch(t, m, StartGame(mb.GameModeTraining))

	sched.Advance(3 * time.Second)
	if !reflect.DeepEqual(ticks, []int{1, 2, 3}) {
		t.Fatalf("expected ticks [1 2 3], got %v", ticks)
	}
	if m.Snapshot().TimeDisplay != "0:03" {
		t.Fatalf("expected 0:03, got %s", m.Snapshot().TimeDisplay)
	}
}
