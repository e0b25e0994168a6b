package battleship

import (
	"math/rand/v2"
	"time"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GameMode string

const (
	GameModeNone     GameMode = ""
	GameModeStandard GameMode = "standard"
	GameModeTraining GameMode = "training"
)

func (m GameMode) IsValid() bool {
	return m == GameModeStandard || m == GameModeTraining
}

type Player string

const (
	PlayerNone     Player = ""
	PlayerHuman    Player = "human"
	PlayerComputer Player = "computer"
)

// Deployment rounds Start makes before giving up. A round only
// fails when a vessel exhausts MaxPlacementAttempts.
const maxDeploymentRounds = 5

// Game is not safe for concurrent use. The match package serializes
// access to it.
type Game struct {
	humanGrid    *Grid
	computerGrid *Grid
	vesselTypes  []VesselType
	gameType     GameMode
	isFinished   bool
	victor       Player
	activePlayer Player
	rng          *rand.Rand
}

type GameOption func(*Game)

// Seeds the random source used for deployment and for the
// computer's targeting. Mostly useful in tests.
func WithRand(rng *rand.Rand) GameOption {
	return func(g *Game) {
		g.rng = rng
	}
}

func WithSeed(seed uint64) GameOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func WithVesselTypes(vesselTypes []VesselType) GameOption {
	return func(g *Game) {
		g.vesselTypes = vesselTypes
	}
}

// A fresh, not started game with two blank grids
func NewGame(opts ...GameOption) *Game {
	game := &Game{
		humanGrid:    NewGrid(),
		computerGrid: NewGrid(),
		vesselTypes:  DefaultVesselTypes(),
		gameType:     GameModeNone,
		isFinished:   false,
		victor:       PlayerNone,
		activePlayer: PlayerHuman,
	}

	for _, opt := range opts {
		opt(game)
	}
	if game.rng == nil {
		now := uint64(time.Now().UnixNano())
		game.rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return game
}

func (g *Game) HumanGrid() *Grid { return g.humanGrid }
func (g *Game) ComputerGrid() *Grid { return g.computerGrid }
func (g *Game) GameType() GameMode { return g.gameType }
func (g *Game) IsFinished() bool { return g.isFinished }
func (g *Game) Victor() Player { return g.victor }
func (g *Game) ActivePlayer() Player { return g.activePlayer }
func (g *Game) VesselTypes() []VesselType { return append([]VesselType(nil), g.vesselTypes...) }
func (g *Game) IsStarted() bool { return g.gameType != GameModeNone }
func (g *Game) IsComputerThinking() bool {
	return g.IsStarted() && !g.isFinished && g.activePlayer == PlayerComputer && g.gameType != GameModeTraining
}

func (g *Game) Start(mode GameMode) error {
	if !mode.IsValid() {
		return cerr.ErrInvalidGameMode(string(mode))
	}

	humanGrid, err := g.deployFleet()
	if err != nil {
		return err
	}
	computerGrid, err := g.deployFleet()
	if err != nil {
		return err
	}

	g.gameType = mode
	g.isFinished = false
	g.victor = PlayerNone
	g.activePlayer = PlayerHuman
	g.humanGrid = humanGrid
	g.computerGrid = computerGrid
	return nil
}

func (g *Game) deployFleet() (*Grid, error) {
	var err error
	for round := 0; round < maxDeploymentRounds; round++ {
		grid := NewGrid()
		if err = grid.DeployVesselsRandomly(g.rng, g.vesselTypes); err == nil {
			return grid, nil
		}
	}
	return nil, err
}

// Restarts with the mode of the previous game. A game that was
// never started resets into standard mode.
func (g *Game) Reset() error {
	mode := g.gameType
	if !mode.IsValid() {
		mode = GameModeStandard
	}
	return g.Start(mode)
}

// Explains why HumanAttack would refuse the move, nil if it
// would be accepted.
func (g *Game) ValidateHumanAttack(row, col int) error {
	if !g.IsStarted() {
		return cerr.ErrGameNotStarted()
	}
	if g.isFinished {
		return cerr.ErrGameFinished()
	}
	if g.activePlayer != PlayerHuman {
		return cerr.ErrNotPlayerTurn(string(PlayerHuman))
	}
	if !IsInGrid(row, col) {
		return cerr.ErrCoordinatesOutOfGrid(row, col)
	}
	if g.computerGrid.IsExposed(row, col) {
		return cerr.ErrCellAlreadyExposed(row, col)
	}
	return nil
}

func (g *Game) HumanAttack(row, col int) bool {
	if !g.IsStarted() || g.isFinished || g.activePlayer != PlayerHuman {
		return false
	}
	if !g.computerGrid.Attack(row, col) {
		return false
	}

	if g.computerGrid.AreAllVesselsDestroyed() {
		g.finish(PlayerHuman)
		return true
	}

	if g.gameType != GameModeTraining {
		g.activePlayer = PlayerComputer
	}
	return true
}

func (g *Game) ComputerAttack() bool {
	if !g.IsStarted() || g.isFinished || g.activePlayer != PlayerComputer || g.gameType == GameModeTraining {
		return false
	}

	target, ok := g.humanGrid.CalculateAttackTarget(g.rng)
	if !ok {
		return false
	}
	g.humanGrid.Attack(target.Row, target.Col)

	if g.humanGrid.AreAllVesselsDestroyed() {
		g.finish(PlayerComputer)
		return true
	}

	g.activePlayer = PlayerHuman
	return true
}

func (g *Game) finish(victor Player) {
	g.isFinished = true
	g.victor = victor
}
