package battleship

import (
	"encoding/json"
	"log"
)

// GameState is the persisted form of a Game
type GameState struct {
	HumanGrid    [][]Cell `json:"humanGrid"`
	ComputerGrid [][]Cell `json:"computerGrid"`
	GameType     GameMode `json:"gameType"`
	GameFinished bool     `json:"gameFinished"`
	Victor       Player   `json:"victor"`
	ActivePlayer Player   `json:"activePlayer"`
}

func (g *Game) State() GameState {
	return GameState{
		HumanGrid:    g.humanGrid.Cells(),
		ComputerGrid: g.computerGrid.Cells(),
		GameType:     g.gameType,
		GameFinished: g.isFinished,
		Victor:       g.victor,
		ActivePlayer: g.activePlayer,
	}
}

func (g *Game) Serialize() ([]byte, error) {
	return json.Marshal(g.State())
}

// Restores a game from a typed state. Grids that are not exactly
// GridSize x GridSize are replaced by blank grids.
func FromState(state GameState, opts ...GameOption) *Game {
	game := NewGame(opts...)
	game.humanGrid = GridFromCells(state.HumanGrid)
	game.computerGrid = GridFromCells(state.ComputerGrid)
	game.gameType = parseGameMode(string(state.GameType))
	game.isFinished = state.GameFinished
	game.victor = parsePlayer(string(state.Victor), PlayerNone)
	game.activePlayer = parsePlayer(string(state.ActivePlayer), PlayerHuman)
	game.repairVictory()
	game.repairTurn()
	return game
}

// Deserialize never fails. Anything that is not a JSON object gives a
// fresh game; every malformed field falls back to its default.
func Deserialize(data []byte, opts ...GameOption) *Game {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		if len(data) != 0 {
			log.Println("saved game is not an object; starting fresh:", err)
		}
		return NewGame(opts...)
	}

	game := NewGame(opts...)
	game.humanGrid = decodeGrid(fields["humanGrid"])
	game.computerGrid = decodeGrid(fields["computerGrid"])
	game.gameType = parseGameMode(decodeString(fields["gameType"]))
	game.isFinished = decodeBool(fields["gameFinished"])
	game.victor = parsePlayer(decodeString(fields["victor"]), PlayerNone)
	game.activePlayer = parsePlayer(decodeString(fields["activePlayer"]), PlayerHuman)
	game.repairVictory()
	game.repairTurn()
	return game
}

// A finished flag with no victor is taken from the grids. If no
// fleet is destroyed the game was never really over.
func (g *Game) repairVictory() {
	if !g.isFinished {
		g.victor = PlayerNone
		return
	}
	if g.victor != PlayerNone {
		return
	}

	switch {
	case g.computerGrid.VesselCells() > 0 && g.computerGrid.AreAllVesselsDestroyed():
		g.victor = PlayerHuman
	case g.humanGrid.VesselCells() > 0 && g.humanGrid.AreAllVesselsDestroyed():
		g.victor = PlayerComputer
	default:
		g.isFinished = false
	}
}

// A started game needs a fleet on both sides, otherwise the first
// hit on an empty board would win it. Only standard mode ever hands
// the turn to the computer.
func (g *Game) repairTurn() {
	if g.IsStarted() && !g.isFinished && (g.humanGrid.VesselCells() == 0 || g.computerGrid.VesselCells() == 0) {
		g.gameType = GameModeNone
	}
	if g.gameType != GameModeStandard {
		g.activePlayer = PlayerHuman
	}
}

func GridFromCells(cells [][]Cell) *Grid {
	grid := NewGrid()
	if len(cells) != GridSize {
		return grid
	}

	for i := 0; i < GridSize; i++ {
		// a broken row is left blank
		if len(cells[i]) != GridSize {
			continue
		}
		for j := 0; j < GridSize; j++ {
			grid.cells[i][j] = normalizeCell(cells[i][j])
		}
	}
	return grid
}

func decodeGrid(raw json.RawMessage) *Grid {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) != GridSize {
		return NewGrid()
	}

	grid := NewGrid()
	for i, rawRow := range rows {
		var row []json.RawMessage
		if err := json.Unmarshal(rawRow, &row); err != nil || len(row) != GridSize {
			continue
		}
		for j, rawCell := range row {
			grid.cells[i][j] = decodeCell(rawCell)
		}
	}
	return grid
}

func decodeCell(raw json.RawMessage) Cell {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Cell{}
	}

	return normalizeCell(Cell{
		HasVessel: decodeBool(fields["hasVessel"]),
		WasStruck: decodeBool(fields["wasStruck"]),
		IsExposed: decodeBool(fields["isExposed"]),
	})
}

// A struck cell is always an exposed vessel cell
func normalizeCell(c Cell) Cell {
	if c.WasStruck {
		c.HasVessel = true
		c.IsExposed = true
	}
	return c
}

func decodeBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func parseGameMode(s string) GameMode {
	mode := GameMode(s)
	if mode.IsValid() {
		return mode
	}
	return GameModeNone
}

// Older saves stored the victor as a display name
var legacyPlayerNames = map[string]Player{
	"Commander":   PlayerHuman,
	"Enemy Fleet": PlayerComputer,
}

func parsePlayer(s string, fallback Player) Player {
	switch p := Player(s); p {
	case PlayerHuman, PlayerComputer:
		return p
	}
	if p, prs := legacyPlayerNames[s]; prs {
		return p
	}
	return fallback
}
