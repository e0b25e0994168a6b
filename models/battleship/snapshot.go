package battleship

import "fmt"

type VesselInfo struct {
	Id       string `json:"id"`
	Length   int    `json:"length"`
	Name     string `json:"name"`
	Deployed bool   `json:"deployed"`
}

// Snapshot is the read only view of a game handed to the view layer.
// It shares no memory with the game it was taken from.
type Snapshot struct {
	HumanGrid    [][]Cell     `json:"humanGrid"`
	ComputerGrid [][]Cell     `json:"computerGrid"`
	GameType     GameMode     `json:"gameType"`
	GameFinished bool         `json:"gameFinished"`
	Victor       Player       `json:"victor"`
	ActivePlayer Player       `json:"activePlayer"`
	ElapsedTime  int          `json:"elapsedTime"`
	TimeDisplay  string       `json:"timeDisplay"`
	Vessels      []VesselInfo `json:"vessels"`
}

func (g *Game) Snapshot() Snapshot {
	vessels := make([]VesselInfo, 0, len(g.vesselTypes))
	for _, vt := range g.vesselTypes {
		vessels = append(vessels, VesselInfo{
			Id:       vt.Id,
			Length:   vt.Length,
			Name:     vt.Name,
			Deployed: g.IsStarted(),
		})
	}

	return Snapshot{
		HumanGrid:    g.humanGrid.Cells(),
		ComputerGrid: g.computerGrid.Cells(),
		GameType:     g.gameType,
		GameFinished: g.isFinished,
		Victor:       g.victor,
		ActivePlayer: g.activePlayer,
		TimeDisplay:  FormatElapsed(0),
		Vessels:      vessels,
	}
}

func (s Snapshot) WithElapsed(seconds int) Snapshot {
	s.ElapsedTime = seconds
	s.TimeDisplay = FormatElapsed(seconds)
	return s
}

// Hides the computer's vessels that have not been hit yet. Once the
// game is over the whole board is revealed.
func (s Snapshot) Redacted() Snapshot {
	if s.GameFinished {
		return s
	}

	redacted := make([][]Cell, len(s.ComputerGrid))
	for i, row := range s.ComputerGrid {
		redacted[i] = make([]Cell, len(row))
		for j, cell := range row {
			if !cell.WasStruck {
				cell.HasVessel = false
			}
			redacted[i][j] = cell
		}
	}
	s.ComputerGrid = redacted
	return s
}

// m:ss
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
