package battleship

import (
	"math/rand/v2"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const GridSize = 10

// Tries per vessel before DeployVesselsRandomly gives up.
// With 17 of 100 cells occupied this is never reached in practice.
const MaxPlacementAttempts = 10_000

type Coordinates struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewCoordinates(row, col int) Coordinates {
	return Coordinates{Row: row, Col: col}
}

// Grid is indexed [row][col]
type Grid struct {
	cells [GridSize][GridSize]Cell
}

// Creates a new default grid.
// All cells are blank.
func NewGrid() *Grid {
	return &Grid{}
}

func IsInGrid(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}

func (g *Grid) Cell(row, col int) (Cell, bool) {
	if !IsInGrid(row, col) {
		return Cell{}, false
	}
	return g.cells[row][col], true
}

// Returns a copy of the cells that callers are free to mutate
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, GridSize)
	for i := 0; i < GridSize; i++ {
		out[i] = make([]Cell, GridSize)
		copy(out[i], g.cells[i][:])
	}
	return out
}

func (g *Grid) CanPlaceVessel(row, col, length int, vertical bool) bool {
	if length <= 0 {
		return false
	}

	for i := 0; i < length; i++ {
		checkRow, checkCol := row, col+i
		if vertical {
			checkRow, checkCol = row+i, col
		}

		if !IsInGrid(checkRow, checkCol) {
			return false
		}
		if g.cells[checkRow][checkCol].HasVessel {
			return false
		}

		// No touching, diagonals included
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				adjRow, adjCol := checkRow+dr, checkCol+dc
				if IsInGrid(adjRow, adjCol) && g.cells[adjRow][adjCol].HasVessel {
					return false
				}
			}
		}
	}

	return true
}

func (g *Grid) PlaceVessel(row, col, length int, vertical bool) bool {
	if !g.CanPlaceVessel(row, col, length, vertical) {
		return false
	}

	for i := 0; i < length; i++ {
		if vertical {
			g.cells[row+i][col].placeVessel()
		} else {
			g.cells[row][col+i].placeVessel()
		}
	}
	return true
}

// Places every vessel type in order on a random spot. On error the grid
// may hold the vessels placed before the failing one; callers should
// throw it away.
func (g *Grid) DeployVesselsRandomly(rng *rand.Rand, vesselTypes []VesselType) error {
	for _, vt := range vesselTypes {
		deployed := false

		for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
			vertical := rng.IntN(2) == 0

			maxRow, maxCol := GridSize-1, GridSize-vt.Length
			if vertical {
				maxRow, maxCol = GridSize-vt.Length, GridSize-1
			}
			if maxRow < 0 || maxCol < 0 {
				break
			}

			row := rng.IntN(maxRow + 1)
			col := rng.IntN(maxCol + 1)
			if g.PlaceVessel(row, col, vt.Length, vertical) {
				deployed = true
				break
			}
		}

		if !deployed {
			return cerr.ErrPlacementFailed(vt.Id, MaxPlacementAttempts)
		}
	}
	return nil
}

func (g *Grid) Attack(row, col int) bool {
	if !IsInGrid(row, col) {
		return false
	}
	if g.cells[row][col].IsExposed {
		return false
	}

	g.cells[row][col].attack()
	return true
}

func (g *Grid) IsExposed(row, col int) bool {
	return IsInGrid(row, col) && g.cells[row][col].IsExposed
}

func (g *Grid) AreAllVesselsDestroyed() bool {
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			if g.cells[i][j].HasVessel && !g.cells[i][j].WasStruck {
				return false
			}
		}
	}
	return true
}

// Picks one of the unexposed cells uniformly. The second return
// value is false once every cell has been attacked.
func (g *Grid) CalculateAttackTarget(rng *rand.Rand) (Coordinates, bool) {
	available := make([]Coordinates, 0, GridSize*GridSize)

	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			if !g.cells[i][j].IsExposed {
				available = append(available, NewCoordinates(i, j))
			}
		}
	}

	if len(available) == 0 {
		return Coordinates{}, false
	}
	return available[rng.IntN(len(available))], true
}

func (g *Grid) VesselCells() int {
	count := 0
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			if g.cells[i][j].HasVessel {
				count++
			}
		}
	}
	return count
}

func (g *Grid) StruckCells() int {
	count := 0
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			if g.cells[i][j].WasStruck {
				count++
			}
		}
	}
	return count
}
