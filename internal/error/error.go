package error

import (
	"errors"
	"fmt"
)

// Returned by a store when nothing is saved under the key.
// Callers compare with errors.Is.
var ErrSaveNotFound = errors.New("no saved game under this key")

func ErrInvalidGameMode(mode string) error {
	return fmt.Errorf("invalid game mode: %q; must be standard or training", mode)
}

func ErrGameNotStarted() error {
	return fmt.Errorf("the game has not been started yet")
}

func ErrGameFinished() error {
	return fmt.Errorf("the game is already finished")
}

func ErrNotPlayerTurn(player string) error {
	return fmt.Errorf("it is not the turn of player: %s", player)
}

func ErrCoordinatesOutOfGrid(row, col int) error {
	return fmt.Errorf("incoming row or col is out of game grid bound\trow: %d\tcol: %d", row, col)
}

func ErrCellAlreadyExposed(row, col int) error {
	return fmt.Errorf("this position is already hit in previous rounds\trow: %d\tcol: %d", row, col)
}

func ErrPlacementFailed(vesselId string, attempts int) error {
	return fmt.Errorf("could not place vessel %s after %d attempts", vesselId, attempts)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrInvalidSessionID(sessionId string) error {
	return fmt.Errorf("invalid session id: %s", sessionId)
}

func ErrMatchNotExists(sessionId string) error {
	return fmt.Errorf("match for this session does not exist, session id: %s", sessionId)
}

func ErrMatchClosed() error {
	return fmt.Errorf("match is closed")
}

func ErrEmptySaveKey() error {
	return fmt.Errorf("save key must not be empty")
}

func ErrUnknownVictor(victor string) error {
	return fmt.Errorf("unknown victor: %q", victor)
}

func ErrInvalidSaveBlob() error {
	return fmt.Errorf("saved game is not valid json")
}

func ErrSignalAbsent() error {
	return fmt.Errorf("incoming req payload must contain 'code' field")
}
