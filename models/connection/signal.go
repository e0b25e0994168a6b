package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeStartGame
	CodeAttack

	// Pushed by the server once the computer fired back
	CodeComputerAttack
	CodeResetGame

	// Asks for the current state; also pushed after a reconnect
	CodeSnapshot

	// Pushed every second while the game clock runs
	CodeTimerTick
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
