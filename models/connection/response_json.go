package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
	Resumed   bool   `json:"resumed"`
}

// Reply to every game action. The snapshot is always the redacted
// one; the computer's fleet never leaves the server before the end.
type RespAction struct {
	Accepted bool        `json:"accepted"`
	Snapshot mb.Snapshot `json:"snapshot"`
}

type RespTimerTick struct {
	ElapsedTime int    `json:"elapsedTime"`
	TimeDisplay string `json:"timeDisplay"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
