package api

import (
	"context"
	"encoding/json"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
	"github.com/saeidalz13/battleship-solo/models/match"
)

type RequestHandler interface {
	HandleStartGame(ctx context.Context, m *match.Match) mc.Message[mc.RespAction]
	HandleAttack(ctx context.Context, m *match.Match) mc.Message[mc.RespAction]
	HandleResetGame(ctx context.Context, m *match.Match) mc.Message[mc.RespAction]
	HandleSnapshot(m *match.Match) mc.Message[mc.RespAction]
}

// Every incoming valid request has this structure and is handled in
// line with RequestHandler
type Request struct {
	payload []byte
}

var _ RequestHandler = Request{}

func NewRequest(payload ...[]byte) Request {
	var req Request
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return req
}

func actionResponse(code uint8, result match.Result) mc.Message[mc.RespAction] {
	resp := mc.NewMessage[mc.RespAction](code)
	resp.AddPayload(mc.RespAction{Accepted: result.Accepted, Snapshot: result.Snapshot.Redacted()})
	if result.Err != nil {
		resp.AddError(result.Err.Error(), "action refused")
	}
	return resp
}

func badRequest(code uint8, m *match.Match, errorDetails string) mc.Message[mc.RespAction] {
	resp := mc.NewMessage[mc.RespAction](code)
	resp.AddPayload(mc.RespAction{Snapshot: m.Snapshot().Redacted()})
	resp.AddError(errorDetails, "invalid payload")
	return resp
}

func (r Request) HandleStartGame(ctx context.Context, m *match.Match) mc.Message[mc.RespAction] {
	var req mc.Message[mc.ReqStartGame]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		return badRequest(mc.CodeStartGame, m, err.Error())
	}

	return actionResponse(mc.CodeStartGame, m.Dispatch(ctx, match.StartGame(mb.GameMode(req.Payload.Mode))))
}

func (r Request) HandleAttack(ctx context.Context, m *match.Match) mc.Message[mc.RespAction] {
	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		return badRequest(mc.CodeAttack, m, err.Error())
	}
	if req.Payload.Row == nil || req.Payload.Col == nil {
		return badRequest(mc.CodeAttack, m, "row and col are required")
	}

	return actionResponse(mc.CodeAttack, m.Dispatch(ctx, match.HumanAttack(*req.Payload.Row, *req.Payload.Col)))
}

func (r Request) HandleResetGame(ctx context.Context, m *match.Match) mc.Message[mc.RespAction] {
	return actionResponse(mc.CodeResetGame, m.Dispatch(ctx, match.ResetGame()))
}

func (r Request) HandleSnapshot(m *match.Match) mc.Message[mc.RespAction] {
	resp := mc.NewMessage[mc.RespAction](mc.CodeSnapshot)
	resp.AddPayload(mc.RespAction{Accepted: true, Snapshot: m.Snapshot().Redacted()})
	return resp
}
