package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	mc "github.com/saeidalz13/battleship-solo/models/connection"
	"github.com/saeidalz13/battleship-solo/models/match"
)

const maxMessageSize int64 = 4096

type RequestProcessor struct {
	sessionManager mc.SessionManager
	matchManager   match.MatchManager
	upgrader       websocket.Upgrader
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	matchManager match.MatchManager,
	checkOrigin func(r *http.Request) bool,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		matchManager:   matchManager,
		upgrader: websocket.Upgrader{
			// good average time since this is not a high-latency operation such as video streaming
			HandshakeTimeout: time.Second * 5,

			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgrade writes the http error itself
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	var (
		session *mc.Session
		resumed bool
	)

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		session = rp.sessionManager.GenerateNewSession(conn)
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())

	default:
		session, err = rp.sessionManager.ResumeSession(sessionIdQuery, conn)
		if err != nil {
			log.Println(err)
			_ = conn.WriteJSON(mc.NewErrMessage(mc.CodeReceivedInvalidSessionID, err.Error(), "session id is not valid"))
			_ = conn.Close()
			return
		}
		resumed = true
		log.Println("connection resumed\tRemote Addr: ", conn.RemoteAddr().String())
	}

	rp.processSessionRequests(session, resumed)
}

// Pushes what changed without a request: clock ticks and the
// computer's answer
func (rp RequestProcessor) pushEvent(session *mc.Session, event match.Event) {
	var msg interface{}

	switch event.Type {
	case match.EventTimerTick:
		tick := mc.NewMessage[mc.RespTimerTick](mc.CodeTimerTick)
		tick.AddPayload(mc.RespTimerTick{ElapsedTime: event.Snapshot.ElapsedTime, TimeDisplay: event.Snapshot.TimeDisplay})
		msg = tick

	case match.EventComputerAttack:
		attack := mc.NewMessage[mc.RespAction](mc.CodeComputerAttack)
		attack.AddPayload(mc.RespAction{Accepted: true, Snapshot: event.Snapshot.Redacted()})
		msg = attack

	default:
		return
	}

	if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
		// ends the request loop, which cleans up
		log.Printf("failed to push to session [%s]: %v\n", session.Id(), err)
		_ = session.Conn().Close()
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session, resumed bool) {
	var (
		sessionId = session.Id()
		m         *match.Match
		ctx       = context.Background()
	)

	defer func() {
		rp.matchManager.TerminateMatch(sessionId, m)
		if session.Conn() != nil {
			session.Conn().Close()
		}
		rp.sessionManager.TerminateSession(session)
		log.Printf("session terminated: %s\n", sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId, Resumed: resumed})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

	m = rp.matchManager.OpenMatch(ctx, sessionId, match.WithOnChange(func(e match.Event) { rp.pushEvent(session, e) }))
	if err := rp.sessionManager.WriteToSessionConn(session, NewRequest().HandleSnapshot(m), mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewErrMessage(mc.CodeSignalAbsent, err.Error(), "")
			if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		var respMsg interface{}
		req := NewRequest(payload)

		switch code {
		case mc.CodeStartGame:
			respMsg = req.HandleStartGame(ctx, m)

		case mc.CodeAttack:
			respMsg = req.HandleAttack(ctx, m)

		case mc.CodeResetGame:
			respMsg = req.HandleResetGame(ctx, m)

		case mc.CodeSnapshot:
			respMsg = req.HandleSnapshot(m)

		default:
			respMsg = mc.NewErrMessage(mc.CodeInvalidSignal, "", "invalid code in the incoming payload")
		}

		if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
			break sessionLoop
		}
	}
}
