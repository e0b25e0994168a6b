package connection

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/saeidalz13/battleship-solo/internal"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	DefaultCleanupInterval time.Duration = time.Minute * 5
	DefaultMaxIdle         time.Duration = time.Minute * 20
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	ResumeSession(sessionId string, conn *websocket.Conn) (*Session, error)
	CleanupPeriodically(ctx context.Context)

	FindSession(sessionId string) (*Session, error)
	TerminateSession(session *Session)
	CountSessions() int

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	FetchCodeFromMsg(payload []byte) (uint8, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	maxIdle         time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

func NewBattleshipSessionManager() *BattleshipSessionManager {
	initMapSize := 10

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: DefaultCleanupInterval,
		maxIdle:         DefaultMaxIdle,
	}
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	session := NewSession(internal.NewSessionID(), conn)

	bsm.mu.Lock()
	bsm.sessions[session.id] = session
	bsm.mu.Unlock()

	return session
}

// Binds a new connection to an existing session id. The id need not
// be live in memory: after a restart the saved game still answers to
// it. A connection still held under the id is closed.
func (bsm *BattleshipSessionManager) ResumeSession(sessionId string, conn *websocket.Conn) (*Session, error) {
	if !internal.IsValidSessionID(sessionId) {
		return nil, cerr.ErrInvalidSessionID(sessionId)
	}

	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	previous, prs := bsm.sessions[sessionId]
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	if prs && previous != nil && previous.conn != nil {
		log.Printf("replacing connection of session: %s\n", sessionId)
		_ = previous.conn.Close()
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

// Forgets the session unless its id was already taken over by a
// newer connection.
func (bsm *BattleshipSessionManager) TerminateSession(session *Session) {
	if session == nil {
		return
	}

	bsm.mu.Lock()
	if current, prs := bsm.sessions[session.id]; prs && current == session {
		delete(bsm.sessions, session.id)
	}
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) CountSessions() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// Closes the connections that have been silent for longer than
// maxIdle. Their request loops end and clean up after themselves.
func (bsm *BattleshipSessionManager) EvictIdle(maxIdle time.Duration) int {
	now := time.Now()

	bsm.mu.Lock()
	stale := make([]*Session, 0, 10)
	for id, session := range bsm.sessions {
		if session == nil || session.idleFor(now) > maxIdle {
			delete(bsm.sessions, id)
			stale = append(stale, session)
		}
	}
	bsm.mu.Unlock()

	for _, session := range stale {
		if session == nil {
			continue
		}
		log.Printf("removed idle session: %s\n", session.id)
		if session.conn != nil {
			_ = session.conn.Close()
		}
	}
	return len(stale)
}

// To ensure that there are no dangling connections, the manager
// evicts idle sessions every cleanupInterval until ctx is done.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := bsm.EvictIdle(bsm.maxIdle); n > 0 {
				log.Printf("clean up sessions: %d removed\n", n)
			}
		}
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	if err := session.writeToConnWithRetry(msg, msgType); err != nil {
		return err
	}
	return nil
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		default:
			return -1, []byte{}, err
		}
	}
}

// Reads the "code" of an incoming message. A payload that is not JSON
// or has no code at all is reported as cerr.ErrSignalAbsent.
func (bsm *BattleshipSessionManager) FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil || signal.Code == nil {
		return randomInvalidCode, cerr.ErrSignalAbsent()
	}

	return *signal.Code, nil
}
