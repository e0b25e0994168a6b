package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/saeidalz13/battleship-solo/internal/scheduler"
	"github.com/saeidalz13/battleship-solo/models/connection"
	"github.com/saeidalz13/battleship-solo/models/match"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort int = 8000

	URLQuerySessionIDKeyword string = "sessionID"
)

type Server struct {
	port           int
	stage          string
	allowedOrigins map[string]bool
	store          match.Store
	analytics      match.Analytics
	sched          scheduler.Scheduler

	SessionManager *connection.BattleshipSessionManager
	MatchManager   *match.BattleshipMatchManager
}

type Option func(*Server) error

// Options that fail validation panic; a misconfigured server must not start
func NewServer(optFuncs ...Option) *Server {
	server := Server{
		port:           defaultPort,
		stage:          StageDev,
		allowedOrigins: make(map[string]bool),
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}

	if server.store == nil {
		server.store = match.NewMemoryStore()
	}
	if server.sched == nil {
		server.sched = scheduler.NewRealScheduler()
	}

	matchOpts := make([]match.Option, 0, 1)
	if server.analytics != nil {
		matchOpts = append(matchOpts, match.WithAnalytics(server.analytics))
	}

	server.SessionManager = connection.NewBattleshipSessionManager()
	server.MatchManager = match.NewBattleshipMatchManager(server.store, server.sched, matchOpts...)

	return &server
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

func WithStore(store match.Store) Option {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

func WithAnalytics(analytics match.Analytics) Option {
	return func(s *Server) error {
		s.analytics = analytics
		return nil
	}
}

// Only consulted in prod
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) error {
		for _, origin := range origins {
			if origin = strings.TrimSpace(origin); origin != "" {
				s.allowedOrigins[origin] = true
			}
		}
		return nil
	}
}

func WithScheduler(sched scheduler.Scheduler) Option {
	return func(s *Server) error {
		s.sched = sched
		return nil
	}
}

func (s *Server) Port() int {
	return s.port
}

func (s *Server) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", s.port)
}

// Native clients send no Origin header and are let through
func (s *Server) checkOrigin(r *http.Request) bool {
	if s.stage == StageDev {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return s.allowedOrigins[origin]
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /battleship", NewRequestProcessor(s.SessionManager, s.MatchManager, s.checkOrigin))
	return mux
}
