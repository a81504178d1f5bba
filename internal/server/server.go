// internal/server/server.go
//
// Package server exposes game hosting over HTTP and WebSockets. Each game
// instance serializes its own moves behind its mutex; the server only routes
// connections and fans events back out.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/wizard/engine"
	"github.com/jason-s-yu/wizard/internal/cache"
	"github.com/jason-s-yu/wizard/internal/config"
	"github.com/jason-s-yu/wizard/internal/database"
	"github.com/jason-s-yu/wizard/internal/game"
	"github.com/jason-s-yu/wizard/internal/models"
)

const writeTimeout = 5 * time.Second

// Server routes clients to game instances.
type Server struct {
	cfg *config.Config
	log *logrus.Logger

	cache *cache.SnapshotStore
	db    *database.Store

	mu    sync.Mutex
	games map[uuid.UUID]*game.WizardGame
	conns map[uuid.UUID]map[uuid.UUID]*websocket.Conn // gameID -> playerID -> conn
}

// New builds a Server. cacheStore and db may be nil to disable persistence.
func New(cfg *config.Config, log *logrus.Logger, cacheStore *cache.SnapshotStore, db *database.Store) *Server {
	return &Server{
		cfg:   cfg,
		log:   log,
		cache: cacheStore,
		db:    db,
		games: make(map[uuid.UUID]*game.WizardGame),
		conns: make(map[uuid.UUID]map[uuid.UUID]*websocket.Conn),
	}
}

// Routes returns the HTTP handler for the game host.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("POST /games/{id}/start", s.handleStartGame)
	mux.HandleFunc("GET /games/{id}/ws", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type createGameRequest struct {
	TournamentMode       bool   `json:"tournamentMode"`
	InspectPreviousTrick bool   `json:"inspectPreviousTrick"`
	Seed                 uint64 `json:"seed,omitempty"`
}

type createGameResponse struct {
	GameID uuid.UUID `json:"gameId"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if r.Body != nil {
		// An empty body means default rules.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	g := game.NewWizardGame()
	g.Config = engine.Config{
		TournamentMode:       req.TournamentMode,
		InspectPreviousTrick: req.InspectPreviousTrick,
	}
	g.Seed = req.Seed
	g.TurnDuration = s.cfg.TurnTimer
	g.Cache = s.cache
	g.DB = s.db
	g.BroadcastFn = s.broadcaster(g.ID)
	g.BroadcastToPlayerFn = s.playerBroadcaster(g.ID)
	g.OnGameEnd = func(lobbyID uuid.UUID, winners []uuid.UUID, totals map[uuid.UUID]int) {
		s.log.WithField("game_id", g.ID).Infof("game finished, %d winner(s)", len(winners))
	}

	s.mu.Lock()
	s.games[g.ID] = g
	s.conns[g.ID] = make(map[uuid.UUID]*websocket.Conn)
	s.mu.Unlock()

	s.log.WithField("game_id", g.ID).Info("game created")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createGameResponse{GameID: g.ID}) //nolint:errcheck
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameFromRequest(w, r)
	if !ok {
		return
	}
	if err := g.Start(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameFromRequest(w, r)
	if !ok {
		return
	}

	playerID, err := uuid.Parse(r.URL.Query().Get("player_id"))
	if err != nil {
		http.Error(w, "player_id must be a UUID", http.StatusBadRequest)
		return
	}
	username := r.URL.Query().Get("username")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}

	s.registerConn(g, playerID, username, conn)
	defer s.unregisterConn(g, playerID, conn)

	s.readLoop(r.Context(), g, playerID, conn)
}

// readLoop pumps client moves into the game until the connection drops.
func (s *Server) readLoop(ctx context.Context, g *game.WizardGame, playerID uuid.UUID, conn *websocket.Conn) {
	for {
		var move models.GameMove
		if err := wsjson.Read(ctx, conn, &move); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return
			}
			s.log.WithError(err).WithField("player_id", playerID).Debug("websocket read ended")
			return
		}
		g.HandleMove(playerID, move)
	}
}

func (s *Server) registerConn(g *game.WizardGame, playerID uuid.UUID, username string, conn *websocket.Conn) {
	s.mu.Lock()
	if m := s.conns[g.ID]; m != nil {
		if old := m[playerID]; old != nil {
			old.Close(websocket.StatusPolicyViolation, "superseded by a new connection")
		}
		m[playerID] = conn
	}
	s.mu.Unlock()

	g.Mu.Lock()
	alreadySeated := false
	for _, p := range g.Players {
		if p.ID == playerID {
			alreadySeated = true
			break
		}
	}
	if alreadySeated {
		g.Mu.Unlock()
		g.HandleReconnect(playerID, conn)
		return
	}
	g.AddPlayer(&models.Player{
		ID:        playerID,
		User:      &models.User{ID: playerID, Username: username},
		Conn:      conn,
		Connected: true,
	})
	g.Mu.Unlock()
}

func (s *Server) unregisterConn(g *game.WizardGame, playerID uuid.UUID, conn *websocket.Conn) {
	s.mu.Lock()
	if m := s.conns[g.ID]; m != nil && m[playerID] == conn {
		delete(m, playerID)
	}
	s.mu.Unlock()
	g.HandleDisconnect(playerID)
	conn.Close(websocket.StatusNormalClosure, "")
}

// broadcaster fans one event out to every live connection in a game.
func (s *Server) broadcaster(gameID uuid.UUID) func(ev game.GameEvent) {
	return func(ev game.GameEvent) {
		s.mu.Lock()
		targets := make([]*websocket.Conn, 0, len(s.conns[gameID]))
		for _, c := range s.conns[gameID] {
			targets = append(targets, c)
		}
		s.mu.Unlock()
		for _, c := range targets {
			s.writeEvent(c, ev)
		}
	}
}

func (s *Server) playerBroadcaster(gameID uuid.UUID) func(playerID uuid.UUID, ev game.GameEvent) {
	return func(playerID uuid.UUID, ev game.GameEvent) {
		s.mu.Lock()
		c := s.conns[gameID][playerID]
		s.mu.Unlock()
		if c != nil {
			s.writeEvent(c, ev)
		}
	}
}

func (s *Server) writeEvent(conn *websocket.Conn, ev game.GameEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, ev); err != nil {
		s.log.WithError(err).Debugf("failed to deliver event %s", ev.Type)
	}
}

func (s *Server) gameFromRequest(w http.ResponseWriter, r *http.Request) (*game.WizardGame, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "game id must be a UUID", http.StatusBadRequest)
		return nil, false
	}
	s.mu.Lock()
	g := s.games[id]
	s.mu.Unlock()
	if g == nil {
		http.Error(w, fmt.Sprintf("game %s not found", id), http.StatusNotFound)
		return nil, false
	}
	return g, true
}
