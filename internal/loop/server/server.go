// Package server is the session hub shared by every connected client. Each
// client plays its own round; the hub tracks who is connected, owns the
// leaderboard and publishes lobby snapshots.
package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/gonuts/internal/leaderboard"
	"github.com/tomz197/gonuts/internal/logx"
	"github.com/tomz197/gonuts/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the hub.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportStatus(clientID int, status ClientStatus)
	GetSnapshot() *LobbySnapshot
	SubmitScore(clientID int, entry leaderboard.Entry) (leaderboard.Entry, error)
	Qualifies(score int) bool
}

// Server manages shared session state and processes reports from all clients.
type Server struct {
	board        *leaderboard.Store
	logger       *log.Logger
	snapshot     atomic.Pointer[LobbySnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	statusCh     chan ClientReport
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string // Display name for this client (SSH user, may be empty)
	Status   ClientStatus
	EventsCh chan ClientEvent // Events sent to client
}

// ClientReport is a status report from a specific client.
type ClientReport struct {
	ClientID int
	Status   ClientStatus
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type  ClientEventType
	Entry leaderboard.Entry // For leaderboard events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventLeaderboardUpdated ClientEventType = iota
	EventServerShutdown
)

// NewServer creates a hub backed by board. A nil board keeps scores in memory.
// A nil logger discards log output.
func NewServer(board *leaderboard.Store, logger *log.Logger) *Server {
	if board == nil {
		board, _ = leaderboard.Open("")
	}
	if logger == nil {
		logger = logx.Discard()
	}

	s := &Server{
		board:        board,
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		statusCh:     make(chan ClientReport, 256),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
	}

	s.createSnapshot()
	return s
}

// Run processes registrations and status reports every ServerTickTime and
// republishes the lobby snapshot. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.ServerTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.processRegistrations()
			s.collectStatuses()
			s.createSnapshot()
		}
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportStatus sends a client's status to the server.
func (s *Server) ReportStatus(clientID int, status ClientStatus) {
	select {
	case s.statusCh <- ClientReport{ClientID: clientID, Status: status}:
	default:
		// Status channel full, drop report
	}
}

// GetSnapshot returns the current lobby snapshot.
func (s *Server) GetSnapshot() *LobbySnapshot {
	return s.snapshot.Load()
}

// Qualifies reports whether score would enter the leaderboard.
func (s *Server) Qualifies(score int) bool {
	return s.board.Qualifies(score)
}

// SubmitScore records a finished round on the leaderboard and tells every
// connected client about it. Returns the entry as stored; it is on the board
// if the lobby snapshot ranks its ID.
func (s *Server) SubmitScore(clientID int, entry leaderboard.Entry) (leaderboard.Entry, error) {
	saved, _, err := s.board.Record(entry)
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("submit score for client %d: %w", clientID, err)
	}
	s.logger.Info("score submitted", "client", clientID, "name", saved.Name, "score", saved.Score, "id", saved.ID)

	public := saved.Public()
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventLeaderboardUpdated, Entry: public}:
		default:
		}
	}
	s.mu.RUnlock()

	s.createSnapshot()
	return saved, nil
}

// processRegistrations handles pending client registrations/unregistrations.
// Registrations drain first so a client that leaves within one tick is
// removed rather than re-added.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Debug("client registered", "client", handle.ID, "user", handle.Username)
			continue
		default:
		}

		select {
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
			s.logger.Debug("client unregistered", "client", clientID)
		default:
			return
		}
	}
}

// collectStatuses gathers all pending status reports from clients.
func (s *Server) collectStatuses() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case r := <-s.statusCh:
			if handle, ok := s.clients[r.ClientID]; ok {
				handle.Status = r.Status
			}
		default:
			return
		}
	}
}

// createSnapshot creates an immutable snapshot of the hub state.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	snapshot := &LobbySnapshot{
		Players:   len(s.clients),
		TopScores: publicEntries(s.board.Top()),
	}
	for _, handle := range s.clients {
		if handle.Status.Playing {
			snapshot.Playing++
			snapshot.BestLive = max(snapshot.BestLive, handle.Status.Score)
		}
	}
	s.mu.RUnlock()

	s.snapshot.Store(snapshot)
}

// publicEntries strips contact details from entries in place.
func publicEntries(entries []leaderboard.Entry) []leaderboard.Entry {
	for i := range entries {
		entries[i] = entries[i].Public()
	}
	return entries
}
