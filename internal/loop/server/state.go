package server

import "github.com/tomz197/gonuts/internal/leaderboard"

// ClientStatus is what a client reports about its session each frame.
type ClientStatus struct {
	Playing bool // A round is in progress
	Score   int  // Score of the current or last round
}

// LobbySnapshot is an immutable snapshot of the hub for rendering.
// Shared by all clients; never mutate it.
type LobbySnapshot struct {
	Players   int                 // Connected clients
	Playing   int                 // Clients with a round in progress
	BestLive  int                 // Highest score among rounds in progress
	TopScores []leaderboard.Entry // Leaderboard, best first
}

// Rank returns the 1-based leaderboard position of the entry with the given
// ID, or 0 if it is not on the board.
func (s *LobbySnapshot) Rank(entryID string) int {
	if s == nil || entryID == "" {
		return 0
	}
	for i, e := range s.TopScores {
		if e.ID == entryID {
			return i + 1
		}
	}
	return 0
}
