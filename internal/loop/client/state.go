package client

import (
	"time"

	"github.com/tomz197/gonuts/internal/draw"
	"github.com/tomz197/gonuts/internal/input"
	"github.com/tomz197/gonuts/internal/prize"
	"github.com/tomz197/gonuts/internal/round"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart       GameState = iota // Title screen
	GameStatePlaying                      // Round in progress
	GameStateGameOver                     // Round over, claim form
	GameStateSent                         // Claim handed off
	GameStateLeaderboard                  // Top scores
	GameStateShutdown                     // Server is shutting down
)

// String returns the state name for logs.
func (g GameState) String() string {
	switch g {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStateGameOver:
		return "game-over"
	case GameStateSent:
		return "sent"
	case GameStateLeaderboard:
		return "leaderboard"
	case GameStateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// catchPopup is a "+N" label shown where a donut was caught.
type catchPopup struct {
	catch round.Catch
	timer float64 // Seconds left on screen
}

// ClientState holds per-player state (input, round, form, etc.).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input         input.Input
	GameState     GameState   // This client's screen
	Round         round.State // Latest snapshot of the current or last round
	FinalScore    int         // Score of the last finished round
	CatcherTarget float64     // Where the catcher was last sent, field percent
	Form          ClaimForm   // Claim form on the game-over screen
	Claim         prize.Message
	ClaimCode     string // Verification code of the last claim
	ClaimErr      error  // Handoff failure, shown on the sent screen
	EntryID       string // Leaderboard entry of the last claim
	News          string // Latest leaderboard news from other players
	Running       bool   // Client loop running

	termSizeFunc      draw.TermSizeFunc // Function to get terminal size
	delta             time.Duration     // Frame delta time (client-side)
	shutdownTimer     float64           // Countdown before auto-disconnect on shutdown
	newsTimer         float64           // Seconds News stays visible
	isInactive        bool              // Whether the client is in inactive warning state
	wasInactive       bool
	prevGameState     GameState
	leaderboardReturn GameState // Screen to go back to from the leaderboard
	popups            []catchPopup
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		Round:         round.NewState(),
		CatcherTarget: round.CatcherStart,
		Running:       true,
	}
}
