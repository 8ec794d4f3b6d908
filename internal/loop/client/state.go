package client

import (
	"time"

	"github.com/tomz197/asteroids3d/internal/input"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay, input captured
	GameStatePaused                    // Input released, simulation idles
	GameStateOver                      // Out of lives, show restart prompt
	GameStateShutdown                  // Server is shutting down
)

func (g GameState) String() string {
	switch g {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStatePaused:
		return "paused"
	case GameStateOver:
		return "game_over"
	case GameStateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ClientState holds per-session presentation state.
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input         input.Input
	GameState     GameState     // This client's game phase
	prevGameState GameState     // Phase drawn last frame
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool
	recorded      bool // Current game already sent to the scoreboard
	highScoreRank int  // Leaderboard rank of the last finished game, 0 if none
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		prevGameState: -1,
		Running:       true,
	}
}
