// Package client runs one player's session: terminal input drives a private
// simulation which is drawn back to the terminal every frame.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids3d/internal/config"
	"github.com/tomz197/asteroids3d/internal/draw"
	"github.com/tomz197/asteroids3d/internal/input"
	lconfig "github.com/tomz197/asteroids3d/internal/loop/config"
	"github.com/tomz197/asteroids3d/internal/loop/server"
	"github.com/tomz197/asteroids3d/internal/sim"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	game         *sim.State
	canvas       *draw.Canvas
	camera       *draw.Camera
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Rules        config.Ruleset
	SimOptions   []sim.Option  // Extra simulation options, e.g. a seeded random source
	Stream       *input.Stream // Overrides reading from the session reader
	Logger       *log.Logger
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	game, err := sim.New(opts.Rules, opts.SimOptions...)
	if err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}

	stream := opts.Stream
	if stream == nil {
		stream = input.StartStream(r)
	}

	username := opts.Username
	if len([]rune(username)) > lconfig.MaxUsernameLength {
		username = string([]rune(username)[:lconfig.MaxUsernameLength])
	}
	if username == "" {
		username = "pilot"
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       gs.RegisterClient(username),
		state:        NewClientState(),
		game:         game,
		canvas:       canvas,
		camera:       draw.NewCamera(game.Ship.Position, game.Ship.Position.Add(game.Ship.Forward()), mgl64.Vec3{0, 1, 0}),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  stream,
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		logger:       logger.With("user", username),
	}, nil
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.EnterAltScreen(c.writer)
	draw.HideCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer func() {
		draw.ClearScreen(c.writer)
		draw.ShowCursor(c.writer)
		draw.ExitAltScreen(c.writer)
	}()

	lastTime := time.Now()
	var runErr error
	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if err := c.Frame(); err != nil {
			runErr = fmt.Errorf("draw frame: %w", err)
			break
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < lconfig.ClientTargetFrameTime {
			time.Sleep(lconfig.ClientTargetFrameTime - elapsed)
		}
	}

	c.finishGame(false)
	c.server.UnregisterClient(c.handle.ID)
	return runErr
}

// Frame processes input, advances the game by one tick and draws it.
func (c *Client) Frame() error {
	c.processInput()
	c.processServerEvents()
	c.updateScreen()

	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStatePaused:
		c.updatePausedState()
	case GameStateOver:
		c.updateOverState()
	case GameStateShutdown:
		c.updateShutdownState()
	}

	return c.drawFrame()
}

// State returns the session's current phase.
func (c *Client) State() GameState { return c.state.GameState }

// Running reports whether the session loop should continue.
func (c *Client) Running() bool { return c.state.Running }

// Game returns the session's simulation.
func (c *Client) Game() *sim.State { return c.game }

// processInput reads input and handles inactivity and quitting.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > lconfig.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive session")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > lconfig.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.finishGame(false)
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = lconfig.ShutdownDisplaySeconds
			case server.EventHighScore:
				c.state.highScoreRank = event.Rank
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(min(termWidth, lconfig.MaxTermWidth), 1)
	renderHeight = max(min(termHeight, lconfig.MaxTermHeight), 1)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

// updateStartState handles the title screen. The field drifts behind it.
func (c *Client) updateStartState() {
	c.tick(false)
	if c.state.Input.Enter {
		c.engage()
	}
}

// updatePlayingState advances the game with captured input.
func (c *Client) updatePlayingState() {
	if c.state.Input.Escape {
		c.state.GameState = GameStatePaused
		c.tick(false)
		return
	}
	c.tick(true)
	if c.game.GameOver() {
		c.finishGame(true)
		c.state.GameState = GameStateOver
	}
}

// updatePausedState idles until the player captures input again.
func (c *Client) updatePausedState() {
	c.tick(false)
	if c.state.Input.Enter {
		c.engage()
	}
}

// updateOverState waits for a restart.
func (c *Client) updateOverState() {
	c.tick(false)
	if c.state.Input.Enter {
		c.game.Restart()
		c.state.recorded = false
		c.state.highScoreRank = 0
		c.engage()
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// engage captures input and resumes flight. Keys held on the menu are dropped.
func (c *Client) engage() {
	c.inputStream.Reset()
	c.state.Input = input.Input{}
	c.state.GameState = GameStatePlaying
}

// tick advances the simulation one frame and consumes its events.
func (c *Client) tick(engaged bool) {
	c.game.Tick(controlsFor(c.state.Input, engaged))
	for _, ev := range c.game.DrainEvents() {
		switch ev.Kind {
		case sim.EventLifeLost:
			c.logger.Debug("life lost", "lives", ev.Lives)
		case sim.EventGameOver:
			c.logger.Debug("game over", "score", c.game.Score())
		}
	}
}

// finishGame sends the current game to the scoreboard once. Games quit
// before scoring anything are not recorded.
func (c *Client) finishGame(gameOver bool) {
	if c.state.recorded {
		return
	}
	if !gameOver && c.game.Score() == 0 && c.game.Elapsed() == 0 {
		return
	}
	c.state.recorded = true
	c.server.FinishGame(c.handle.ID, server.Result{
		Score:     c.game.Score(),
		Survival:  c.game.Elapsed(),
		Lives:     c.game.Lives(),
		Destroyed: c.game.Destroyed(),
		GameOver:  gameOver,
	})
}
