package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/asteroids3d/internal/draw"
	"github.com/tomz197/asteroids3d/internal/loop/config"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if c.state.GameState != GameStateShutdown {
		c.drawScene()
	}

	// Render canvas to terminal
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight)
	case GameStatePaused:
		c.drawPlayingHUD(termWidth, termHeight)
		c.drawPausedScreen(centerX, centerY)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateOver:
		c.drawOverScreen(centerX, centerY)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteCentered(centerX, centerY, msg)
	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		`    _   ___ _____ ___ ___  ___ ___ ___  ___   ____ ___  `,
		`   /_\ / __|_   _| __| _ \/ _ \_ _|   \/ __| |__ /|   \ `,
		`  / _ \\__ \ | | | _||   / (_) | || |) \__ \  |_ \| |) |`,
		` /_/ \_\___/ |_| |___|_|_\\___/___|___/|___/ |___/|___/ `,
	}
	cw := c.chunkWriter
	titleStartY := centerY - 9
	c.writeArt(centerX, titleStartY, titleArt)

	cw.WriteCentered(centerX, titleStartY+len(titleArt)+1, "~ Fly through an endless asteroid field ~")

	controlsY := titleStartY + len(titleArt) + 3
	cw.WriteCentered(centerX, controlsY, "Controls")
	controlLines := []string{
		"W S A D  . . . . . . Move",
		"R / F  . . .  Up / Down  ",
		"Arrows / I J K L . . Look",
		"SPACE  . . . . . . . Fire",
		"ESC  . . . . . . .  Pause",
		"Q  . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		cw.WriteCentered(centerX, controlsY+1+i, line)
	}

	promptY := controlsY + len(controlLines) + 2
	if time.Now().UnixMilli()/600%2 == 0 {
		cw.WriteCentered(centerX, promptY, ">>  Press ENTER to Start  <<")
	} else {
		cw.WriteCentered(centerX, promptY, strings.Repeat(" ", 28))
	}

	c.drawLeaderboard(centerX, promptY+2)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	cw := c.chunkWriter
	g := c.game

	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", g.Score()))
	cw.WriteAt(2, 2, fmt.Sprintf("Time:  %-8s", formatSurvival(g.Elapsed())))

	// Lives as hearts, blinking with the ship while invulnerable
	lives := g.Lives()
	maxLives := g.Rules().Life.InitialLives
	hearts := strings.Repeat(string(draw.Heart), lives) + strings.Repeat(" ", max(maxLives-lives, 0))
	color := draw.ColorRed
	if g.Pulse() < 0.5 {
		color = draw.ColorDim
	}
	cw.WriteAt(termWidth-maxLives-1, 1, color+hearts+draw.ColorReset)

	// Ammo (bottom right)
	var ammo string
	if g.Reloading(g.Now()) {
		ammo = draw.ColorAmber + "RELOADING" + draw.ColorReset
	} else {
		ammo = fmt.Sprintf("Ammo: %-3d", g.ShotsLeftInBurst(g.Now()))
	}
	cw.WriteAt(termWidth-10, termHeight, ammo)

	// Crosshair
	cw.WriteAt(termWidth/2, termHeight/2, "+")
}

// drawPausedScreen draws the pause prompt over the frozen field.
func (c *Client) drawPausedScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "PAUSED")
	cw.WriteCentered(centerX, centerY, "Press ENTER to resume")
}

// drawOverScreen draws the game over screen.
func (c *Client) drawOverScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
	cw := c.chunkWriter
	titleStartY := centerY - 9
	c.writeArt(centerX, titleStartY, titleArt)

	y := titleStartY + len(titleArt) + 1
	cw.WriteCentered(centerX, y, fmt.Sprintf("Score: %d", c.game.Score()))
	cw.WriteCentered(centerX, y+1, fmt.Sprintf("Survived: %s", formatSurvival(c.game.Elapsed())))
	cw.WriteCentered(centerX, y+2, fmt.Sprintf("Asteroids destroyed: %d", c.game.Destroyed()))
	if c.state.highScoreRank > 0 {
		msg := fmt.Sprintf("New high score! Rank #%d", c.state.highScoreRank)
		cw.WriteAt(centerX-len(msg)/2, y+3, draw.ColorAmber+msg+draw.ColorReset)
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		cw.WriteCentered(centerX, y+5, ">>  Press ENTER to Restart  <<")
	} else {
		cw.WriteCentered(centerX, y+5, strings.Repeat(" ", 30))
	}

	c.drawLeaderboard(centerX, y+7)
}

// drawLeaderboard lists the best games kept by the server.
func (c *Client) drawLeaderboard(centerX, startY int) {
	entries := c.server.TopScores()
	if len(entries) == 0 {
		return
	}
	cw := c.chunkWriter
	cw.WriteCentered(centerX, startY, "High Scores")
	termHeight := c.canvas.TerminalHeight()
	for i, e := range entries {
		row := startY + 1 + i
		if row > termHeight {
			break
		}
		line := fmt.Sprintf("%2d. %-*s %8d %8s", i+1, config.MaxUsernameLength, e.Username, e.Score, formatSurvival(e.Survival))
		cw.WriteCentered(centerX, row, line)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	cw.WriteCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	cw.WriteCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	cw.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	cw.WriteCentered(centerX, centerY+4, "Press Q to disconnect now")
}

// writeArt writes multi-line art centered as a block.
func (c *Client) writeArt(centerX, startY int, art []string) {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	for i, line := range art {
		c.chunkWriter.WriteAt(centerX-width/2, startY+i, line)
	}
}

// formatSurvival renders a duration as m:ss.t.
func formatSurvival(d time.Duration) string {
	tenths := int(d / (100 * time.Millisecond))
	return fmt.Sprintf("%d:%02d.%d", tenths/600, tenths/10%60, tenths%10)
}
