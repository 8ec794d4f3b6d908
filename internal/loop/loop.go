// Package loop runs a local single-player session: an in-process hub and
// one client sharing the terminal.
package loop

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroids3d/internal/config"
	"github.com/tomz197/asteroids3d/internal/draw"
	"github.com/tomz197/asteroids3d/internal/loop/client"
	"github.com/tomz197/asteroids3d/internal/loop/server"
	"github.com/tomz197/asteroids3d/internal/scoreboard"
)

// ErrNoStore is returned when Run is called without a scoreboard.
var ErrNoStore = errors.New("loop: scoreboard store required")

// Options configures a local session.
type Options struct {
	Username     string
	Rules        config.Ruleset
	Store        scoreboard.Store
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc // Defaults to the controlling terminal
}

// Run plays one session on r and w. Blocks until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	if opts.Store == nil {
		return ErrNoStore
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	hub, err := server.NewServer(opts.Store, logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	c, err := client.NewClient(hub, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Rules:        opts.Rules,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	return c.Run()
}
