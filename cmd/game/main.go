package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/asteroids3d/internal/config"
	"github.com/tomz197/asteroids3d/internal/loop"
	"github.com/tomz197/asteroids3d/internal/scoreboard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Logs go to stderr so they can be redirected away from the game screen.
	logger := config.NewLoggerTo(os.Stderr, config.GetEnv("LOG_LEVEL", "warn"))

	rules, err := config.RulesetFromPath(config.GetEnv("RULESET_PATH", ""))
	if err != nil {
		return err
	}

	// An empty SCORES_DB keeps the scoreboard in memory for this run.
	store, err := scoreboard.OpenSQLite(config.GetEnv("SCORES_DB", ""))
	if err != nil {
		return err
	}
	defer store.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return loop.Run(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Username: config.GetEnv("USER", "pilot"),
		Rules:    rules,
		Store:    store,
		Logger:   logger,
	})
}
