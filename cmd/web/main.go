package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroids3d/internal/config"
	lconfig "github.com/tomz197/asteroids3d/internal/loop/config"
	"github.com/tomz197/asteroids3d/internal/scoreboard"
)

const (
	defaultHost     = "0.0.0.0"
	defaultPort     = "8080"
	defaultScoresDB = "/app/data/scores.db"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc":      func(i int) int { return i + 1 },
	"survival": func(d time.Duration) string { return d.Round(100 * time.Millisecond).String() },
}).Parse(htmlPage))

type pageData struct {
	SSHHost string
	Scores  []scoreboard.Entry
}

func main() {
	logger := config.NewLogger(config.GetEnv("LOG_LEVEL", "info"))

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	store, err := scoreboard.OpenSQLite(config.GetEnv("SCORES_DB", defaultScoresDB))
	if err != nil {
		logger.Fatal("opening scoreboard failed", "err", err)
	}
	defer store.Close()

	addr := net.JoinHostPort(host, port)
	logger.Info("starting web server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, newHandler(store, sshHost, logger)); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func newHandler(store scoreboard.Store, sshHost string, logger *log.Logger) http.Handler {
	top := func(ctx context.Context) []scoreboard.Entry {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		entries, err := store.Top(ctx, lconfig.LeaderboardSize)
		if err != nil {
			logger.Error("loading leaderboard failed", "err", err)
			return nil
		}
		return entries
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{SSHHost: sshHost, Scores: top(r.Context())}
		if err := pageTemplate.Execute(w, data); err != nil {
			logger.Error("rendering page failed", "err", err)
		}
	})
	mux.HandleFunc("GET /scores", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		entries := top(r.Context())
		if entries == nil {
			entries = []scoreboard.Entry{}
		}
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logger.Error("encoding scores failed", "err", err)
		}
	})
	return mux
}
