package main

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/gonuts/internal/config"
	"github.com/tomz197/gonuts/internal/leaderboard"
	"github.com/tomz197/gonuts/internal/logx"
)

const (
	defaultHost      = "0.0.0.0"
	defaultPort      = "8080"
	defaultBoardPath = "leaderboard.json"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Parse(htmlPage))

// publicEntry is a leaderboard row as shown to the world. No email.
type publicEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Date  string `json:"date"`
}

// site serves the landing page and the leaderboard API.
type site struct {
	boardPath string
	sshHost   string
	sshPort   string
	logger    *log.Logger
}

func main() {
	logger, err := logx.Setup(os.Stderr, "web")
	if err != nil {
		logger.Warn("ignoring .env", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	s := &site{
		boardPath: config.GetEnv("LEADERBOARD_PATH", defaultBoardPath),
		sshHost:   config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		sshPort:   config.GetEnv("SSH_PORT", "2222"),
		logger:    logger,
	}

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "addr", "http://"+addr, "leaderboard", s.boardPath)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func (s *site) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	return mux
}

// entries reads the board fresh so scores from the SSH server appear without
// a restart.
func (s *site) entries() ([]publicEntry, error) {
	board, err := leaderboard.Open(s.boardPath)
	if err != nil {
		return nil, err
	}
	top := board.Top()
	out := make([]publicEntry, len(top))
	for i, e := range top {
		out[i] = publicEntry{
			Rank:  i + 1,
			Name:  e.Name,
			Score: e.Score,
			Date:  e.Date.Format(time.DateOnly),
		}
	}
	return out, nil
}

func (s *site) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries()
	if err != nil {
		s.logger.Error("read leaderboard", "err", err)
		entries = nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		SSHHost string
		SSHPort string
		Entries []publicEntry
	}{s.sshHost, s.sshPort, entries}
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func (s *site) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries()
	if err != nil {
		s.logger.Error("read leaderboard", "err", err)
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		s.logger.Error("encode leaderboard", "err", err)
	}
}
