package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"

	"github.com/tomz197/gonuts/internal/config"
	"github.com/tomz197/gonuts/internal/draw"
	"github.com/tomz197/gonuts/internal/leaderboard"
	"github.com/tomz197/gonuts/internal/logx"
	"github.com/tomz197/gonuts/internal/loop/client"
	"github.com/tomz197/gonuts/internal/loop/server"
	"github.com/tomz197/gonuts/internal/prize"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultBoardPath   = "leaderboard.json"
	defaultMaxSessions = 64
)

// Global game server - shared by all SSH clients
var (
	gameServer   *server.Server
	cancelServer context.CancelFunc
	serverOnce   sync.Once
	recipient    string
	logger       *log.Logger
	maxSessions  int
	sessions     atomic.Int64
)

func main() {
	var envErr error
	logger, envErr = logx.Setup(os.Stderr, "ssh")
	if envErr != nil {
		logger.Warn("ignoring .env", "err", envErr)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	boardPath := config.GetEnv("LEADERBOARD_PATH", defaultBoardPath)
	recipient = config.GetEnv("PRIZE_EMAIL", prize.DefaultRecipient)
	maxSessions = config.GetEnvInt("SSH_MAX_SESSIONS", defaultMaxSessions)
	shutdownGrace := config.GetEnvDuration("SHUTDOWN_GRACE", 15*time.Second)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath,
		"leaderboard", boardPath, "maxSessions", maxSessions)

	board, err := leaderboard.Open(boardPath)
	if err != nil {
		logger.Fatal("open leaderboard", "path", boardPath, "err", err)
	}

	// Initialize and start the shared game server
	serverOnce.Do(func() {
		var ctx context.Context
		ctx, cancelServer = context.WithCancel(context.Background())
		gameServer = server.NewServer(board, logger.WithPrefix("hub"))
		go gameServer.Run(ctx)
		logger.Info("game server started")
	})

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for mouse input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect
	if gameServer != nil {
		gameServer.Shutdown(shutdownGrace)
		cancelServer()
		logger.Info("game server stopped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		if n := sessions.Add(1); maxSessions > 0 && n > int64(maxSessions) {
			sessions.Add(-1)
			logger.Warn("session limit reached", "user", sess.User(), "max", maxSessions)
			fmt.Fprintln(sess, "The donut shop is full right now. Please try again in a minute.")
			return
		}
		defer sessions.Add(-1)

		profile := sessionProfile(sess, pty.Term)
		logger.Info("new game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		reader := bufio.NewReader(sess)
		clientOpts := client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Profile:      profile,
			Handoff:      prize.TerminalHandoff{W: sess},
			Recipient:    recipient,
			Logger:       logger.WithPrefix("client"),
		}

		// Create a new client connected to the shared game server
		c := client.NewClient(gameServer, reader, sess, clientOpts)
		if err := c.Run(); err != nil {
			logger.Error("game error", "user", sess.User(), "err", err)
		}

		next(sess)
	}
}

// sessionEnv exposes the remote environment to termenv. The pty's TERM wins
// over anything the client forwarded.
type sessionEnv struct {
	sess ssh.Session
	term string
}

func (e sessionEnv) Environ() []string {
	return append(e.sess.Environ(), "TERM="+e.term)
}

func (e sessionEnv) Getenv(key string) string {
	if key == "TERM" {
		return e.term
	}
	prefix := key + "="
	for _, kv := range e.sess.Environ() {
		if v, ok := strings.CutPrefix(kv, prefix); ok {
			return v
		}
	}
	return ""
}

// sessionProfile detects the colour profile of the remote terminal.
func sessionProfile(sess ssh.Session, term string) termenv.Profile {
	out := termenv.NewOutput(sess,
		termenv.WithEnvironment(sessionEnv{sess: sess, term: term}),
		termenv.WithUnsafe(),
	)
	return out.EnvColorProfile()
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
