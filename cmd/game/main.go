package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tomz197/gonuts/internal/config"
	"github.com/tomz197/gonuts/internal/leaderboard"
	"github.com/tomz197/gonuts/internal/logx"
	"github.com/tomz197/gonuts/internal/loop/client"
	"github.com/tomz197/gonuts/internal/loop/server"
	"github.com/tomz197/gonuts/internal/prize"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	// The terminal belongs to the game, so logs go to a file when asked for.
	logger := logx.Discard()
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logx.New(f, "game")
	}

	boardPath := config.GetEnv("LEADERBOARD_PATH", "leaderboard.json")
	board, err := leaderboard.Open(boardPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open leaderboard %s: %v\n", boardPath, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gs := server.NewServer(board, logger.WithPrefix("hub"))
	go gs.Run(ctx)

	profile := termenv.EnvColorProfile()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	c := client.NewClient(gs, reader, os.Stdout, client.ClientOptions{
		Username:  os.Getenv("USER"),
		Profile:   profile,
		Handoff:   prize.ClipboardHandoff{},
		Recipient: config.GetEnv("PRIZE_EMAIL", prize.DefaultRecipient),
		Logger:    logger.WithPrefix("client"),
	})
	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
