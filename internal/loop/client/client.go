package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/gonuts/internal/draw"
	"github.com/tomz197/gonuts/internal/input"
	"github.com/tomz197/gonuts/internal/leaderboard"
	"github.com/tomz197/gonuts/internal/logx"
	"github.com/tomz197/gonuts/internal/loop/config"
	"github.com/tomz197/gonuts/internal/loop/server"
	"github.com/tomz197/gonuts/internal/object"
	"github.com/tomz197/gonuts/internal/physics"
	"github.com/tomz197/gonuts/internal/prize"
	"github.com/tomz197/gonuts/internal/round"
)

const (
	popupSeconds = 0.8 // How long "+N" stays over a catch
	newsSeconds  = 6.0 // How long other players' scores stay in the HUD
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	palette      object.Palette
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	styles       styles
	handoff      prize.Handoff
	recipient    string
	logger       *log.Logger
	roundOpts    round.RunnerOptions
	runner       *round.Runner
	effects      []object.Object // Sparkles
	spawned      []object.Object // Effects spawned this frame
}

// Compile-time check that Client can receive spawned effects.
var _ object.Spawner = (*Client)(nil)

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Profile      termenv.Profile     // Colour profile of the terminal (zero value is TrueColor)
	Handoff      prize.Handoff       // Defaults to OSC 52 on the client's writer
	Recipient    string              // Prize claim address, defaults to prize.DefaultRecipient
	Logger       *log.Logger         // Defaults to discarding
	Round        round.RunnerOptions // Round tuning, zero value plays a normal round
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	handoff := opts.Handoff
	if handoff == nil {
		handoff = prize.TerminalHandoff{W: w}
	}
	recipient := opts.Recipient
	if recipient == "" {
		recipient = prize.DefaultRecipient
	}
	logger := opts.Logger
	if logger == nil {
		logger = logx.Discard()
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	palette := object.NewPalette(canvas)
	canvas.SetProfile(opts.Profile)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(opts.Profile)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		palette:      palette,
		chunkWriter:  chunkWriter,
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		styles:       newStyles(renderer),
		handoff:      handoff,
		recipient:    recipient,
		logger:       logger,
		roundOpts:    opts.Round,
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	input.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer input.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	c.logger.Info("session started", "client", c.handle.ID, "user", c.username)
	defer func() {
		c.logger.Info("session ended", "client", c.handle.ID, "user", c.username, "bytes", c.chunkWriter.Written())
	}()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			c.stopRound()
			c.server.UnregisterClient(c.handle.ID)
			return fmt.Errorf("draw frame: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.stopRound()
	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// Spawn queues an effect to be added after the current update.
// Implements object.Spawner.
func (c *Client) Spawn(obj object.Object) {
	c.spawned = append(c.spawned, obj)
}

// processInput reads input and tracks activity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	c.trackActivity(time.Now())
	c.checkQuit()
}

// checkQuit stops the client on Ctrl+C, or Q outside the claim form where
// letters are text.
func (c *Client) checkQuit() {
	in := c.state.Input
	if in.Interrupt || (in.Quit && c.state.GameState != GameStateGameOver) {
		c.state.Running = false
	}
}

// trackActivity updates the inactivity warning and disconnects idle clients.
func (c *Client) trackActivity(now time.Time) {
	in := c.state.Input
	active := len(in.Pressed) > 0 || len(in.Edits) > 0 || in.Mouse.Moved ||
		in.Left || in.Right || in.Escape || in.Interrupt

	idle := now.Sub(c.lastInput).Seconds()
	switch {
	case active:
		c.lastInput = now
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.logger.Info("disconnecting idle client", "client", c.handle.ID)
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
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
			case server.EventLeaderboardUpdated:
				if event.Entry.ID != "" && event.Entry.ID == c.state.EntryID {
					continue
				}
				c.state.News = fmt.Sprintf("%s just scored %d!", event.Entry.Name, event.Entry.Score)
				c.state.newsTimer = newsSeconds
			case server.EventServerShutdown:
				c.stopRound()
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
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
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
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
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// update advances the current screen and the effects, then reports status.
func (c *Client) update() {
	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateGameOver:
		c.updateGameOverState()
	case GameStateSent:
		c.updateSentState()
	case GameStateLeaderboard:
		c.updateLeaderboardState()
	case GameStateShutdown:
		c.updateShutdownState()
	}

	c.updateEffects()

	c.server.ReportStatus(c.handle.ID, server.ClientStatus{
		Playing: c.state.GameState == GameStatePlaying,
		Score:   c.state.Round.Score,
	})
}

// updateStartState handles the start screen.
func (c *Client) updateStartState() {
	switch {
	case c.state.Input.Space || c.state.Input.Enter:
		c.startGame()
	case c.state.Input.Leaderboard:
		c.openLeaderboard()
	}
}

// startGame starts a fresh round.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)
	c.stopRound()
	c.clearEffects()

	id := c.handle.ID
	opts := c.roundOpts
	onEnd := opts.OnEnd
	opts.OnEnd = func(score int) {
		c.logger.Info("round over", "client", id, "score", score)
		if onEnd != nil {
			onEnd(score)
		}
	}

	c.runner = round.StartRound(context.Background(), opts)
	c.state.Round = c.runner.Snapshot()
	c.state.CatcherTarget = round.CatcherStart
	c.state.GameState = GameStatePlaying
	c.logger.Debug("round started", "client", id)
}

// stopRound tears down a round in progress, if any.
func (c *Client) stopRound() {
	if c.runner == nil {
		return
	}
	c.runner.Stop()
	c.runner = nil
}

// updatePlayingState steers the catcher, collects catches and watches for
// the end of the round.
func (c *Client) updatePlayingState() {
	if c.runner == nil {
		c.state.GameState = GameStateStart
		return
	}

	c.steerCatcher()
	c.drainCatches()
	c.state.Round = c.runner.Snapshot()

	select {
	case <-c.runner.Done():
		c.finishRound()
	default:
	}
}

// steerCatcher turns mouse motion and held arrow keys into catcher moves.
func (c *Client) steerCatcher() {
	in := c.state.Input
	target := c.state.CatcherTarget
	moved := false

	if in.Mouse.Moved {
		target = c.mouseToField(in.Mouse.Col)
		moved = true
	}
	if in.Left != in.Right {
		if in.Left {
			target -= config.KeyNudgePercent
		} else {
			target += config.KeyNudgePercent
		}
		moved = true
	}

	if moved {
		c.state.CatcherTarget = physics.Clamp(target, round.CatcherMin, round.CatcherMax)
		c.runner.PointerMove(target)
	}
}

// mouseToField converts a 1-based terminal column to a field percentage.
func (c *Client) mouseToField(col int) float64 {
	x := float64(col-1-c.canvas.OffsetCol()) + 0.5
	return physics.FieldPercent(x, 0, float64(c.canvas.TerminalWidth()))
}

// drainCatches turns captures into sparkles and score popups.
func (c *Client) drainCatches() {
	for {
		select {
		case ct := <-c.runner.Catches():
			object.SpawnSparkles(ct.X, ct.Y, config.SparkleCount, config.SparkleSpeed, config.SparkleLifetime, c)
			c.state.popups = append(c.state.popups, catchPopup{catch: ct, timer: popupSeconds})
		default:
			return
		}
	}
}

// finishRound moves to the claim form once the runner has exited.
func (c *Client) finishRound() {
	c.drainCatches()
	c.state.Round = c.runner.Snapshot()
	c.runner = nil

	c.state.FinalScore = c.state.Round.Score
	c.state.Form.Focus = FieldName
	c.state.Form.Error = ""
	c.state.EntryID = ""
	c.state.GameState = GameStateGameOver
	input.ResetKeyInput(c.inputStream)
}

// updateGameOverState edits the claim form.
func (c *Client) updateGameOverState() {
	in := c.state.Input
	if in.Escape {
		c.startGame()
		return
	}

	f := &c.state.Form
	f.Type(in.Pressed)
	for _, e := range in.Edits {
		switch e {
		case '\t':
			f.NextField()
		case '\b':
			f.Backspace()
		case '\r':
			c.submitClaim()
			return
		}
	}
}

// submitClaim records the score and hands the prize claim to the player.
func (c *Client) submitClaim() {
	f := &c.state.Form
	if msg := f.Validate(); msg != "" {
		f.Error = msg
		return
	}

	id := c.handle.ID
	code := prize.VerificationCode(c.state.FinalScore, nil)
	claim := f.Claim(c.state.FinalScore, code)
	msg, err := prize.Compose(claim, c.recipient)
	if err != nil {
		f.Error = "Please enter your name and email."
		return
	}

	saved, err := c.server.SubmitScore(id, leaderboard.Entry{
		Name:             claim.Name,
		Email:            claim.Email,
		Score:            claim.Score,
		VerificationCode: code,
	})
	if err != nil {
		c.logger.Error("submit score", "client", id, "err", err)
		f.Error = "Could not save your score. Please try again."
		return
	}

	c.state.EntryID = saved.ID
	c.state.Claim = msg
	c.state.ClaimCode = code
	c.state.ClaimErr = c.handoff.Deliver(msg)
	if c.state.ClaimErr != nil {
		c.logger.Warn("claim handoff failed", "client", id, "err", c.state.ClaimErr)
	}
	c.logger.Info("prize claimed", "client", id, "score", claim.Score, "code", code)

	c.state.GameState = GameStateSent
	input.ResetKeyInput(c.inputStream)
}

// updateSentState handles the screen after a claim.
func (c *Client) updateSentState() {
	switch {
	case c.state.Input.Space || c.state.Input.Enter:
		c.startGame()
	case c.state.Input.Leaderboard:
		c.openLeaderboard()
	}
}

// openLeaderboard shows the top scores, remembering where to return.
func (c *Client) openLeaderboard() {
	input.ResetKeyInput(c.inputStream)
	c.state.leaderboardReturn = c.state.GameState
	c.state.GameState = GameStateLeaderboard
}

// updateLeaderboardState handles the leaderboard screen.
func (c *Client) updateLeaderboardState() {
	if c.state.Input.Escape || c.state.Input.Space {
		input.ResetKeyInput(c.inputStream)
		c.state.GameState = c.state.leaderboardReturn
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// updateEffects advances sparkles, popups and the news line.
func (c *Client) updateEffects() {
	dt := c.state.delta.Seconds()
	ctx := object.UpdateContext{Delta: c.state.delta, Spawner: c}

	kept := c.effects[:0]
	for _, e := range c.effects {
		if e.Update(ctx) {
			object.ReleaseObject(e)
		} else {
			kept = append(kept, e)
		}
	}
	c.effects = append(kept, c.spawned...)
	clear(c.spawned)
	c.spawned = c.spawned[:0]

	popups := c.state.popups[:0]
	for _, p := range c.state.popups {
		p.timer -= dt
		if p.timer > 0 {
			popups = append(popups, p)
		}
	}
	c.state.popups = popups

	if c.state.newsTimer > 0 {
		c.state.newsTimer -= dt
		if c.state.newsTimer <= 0 {
			c.state.News = ""
		}
	}
}

// clearEffects drops all effects, returning pooled ones.
func (c *Client) clearEffects() {
	for _, e := range c.effects {
		object.ReleaseObject(e)
	}
	c.effects = c.effects[:0]
	c.spawned = c.spawned[:0]
	c.state.popups = nil
}
