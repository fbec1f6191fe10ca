package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/gonuts/internal/loop/config"
	"github.com/tomz197/gonuts/internal/loop/server"
	"github.com/tomz197/gonuts/internal/object"
	"github.com/tomz197/gonuts/internal/prize"
	"github.com/tomz197/gonuts/internal/round"
)

// titleArt is "GONUTS" in the figlet "small" font.
var titleArt = []string{
	`   ___  ___  _  _ _   _ _____ ___ `,
	`  / __|/ _ \| \| | | | |_   _/ __|`,
	" | (_ | (_) | .` | |_| | | | \\__ \\",
	`  \___|\___/|_|\_|\___/  |_| |___/`,
	`                                  `,
}

// field maps round coordinates onto the canvas.
var field = object.Field{Width: config.ViewWidth, Height: config.ViewHeight}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	snapshot := c.server.GetSnapshot()

	ctx := object.DrawContext{
		Canvas:  c.canvas,
		Writer:  c.chunkWriter,
		Field:   field,
		Palette: c.palette,
	}

	if c.state.GameState == GameStatePlaying && !c.state.isInactive {
		for _, it := range c.state.Round.Items {
			if err := (object.Donut{Item: it}).Draw(ctx); err != nil {
				return err
			}
		}
		if err := (object.Cart{X: c.state.Round.CatcherX}).Draw(ctx); err != nil {
			return err
		}
	}
	for _, e := range c.effects {
		if err := e.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter, lipgloss.RoundedBorder(), c.palette.Dough)

	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// writeText writes an overlay and marks its cells so the canvas repaints
// them once the text is gone.
func (c *Client) writeText(t object.Text) {
	if t.Value == "" {
		return
	}
	t.Draw(c.chunkWriter)
	c.canvas.MarkTextDirty(max(t.X, 1), max(t.Y, 1), t.Width())
}

// centered writes value centred on column centerX.
func (c *Client) centered(centerX, row int, value string, style *lipgloss.Style) {
	c.writeText(object.Centered(centerX, row, value, style))
}

// drawUI draws the UI overlay for the current screen.
func (c *Client) drawUI(snapshot *server.LobbySnapshot) {
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
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateGameOver:
		c.drawGameOverScreen(centerX, centerY)
	case GameStateSent:
		c.drawSentScreen(centerX, centerY, snapshot)
	case GameStateLeaderboard:
		c.drawLeaderboardScreen(centerX, centerY, snapshot)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.centered(centerX, centerY-2, "INACTIVITY WARNING", &c.styles.hurry)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.centered(centerX, centerY, msg, nil)
	c.centered(centerX, centerY+2, "Press any key to continue", &c.styles.hint)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	st := &c.styles

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}
	titleStartY := centerY - 8
	for i, line := range titleArt {
		c.writeText(object.Text{X: centerX - titleWidth/2, Y: titleStartY + i, Value: line, Style: &st.title})
	}

	c.centered(centerX, titleStartY+len(titleArt)+1, "~ Catch the falling donuts in 60 seconds ~", &st.subtitle)

	// Point legend, one colour per category
	legendY := titleStartY + len(titleArt) + 3
	cats := []round.Category{round.Common, round.Uncommon, round.Rare, round.Jackpot}
	parts := make([]string, len(cats))
	width := 0
	for i, cat := range cats {
		parts[i] = fmt.Sprintf("o %s %d", cat, cat.Points())
		width += len(parts[i])
	}
	width += 3 * (len(cats) - 1)
	col := centerX - width/2
	for i, cat := range cats {
		c.writeText(object.Text{X: col, Y: legendY, Value: parts[i], Style: &st.category[cat]})
		col += len(parts[i]) + 3
	}

	controlsY := legendY + 2
	c.centered(centerX, controlsY, "Controls", &st.prompt)
	controlLines := []string{
		"Mouse / A D / < >  . .  Move cart",
		"B  . . . . . . . . .  Leaderboard",
		"Q  . . . . . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.centered(centerX, controlsY+1+i, line, nil)
	}

	// Blinking start prompt
	prompt := ">>  Press SPACE to Start  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = strings.Repeat(" ", len(prompt))
	}
	c.centered(centerX, controlsY+len(controlLines)+2, prompt, &st.prompt)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot *server.LobbySnapshot) {
	st := &c.styles
	r := c.state.Round

	c.writeText(object.Text{X: 2, Y: 1, Value: fmt.Sprintf("Score: %-6d", r.Score), Style: &st.hud})

	timeStyle := &st.hud
	if r.TimeRemaining <= config.HurryUpSeconds {
		timeStyle = &st.hurry
	}
	timeText := fmt.Sprintf("Time: %2ds", r.TimeRemaining)
	c.writeText(object.Text{X: termWidth - len(timeText) - 1, Y: 1, Value: timeText, Style: timeStyle})

	if r.TimeRemaining == config.IntenseBanner {
		c.centered(termWidth/2, termHeight/3, "INTENSE MODE!", &st.banner)
	}
	if r.TimeRemaining > config.MoveHintAbove {
		p := field.Point(50, round.CatchBandBottom+10)
		_, row := c.canvas.LogicalToTerminal(p.X, p.Y)
		c.centered(termWidth/2, min(row, termHeight-1), "MOVE TO CATCH!", &st.prompt)
	}

	// Score popups rise from where the donut was caught
	for _, p := range c.state.popups {
		rise := (popupSeconds - p.timer) * 10
		pos := field.Point(p.catch.X, p.catch.Y-rise)
		col, row := c.canvas.LogicalToTerminal(pos.X, pos.Y)
		if row < 2 || row > termHeight {
			continue
		}
		c.centered(col, row, fmt.Sprintf("+%d", p.catch.Points), &st.category[p.catch.Category])
	}

	// Live players (bottom right)
	playersText := fmt.Sprintf("Players: %-4d", snapshot.Players)
	c.writeText(object.Text{X: termWidth - len(playersText) - 1, Y: termHeight, Value: playersText, Style: &st.hint})

	// Leaderboard news or best live score (bottom left)
	bottom := fmt.Sprintf("Best live: %-6d", snapshot.BestLive)
	if c.state.News != "" {
		bottom = c.state.News
	}
	c.writeText(object.Text{X: 2, Y: termHeight, Value: bottom, Style: &st.hint})
}

// drawGameOverScreen draws the final score and the claim form.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	st := &c.styles
	score := c.state.FinalScore
	y := centerY - 8

	c.centered(centerX, y, "TIME'S UP!", &st.title)
	c.centered(centerX, y+2, fmt.Sprintf("Final Score: %d", score), &st.hud)
	c.centered(centerX, y+3, fmt.Sprintf("Coupon unlocked: %s", prize.Coupon(score)), &st.mine)
	if c.server.Qualifies(score) {
		c.centered(centerX, y+4, "You made the leaderboard!", &st.good)
	}

	c.centered(centerX, y+6, "Claim your prize", &st.prompt)

	f := c.state.Form
	labelCol := centerX - (7+config.MaxEmailLength/2)/2
	c.drawFormField(labelCol, y+8, "Name: ", f.Name, config.MaxNameLength, f.Focus == FieldName)
	c.drawFormField(labelCol, y+9, "Email:", f.Email, config.MaxEmailLength/2, f.Focus == FieldEmail)

	if f.Error != "" {
		c.centered(centerX, y+11, f.Error, &st.err)
	}

	c.centered(centerX, y+13, "TAB switch field  .  ENTER claim prize  .  ESC play again", &st.hint)
}

// drawFormField draws one labelled input. Long values scroll so the end stays visible.
func (c *Client) drawFormField(col, row int, label, value string, width int, focused bool) {
	style := &c.styles.blur
	if focused {
		style = &c.styles.focus
		value += "_"
	}
	if len(value) > width {
		value = value[len(value)-width:]
	}
	c.writeText(object.Text{X: col, Y: row, Value: label, Style: &c.styles.prompt})
	c.writeText(object.Text{X: col + len(label) + 1, Y: row, Value: fmt.Sprintf("%-*s", width, value), Style: style})
}

// drawSentScreen draws the claim summary after submitting.
func (c *Client) drawSentScreen(centerX, centerY int, snapshot *server.LobbySnapshot) {
	st := &c.styles
	y := centerY - 8

	c.centered(centerX, y, "PRIZE CLAIM READY", &st.title)
	if c.state.ClaimErr == nil {
		c.centered(centerX, y+2, "The claim is on your clipboard. Paste it into an email to:", nil)
	} else {
		c.centered(centerX, y+2, "Could not reach your clipboard. Send the claim below to:", &st.err)
	}
	c.centered(centerX, y+3, c.state.Claim.To, &st.mine)
	c.centered(centerX, y+5, "Subject: "+c.state.Claim.Subject, nil)

	for i, line := range strings.Split(c.state.Claim.Body, "\n") {
		c.centered(centerX, y+7+i, line, &st.hint)
	}

	if rank := snapshot.Rank(c.state.EntryID); rank > 0 {
		c.centered(centerX, y+15, fmt.Sprintf("You are #%d on the leaderboard!", rank), &st.good)
	}

	c.centered(centerX, y+17, "SPACE play again  .  B leaderboard  .  Q quit", &st.hint)
}

// drawLeaderboardScreen draws the top scores.
func (c *Client) drawLeaderboardScreen(centerX, centerY int, snapshot *server.LobbySnapshot) {
	st := &c.styles
	y := centerY - 8

	c.centered(centerX, y, "TOP GONUT CATCHERS", &st.title)

	if len(snapshot.TopScores) == 0 {
		c.centered(centerX, y+3, "No scores yet. Be the first!", &st.hint)
	}

	const rowFormat = "%2s  %-16s %6s  %-10s"
	header := fmt.Sprintf(rowFormat, "#", "Name", "Score", "Date")
	col := centerX - len(header)/2
	if len(snapshot.TopScores) > 0 {
		c.writeText(object.Text{X: col, Y: y + 2, Value: header, Style: &st.prompt})
	}
	for i, e := range snapshot.TopScores {
		line := fmt.Sprintf(rowFormat,
			fmt.Sprint(i+1), truncate(e.Name, 16), fmt.Sprint(e.Score), e.Date.Format(time.DateOnly))
		var style *lipgloss.Style
		if e.ID == c.state.EntryID {
			style = &st.mine
		}
		c.writeText(object.Text{X: col, Y: y + 3 + i, Value: line, Style: style})
	}

	c.centered(centerX, y+15, "ESC / SPACE back", &st.hint)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	if object.ShouldRenderBlink(c.state.shutdownTimer, 2) {
		c.centered(centerX, centerY-3, "SERVER SHUTTING DOWN", &c.styles.hurry)
	} else {
		c.centered(centerX, centerY-3, "                    ", nil)
	}
	c.centered(centerX, centerY-1, "The server is restarting for maintenance.", nil)
	c.centered(centerX, centerY, "Please reconnect in a moment.", nil)

	remaining := int(c.state.shutdownTimer) + 1
	c.centered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining), nil)
	c.centered(centerX, centerY+4, "Press Q to disconnect now", &c.styles.hint)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
