package prize

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrNoClipboard is returned when the local system has no clipboard utility.
var ErrNoClipboard = errors.New("prize: no clipboard available")

// Handoff delivers a composed claim to somewhere the player can send it from.
type Handoff interface {
	Deliver(m Message) error
}

// ClipboardHandoff copies the claim to the local system clipboard.
type ClipboardHandoff struct{}

// Deliver implements Handoff.
func (ClipboardHandoff) Deliver(m Message) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	if err := clipboard.WriteAll(m.String()); err != nil {
		return fmt.Errorf("copy claim: %w", err)
	}
	return nil
}

// TerminalHandoff copies the claim to the clipboard of the terminal on the
// other end of W using an OSC 52 escape sequence. Used over SSH, where the
// server's clipboard is of no use to the player.
type TerminalHandoff struct {
	W io.Writer
}

// Deliver implements Handoff.
func (h TerminalHandoff) Deliver(m Message) error {
	if _, err := osc52.New(m.String()).WriteTo(h.W); err != nil {
		return fmt.Errorf("write osc52: %w", err)
	}
	return nil
}
