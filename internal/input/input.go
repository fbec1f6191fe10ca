// Package input turns the raw terminal byte stream into per-frame input:
// held keys, typed characters and mouse motion.
package input

import (
	"bufio"
	"io"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Interrupt   bool // Ctrl+C
	Quit        bool
	Left        bool
	Right       bool
	Up          bool
	Down        bool
	Space       bool
	Enter       bool
	Tab         bool
	Backspace   bool
	Escape      bool
	Leaderboard bool
	Pressed     []byte // Printable characters typed this frame, escape sequences removed
	Edits       []byte // Editing keys this frame, one per press: '\t', '\b' or '\r'
	Mouse       Mouse  // Last mouse report this frame
}

// Mouse is a terminal mouse report. Col and Row are 1-based terminal cells.
type Mouse struct {
	Col, Row int
	Moved    bool // A report arrived this frame
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	interrupt   time.Time
	quit        time.Time
	left        time.Time
	right       time.Time
	up          time.Time
	down        time.Time
	space       time.Time
	enter       time.Time
	tab         time.Time
	backspace   time.Time
	escape      time.Time
	leaderboard time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream (client hung up) is reported as Quit and Interrupt.
func ReadInput(s *Stream) Input {
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, time.Now())
	if closed {
		in.Quit = true
		in.Interrupt = true
	}
	return in
}

// ResetKeyInput forgets held keys so a key that started a screen does not
// also act on the next one.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}

// parse updates key state from buf and builds the frame's Input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	var pressed, edits []byte
	var mouse Mouse

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if buf[i+2] == '<' {
				if m, n, ok := parseSGRMouse(buf[i:]); ok {
					mouse = m
					i += n - 1
					continue
				}
			}
			switch buf[i+2] {
			case 'A':
				s.state.up = now
				i += 2
				continue
			case 'B':
				s.state.down = now
				i += 2
				continue
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
		switch {
		case b >= 0x20 && b < 0x7f:
			pressed = append(pressed, b)
		case b == '\t', b == '\r', b == '\n':
			edits = append(edits, normalizeEdit(b))
		case b == '\b', b == '\x7f':
			edits = append(edits, '\b')
		}
	}

	return Input{
		Interrupt:   now.Sub(s.state.interrupt) < keyHoldDuration,
		Quit:        now.Sub(s.state.quit) < keyHoldDuration,
		Left:        now.Sub(s.state.left) < keyHoldDuration,
		Right:       now.Sub(s.state.right) < keyHoldDuration,
		Up:          now.Sub(s.state.up) < keyHoldDuration,
		Down:        now.Sub(s.state.down) < keyHoldDuration,
		Space:       now.Sub(s.state.space) < keyHoldDuration,
		Enter:       now.Sub(s.state.enter) < keyHoldDuration,
		Tab:         now.Sub(s.state.tab) < keyHoldDuration,
		Backspace:   now.Sub(s.state.backspace) < keyHoldDuration,
		Escape:      now.Sub(s.state.escape) < keyHoldDuration,
		Leaderboard: now.Sub(s.state.leaderboard) < keyHoldDuration,
		Pressed:     pressed,
		Edits:       edits,
		Mouse:       mouse,
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case '\x03':
		state.interrupt = now
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case 'b', 'B':
		state.leaderboard = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\t':
		state.tab = now
	case '\b', '\x7f':
		state.backspace = now
	case '\x1b':
		state.escape = now
	}
}

func normalizeEdit(b byte) byte {
	if b == '\n' {
		return '\r'
	}
	return b
}

// parseSGRMouse parses an SGR (1006) mouse report "ESC [ < b ; col ; row M|m"
// at the start of seq and returns the report and the bytes consumed.
func parseSGRMouse(seq []byte) (Mouse, int, bool) {
	if len(seq) < 4 || seq[0] != '\x1b' || seq[1] != '[' || seq[2] != '<' {
		return Mouse{}, 0, false
	}

	var fields [3]int
	field := 0
	digits := 0
	for i := 3; i < len(seq); i++ {
		c := seq[i]
		switch {
		case c >= '0' && c <= '9':
			fields[field] = fields[field]*10 + int(c-'0')
			digits++
		case c == ';':
			if digits == 0 || field == 2 {
				return Mouse{}, 0, false
			}
			field++
			digits = 0
		case c == 'M' || c == 'm':
			if field != 2 || digits == 0 {
				return Mouse{}, 0, false
			}
			return Mouse{Col: fields[1], Row: fields[2], Moved: true}, i + 1, true
		default:
			return Mouse{}, 0, false
		}
	}
	return Mouse{}, 0, false
}

// EnableMouse turns on any-motion mouse tracking with SGR coordinates.
func EnableMouse(w io.Writer) {
	io.WriteString(w, "\033[?1003h\033[?1006h")
}

// DisableMouse turns mouse tracking back off.
func DisableMouse(w io.Writer) {
	io.WriteString(w, "\033[?1003l\033[?1006l")
}
