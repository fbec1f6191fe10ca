package draw

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 3)
	cw.WriteAt(1, 1, "hi")

	if out.Len() != 0 {
		t.Fatalf("wrote before Flush: %q", out.String())
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := out.String(); got != "\033[4;3Hhi" {
		t.Fatalf("output = %q", got)
	}
}

func TestChunkWriterLargeFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	payload := strings.Repeat("x", maxChunkSize*3+7)
	cw.WriteString(payload)

	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if out.String() != payload {
		t.Fatalf("flushed %d bytes, want %d", out.Len(), len(payload))
	}

	out.Reset()
	if err := cw.Flush(); err != nil || out.Len() != 0 {
		t.Fatalf("second Flush wrote %q (err %v)", out.String(), err)
	}
}

func TestTerminalSizeRawWith(t *testing.T) {
	w, h, err := TerminalSizeRawWith(FixedTermSize(120, 40))
	if err != nil || w != 120 || h != 40 {
		t.Fatalf("TerminalSizeRawWith = %d,%d,%v", w, h, err)
	}
}

// recordingWriter remembers the size of every write.
type recordingWriter struct {
	sizes []int
	fail  bool
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	r.sizes = append(r.sizes, len(p))
	if r.fail {
		return 0, errors.New("broken pipe")
	}
	return len(p), nil
}

func TestChunkWriterChunksAndCounts(t *testing.T) {
	rec := &recordingWriter{}
	cw := NewChunkWriter(rec, 0, 0)
	cw.WriteString(strings.Repeat("x", maxChunkSize+10))
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(rec.sizes) != 2 || rec.sizes[0] != maxChunkSize || rec.sizes[1] != 10 {
		t.Fatalf("write sizes = %v", rec.sizes)
	}
	if cw.Written() != int64(maxChunkSize+10) {
		t.Fatalf("Written = %d", cw.Written())
	}
}

func TestChunkWriterFlushError(t *testing.T) {
	cw := NewChunkWriter(&recordingWriter{fail: true}, 0, 0)
	cw.WriteString("frame")
	if err := cw.Flush(); err == nil {
		t.Fatalf("Flush swallowed the write error")
	}
}

func TestClearScreen(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 5, 5)
	cw.ClearScreen()
	_ = cw.Flush()
	if got := out.String(); got != "\033[H\033[2J" {
		t.Fatalf("ClearScreen = %q", got)
	}

	out.Reset()
	ClearScreen(&out)
	HideCursor(&out)
	ShowCursor(&out)
	if got := out.String(); got != "\033[H\033[2J\033[?25l\033[?25h" {
		t.Fatalf("screen sequences = %q", got)
	}
}
