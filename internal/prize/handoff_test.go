package prize

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestTerminalHandoffWritesOSC52(t *testing.T) {
	var buf bytes.Buffer
	msg := Message{To: "s@example.com", Subject: "Hi", Body: "Final Score: 10"}

	if err := (TerminalHandoff{W: &buf}).Deliver(msg); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\x1b]52;c;") {
		t.Fatalf("missing OSC 52 prefix: %q", out)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(msg.String()))
	if !strings.Contains(out, encoded) {
		t.Fatalf("payload not found in %q", out)
	}
}
