package logx

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{})
	logger.Debug().Msg("hidden")
	logger.Info().Str("agent", "router").Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v, output %q", err, buf.String())
	}
	if entry["message"] != "shown" || entry["agent"] != "router" || entry["level"] != "info" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry["caller"]; !ok {
		t.Fatalf("entry = %v, want caller", entry)
	}
}

func TestNewDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Debug: true})
	logger.Debug().Msg("visible")

	if !bytes.Contains(buf.Bytes(), []byte(`"message":"visible"`)) {
		t.Fatalf("output = %q, want debug entry", buf.String())
	}
}
