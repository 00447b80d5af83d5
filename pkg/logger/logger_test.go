package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLoggerWritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Writer: &buf})

	log.WithComponent("FeedService").Info("Refresh finished", "count", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "Refresh finished" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["component"] != "FeedService" {
		t.Errorf("component = %v", entry["component"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Level: "warn", Writer: &buf})

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}

	log.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("warn line not written")
	}
}
