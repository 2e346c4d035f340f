package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("submission settled", zap.String("result", "accepted"))
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line["msg"] != "submission settled" || line["result"] != "accepted" || line["level"] != "debug" {
		t.Fatalf("unexpected line %v", line)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "formsubmit.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{File: path, Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("server online")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"server online"`) {
		t.Fatalf("file missing entry: %s", raw)
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	if _, _, err := New(Options{Format: "xml"}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected level error")
	}
}
