package logfile

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetupCreatesDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, closeFn, err := Setup(dir, slog.LevelInfo)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closeFn()

	logger.Info("hello", slog.String("key", "value"))
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	name := prefix + time.Now().Format("20060102") + suffix
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["msg"] != "hello" || record["key"] != "value" {
		t.Errorf("record = %v", record)
	}
}

func TestSetupRespectsLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, closeFn, err := Setup(dir, slog.LevelWarn)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	closeFn()

	name := prefix + time.Now().Format("20060102") + suffix
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["msg"] != "kept" {
		t.Errorf("msg = %v, want the warn line only", record["msg"])
	}
}

func TestSetupRemovesStaleLogs(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, prefix+"20240101"+suffix)
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	unrelated := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(unrelated, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, closeFn, err := Setup(dir, slog.LevelInfo)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closeFn()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale log still present: %v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}

	today := filepath.Join(dir, prefix+time.Now().Format("20060102")+suffix)
	if _, err := os.Stat(today); err != nil {
		t.Errorf("today's log missing: %v", err)
	}
}
