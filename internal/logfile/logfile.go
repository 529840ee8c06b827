// Package logfile sets up file-only logging for stdio transports where
// stdout must stay clean for the protocol.
package logfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	prefix    = "raido-"
	suffix    = ".log"
	retention = 24 * time.Hour
)

// Setup opens today's log file under dir, removes stale log files, and
// returns a JSON slog logger writing to it. The returned close function
// must be called on shutdown.
func Setup(dir string, level slog.Level) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("logfile: create dir: %w", err)
	}
	cleanup(dir)

	name := prefix + time.Now().Format("20060102") + suffix
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logfile: open %s: %w", name, err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f.Close, nil
}

// cleanup removes log files more than a day old. A file lock keeps
// concurrent server processes from racing each other; failure to clean
// up never blocks startup.
func cleanup(dir string) {
	lock := flock.New(filepath.Join(dir, ".cleanup.lock"))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return
	}
	defer lock.Unlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-retention)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		day, err := time.ParseInLocation("20060102", stamp, time.Local)
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
