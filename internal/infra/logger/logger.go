package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sihhealth/healthbot/internal/buildinfo"
)

const redacted = "********"

// Config selects where the log goes and how much of it is kept.
type Config struct {
	// Root is the workspace directory; the log lands in .healthbot/logs/healthbot.log.
	Root  string
	Debug bool
	// API is recorded on every line so logs from several portals can be told apart.
	API string
}

var (
	mu      sync.RWMutex
	global  = discard()
	logFile *os.File
	logPath string
	runID   string
)

// Setup opens the workspace log and installs it as L(). Records from one
// process share a run_id. The returned cleanup closes the file and restores
// the discard logger.
func Setup(cfg Config) (func() error, error) {
	root := filepath.Clean(cfg.Root)
	if strings.TrimSpace(cfg.Root) == "" {
		root = "."
	}

	dir := filepath.Join(root, ".healthbot", "logs")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		reset()
		return nil, err
	}

	path := filepath.Join(dir, "healthbot.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		reset()
		return nil, err
	}

	id := uuid.NewString()
	l := slog.New(newHandler(f, cfg.Debug)).With(
		"run_id", id,
		"version", buildinfo.Version,
	)
	if api := strings.TrimSpace(cfg.API); api != "" {
		l = l.With("api", api)
	}

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	runID = id
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	cleanup := func() error {
		mu.Lock()
		f := logFile
		mu.Unlock()
		reset()
		if f == nil {
			return nil
		}
		return f.Close()
	}
	return cleanup, nil
}

func newHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch {
			case a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime:
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			case IsSecretKey(a.Key):
				a.Value = slog.StringValue(redacted)
			}
			return a
		},
	})
}

// IsSecretKey reports attribute keys whose values must never reach the log
// file, whatever the caller passed.
func IsSecretKey(key string) bool {
	switch strings.ToLower(key) {
	case "access", "refresh", "access_token", "refresh_token", "token", "password", "authorization":
		return true
	}
	return false
}

// L returns the process logger; a discard logger before Setup.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Path is the open log file, or "" when logging is disabled.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// RunID identifies this process in the log.
func RunID() string {
	mu.RLock()
	defer mu.RUnlock()
	return runID
}

func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil {
		return errors.New("logger not initialized")
	}
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	global = discard()
	logFile = nil
	logPath = ""
	runID = ""
}
