// Package logging provides structured logging for invpos components.
// Log lines go to a file under the data dir so they never corrupt the
// terminal UI; plain commands may additionally log to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.Mutex
	out io.Writer = io.Discard
)

// Setup directs all loggers to a log file inside dataDir and applies the
// level. Call once at startup, before New.
func Setup(dataDir, level string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "invpos.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	mu.Lock()
	out = f
	mu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// New returns a logger tagged with the component name.
func New(component string) zerolog.Logger {
	mu.Lock()
	w := out
	mu.Unlock()
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}
