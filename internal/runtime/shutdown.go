// Package runtime provides graceful shutdown handling for the invpos process.
package runtime

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yogamuz/inventory-pos/internal/logging"
)

// CleanupFunc releases one resource during shutdown.
type CleanupFunc func() error

// Shutdown runs registered cleanup handlers exactly once, on signal or on
// explicit Close. Handlers run in reverse registration order, bounded by the
// manager's timeout.
type Shutdown struct {
	timeout time.Duration
	log     zerolog.Logger

	mu       sync.Mutex
	handlers []namedHandler

	once sync.Once
	done chan struct{}
}

type namedHandler struct {
	name string
	fn   CleanupFunc
}

// NewShutdown creates a shutdown manager with the given cleanup timeout.
func NewShutdown(timeout time.Duration) *Shutdown {
	return &Shutdown{
		timeout: timeout,
		log:     logging.New("shutdown"),
		done:    make(chan struct{}),
	}
}

// Register adds a cleanup handler. Handlers run LIFO so dependents close
// before their dependencies.
func (s *Shutdown) Register(name string, fn CleanupFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, namedHandler{name: name, fn: fn})
}

// Listen runs the handlers when SIGINT or SIGTERM arrives. Non-blocking.
func (s *Shutdown) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigChan
		s.log.Info().Str("signal", sig.String()).Msg("shutting down")
		s.Close()
		os.Exit(1)
	}()
}

// Done is closed once cleanup has finished.
func (s *Shutdown) Done() <-chan struct{} {
	return s.done
}

// Close runs all handlers once. Later calls are no-ops.
func (s *Shutdown) Close() {
	s.once.Do(s.run)
}

func (s *Shutdown) run() {
	defer close(s.done)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.mu.Lock()
	handlers := make([]namedHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := len(handlers) - 1; i >= 0; i-- {
			h := handlers[i]
			if err := h.fn(); err != nil {
				s.log.Warn().Str("handler", h.name).Err(err).Msg("cleanup failed")
				continue
			}
			s.log.Debug().Str("handler", h.name).Msg("cleaned up")
		}
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		s.log.Warn().Dur("timeout", s.timeout).Msg("cleanup timed out")
	}
}
