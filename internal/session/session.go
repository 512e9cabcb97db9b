// Package session owns the authentication lifecycle: hydration of persisted
// state, login, logout and background revalidation. The Service is the only
// writer of authentication state; everything else reads snapshots.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yogamuz/inventory-pos/internal/domain"
	"github.com/yogamuz/inventory-pos/internal/logging"
)

// ErrNotHydrated is returned when a transition requires hydration first.
var ErrNotHydrated = errors.New("session not hydrated yet")

// AuthClient is the slice of the API gateway the session service needs.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
	Cookies() []*http.Cookie
	RestoreCookies([]*http.Cookie)
}

// Snapshot is a point-in-time read of the session state.
type Snapshot struct {
	User            *domain.User
	IsAuthenticated bool
	HasHydrated     bool
	IsInitializing  bool
}

// Service is the session state machine: Unknown until Hydrate completes,
// then authenticated or not, revalidated by CheckAuth and torn down by
// Logout or the gateway's 401 hook.
type Service struct {
	api   AuthClient
	store Persister
	log   zerolog.Logger

	mu            sync.Mutex
	user          *domain.User
	authenticated bool
	hydrated      bool
	initializing  bool

	hydrateOnce sync.Once
}

// NewService wires the session service to its API slice and persistence
// adapter. IsInitializing always starts false; it is never persisted.
func NewService(api AuthClient, store Persister) *Service {
	return &Service{
		api:   api,
		store: store,
		log:   logging.New("session"),
	}
}

// Hydrate loads persisted state into memory. It runs exactly once; later
// calls are no-ops. Until it has run, authentication status is unknown and
// callers must treat it as such, not as signed out.
func (s *Service) Hydrate(ctx context.Context) error {
	var err error
	s.hydrateOnce.Do(func() {
		user, authenticated, cookies, loadErr := s.store.Load(ctx)
		if loadErr != nil {
			// A broken session db downgrades to a clean signed-out start.
			s.log.Warn().Err(loadErr).Msg("hydration failed, starting signed out")
			user, authenticated = nil, false
		}
		if user == nil {
			authenticated = false
		}
		if len(cookies) > 0 {
			s.api.RestoreCookies(cookies)
		}

		s.mu.Lock()
		s.user = user
		s.authenticated = authenticated
		s.hydrated = true
		s.mu.Unlock()

		s.log.Debug().Bool("authenticated", authenticated).Msg("session hydrated")
	})
	return err
}

// Snapshot returns the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		User:            s.user,
		IsAuthenticated: s.authenticated,
		HasHydrated:     s.hydrated,
		IsInitializing:  s.initializing,
	}
}

// Login authenticates. On failure the previous state is left untouched so a
// bad password cannot sign out an existing session; the error goes back to
// the caller for display.
func (s *Service) Login(ctx context.Context, username, password string) error {
	user, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()

	s.persist(ctx)
	s.log.Info().Str("username", username).Msg("logged in")
	return nil
}

// Logout clears local state unconditionally. The remote logout is
// best-effort: its failure is reported but never blocks the local clear.
func (s *Service) Logout(ctx context.Context) error {
	remoteErr := s.api.Logout(ctx)

	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("clearing persisted session failed")
	}
	s.log.Info().Msg("logged out")
	return remoteErr
}

// CheckAuth revalidates the session against the server. Valid only after
// hydration. IsInitializing is true exactly while the round trip is
// outstanding. Any failure lands in the signed-out state.
func (s *Service) CheckAuth(ctx context.Context) error {
	s.mu.Lock()
	if !s.hydrated {
		s.mu.Unlock()
		return ErrNotHydrated
	}
	s.initializing = true
	s.mu.Unlock()

	user, err := s.api.Me(ctx)

	s.mu.Lock()
	s.initializing = false
	if err != nil {
		s.user = nil
		s.authenticated = false
		s.mu.Unlock()
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("clearing persisted session failed")
		}
		s.log.Debug().Err(err).Msg("session validation failed")
		return err
	}
	s.user = user
	s.authenticated = true
	s.mu.Unlock()

	s.persist(ctx)
	s.log.Debug().Str("username", user.Username).Msg("session validated")
	return nil
}

// SetUser overwrites the current user; nil means signed out.
func (s *Service) SetUser(ctx context.Context, user *domain.User) {
	s.mu.Lock()
	s.user = user
	s.authenticated = user != nil
	s.mu.Unlock()

	if user == nil {
		if err := s.store.Clear(ctx); err != nil {
			s.log.Warn().Err(err).Msg("clearing persisted session failed")
		}
		return
	}
	s.persist(ctx)
}

// ClearUser tears down local session state without a remote call. The API
// gateway's 401 hook lands here.
func (s *Service) ClearUser(ctx context.Context) {
	s.SetUser(ctx, nil)
}

func (s *Service) persist(ctx context.Context) {
	s.mu.Lock()
	user, authenticated := s.user, s.authenticated
	s.mu.Unlock()

	if err := s.store.Save(ctx, user, authenticated, s.api.Cookies()); err != nil {
		s.log.Warn().Err(err).Msg("persisting session failed")
	}
}
