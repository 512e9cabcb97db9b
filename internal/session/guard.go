package session

import (
	"context"
	"sync"
)

// Decision is what the guard tells the view layer to do.
type Decision int

const (
	// DecisionLoading: hydration has not finished, show a placeholder.
	// Authentication status is unknown here, never "signed out".
	DecisionLoading Decision = iota
	// DecisionLogin: redirect to the login surface.
	DecisionLogin
	// DecisionRender: show the protected content.
	DecisionRender
)

// Guard gates protected views on session state. It only reads state; the
// single background revalidation is an explicit one-shot task, not a render
// side effect.
type Guard struct {
	svc *Service

	mu   sync.Mutex
	from string

	validated bool
}

// NewGuard creates a guard over the session service.
func NewGuard(svc *Service) *Guard {
	return &Guard{svc: svc}
}

// Decide maps the current session state to a gating decision. target is the
// view the user wanted; it is remembered when the guard redirects so login
// can return there.
func (g *Guard) Decide(target string) Decision {
	snap := g.svc.Snapshot()
	if !snap.HasHydrated {
		return DecisionLoading
	}
	if !snap.IsAuthenticated {
		g.mu.Lock()
		g.from = target
		g.mu.Unlock()
		return DecisionLogin
	}
	return DecisionRender
}

// From returns the destination intended before the redirect to login.
func (g *Guard) From(fallback string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.from == "" {
		return fallback
	}
	return g.from
}

// Revalidate runs CheckAuth at most once per guard lifetime, and only once
// hydration has happened. The latch is keyed to the hydration event: later
// authentication changes do not re-arm it, so login/logout cycles cannot
// trigger validation storms.
func (g *Guard) Revalidate(ctx context.Context) error {
	if !g.svc.Snapshot().HasHydrated {
		return ErrNotHydrated
	}

	g.mu.Lock()
	if g.validated {
		g.mu.Unlock()
		return nil
	}
	g.validated = true
	g.mu.Unlock()

	return g.svc.CheckAuth(ctx)
}
