package auth

import (
	"context"
	"sync"

	"github.com/folio-dev/folio/pkg/logger"
)

// TokenSource exposes the persisted bearer token. An empty string means
// nobody is logged in.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Decision is the outcome of evaluating the gate
type Decision int

const (
	// Allow lets the protected view render
	Allow Decision = iota
	// RedirectLogin sends the visitor to the login page
	RedirectLogin
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect_login"
}

// Gate guards the dashboard. Presence of a token is enough to pass; the
// token itself is never checked here, the API rejects stale ones on use.
type Gate struct {
	source TokenSource

	mu         sync.Mutex
	authorized bool
}

// NewGate creates a gate over source and records its current decision
func NewGate(source TokenSource) *Gate {
	g := &Gate{source: source}
	g.authorized = g.Evaluate() == Allow
	return g
}

// Evaluate reads the token source and decides
func (g *Gate) Evaluate() Decision {
	if g.source.Token() == "" {
		return RedirectLogin
	}
	return Allow
}

// Authorized reports the decision recorded by the last Watch event or NewGate
func (g *Gate) Authorized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authorized
}

// Watch re-evaluates the gate on every change event until ctx is done or
// changes is closed. onRevoke runs each time an authorized gate loses its token.
func (g *Gate) Watch(ctx context.Context, changes <-chan struct{}, onRevoke func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if g.recheck() && onRevoke != nil {
				logger.Info("Session token removed, revoking access")
				onRevoke()
			}
		}
	}
}

// recheck stores the new decision and reports an authorized → unauthorized transition
func (g *Gate) recheck() bool {
	allowed := g.Evaluate() == Allow

	g.mu.Lock()
	defer g.mu.Unlock()
	revoked := g.authorized && !allowed
	g.authorized = allowed
	return revoked
}
