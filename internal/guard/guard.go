package guard

import (
	"go.uber.org/zap"

	"github.com/mattaxpro/client-go/internal/domain"
	"github.com/mattaxpro/client-go/internal/session"
)

// DenyReason reports why rendering was refused. The product surfaces
// both reasons identically (redirect to the login entry point); the
// reason is kept distinct so a separate "forbidden" treatment needs no
// API change if product ever wants one.
type DenyReason string

const (
	DenyNone           DenyReason = ""
	DenyNoSession      DenyReason = "no_session"
	DenyRouteForbidden DenyReason = "route_forbidden"
)

// CanRender reports whether the session permits rendering the route.
func CanRender(sess *domain.Session, route domain.Route) bool {
	return sess.Allows(route)
}

// Guard gates protected views on the stored token. Every check re-reads
// and re-decodes the token, so a token cleared elsewhere (logout, 401
// handler) flips the decision on the next check with no stale caching.
type Guard struct {
	store  session.Store
	logger *zap.Logger
}

// New constructs a guard over the given store.
func New(store session.Store, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{store: store, logger: logger}
}

// Check recomputes the session and evaluates the route against it.
func (g *Guard) Check(route domain.Route) (*domain.Session, DenyReason) {
	sess, err := session.CurrentSession(g.store)
	if err != nil {
		return nil, DenyNoSession
	}
	if !CanRender(sess, route) {
		return sess, DenyRouteForbidden
	}
	return sess, DenyNone
}

// Enforce gates a view mount: when the check fails it calls onDeny
// synchronously (the redirect-to-login callback) and returns false.
func (g *Guard) Enforce(route domain.Route, onDeny func(DenyReason)) (*domain.Session, bool) {
	sess, reason := g.Check(route)
	if reason == DenyNone {
		return sess, true
	}
	g.logger.Debug("route denied",
		zap.String("route", string(route)),
		zap.String("reason", string(reason)),
	)
	if onDeny != nil {
		onDeny(reason)
	}
	return nil, false
}
