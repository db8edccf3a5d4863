package guard

import (
	"context"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattaxpro/client-go/internal/domain"
	"github.com/mattaxpro/client-go/internal/session"
)

func storeWithRoutes(t *testing.T, routes ...string) session.Store {
	t.Helper()
	claims := session.Claims{
		SubjectID:     "u-1",
		Role:          "user",
		AllowedRoutes: routes,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	store := session.NewMemoryStore(nil)
	require.NoError(t, store.Save(context.Background(), raw))
	return store
}

func TestCanRender(t *testing.T) {
	sess := &domain.Session{
		SubjectID:     "u-1",
		Role:          domain.RoleUser,
		AllowedRoutes: []domain.Route{domain.RouteTransactions, domain.RouteProfile},
	}

	assert.True(t, CanRender(sess, domain.RouteTransactions))
	assert.False(t, CanRender(sess, domain.RouteBin))
	assert.False(t, CanRender(nil, domain.RouteTransactions))
}

func TestEnforceDeniesRouteOutsideClaims(t *testing.T) {
	store := storeWithRoutes(t, "transactions")
	g := New(store, nil)

	var denied DenyReason
	sess, ok := g.Enforce(domain.RouteBin, func(reason DenyReason) { denied = reason })
	assert.False(t, ok)
	assert.Nil(t, sess)
	assert.Equal(t, DenyRouteForbidden, denied)

	sess, ok = g.Enforce(domain.RouteTransactions, func(DenyReason) {
		t.Fatal("onDeny must not fire for a permitted route")
	})
	assert.True(t, ok)
	require.NotNil(t, sess)
	assert.Equal(t, "u-1", sess.SubjectID)
}

// The decision must be recomputed on every check: clearing the token
// elsewhere (logout in another tab, shared 401 handler) flips the result
// with no stale cache in between.
func TestEnforceRecomputesAfterTokenRemoval(t *testing.T) {
	store := storeWithRoutes(t, "transactions")
	g := New(store, nil)

	_, ok := g.Enforce(domain.RouteTransactions, nil)
	require.True(t, ok)

	require.NoError(t, store.Clear(context.Background(), session.ClearReasonLogout))

	var denied DenyReason
	_, ok = g.Enforce(domain.RouteTransactions, func(reason DenyReason) { denied = reason })
	assert.False(t, ok)
	assert.Equal(t, DenyNoSession, denied)
}

func TestEnforceWithNilCallback(t *testing.T) {
	store := session.NewMemoryStore(nil)
	g := New(store, nil)

	_, ok := g.Enforce(domain.RouteDashboard, nil)
	assert.False(t, ok)
}
