package domain

// Route names a navigable view of the product.
type Route string

const (
	RouteDashboard    Route = "dashboard"
	RouteTransactions Route = "transactions"
	RouteVendors      Route = "vendors"
	RouteCategories   Route = "categories"
	RouteAccountants  Route = "accountants"
	RouteBin          Route = "bin"
	RouteProfile      Route = "profile"
	RouteAdmin        Route = "admin"
)

// Session is the client-side snapshot of identity, role and permitted
// routes derived from the stored access token. It is recomputed from the
// token on every authorization check and never persisted on its own.
//
// A Session is a display/routing convenience only. The token is decoded
// without signature verification, so nothing derived from it may be
// treated as a security boundary; the server re-enforces every decision
// that matters.
type Session struct {
	SubjectID     string
	Role          Role
	AllowedRoutes []Route
}

// Allows reports whether the session's claim set permits the route.
func (s *Session) Allows(route Route) bool {
	if s == nil {
		return false
	}
	for _, r := range s.AllowedRoutes {
		if r == route {
			return true
		}
	}
	return false
}
