package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteRegister       = "/api/auth/register"
	RouteLogin          = "/api/auth/login"
	RouteLogout         = "/api/auth/logout"
	RouteChangePassword = "/api/auth/password"
	RouteMe             = "/api/auth/me"

	// Principal administration
	RoutePrincipals       = "/api/principals"
	RoutePrincipalByID    = "/api/principals/{id}"
	RoutePrincipalRestore = "/api/principals/{id}/restore"

	// Directory resources
	RouteCompanies   = "/api/companies"
	RouteCompanyByID = "/api/companies/{id}"

	// Operational endpoints
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)
