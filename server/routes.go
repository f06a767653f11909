package server

import (
	"github.com/jrsteele09/go-directory-auth/principals"
)

func (s *Server) initRoutes() {
	// Public auth endpoints - registration and login bypass the gates and
	// call the authenticator directly
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Authenticated auth endpoints
	s.RegisterRouteHandler("POST "+RouteChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Principal administration - admin only
	s.RegisterRouteHandler("GET "+RoutePrincipals, ChainMiddleware(s.ListPrincipalsHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(principals.RoleAdmin))...))
	s.RegisterRouteHandler("DELETE "+RoutePrincipalByID, ChainMiddleware(s.SuspendPrincipalHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(principals.RoleAdmin))...))
	s.RegisterRouteHandler("POST "+RoutePrincipalRestore, ChainMiddleware(s.RestorePrincipalHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(principals.RoleAdmin))...))

	// Directory resources - reads for any authenticated principal, writes
	// restricted by role allow-list
	s.RegisterRouteHandler("GET "+RouteCompanies, ChainMiddleware(s.ListCompaniesHandler(),
		s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteCompanyByID, ChainMiddleware(s.GetCompanyHandler(),
		s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteCompanies, ChainMiddleware(s.CreateCompanyHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(principals.RoleAdmin, principals.RoleOwner))...))
	s.RegisterRouteHandler("PUT "+RouteCompanyByID, ChainMiddleware(s.UpdateCompanyHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(principals.RoleAdmin, principals.RoleOwner))...))
	s.RegisterRouteHandler("DELETE "+RouteCompanyByID, ChainMiddleware(s.DeleteCompanyHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(principals.RoleAdmin))...))

	// Operational endpoints, no auth
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
}
