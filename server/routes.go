package server

import "net/http"

func (s *Server) initRoutes() {
	// Pages
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteAuthGoogle, ChainMiddleware(s.StartAuthorizationHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPIAuthURL, ChainMiddleware(s.AuthorizationURLHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPISearch, ChainMiddleware(s.SmartSearchHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIImportClients, ChainMiddleware(s.ImportClientsHandler(), s.APIMiddleware()...))
	// Preflight requests are answered by the CORS middleware
	for _, route := range []string{RouteAPIAuthURL, RouteAPISearch, RouteAPIImportClients} {
		s.RegisterRouteHandler("OPTIONS "+route, ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {}, s.APIMiddleware()...))
	}

	s.RegisterRouteFunc("GET "+RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}
