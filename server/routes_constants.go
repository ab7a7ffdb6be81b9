package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Pages
	RouteHome      = "/"
	RouteDashboard = "/dashboard"
	RouteLogin     = "/login"

	// Auth Routes
	RouteAuthGoogle = "/auth/google"
	RouteCallback   = "/auth/callback"
	RouteAuthLogout = "/auth/logout"

	// API Routes
	RouteAPIAuthURL       = "/api/auth/url"
	RouteAPISearch        = "/api/search"
	RouteAPIImportClients = "/api/clients/import"

	RouteHealth = "/healthz"
)
