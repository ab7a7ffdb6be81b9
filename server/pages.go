package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

const loginTemplate = `<!doctype html>
<html><head><title>{{.AppName}} · Sign in</title></head>
<body>
<h1>{{.AppName}}</h1>
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<a href="{{.SignInURL}}">Sign in with Google</a>
</body></html>`

const dashboardTemplate = `<!doctype html>
<html><head><title>{{.AppName}}</title></head>
<body>
<h1>{{.AppName}}</h1>
<p>Signed in{{if .Name}} as {{.Name}}{{end}}{{if .Email}} ({{.Email}}){{end}}</p>
<a href="{{.LogoutURL}}">Sign out</a>
</body></html>`

// LoginPageHandler renders the public sign in page
func (s *Server) LoginPageHandler() http.HandlerFunc {
	tmpl := template.Must(template.New("login").Parse(loginTemplate))

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName":   s.config.GetAppName(),
			"Error":     r.URL.Query().Get("error"),
			"SignInURL": RouteAuthGoogle,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login page")
		}
	}
}

// DashboardHandler renders the signed in landing page
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl := template.Must(template.New("dashboard").Parse(dashboardTemplate))

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName":   s.config.GetAppName(),
			"LogoutURL": RouteAuthLogout,
		}
		if session, ok := SessionFromContext(r.Context()); ok {
			data["Name"] = session.Profile.Name
			data["Email"] = session.Profile.Email
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render dashboard")
		}
	}
}
