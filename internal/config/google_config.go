package config

import "time"

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleRedirectURL() string
	GetGoogleIssuer() string
	GetSheetsReadRange() string
	GetTokenExchangeTimeout() time.Duration
	GetSheetFetchTimeout() time.Duration
}

type Google struct{}

var _ GoogleConfig = Google{}

func (Google) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (Google) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

// GetGoogleRedirectURL defaults to the dashboard's own callback route
func (Google) GetGoogleRedirectURL() string {
	return GetEnv("GOOGLE_REDIRECT_URL", EnvVars{}.GetBaseURL()+"/auth/callback")
}

func (Google) GetGoogleIssuer() string {
	return GetEnv("GOOGLE_ISSUER", "https://accounts.google.com")
}

func (Google) GetSheetsReadRange() string {
	return GetEnv("SHEETS_READ_RANGE", "A:Z")
}

func (Google) GetTokenExchangeTimeout() time.Duration {
	return 10 * time.Second
}

func (Google) GetSheetFetchTimeout() time.Duration {
	return 15 * time.Second
}
