package config

import "time"

type SearchConfig interface {
	GetSearchEndpoint() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetSearchTimeout() time.Duration
}

type Search struct{}

var _ SearchConfig = Search{}

// GetSearchEndpoint is an HTTP search capability taking {query} and answering {results}
func (Search) GetSearchEndpoint() string {
	return GetEnv("SEARCH_ENDPOINT", "")
}

func (Search) GetGeminiAPIKey() string {
	return GetEnv("GEMINI_API_KEY", "")
}

func (Search) GetGeminiModel() string {
	return GetEnv("GEMINI_MODEL", "gemini-2.0-flash")
}

func (Search) GetSearchTimeout() time.Duration {
	return 30 * time.Second
}
