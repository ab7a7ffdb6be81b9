package config

import "time"

type SecurityConfig interface {
	GetSessionSecret() string
	GetMaxSessionAge() time.Duration
	GetAuthFlowTimeout() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret is the input keying material for session marker signing
func (Security) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}

func (Security) GetMaxSessionAge() time.Duration {
	return 24 * time.Hour
}

func (Security) GetAuthFlowTimeout() time.Duration {
	return 10 * time.Minute
}
