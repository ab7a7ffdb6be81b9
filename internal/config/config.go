package config

type Config interface {
	EnvConfig
	CorsConfig
	GoogleConfig
	SecurityConfig
	SearchConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetLogLevel() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Google
	Security
	Search
}

func New() Config {
	return mainConfig{}
}
