package config

type Config interface {
	EnvConfig
	RouterConfig
	OIDCConfig
	ProxyConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Router
	OIDCVars
	Proxy
	Storage
}

func New() Config {
	return mainConfig{}
}
