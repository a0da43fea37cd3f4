package config

type ProxyConfig interface {
	GetProxyScheme() string
	GetProxyHostname() string
	GetProxyPort() string
}

type Proxy struct{}

var _ ProxyConfig = Proxy{}

func (Proxy) GetProxyScheme() string {
	return GetEnv("PROXY_SCHEME", "https")
}

func (Proxy) GetProxyHostname() string {
	return GetEnv("PROXY_HOSTNAME", "")
}

func (Proxy) GetProxyPort() string {
	return GetEnv("PROXY_PORT", "")
}
