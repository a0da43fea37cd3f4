package config

type RouterConfig interface {
	GetLoginPath() string
	GetCallbackPath() string
	GetLogoutPath() string
	GetErrorRedirectURL() string
	GetPostLoginRedirectURL() string
	GetSessionCookieName() string
	GetCookieDomain() string
}

type Router struct{}

var _ RouterConfig = Router{}

func (Router) GetLoginPath() string {
	return GetEnv("LOGIN_PATH", "/auth/login")
}

func (Router) GetCallbackPath() string {
	return GetEnv("CALLBACK_PATH", "/auth/callback")
}

func (Router) GetLogoutPath() string {
	return GetEnv("LOGOUT_PATH", "/auth/logout")
}

func (Router) GetErrorRedirectURL() string {
	return GetEnv("ERROR_REDIRECT_URL", "/auth/error")
}

func (Router) GetPostLoginRedirectURL() string {
	return GetEnv("POST_LOGIN_REDIRECT_URL", "/")
}

func (Router) GetSessionCookieName() string {
	return GetEnv("SESSION_COOKIE_NAME", "auth-session-id")
}

func (Router) GetCookieDomain() string {
	return GetEnv("COOKIE_DOMAIN", "")
}
