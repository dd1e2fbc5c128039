package toolset

import "net/http"

const defaultAuthHeader = "Authorization"

// AuthHeaders derives the request headers for a server's credentials. It is a
// pure function of the configuration: no headers are produced when the auth
// type is none or no usable credential exists.
//
// Bearer tokens are sent as "Bearer <token>" under the configured header
// name. API keys are sent verbatim under the configured header name. The
// OAuth family prefers the access token and otherwise falls back to the
// plain token as a Bearer credential; both are sent under "Authorization"
// regardless of AuthHeader, matching what OAuth-protected servers expect.
func AuthHeaders(cfg *BaseConfig) http.Header {
	if cfg == nil {
		return nil
	}
	switch cfg.AuthType {
	case AuthBearer:
		if cfg.AuthToken == "" {
			return nil
		}
		return singleHeader(cfg.headerName(), "Bearer "+cfg.AuthToken)
	case AuthAPIKey:
		if cfg.AuthToken == "" {
			return nil
		}
		return singleHeader(cfg.headerName(), cfg.AuthToken)
	case AuthOAuth, AuthSmithery:
		if cfg.OAuthAccessToken != "" {
			return singleHeader(defaultAuthHeader, "Bearer "+cfg.OAuthAccessToken)
		}
		if cfg.AuthToken != "" {
			return singleHeader(defaultAuthHeader, "Bearer "+cfg.AuthToken)
		}
		return nil
	default:
		return nil
	}
}

func (c *BaseConfig) headerName() string {
	if c.AuthHeader != "" {
		return c.AuthHeader
	}
	return defaultAuthHeader
}

func singleHeader(name, value string) http.Header {
	h := make(http.Header, 1)
	h.Set(name, value)
	return h
}
