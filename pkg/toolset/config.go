package toolset

import (
	"fmt"
	"net/http"
	"time"
)

// AuthType selects how credentials from a server configuration are turned
// into request headers. External MCP servers are inconsistent here: some want
// a Bearer scheme, some want a raw API key under a custom header, and
// OAuth-backed servers carry a separate access token.
type AuthType string

const (
	AuthNone     AuthType = "none"
	AuthBearer   AuthType = "bearer"
	AuthAPIKey   AuthType = "api_key"
	AuthOAuth    AuthType = "oauth"
	AuthSmithery AuthType = "smithery"
)

// TransportType identifies the transport family used by a ServerConfig.
type TransportType string

const (
	TransportHTTP  TransportType = "http"
	TransportSSE   TransportType = "sse"
	TransportStdio TransportType = "stdio"
)

// BaseConfig captures the transport-independent portion of a server record:
// identity, credentials, connection policy, and tool filtering.
type BaseConfig struct {
	ID          string
	Name        string
	Description string

	AuthType          AuthType
	AuthHeader        string
	AuthToken         string
	OAuthAccessToken  string
	OAuthRefreshToken string
	OAuthExpiresAt    time.Time

	// Enabled gates connection attempts entirely; disabled servers are
	// skipped without any network I/O.
	Enabled bool
	// Priority orders servers during aggregation. Higher values win
	// tool-name collisions.
	Priority int
	// Timeout bounds each connect and tool-listing call. Zero falls back to
	// the manager's default.
	Timeout time.Duration

	// AllowedTools, when non-empty, is an allow-list: tool names outside it
	// are dropped before BlockedTools is consulted. BlockedTools is a
	// deny-list applied second.
	AllowedTools []string
	BlockedTools []string
}

// ServerConfig is implemented by all transport-specific configurations.
type ServerConfig interface {
	base() *BaseConfig
	// Transport reports the transport family of the concrete type.
	Transport() TransportType
	// Validate checks transport-specific required fields. It runs before any
	// network attempt so malformed records fail at construction time rather
	// than mid-dial.
	Validate() error
}

// HTTPServerConfig describes an MCP server reachable over the Streamable
// HTTP transport.
type HTTPServerConfig struct {
	BaseConfig
	Endpoint string
	// HTTPClient optionally overrides the client used for requests. Auth
	// headers are layered on top of it.
	HTTPClient *http.Client
}

func (c *HTTPServerConfig) base() *BaseConfig        { return &c.BaseConfig }
func (c *HTTPServerConfig) Transport() TransportType { return TransportHTTP }

func (c *HTTPServerConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("toolset: endpoint missing for %q", c.ID)
	}
	return nil
}

// SSEServerConfig describes an MCP server reachable over the legacy SSE
// transport.
type SSEServerConfig struct {
	BaseConfig
	Endpoint   string
	HTTPClient *http.Client
}

func (c *SSEServerConfig) base() *BaseConfig        { return &c.BaseConfig }
func (c *SSEServerConfig) Transport() TransportType { return TransportSSE }

func (c *SSEServerConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("toolset: endpoint missing for %q", c.ID)
	}
	return nil
}

// StdioServerConfig is reserved for MCP servers launched as a local process.
// The transport is not available in this environment: connecting always
// fails with ErrStdioUnsupported rather than silently degrading.
type StdioServerConfig struct {
	BaseConfig
	Command string
	Args    []string
}

func (c *StdioServerConfig) base() *BaseConfig        { return &c.BaseConfig }
func (c *StdioServerConfig) Transport() TransportType { return TransportStdio }

func (c *StdioServerConfig) Validate() error {
	return fmt.Errorf("toolset: %w for %q", ErrStdioUnsupported, c.ID)
}
