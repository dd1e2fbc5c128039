package toolset

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrStdioUnsupported is returned when a stdio-transport configuration is
// handed to the manager. Local-process servers cannot be launched from this
// environment.
var ErrStdioUnsupported = errors.New("stdio transport is not supported in this environment")

// serverClient owns a single live MCP session. It is created by the manager
// during Connect and exists only in memory for the lifetime of the
// connection.
type serverClient struct {
	cfg     ServerConfig
	client  *mcp.Client
	session *mcp.ClientSession
	timeout time.Duration
}

// dial validates the configuration, builds the transport for its type, and
// establishes the MCP session. All failures are returned to the caller; the
// manager converts them into failed connection statuses.
func dial(ctx context.Context, cfg ServerConfig, impl *mcp.Implementation, timeout time.Duration) (*serverClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transport, err := buildTransport(cfg)
	if err != nil {
		return nil, err
	}

	connectCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client := mcp.NewClient(impl, nil)
	session, err := client.Connect(connectCtx, transport, nil)
	if err != nil {
		return nil, err
	}
	return &serverClient{cfg: cfg, client: client, session: session, timeout: timeout}, nil
}

func buildTransport(cfg ServerConfig) (mcp.Transport, error) {
	switch c := cfg.(type) {
	case *HTTPServerConfig:
		return &mcp.StreamableClientTransport{
			Endpoint:   c.Endpoint,
			HTTPClient: decorateHTTPClient(c.HTTPClient, AuthHeaders(&c.BaseConfig)),
		}, nil
	case *SSEServerConfig:
		return &mcp.SSEClientTransport{
			Endpoint:   c.Endpoint,
			HTTPClient: decorateHTTPClient(c.HTTPClient, AuthHeaders(&c.BaseConfig)),
		}, nil
	case *StdioServerConfig:
		return nil, ErrStdioUnsupported
	default:
		return nil, errors.New("toolset: unsupported server configuration")
	}
}

// Tools re-queries the server's tool manifest. Listings are never cached:
// manifests change rarely, but the result must reflect server-side state at
// call time. The cursor loop follows the MCP pagination contract.
func (c *serverClient) Tools(ctx context.Context) (map[string]*mcp.Tool, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	tools := make(map[string]*mcp.Tool)
	var cursor string
	for {
		params := &mcp.ListToolsParams{}
		if cursor != "" {
			params.Cursor = cursor
		}
		res, err := c.session.ListTools(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, tool := range res.Tools {
			if tool == nil || tool.Name == "" {
				continue
			}
			tools[tool.Name] = tool
		}
		cursor = res.NextCursor
		if cursor == "" {
			return tools, nil
		}
	}
}

// CallTool invokes a tool on this server's session.
func (c *serverClient) CallTool(ctx context.Context, name string, args any) (*mcp.CallToolResult, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	return c.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
}

// Close releases the underlying session.
func (c *serverClient) Close() error {
	return c.session.Close()
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// decorateHTTPClient layers static headers onto an HTTP client without
// mutating the caller's instance.
func decorateHTTPClient(base *http.Client, headers http.Header) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	if len(headers) == 0 {
		return base
	}
	clone := *base
	clone.Transport = &headerRoundTripper{
		next:    defaultRoundTripper(base.Transport),
		headers: headers,
	}
	return &clone
}

type headerRoundTripper struct {
	next    http.RoundTripper
	headers http.Header
}

func (rt *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, values := range rt.headers {
		req.Header.Del(k)
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return rt.next.RoundTrip(req)
}

func defaultRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next != nil {
		return next
	}
	return http.DefaultTransport
}
