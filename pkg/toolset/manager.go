package toolset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// statusDisabled is the error string reported for configs skipped because
// their Enabled flag is off.
const statusDisabled = "Server is disabled"

// ConnectionStatus reports the outcome of one connect attempt. Expected
// failure modes (disabled server, unreachable endpoint, unsupported
// transport) are encoded here rather than returned as Go errors.
type ConnectionStatus struct {
	ServerID   string `json:"serverId"`
	ServerName string `json:"serverName"`
	Connected  bool   `json:"connected"`
	Error      string `json:"error,omitempty"`
	// ToolCount is the number of tools the server advertised at connect
	// time. Meaningful only when Connected is true.
	ToolCount int `json:"toolCount,omitempty"`
}

// activeConnection pairs a live client with its originating configuration.
// Instances live only in the manager's map and are discarded on disconnect.
type activeConnection struct {
	client      *serverClient
	config      ServerConfig
	connectedAt time.Time
	toolCount   int
	// rank preserves the priority-sorted position assigned at connect time
	// so equal-priority servers aggregate in a deterministic order.
	rank uint64
}

// ManagerOptions configures a Manager instance.
type ManagerOptions struct {
	// ClientName is the implementation name advertised to servers during
	// initialization.
	ClientName string
	// ClientVersion is the semantic version reported to servers.
	ClientVersion string
	// DefaultTimeout is applied whenever a server configuration omits an
	// explicit timeout.
	DefaultTimeout time.Duration
	// Logger receives structured diagnostics for partial failures.
	Logger *slog.Logger
}

func (o *ManagerOptions) normalized() ManagerOptions {
	var opts ManagerOptions
	if o != nil {
		opts = *o
	}
	if opts.ClientName == "" {
		opts.ClientName = "mcp-toolset"
	}
	if opts.ClientVersion == "" {
		opts.ClientVersion = "1.0.0"
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

// Manager owns a set of active MCP connections and aggregates their tools
// into a single priority-resolved set. Construct one per scope that needs
// external tools and tear it down with DisconnectAll when the scope ends;
// there is no package-level instance.
type Manager struct {
	mu       sync.Mutex
	opts     ManagerOptions
	conns    map[string]*activeConnection
	nextRank uint64
	logger   *slog.Logger
}

// NewManager constructs an empty Manager. Nil options fall back to defaults.
func NewManager(opts *ManagerOptions) *Manager {
	options := opts.normalized()
	return &Manager{
		opts:   options,
		conns:  make(map[string]*activeConnection),
		logger: options.Logger,
	}
}

// Connect attempts to establish a connection for one configuration. It never
// returns a Go error: disabled configs, validation failures, and network
// failures all resolve to a ConnectionStatus with Connected=false. On
// success the connection is stored under the config's ID, replacing (and
// closing) any previous connection for that ID.
func (m *Manager) Connect(ctx context.Context, cfg ServerConfig) ConnectionStatus {
	return m.connectOne(ctx, cfg, m.reserveRanks(1))
}

// ConnectAll connects to every configuration concurrently. Configs are
// stable-sorted by descending priority first, and the returned statuses
// follow that sorted order regardless of which connections succeed. One
// slow or unreachable server does not delay the others.
func (m *Manager) ConnectAll(ctx context.Context, cfgs []ServerConfig) []ConnectionStatus {
	sorted := sortConfigsByPriority(cfgs)
	first := m.reserveRanks(len(sorted))

	statuses := make([]ConnectionStatus, len(sorted))
	var wg sync.WaitGroup
	for i, cfg := range sorted {
		wg.Add(1)
		go func(i int, cfg ServerConfig) {
			defer wg.Done()
			statuses[i] = m.connectOne(ctx, cfg, first+uint64(i))
		}(i, cfg)
	}
	wg.Wait()
	return statuses
}

func (m *Manager) connectOne(ctx context.Context, cfg ServerConfig, rank uint64) ConnectionStatus {
	base := cfg.base()
	status := ConnectionStatus{ServerID: base.ID, ServerName: base.Name}

	if !base.Enabled {
		status.Error = statusDisabled
		return status
	}

	timeout := base.Timeout
	if timeout <= 0 {
		timeout = m.opts.DefaultTimeout
	}
	impl := &mcp.Implementation{Name: m.opts.ClientName, Version: m.opts.ClientVersion}

	client, err := dial(ctx, cfg, impl, timeout)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	tools, err := client.Tools(ctx)
	if err != nil {
		if closeErr := client.Close(); closeErr != nil {
			m.logger.Warn("closing failed connection", "server", base.ID, "error", closeErr)
		}
		status.Error = err.Error()
		return status
	}

	conn := &activeConnection{
		client:      client,
		config:      cfg,
		connectedAt: time.Now(),
		toolCount:   len(tools),
		rank:        rank,
	}
	m.mu.Lock()
	replaced := m.conns[base.ID]
	m.conns[base.ID] = conn
	m.mu.Unlock()
	if replaced != nil {
		if err := replaced.client.Close(); err != nil {
			m.logger.Warn("closing replaced connection", "server", base.ID, "error", err)
		}
	}

	status.Connected = true
	status.ToolCount = len(tools)
	return status
}

// GetAllTools fetches and merges the tool sets of every active connection.
// Connections are visited in descending priority order and merged
// first-write-wins, so a tool name claimed by a higher-priority server is
// never overwritten by a lower-priority one. A server whose listing fails is
// logged and skipped; it does not abort aggregation. The result is built
// fresh on every call.
func (m *Manager) GetAllTools(ctx context.Context) map[string]*mcp.Tool {
	merged := make(map[string]*mcp.Tool)
	for _, conn := range m.snapshot() {
		base := conn.config.base()
		tools, err := conn.client.Tools(ctx)
		if err != nil {
			m.logger.Warn("listing tools failed", "server", base.ID, "error", err)
			continue
		}
		mergeToolSets(merged, filterTools(base, tools))
	}
	return merged
}

// GetServerTools fetches and filters the tool set of a single connection.
// The second return value is false when no active connection exists for the
// ID, which is distinct from a connected server offering zero tools (an
// empty map and true).
func (m *Manager) GetServerTools(ctx context.Context, serverID string) (map[string]*mcp.Tool, bool) {
	m.mu.Lock()
	conn, ok := m.conns[serverID]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	base := conn.config.base()
	tools, err := conn.client.Tools(ctx)
	if err != nil {
		m.logger.Warn("listing tools failed", "server", base.ID, "error", err)
		return map[string]*mcp.Tool{}, true
	}
	return filterTools(base, tools), true
}

// CallTool routes a merged tool name to the server that owns it under the
// aggregation rules (highest priority first, respecting each server's
// filters) and invokes it there.
func (m *Manager) CallTool(ctx context.Context, name string, args any) (*mcp.CallToolResult, error) {
	for _, conn := range m.snapshot() {
		base := conn.config.base()
		tools, err := conn.client.Tools(ctx)
		if err != nil {
			m.logger.Warn("listing tools failed", "server", base.ID, "error", err)
			continue
		}
		if _, ok := filterTools(base, tools)[name]; !ok {
			continue
		}
		return conn.client.CallTool(ctx, name, args)
	}
	return nil, fmt.Errorf("toolset: no connected server offers tool %q", name)
}

// Disconnect closes and removes one active connection. The entry is removed
// even when the close fails; the failure is logged, not raised.
func (m *Manager) Disconnect(serverID string) {
	m.mu.Lock()
	conn, ok := m.conns[serverID]
	delete(m.conns, serverID)
	m.mu.Unlock()
	if !ok {
		return
	}
	if err := conn.client.Close(); err != nil {
		m.logger.Warn("closing connection", "server", serverID, "error", err)
	}
}

// DisconnectAll closes every active connection concurrently and clears the
// set unconditionally.
func (m *Manager) DisconnectAll() {
	m.mu.Lock()
	conns := m.conns
	m.conns = make(map[string]*activeConnection)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for id, conn := range conns {
		wg.Add(1)
		go func(id string, conn *activeConnection) {
			defer wg.Done()
			if err := conn.client.Close(); err != nil {
				m.logger.Warn("closing connection", "server", id, "error", err)
			}
		}(id, conn)
	}
	wg.Wait()
}

// IsConnected reports whether an active connection exists for the ID.
func (m *Manager) IsConnected(serverID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.conns[serverID]
	return ok
}

// ConnectedCount returns the number of active connections.
func (m *Manager) ConnectedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}

// ConnectionStatuses reports the currently active connections in descending
// priority order. Every entry has Connected=true; failed or disconnected
// servers do not appear.
func (m *Manager) ConnectionStatuses() []ConnectionStatus {
	conns := m.snapshot()
	statuses := make([]ConnectionStatus, 0, len(conns))
	for _, conn := range conns {
		base := conn.config.base()
		statuses = append(statuses, ConnectionStatus{
			ServerID:   base.ID,
			ServerName: base.Name,
			Connected:  true,
			ToolCount:  conn.toolCount,
		})
	}
	return statuses
}

// snapshot copies the active connections out of the map and orders them for
// aggregation.
func (m *Manager) snapshot() []*activeConnection {
	m.mu.Lock()
	conns := make([]*activeConnection, 0, len(m.conns))
	for _, conn := range m.conns {
		conns = append(conns, conn)
	}
	m.mu.Unlock()
	sortConnections(conns)
	return conns
}

func (m *Manager) reserveRanks(n int) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	first := m.nextRank
	m.nextRank += uint64(n)
	return first
}
