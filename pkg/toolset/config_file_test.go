package toolset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfigYAML = `servers:
  - id: search-server
    name: Search
    transport: http
    url: https://mcp.example.com/search
    auth_type: bearer
    auth_token: tok-123
    priority: 10
    timeout_ms: 15000
    allowed_tools: [search, fetch]
  - id: archive-server
    name: Archive
    transport: sse
    url: https://mcp.example.com/archive/sse
    auth_type: api_key
    auth_header: X-Api-Key
    auth_token: key-456
    enabled: false
    blocked_tools: [purge]
  - id: local-server
    name: Local
    transport: stdio
    command: npx
    args: ["@modelcontextprotocol/server-everything"]
`

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servers.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadServerConfigs(t *testing.T) {
	t.Parallel()

	configs, err := LoadServerConfigs(writeConfigFile(t, sampleConfigYAML))
	if err != nil {
		t.Fatalf("LoadServerConfigs: %v", err)
	}
	if len(configs) != 3 {
		t.Fatalf("loaded %d configs, want 3", len(configs))
	}

	search, ok := configs[0].(*HTTPServerConfig)
	if !ok {
		t.Fatalf("expected HTTP config first, got %T", configs[0])
	}
	if search.ID != "search-server" || search.Endpoint != "https://mcp.example.com/search" {
		t.Fatalf("http config not preserved: %#v", search)
	}
	if search.AuthType != AuthBearer || search.AuthToken != "tok-123" {
		t.Fatalf("auth fields not preserved: %#v", search.BaseConfig)
	}
	if !search.Enabled {
		t.Fatalf("enabled should default to true when omitted")
	}
	if search.Priority != 10 || search.Timeout != 15*time.Second {
		t.Fatalf("policy fields not preserved: priority=%d timeout=%s", search.Priority, search.Timeout)
	}
	if len(search.AllowedTools) != 2 {
		t.Fatalf("allowed_tools not preserved: %v", search.AllowedTools)
	}

	archive, ok := configs[1].(*SSEServerConfig)
	if !ok {
		t.Fatalf("expected SSE config second, got %T", configs[1])
	}
	if archive.Enabled {
		t.Fatalf("explicit enabled: false not honored")
	}
	if archive.AuthHeader != "X-Api-Key" || len(archive.BlockedTools) != 1 {
		t.Fatalf("sse config not preserved: %#v", archive)
	}

	local, ok := configs[2].(*StdioServerConfig)
	if !ok {
		t.Fatalf("expected stdio config third, got %T", configs[2])
	}
	if local.Command != "npx" || len(local.Args) != 1 {
		t.Fatalf("stdio config not preserved: %#v", local)
	}
}

func TestLoadServerConfigsUnknownTransport(t *testing.T) {
	t.Parallel()

	_, err := LoadServerConfigs(writeConfigFile(t, "servers:\n  - id: bad\n    transport: websocket\n"))
	if err == nil {
		t.Fatalf("expected error for unknown transport")
	}
}

func TestLoadServerConfigsMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadServerConfigs(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
