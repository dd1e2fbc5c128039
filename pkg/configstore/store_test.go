package configstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brandhub-ai/mcp-toolset-go/pkg/toolset"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "servers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(brandID, name string, priority int) *Record {
	return &Record{
		BrandID:       brandID,
		Name:          name,
		TransportType: "http",
		URL:           "https://mcp.example.com/" + name,
		AuthType:      "bearer",
		AuthToken:     "tok-" + name,
		Enabled:       true,
		Priority:      priority,
		TimeoutMS:     30000,
		AllowedTools:  []string{"search"},
		CreatedBy:     "admin@example.com",
	}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	store := newTestStore(t)

	rec := sampleRecord("brand-1", "search", 10)
	require.NoError(t, store.Create(rec))
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Name, got.Name)
	require.Equal(t, rec.URL, got.URL)
	require.Equal(t, rec.AuthToken, got.AuthToken)
	require.Equal(t, []string{"search"}, got.AllowedTools)
	require.True(t, got.Enabled)
	require.True(t, got.OAuthExpiresAt.IsZero())
}

func TestGetUnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersByPriorityThenCreation(t *testing.T) {
	store := newTestStore(t)

	low := sampleRecord("brand-1", "low", 1)
	require.NoError(t, store.Create(low))
	time.Sleep(5 * time.Millisecond)
	high := sampleRecord("brand-1", "high", 10)
	require.NoError(t, store.Create(high))
	time.Sleep(5 * time.Millisecond)
	lowTwin := sampleRecord("brand-1", "low-twin", 1)
	require.NoError(t, store.Create(lowTwin))
	other := sampleRecord("brand-2", "other", 99)
	require.NoError(t, store.Create(other))

	records, err := store.List("brand-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "high", records[0].Name)
	require.Equal(t, "low", records[1].Name)
	require.Equal(t, "low-twin", records[2].Name)
}

func TestUpdateAndSetEnabled(t *testing.T) {
	store := newTestStore(t)

	rec := sampleRecord("brand-1", "search", 10)
	require.NoError(t, store.Create(rec))

	rec.Name = "renamed"
	rec.Priority = 20
	rec.BlockedTools = []string{"dangerous"}
	require.NoError(t, store.Update(rec))

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Name)
	require.Equal(t, 20, got.Priority)
	require.Equal(t, []string{"dangerous"}, got.BlockedTools)

	require.NoError(t, store.SetEnabled(rec.ID, false))
	got, err = store.Get(rec.ID)
	require.NoError(t, err)
	require.False(t, got.Enabled)

	require.ErrorIs(t, store.SetEnabled("nope", true), ErrNotFound)
	require.ErrorIs(t, store.Update(&Record{ID: "nope"}), ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	rec := sampleRecord("brand-1", "search", 10)
	require.NoError(t, store.Create(rec))
	require.NoError(t, store.Delete(rec.ID))

	_, err := store.Get(rec.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.Delete(rec.ID), ErrNotFound)
}

func TestServerConfigConversion(t *testing.T) {
	store := newTestStore(t)

	rec := sampleRecord("brand-1", "search", 10)
	rec.AuthHeader = "X-Api-Key"
	require.NoError(t, store.Create(rec))

	stdio := &Record{
		BrandID:       "brand-1",
		Name:          "local",
		TransportType: "stdio",
		Command:       "npx",
		Args:          []string{"@modelcontextprotocol/server-everything"},
		Enabled:       true,
	}
	require.NoError(t, store.Create(stdio))

	configs, err := store.ServerConfigs("brand-1")
	require.NoError(t, err)
	require.Len(t, configs, 2)

	httpCfg, ok := configs[0].(*toolset.HTTPServerConfig)
	require.True(t, ok, "expected HTTP config, got %T", configs[0])
	require.Equal(t, rec.URL, httpCfg.Endpoint)
	require.Equal(t, toolset.AuthBearer, httpCfg.AuthType)
	require.Equal(t, "X-Api-Key", httpCfg.AuthHeader)
	require.Equal(t, 30*time.Second, httpCfg.Timeout)

	stdioCfg, ok := configs[1].(*toolset.StdioServerConfig)
	require.True(t, ok, "expected stdio config, got %T", configs[1])
	require.Equal(t, "npx", stdioCfg.Command)
}

func TestServerConfigUnknownTransport(t *testing.T) {
	rec := &Record{ID: "r", TransportType: "websocket"}
	_, err := rec.ServerConfig()
	require.Error(t, err)
}
