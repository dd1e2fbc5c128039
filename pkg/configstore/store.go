// Package configstore persists MCP server configuration records for the
// administrative CRUD surface. Records are stored per brand and converted
// into toolset.ServerConfig values when the chat runtime needs to connect.
package configstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/brandhub-ai/mcp-toolset-go/pkg/toolset"
)

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = errors.New("configstore: record not found")

// Record mirrors one row of the mcp_servers table.
type Record struct {
	ID          string
	BrandID     string
	Name        string
	Description string

	TransportType string
	URL           string
	Command       string
	Args          []string

	AuthType          string
	AuthHeader        string
	AuthToken         string
	OAuthAccessToken  string
	OAuthRefreshToken string
	// OAuthExpiresAt is zero when the server has no OAuth expiry on file.
	OAuthExpiresAt time.Time

	Enabled   bool
	Priority  int
	TimeoutMS int64

	AllowedTools []string
	BlockedTools []string

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

// ServerConfig converts the record into the tagged configuration variant the
// connection manager consumes. Unknown transports fail here, at conversion
// time, rather than mid-connect.
func (r *Record) ServerConfig() (toolset.ServerConfig, error) {
	base := toolset.BaseConfig{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		AuthType:          toolset.AuthType(r.AuthType),
		AuthHeader:        r.AuthHeader,
		AuthToken:         r.AuthToken,
		OAuthAccessToken:  r.OAuthAccessToken,
		OAuthRefreshToken: r.OAuthRefreshToken,
		OAuthExpiresAt:    r.OAuthExpiresAt,
		Enabled:           r.Enabled,
		Priority:          r.Priority,
		Timeout:           time.Duration(r.TimeoutMS) * time.Millisecond,
		AllowedTools:      r.AllowedTools,
		BlockedTools:      r.BlockedTools,
	}
	switch toolset.TransportType(r.TransportType) {
	case toolset.TransportHTTP:
		return &toolset.HTTPServerConfig{BaseConfig: base, Endpoint: r.URL}, nil
	case toolset.TransportSSE:
		return &toolset.SSEServerConfig{BaseConfig: base, Endpoint: r.URL}, nil
	case toolset.TransportStdio:
		return &toolset.StdioServerConfig{BaseConfig: base, Command: r.Command, Args: r.Args}, nil
	default:
		return nil, fmt.Errorf("configstore: unknown transport %q for %q", r.TransportType, r.ID)
	}
}

// Store manages the SQLite database holding server records.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at dbPath and initializes
// the schema.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("configstore: creating directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("configstore: opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("configstore: pinging database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("configstore: initializing schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mcp_servers (
		id TEXT PRIMARY KEY,
		brand_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		transport_type TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		command TEXT NOT NULL DEFAULT '',
		args TEXT,
		auth_type TEXT NOT NULL DEFAULT 'none',
		auth_header TEXT NOT NULL DEFAULT '',
		auth_token TEXT NOT NULL DEFAULT '',
		oauth_access_token TEXT NOT NULL DEFAULT '',
		oauth_refresh_token TEXT NOT NULL DEFAULT '',
		oauth_expires_at TIMESTAMP,
		enabled INTEGER NOT NULL DEFAULT 1,
		priority INTEGER NOT NULL DEFAULT 0,
		timeout_ms INTEGER NOT NULL DEFAULT 0,
		allowed_tools TEXT,
		blocked_tools TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		created_by TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_mcp_servers_brand ON mcp_servers(brand_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create inserts a record, assigning an ID and timestamps when absent.
func (s *Store) Create(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	args, err := encodeStrings(rec.Args)
	if err != nil {
		return err
	}
	allowed, err := encodeStrings(rec.AllowedTools)
	if err != nil {
		return err
	}
	blocked, err := encodeStrings(rec.BlockedTools)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO mcp_servers (
			id, brand_id, name, description, transport_type, url, command, args,
			auth_type, auth_header, auth_token,
			oauth_access_token, oauth_refresh_token, oauth_expires_at,
			enabled, priority, timeout_ms, allowed_tools, blocked_tools,
			created_at, updated_at, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BrandID, rec.Name, rec.Description, rec.TransportType, rec.URL, rec.Command, args,
		rec.AuthType, rec.AuthHeader, rec.AuthToken,
		rec.OAuthAccessToken, rec.OAuthRefreshToken, nullableTime(rec.OAuthExpiresAt),
		rec.Enabled, rec.Priority, rec.TimeoutMS, allowed, blocked,
		rec.CreatedAt, rec.UpdatedAt, rec.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("configstore: inserting record: %w", err)
	}
	return nil
}

// Get fetches one record by ID.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(selectColumns+` FROM mcp_servers WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("configstore: fetching record: %w", err)
	}
	return rec, nil
}

// List returns all records for a brand, highest priority first. Ties keep
// their creation order so aggregation stays deterministic across restarts.
func (s *Store) List(brandID string) ([]*Record, error) {
	rows, err := s.db.Query(selectColumns+`
		FROM mcp_servers WHERE brand_id = ?
		ORDER BY priority DESC, created_at ASC`, brandID)
	if err != nil {
		return nil, fmt.Errorf("configstore: listing records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("configstore: scanning record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Update rewrites all mutable fields of a record and bumps updated_at.
func (s *Store) Update(rec *Record) error {
	rec.UpdatedAt = time.Now().UTC()

	args, err := encodeStrings(rec.Args)
	if err != nil {
		return err
	}
	allowed, err := encodeStrings(rec.AllowedTools)
	if err != nil {
		return err
	}
	blocked, err := encodeStrings(rec.BlockedTools)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE mcp_servers SET
			name = ?, description = ?, transport_type = ?, url = ?, command = ?, args = ?,
			auth_type = ?, auth_header = ?, auth_token = ?,
			oauth_access_token = ?, oauth_refresh_token = ?, oauth_expires_at = ?,
			enabled = ?, priority = ?, timeout_ms = ?, allowed_tools = ?, blocked_tools = ?,
			updated_at = ?
		WHERE id = ?`,
		rec.Name, rec.Description, rec.TransportType, rec.URL, rec.Command, args,
		rec.AuthType, rec.AuthHeader, rec.AuthToken,
		rec.OAuthAccessToken, rec.OAuthRefreshToken, nullableTime(rec.OAuthExpiresAt),
		rec.Enabled, rec.Priority, rec.TimeoutMS, allowed, blocked,
		rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("configstore: updating record: %w", err)
	}
	return requireRow(res)
}

// SetEnabled flips the enabled flag without touching the rest of the record.
func (s *Store) SetEnabled(id string, enabled bool) error {
	res, err := s.db.Exec(`UPDATE mcp_servers SET enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("configstore: toggling record: %w", err)
	}
	return requireRow(res)
}

// Delete removes a record.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM mcp_servers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("configstore: deleting record: %w", err)
	}
	return requireRow(res)
}

// ServerConfigs loads a brand's records and converts them for the manager.
func (s *Store) ServerConfigs(brandID string) ([]toolset.ServerConfig, error) {
	records, err := s.List(brandID)
	if err != nil {
		return nil, err
	}
	configs := make([]toolset.ServerConfig, 0, len(records))
	for _, rec := range records {
		cfg, err := rec.ServerConfig()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

const selectColumns = `
	SELECT id, brand_id, name, description, transport_type, url, command, args,
		auth_type, auth_header, auth_token,
		oauth_access_token, oauth_refresh_token, oauth_expires_at,
		enabled, priority, timeout_ms, allowed_tools, blocked_tools,
		created_at, updated_at, created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var args, allowed, blocked sql.NullString
	var oauthExpires sql.NullTime
	err := row.Scan(
		&rec.ID, &rec.BrandID, &rec.Name, &rec.Description, &rec.TransportType, &rec.URL, &rec.Command, &args,
		&rec.AuthType, &rec.AuthHeader, &rec.AuthToken,
		&rec.OAuthAccessToken, &rec.OAuthRefreshToken, &oauthExpires,
		&rec.Enabled, &rec.Priority, &rec.TimeoutMS, &allowed, &blocked,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if oauthExpires.Valid {
		rec.OAuthExpiresAt = oauthExpires.Time
	}
	if rec.Args, err = decodeStrings(args); err != nil {
		return nil, err
	}
	if rec.AllowedTools, err = decodeStrings(allowed); err != nil {
		return nil, err
	}
	if rec.BlockedTools, err = decodeStrings(blocked); err != nil {
		return nil, err
	}
	return &rec, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("configstore: checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func encodeStrings(values []string) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("configstore: encoding list column: %w", err)
	}
	return string(data), nil
}

func decodeStrings(column sql.NullString) ([]string, error) {
	if !column.Valid || column.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(column.String), &values); err != nil {
		return nil, fmt.Errorf("configstore: decoding list column: %w", err)
	}
	return values, nil
}
