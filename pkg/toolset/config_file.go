package toolset

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// configFile is the on-disk YAML shape for a set of server configurations.
type configFile struct {
	Servers []configEntry `yaml:"servers"`
}

type configEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Transport string   `yaml:"transport"`
	URL       string   `yaml:"url,omitempty"`
	Command   string   `yaml:"command,omitempty"`
	Args      []string `yaml:"args,omitempty"`

	AuthType         string `yaml:"auth_type,omitempty"`
	AuthHeader       string `yaml:"auth_header,omitempty"`
	AuthToken        string `yaml:"auth_token,omitempty"`
	OAuthAccessToken string `yaml:"oauth_access_token,omitempty"`

	// Enabled defaults to true when omitted.
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Priority     int      `yaml:"priority,omitempty"`
	TimeoutMS    int64    `yaml:"timeout_ms,omitempty"`
	AllowedTools []string `yaml:"allowed_tools,omitempty"`
	BlockedTools []string `yaml:"blocked_tools,omitempty"`
}

// LoadServerConfigs reads a YAML configuration file and returns one
// ServerConfig per entry. Entries with unknown transports fail the load;
// stdio entries parse (the transport is a declared variant) but will be
// rejected when connected.
func LoadServerConfigs(path string) ([]ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("toolset: reading config file: %w", err)
	}
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("toolset: parsing config file: %w", err)
	}

	configs := make([]ServerConfig, 0, len(file.Servers))
	for _, entry := range file.Servers {
		cfg, err := entry.serverConfig()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func (e configEntry) serverConfig() (ServerConfig, error) {
	base := BaseConfig{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		AuthType:         AuthType(e.AuthType),
		AuthHeader:       e.AuthHeader,
		AuthToken:        e.AuthToken,
		OAuthAccessToken: e.OAuthAccessToken,
		Enabled:          e.Enabled == nil || *e.Enabled,
		Priority:         e.Priority,
		Timeout:          time.Duration(e.TimeoutMS) * time.Millisecond,
		AllowedTools:     e.AllowedTools,
		BlockedTools:     e.BlockedTools,
	}
	switch TransportType(e.Transport) {
	case TransportHTTP:
		return &HTTPServerConfig{BaseConfig: base, Endpoint: e.URL}, nil
	case TransportSSE:
		return &SSEServerConfig{BaseConfig: base, Endpoint: e.URL}, nil
	case TransportStdio:
		return &StdioServerConfig{BaseConfig: base, Command: e.Command, Args: e.Args}, nil
	default:
		return nil, fmt.Errorf("toolset: unknown transport %q for %q", e.Transport, e.ID)
	}
}
