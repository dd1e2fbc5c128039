// Package statusapi exposes a small HTTP surface over a toolset.Manager so
// administrative UIs can display connection health and the merged tool set
// ("3 of 4 servers connected, 12 tools available") and tear down individual
// connections.
package statusapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/rs/cors"

	"github.com/brandhub-ai/mcp-toolset-go/pkg/toolset"
)

// Options configure the status handler.
type Options struct {
	// AllowedOrigins restricts browser access. Defaults to "*" since the
	// surface is read-mostly and meant to sit behind the app's own auth.
	AllowedOrigins []string
	// Logger receives request-level diagnostics.
	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	var opts Options
	if o != nil {
		opts = *o
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

type handler struct {
	manager *toolset.Manager
	logger  *slog.Logger
}

// NewHandler mounts the status routes and wraps them with CORS middleware.
func NewHandler(manager *toolset.Manager, opts *Options) http.Handler {
	options := opts.withDefaults()
	h := &handler{manager: manager, logger: options.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /servers", h.listServers)
	mux.HandleFunc("GET /tools", h.listTools)
	mux.HandleFunc("POST /servers/{id}/disconnect", h.disconnectServer)

	return cors.New(cors.Options{
		AllowedOrigins: options.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(mux)
}

type serversResponse struct {
	Connected int                        `json:"connected"`
	Servers   []toolset.ConnectionStatus `json:"servers"`
}

func (h *handler) listServers(w http.ResponseWriter, r *http.Request) {
	statuses := h.manager.ConnectionStatuses()
	h.writeJSON(w, serversResponse{Connected: len(statuses), Servers: statuses})
}

type toolsResponse struct {
	Count int      `json:"count"`
	Tools []string `json:"tools"`
}

func (h *handler) listTools(w http.ResponseWriter, r *http.Request) {
	merged := h.manager.GetAllTools(r.Context())
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	h.writeJSON(w, toolsResponse{Count: len(names), Tools: names})
}

func (h *handler) disconnectServer(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")
	if !h.manager.IsConnected(serverID) {
		http.Error(w, "server not connected", http.StatusNotFound)
		return
	}
	h.manager.Disconnect(serverID)
	h.logger.Info("server disconnected via status api", "server", serverID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}
