// Command toolset-example connects to the MCP servers listed in a YAML
// configuration file, prints the connection statuses and the merged tool
// set, and exposes the status API until interrupted.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/brandhub-ai/mcp-toolset-go/pkg/statusapi"
	"github.com/brandhub-ai/mcp-toolset-go/pkg/toolset"
)

func main() {
	configPath := flag.String("config", "servers.yaml", "path to the server configuration file")
	addr := flag.String("addr", ":8790", "listen address for the status API")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	configs, err := toolset.LoadServerConfigs(*configPath)
	if err != nil {
		logger.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := toolset.NewManager(&toolset.ManagerOptions{
		ClientName:     "toolset-example",
		DefaultTimeout: 30 * time.Second,
		Logger:         logger,
	})
	defer manager.DisconnectAll()

	statuses := manager.ConnectAll(ctx, configs)
	for _, status := range statuses {
		if status.Connected {
			logger.Info("connected", "server", status.ServerID, "tools", status.ToolCount)
		} else {
			logger.Warn("not connected", "server", status.ServerID, "reason", status.Error)
		}
	}

	merged := manager.GetAllTools(ctx)
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	logger.Info("aggregated tools",
		"servers", manager.ConnectedCount(),
		"configured", len(configs),
		"count", len(names),
		"tools", names)

	srv := &http.Server{Addr: *addr, Handler: statusapi.NewHandler(manager, &statusapi.Options{Logger: logger})}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("status api listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("status api stopped", "error", err)
		os.Exit(1)
	}
}
