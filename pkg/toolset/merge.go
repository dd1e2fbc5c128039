package toolset

import (
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// filterTools applies a server's tool policy: the allow-list (when
// non-empty) first, then the deny-list. Names failing the allow-list never
// reach the deny-list. Empty lists pass everything through.
func filterTools(cfg *BaseConfig, tools map[string]*mcp.Tool) map[string]*mcp.Tool {
	filtered := make(map[string]*mcp.Tool, len(tools))
	allowed := toNameSet(cfg.AllowedTools)
	blocked := toNameSet(cfg.BlockedTools)
	for name, tool := range tools {
		if allowed != nil {
			if _, ok := allowed[name]; !ok {
				continue
			}
		}
		if _, ok := blocked[name]; ok {
			continue
		}
		filtered[name] = tool
	}
	return filtered
}

func toNameSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// mergeToolSets copies src into dst under first-write-wins semantics: a name
// already claimed by an earlier (higher-priority) server is never
// overwritten.
func mergeToolSets(dst, src map[string]*mcp.Tool) {
	for name, tool := range src {
		if _, taken := dst[name]; taken {
			continue
		}
		dst[name] = tool
	}
}

// sortConfigsByPriority orders configurations by descending priority. The
// sort is stable so equal priorities keep the caller's original order.
func sortConfigsByPriority(cfgs []ServerConfig) []ServerConfig {
	sorted := append([]ServerConfig(nil), cfgs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].base().Priority > sorted[j].base().Priority
	})
	return sorted
}

// sortConnections orders active connections by descending priority, breaking
// ties by connect rank so aggregation order is deterministic.
func sortConnections(conns []*activeConnection) {
	sort.SliceStable(conns, func(i, j int) bool {
		pi, pj := conns[i].config.base().Priority, conns[j].config.base().Priority
		if pi != pj {
			return pi > pj
		}
		return conns[i].rank < conns[j].rank
	})
}
