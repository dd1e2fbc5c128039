// Package toolset aggregates tools from multiple Model Context Protocol
// (MCP) servers into a single priority-resolved set that can be handed to a
// language-model invocation as its available tools.
//
// # Core entry points
//
//   - Manager is the orchestration type. Construct it with NewManager, dial
//     servers with Connect or ConnectAll, and tear everything down with
//     DisconnectAll when the owning scope ends.
//   - ServerConfig (and the HTTPServerConfig / SSEServerConfig /
//     StdioServerConfig variants) describe how each MCP server is reached,
//     authenticated against, prioritized, and filtered.
//   - GetAllTools merges every connected server's tools, resolving name
//     collisions in favor of the higher-priority server; GetServerTools
//     inspects one server; CallTool routes an invocation to the owning
//     server.
//
// Connection attempts never surface Go errors for expected failures: a
// disabled config, a malformed record, or an unreachable endpoint each
// resolve to a ConnectionStatus describing the outcome, and a partially
// failing aggregation degrades to the tools of the servers that answered.
// Retry policy, if any, belongs to the caller; every Connect call is a
// fresh, independent attempt.
package toolset
