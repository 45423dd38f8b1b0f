// Package driving defines the interfaces that host surfaces call INTO core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI, TUI, HTTP API and MCP server depend on these interfaces;
// core services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
