// Package server exposes Mermaid diagram rendering as MCP (Model Context
// Protocol) tools.
//
// The package wires tool definitions and handlers onto the official MCP Go
// SDK, which owns the JSON-RPC 2.0 framing, the initialize handshake and
// tool listing. Handlers decode their arguments, call the renderer in
// internal/mermaid, and translate outcomes into MCP results.
//
// # Available Tools
//
// The server provides two rendering tools that differ only in delivery:
//
//   - generate_mermaid_diagram_file: render to a PNG file in a
//     caller-supplied folder; returns the absolute path as text.
//   - generate_mermaid_diagram_stream: render and return the PNG inline as
//     base64 image content; nothing is left on the server's filesystem.
//
// # Transports
//
// Run serves a single session over stdin/stdout, the transport MCP clients
// spawn subprocesses with. Handler returns an http.Handler carrying the
// streamable HTTP endpoint at /mcp (stateless, so replicas are
// interchangeable) and a /healthz probe, for running the server as a shared
// network service.
//
// # Error Handling
//
// Rendering failures are reported as tool-level errors (IsError results),
// not protocol errors: the call reached the tool, the tool could not
// produce a diagram. Known failures (mmdc missing, mmdc exit status,
// unusable destination) keep their diagnostic message; anything unexpected
// is logged in full and reported behind a generic message.
//
// Logs never go to stdout: on the stdio transport, stdout belongs to the
// protocol stream.
package server
