// Package mcp exposes the Order Document drafter as a Model Context
// Protocol (MCP) server using the mcp-go library.
//
// # Tools
//
//   - draft_docx_od: append a legal clause to the latest version of a quote
//   - add_line_item: add a row to the pricing table of the latest version
//   - list_od_versions: list the stored versions of a quote
//   - list_od_clauses: list the clause titles draft_docx_od accepts
//
// Every edit is stored as a new version; earlier versions are never
// modified. Domain outcomes such as an unknown clause or a missing quote
// are reported as tool results, never as protocol errors.
//
// # Transport
//
// The server speaks streamable HTTP on a single endpoint (default /mcp).
// While a tool runs, progress is pushed to the client as
// notifications/message log entries at level info.
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
