// Package mcp implements the Model Context Protocol (MCP) server exposing the
// Spotify tools.
//
// Tools are registered in feature-area order (read, play, albums,
// suggestions). Every tool call is logged with its name, duration and whether
// it produced an error result; panics inside handlers are recovered by mcp-go.
//
// # Transports
//
// stdio (default): JSON-RPC 2.0 messages on stdin/stdout.
//
//	spotify-mcp serve
//
// HTTP (MCP_TRANSPORT=http): a stateless streamable HTTP endpoint.
//
//	GET  /health  {"status":"healthy","service":"spotify-mcp-server","version":"1.0.0"}
//	POST /mcp     MCP request
//	*    /mcp     405 {"error":"Method not allowed. Use POST for MCP requests."}
//
// # Tool Results
//
// Tools answer with a single text block. Invalid arguments, missing
// authentication and Web API failures are returned as results with
// isError set, so the calling agent can read the reason:
//
//	{"content":[{"type":"text","text":"Error: query is required"}],"isError":true}
package mcp
