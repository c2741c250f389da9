// Package tools defines the MCP tools that expose the Spotify Web API.
//
// Each Tool carries its mcp.Tool schema and a Prepare function. Prepare
// validates the raw arguments and returns a Call; only then is an
// authenticated API obtained and the Call executed. This keeps argument
// errors independent of authentication state.
//
// Results are plain text. Failures are returned as error results:
//
//	Error: <reason>               rejected arguments (*ArgumentError)
//	<failure prefix>: <reason>    authentication or Web API failures
//
// Both forms set isError on the result. The text is the same message a
// plain, unflagged reply would carry.
//
// Tools are grouped by feature area (ReadTools, PlayTools, AlbumTools,
// SuggestionTools); All returns them in registration order.
package tools
