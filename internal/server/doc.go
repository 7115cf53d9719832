// Package server binds a catalog.Registry to an MCP server.
//
// Every registry entry becomes a tool with an empty object input schema.
// Protocol handling, framing, and tool-name dispatch are done by the MCP
// SDK; this package only supplies the handlers and the connect and wait
// loop.
package server
