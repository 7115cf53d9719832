// Package catalog holds the table of tools the server exposes.
//
// A Registry maps each tool name to either a source file or an inline
// literal. It is assembled once with a Builder and never changes after
// Build. Sources are read from disk on every call so edits to the prompt
// files are visible without a restart.
package catalog
