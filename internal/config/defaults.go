package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultServerName    = "mcp-server"
	DefaultServerVersion = "1.0.0"
	DefaultPromptsDir    = "llm-prompts"
)

// InstallRoot returns the directory holding the running executable, with
// symlinks resolved. It falls back to the working directory.
func InstallRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
