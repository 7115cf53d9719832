package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tkingovr/promptserver/api"
	"github.com/tkingovr/promptserver/internal/catalog"
	"github.com/tkingovr/promptserver/internal/policy"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration.
type File struct {
	Version  int           `yaml:"version"`
	Server   ServerInfo    `yaml:"server"`
	Settings Settings      `yaml:"settings"`
	Tools    []ToolSpec    `yaml:"tools,omitempty"`
	Rules    []policy.Rule `yaml:"rules,omitempty"`
}

// ServerInfo is the identity advertised to clients.
type ServerInfo struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Settings contains global settings.
type Settings struct {
	PromptsDir    string      `yaml:"prompts_dir,omitempty"`
	VerifyOnStart *bool       `yaml:"verify_on_start,omitempty"`
	OPAPolicy     string      `yaml:"opa_policy,omitempty"`
	DefaultAction api.Verdict `yaml:"default_action,omitempty"`
}

// ToolSpec declares one tool. Exactly one of File and Text is set.
type ToolSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	File        string `yaml:"file,omitempty"`
	Text        string `yaml:"text,omitempty"`
}

// Config is the runtime configuration.
type Config struct {
	File          *File
	Path          string
	ServerName    string
	ServerVersion string
	PromptsDir    string
	VerifyOnStart bool
	OPAPolicy     string
	DefaultAction api.Verdict
}

// Load reads a YAML config file and produces a runtime Config.
// A relative opa_policy resolves against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	f, err := parse(data)
	if err != nil {
		return nil, err
	}
	return fromFile(f, path, filepath.Dir(path))
}

// LoadBytes parses YAML data and produces a runtime Config.
func LoadBytes(data []byte) (*Config, error) {
	f, err := parse(data)
	if err != nil {
		return nil, err
	}
	return fromFile(f, "", InstallRoot())
}

func parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := validate(&f); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &f, nil
}

func validate(f *File) error {
	if f.Version != 1 {
		return fmt.Errorf("unsupported config version: %d (expected 1)", f.Version)
	}
	if f.Settings.DefaultAction != "" && !f.Settings.DefaultAction.Valid() {
		return fmt.Errorf("invalid default_action %q", f.Settings.DefaultAction)
	}
	for i, t := range f.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool %d: name is required", i)
		}
		if t.Description == "" {
			return fmt.Errorf("tool %q: description is required", t.Name)
		}
		if (t.File == "") == (t.Text == "") {
			return fmt.Errorf("tool %q: exactly one of file or text is required", t.Name)
		}
	}
	return policy.ValidateRules(f.Rules)
}

func fromFile(f *File, path, baseDir string) (*Config, error) {
	cfg := &Config{
		File:          f,
		Path:          path,
		ServerName:    f.Server.Name,
		ServerVersion: f.Server.Version,
		VerifyOnStart: true,
		DefaultAction: f.Settings.DefaultAction,
	}

	if cfg.ServerName == "" {
		cfg.ServerName = DefaultServerName
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = DefaultServerVersion
	}
	if f.Settings.VerifyOnStart != nil {
		cfg.VerifyOnStart = *f.Settings.VerifyOnStart
	}
	if cfg.DefaultAction == "" {
		cfg.DefaultAction = api.VerdictAllow
	}

	cfg.PromptsDir = f.Settings.PromptsDir
	if cfg.PromptsDir == "" {
		cfg.PromptsDir = DefaultPromptsDir
	}
	cfg.PromptsDir = catalog.Resolve(InstallRoot(), expandHome(cfg.PromptsDir))

	if f.Settings.OPAPolicy != "" {
		cfg.OPAPolicy = catalog.Resolve(baseDir, expandHome(f.Settings.OPAPolicy))
	}

	return cfg, nil
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfig returns a config with defaults for when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		File:          &File{Version: 1},
		ServerName:    DefaultServerName,
		ServerVersion: DefaultServerVersion,
		PromptsDir:    filepath.Join(InstallRoot(), DefaultPromptsDir),
		VerifyOnStart: true,
		DefaultAction: api.VerdictAllow,
	}
}

// Entries returns the configured tools, or the built-in table when the
// config declares none.
func (c *Config) Entries() []catalog.Entry {
	if c.File == nil || len(c.File.Tools) == 0 {
		return catalog.DefaultEntries()
	}
	entries := make([]catalog.Entry, 0, len(c.File.Tools))
	for _, t := range c.File.Tools {
		entries = append(entries, catalog.Entry{
			Name:        t.Name,
			Description: t.Description,
			Source:      t.File,
			Text:        t.Text,
		})
	}
	return entries
}

// Engine builds the exposure policy engine: OPA when opa_policy is set,
// otherwise the YAML rules.
func (c *Config) Engine(ctx context.Context) (policy.Engine, error) {
	if c.OPAPolicy != "" {
		return policy.NewOPAEngine(ctx, c.OPAPolicy)
	}
	var rules []policy.Rule
	if c.File != nil {
		rules = c.File.Rules
	}
	return policy.NewYAMLEngine(rules, c.DefaultAction)
}

// ExportYAML serializes the file configuration for display.
func (c *Config) ExportYAML() ([]byte, error) {
	return yaml.Marshal(c.File)
}
