package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/tkingovr/promptserver/internal/catalog"
	"github.com/tkingovr/promptserver/internal/config"
	"github.com/tkingovr/promptserver/internal/policy"
)

func loadConfig(path, promptsOverride string) (*config.Config, error) {
	var cfg *config.Config
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if promptsOverride != "" {
		abs, err := filepath.Abs(promptsOverride)
		if err != nil {
			return nil, fmt.Errorf("resolving prompts dir: %w", err)
		}
		cfg.PromptsDir = abs
	}
	return cfg, nil
}

// buildRegistry checks the whole catalog, applies the exposure policy, and
// returns a registry of the exposed entries.
func buildRegistry(ctx context.Context, cfg *config.Config) (*catalog.Registry, []policy.Decision, error) {
	entries := cfg.Entries()

	// Duplicates are rejected even when the policy would hide one of them.
	if err := catalog.NewBuilder(cfg.PromptsDir).AddAll(entries...); err != nil {
		return nil, nil, fmt.Errorf("building registry: %w", err)
	}

	engine, err := cfg.Engine(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("creating policy engine: %w", err)
	}

	exposed, decisions, err := policy.Apply(ctx, engine, entries)
	if err != nil {
		return nil, nil, err
	}

	b := catalog.NewBuilder(cfg.PromptsDir)
	if err := b.AddAll(exposed...); err != nil {
		return nil, nil, fmt.Errorf("building registry: %w", err)
	}
	return b.Build(), decisions, nil
}
