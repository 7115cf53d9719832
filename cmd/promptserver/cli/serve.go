package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/tkingovr/promptserver/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool catalog over stdio",
	Long: `Serve the tool catalog to a single MCP client over stdin/stdout.
The server exits when the client closes the channel.`,
	Example: `  promptserver serve
  promptserver serve -c promptserver.yaml --prompts-dir ./llm-prompts`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile, promptsDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg, decisions, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	for _, d := range decisions {
		if !d.Allowed() {
			logger.Debug("tool hidden by policy",
				"tool", d.Entry.Name,
				"rule", d.Result.Rule,
				"message", d.Result.Message,
			)
		}
	}

	if cfg.VerifyOnStart {
		if err := reg.Verify(); err != nil {
			return fmt.Errorf("verifying tool sources: %w", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Debug("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Debug("starting stdio server",
		"name", cfg.ServerName,
		"version", cfg.ServerVersion,
		"prompts_dir", cfg.PromptsDir,
		"config", cfgFile,
	)

	srv := server.New(server.Options{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}, reg, logger)
	return srv.Run(ctx, &mcp.StdioTransport{})
}
