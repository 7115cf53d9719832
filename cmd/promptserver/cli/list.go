package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tkingovr/promptserver/api"
	"github.com/tkingovr/promptserver/internal/catalog"
	"github.com/tkingovr/promptserver/internal/config"
	"github.com/tkingovr/promptserver/internal/policy"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the tool catalog and the policy verdict for each tool",
	Long: `List every declared tool with its resolved file and whether the
exposure policy lets clients see it. Nothing is served.`,
	Example: `  promptserver list
  promptserver list -c promptserver.yaml -o yaml`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "json", "output format (json or yaml)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile, promptsDir)
	if err != nil {
		return err
	}

	_, decisions, err := buildRegistry(context.Background(), cfg)
	if err != nil {
		return err
	}

	return writeList(cmd.OutOrStdout(), cfg, decisions, listOutput)
}

func toolInfos(cfg *config.Config, decisions []policy.Decision) []api.ToolInfo {
	infos := make([]api.ToolInfo, 0, len(decisions))
	for _, d := range decisions {
		info := api.ToolInfo{
			Name:        d.Entry.Name,
			Description: d.Entry.Description,
			Inline:      d.Entry.Inline(),
			Verdict:     d.Result.Verdict,
			Rule:        d.Result.Rule,
			Message:     d.Result.Message,
		}
		if !info.Inline {
			info.Path = catalog.Resolve(cfg.PromptsDir, d.Entry.Source)
		}
		infos = append(infos, info)
	}
	return infos
}

func writeList(w io.Writer, cfg *config.Config, decisions []policy.Decision, format string) error {
	infos := toolInfos(cfg, decisions)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(infos)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
