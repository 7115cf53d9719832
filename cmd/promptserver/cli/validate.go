package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var validatePrint bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config and that every exposed tool's file is readable",
	Example: `  promptserver validate -c promptserver.yaml
  promptserver validate --prompts-dir ./llm-prompts --print`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validatePrint, "print", false, "print the effective config as YAML")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile, promptsDir)
	if err != nil {
		return err
	}

	reg, _, err := buildRegistry(context.Background(), cfg)
	if err != nil {
		return err
	}
	if err := reg.Verify(); err != nil {
		return fmt.Errorf("verifying tool sources: %w", err)
	}

	out := cmd.OutOrStdout()
	if validatePrint {
		data, err := cfg.ExportYAML()
		if err != nil {
			return fmt.Errorf("exporting config: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "ok: %d tools exposed from %s\n", reg.Len(), cfg.PromptsDir)
	return nil
}
