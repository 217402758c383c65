package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgen/pkg/presenter"
	"github.com/jingkaihe/skillgen/pkg/request"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// ImportConfig holds configuration for the import command
type ImportConfig struct {
	Format string
	Out    string
}

// NewImportConfig creates a new ImportConfig with default values
func NewImportConfig() *ImportConfig {
	return &ImportConfig{
		Format: string(request.FormatYAML),
		Out:    "",
	}
}

var importCmd = &cobra.Command{
	Use:   "import <SKILL.md>",
	Short: "Convert a SKILL.md file into a skill request",
	Long: `Read the frontmatter of an existing SKILL.md file and print it as a skill
request that generate accepts. The description stands in for the primary
function when the frontmatter has none.

Examples:
  skillgen import ./skills/reviewer/SKILL.md
  skillgen import ./skills/reviewer/SKILL.md --format json --out reviewer.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	defaults := NewImportConfig()
	importCmd.Flags().String("format", defaults.Format, "Request format: yaml or json")
	importCmd.Flags().String("out", defaults.Out, "Write the request to this file instead of stdout")
}

// getImportConfigFromFlags extracts import configuration from command flags
func getImportConfigFromFlags(cmd *cobra.Command) *ImportConfig {
	config := NewImportConfig()

	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if out, err := cmd.Flags().GetString("out"); err == nil {
		config.Out = out
	}
	return config
}

func runImport(cmd *cobra.Command, args []string) error {
	config := getImportConfigFromFlags(cmd)

	raw, err := request.FromSkillFile(args[0])
	if err != nil {
		return err
	}

	data, err := request.Marshal(raw, request.Format(config.Format))
	if err != nil {
		return err
	}

	if config.Out == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(config.Out, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", config.Out)
	}
	presenter.Success(fmt.Sprintf("Wrote request for %v to %s", raw[skill.FieldSkillName], config.Out))
	return nil
}
