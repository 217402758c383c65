package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgen/pkg/permissions"
	"github.com/jingkaihe/skillgen/pkg/presenter"
	"github.com/jingkaihe/skillgen/pkg/request"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
	"github.com/jingkaihe/skillgen/pkg/writer"
)

// GenerateConfig holds configuration for the generate command
type GenerateConfig struct {
	Output string
	Write  bool
	Yes    bool
	Audit  bool
}

// NewGenerateConfig creates a new GenerateConfig with default values
func NewGenerateConfig() *GenerateConfig {
	return &GenerateConfig{
		Output: outputTable,
		Write:  false,
		Yes:    false,
		Audit:  false,
	}
}

var generateCmd = &cobra.Command{
	Use:   "generate [request-file...]",
	Short: "Generate skill manifests from requests",
	Long: `Validate and sanitize skill requests, resolve tool permissions and plan the
files of each skill package. The resulting manifests are printed; with --write
the stub files are also written under the output directory.

A request file may hold a single request or a list of them. Use "-" to read a
request from stdin.

Examples:
  skillgen generate request.yaml
  skillgen generate requests.json -o json
  skillgen generate --name code-reviewer --description "Reviews pull requests" \
    --function "code review" --tools read,glob --format minimal --write`,
	RunE: runGenerate,
}

func init() {
	defaults := NewGenerateConfig()
	request.RegisterFlags(generateCmd.Flags())
	addOutputFlag(generateCmd)
	generateCmd.Flags().BoolP("write", "w", defaults.Write, "Write the skill package files under the output directory")
	generateCmd.Flags().BoolP("yes", "y", defaults.Yes, "Write skills with permission advisories without asking")
	generateCmd.Flags().Bool("audit", defaults.Audit, "Print the permission audit log after generation")
}

// getGenerateConfigFromFlags extracts generate configuration from command flags
func getGenerateConfigFromFlags(cmd *cobra.Command) (*GenerateConfig, error) {
	config := NewGenerateConfig()

	output, err := getOutputFlag(cmd)
	if err != nil {
		return nil, err
	}
	config.Output = output

	if write, err := cmd.Flags().GetBool("write"); err == nil {
		config.Write = write
	}
	if yes, err := cmd.Flags().GetBool("yes"); err == nil {
		config.Yes = yes
	}
	if audit, err := cmd.Flags().GetBool("audit"); err == nil {
		config.Audit = audit
	}
	return config, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	config, err := getGenerateConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	raws, err := loadRequests(cmd, args)
	if err != nil {
		return err
	}

	gen, genConfig, err := newGenerator(ctx, true)
	if err != nil {
		return err
	}

	manifests, failures := generateAll(ctx, gen, raws, genConfig.OutputDir)
	for _, failure := range failures {
		presenter.Error(failure, "Request rejected")
	}

	if err := showManifests(cmd.OutOrStdout(), config.Output, manifests); err != nil {
		return err
	}

	writeFailed := false
	if config.Write {
		w := writer.New()
		for _, m := range manifests {
			name := m.SkillDefinition.Name
			if m.Tools.Advisories.RequiresConfirmation() && !config.Yes &&
				!presenter.Confirm(fmt.Sprintf("Skill %s has permission advisories. Write it anyway?", name)) {
				presenter.Warning(fmt.Sprintf("Skipped writing %s", name))
				continue
			}

			result, err := w.Write(ctx, m)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to write skill %s", name))
				writeFailed = true
				continue
			}
			presenter.Success(fmt.Sprintf("Wrote %d files (%d bytes) to %s", len(result.Files), result.Bytes, result.SkillDir))
		}
	}

	if config.Audit {
		showAudit(gen.AuditLog())
	}

	if len(failures) > 0 || writeFailed {
		return errReported
	}
	return nil
}

// showManifests prints manifests as tables, or as a single JSON/YAML
// document. One manifest is encoded as an object, several as a list.
func showManifests(w io.Writer, output string, manifests []*skill.Manifest) error {
	if output != outputTable {
		if len(manifests) == 1 {
			return encode(w, output, manifests[0])
		}
		return encode(w, output, manifests)
	}

	for i, m := range manifests {
		if i > 0 {
			presenter.Separator()
		}
		presenter.Manifest(m)
	}
	return nil
}

func showAudit(log *permissions.AuditLog) {
	entries := log.Entries()
	if len(entries) == 0 {
		return
	}

	presenter.Section("Permission audit")
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.ID, e.Skill, strconv.Itoa(e.Score), string(e.Level), joinToolIDs(e.Tools)}
	}
	presenter.Table([]string{"ID", "SKILL", "SCORE", "LEVEL", "TOOLS"}, rows)

	if high := log.HighRisk(); len(high) > 0 {
		presenter.Warning(fmt.Sprintf("%d of %d skills are high risk", len(high), len(entries)))
	}
}
