package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgen/pkg/generator"
	"github.com/jingkaihe/skillgen/pkg/logger"
	"github.com/jingkaihe/skillgen/pkg/presenter"
	"github.com/jingkaihe/skillgen/pkg/request"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// ValidateConfig holds configuration for the validate command
type ValidateConfig struct {
	Watch        bool
	DebounceTime int
}

// NewValidateConfig creates a new ValidateConfig with default values
func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{
		Watch:        false,
		DebounceTime: 300,
	}
}

// Validate validates the ValidateConfig and returns an error if invalid
func (c *ValidateConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

var validateCmd = &cobra.Command{
	Use:   "validate [request-file...]",
	Short: "Check skill requests without producing manifests",
	Long: `Run requests through sanitization, validation, path checks and permission
resolution and report whether each one would be accepted.

With --watch the request files are validated again whenever they change.

Examples:
  skillgen validate request.yaml
  skillgen validate --watch requests/*.yaml`,
	RunE: runValidate,
}

func init() {
	defaults := NewValidateConfig()
	request.RegisterFlags(validateCmd.Flags())
	validateCmd.Flags().Bool("watch", defaults.Watch, "Validate again whenever a request file changes")
	validateCmd.Flags().Int("debounce", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
}

// getValidateConfigFromFlags extracts validate configuration from command flags
func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	config := NewValidateConfig()

	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounce
	}
	return config
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	config := getValidateConfigFromFlags(cmd)
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Watch && (len(args) == 0 || request.HasRequestFlags(cmd.Flags())) {
		return usageError(cmd, "--watch needs request files")
	}

	gen, genConfig, err := newGenerator(ctx, true)
	if err != nil {
		return err
	}

	raws, err := loadRequests(cmd, args)
	if err != nil {
		return err
	}
	ok := reportValidation(ctx, gen, raws, genConfig.OutputDir)

	if config.Watch {
		delay := time.Duration(config.DebounceTime) * time.Millisecond
		return watchRequestFiles(ctx, args, delay, func(path string) {
			presenter.Separator()
			raws, err := loadRequests(cmd, []string{path})
			if err != nil {
				presenter.Error(err, "Failed to load "+path)
				return
			}
			reportValidation(ctx, gen, raws, genConfig.OutputDir)
		})
	}

	if !ok {
		return errReported
	}
	return nil
}

// reportValidation prints one line per request and reports whether all of
// them were accepted.
func reportValidation(ctx context.Context, gen *generator.Generator, raws []skill.RawRequest, outputDir string) bool {
	manifests, failures := generateAll(ctx, gen, raws, outputDir)
	for _, failure := range failures {
		presenter.Error(failure, "Invalid request")
	}
	for _, m := range manifests {
		presenter.Success(fmt.Sprintf("%s is valid (%s, %s, %d files)",
			m.SkillDefinition.Name, m.SkillDefinition.Template, m.StructureSummary.Format, m.StructureSummary.FileCount))
		presenter.Advisories(m.Tools.Advisories)
	}

	logger.G(ctx).WithField("accepted", len(manifests)).WithField("rejected", len(failures)).Debug("validation finished")
	return len(failures) == 0
}

