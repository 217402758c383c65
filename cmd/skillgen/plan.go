package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillgen/pkg/planner"
	"github.com/jingkaihe/skillgen/pkg/presenter"
	"github.com/jingkaihe/skillgen/pkg/templates"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
	"github.com/jingkaihe/skillgen/pkg/validation"
)

// PlanConfig holds configuration for the plan command
type PlanConfig struct {
	Name            string
	SkillType       string
	PrimaryFunction string
	Format          string
	Compare         string
	Output          string
}

// NewPlanConfig creates a new PlanConfig with default values
func NewPlanConfig() *PlanConfig {
	return &PlanConfig{
		Name:   "example-skill",
		Output: outputTable,
	}
}

// planResult is the encoded form of a plan.
type planResult struct {
	Template  skill.TemplateID           `json:"template" yaml:"template"`
	Artifacts []skill.ArtifactDescriptor `json:"artifacts" yaml:"artifacts"`
	Summary   skill.StructureSummary     `json:"structure_summary" yaml:"structure_summary"`
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the files planned for a template and output format",
	Long: `Select a template family from a skill type or primary function and list the
artifacts an output format produces, without validating a full request.

With --compare the artifact lists of two output formats are shown as a
unified diff.

Examples:
  skillgen plan --type analytics --format minimal
  skillgen plan --function "code review" --compare minimal`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	defaults := NewPlanConfig()
	planCmd.Flags().String("name", defaults.Name, "Skill name used in artifact paths")
	planCmd.Flags().String("type", defaults.SkillType, "Skill type used for template selection")
	planCmd.Flags().String("function", defaults.PrimaryFunction, "Primary function used for template selection")
	planCmd.Flags().String("format", defaults.Format, "Output format (defaults to the configured default format)")
	planCmd.Flags().String("compare", defaults.Compare, "Output format to compare against")
	addOutputFlag(planCmd)
}

// getPlanConfigFromFlags extracts plan configuration from command flags
func getPlanConfigFromFlags(cmd *cobra.Command) (*PlanConfig, error) {
	config := NewPlanConfig()

	if name, err := cmd.Flags().GetString("name"); err == nil {
		config.Name = name
	}
	if skillType, err := cmd.Flags().GetString("type"); err == nil {
		config.SkillType = skillType
	}
	if function, err := cmd.Flags().GetString("function"); err == nil {
		config.PrimaryFunction = function
	}
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if compare, err := cmd.Flags().GetString("compare"); err == nil {
		config.Compare = compare
	}
	if config.Format == "" {
		config.Format = viper.GetString("format")
	}

	output, err := getOutputFlag(cmd)
	if err != nil {
		return nil, err
	}
	config.Output = output
	return config, nil
}

// Validate checks the plan inputs the planner relies on.
func (c *PlanConfig) Validate() error {
	if err := validation.ValidateSkillName(c.Name); err != nil {
		return err
	}
	if !skill.OutputFormat(c.Format).IsValid() {
		return skill.NewInvalidOutputFormatError(c.Format)
	}
	if c.Compare != "" && !skill.OutputFormat(c.Compare).IsValid() {
		return skill.NewInvalidOutputFormatError(c.Compare)
	}
	return nil
}

func runPlan(cmd *cobra.Command, _ []string) error {
	config, err := getPlanConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	template := templates.Select(skill.Type(config.SkillType), config.PrimaryFunction)
	format := skill.OutputFormat(config.Format)
	artifacts := planner.Plan(template, config.Name, format)

	if config.Compare != "" {
		other := skill.OutputFormat(config.Compare)
		diff := planner.Compare(string(format), artifacts, string(other), planner.Plan(template, config.Name, other))
		if diff == "" {
			presenter.Info(fmt.Sprintf("%s and %s plan the same files", format, other))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
		return nil
	}

	result := planResult{
		Template:  template,
		Artifacts: artifacts,
		Summary:   planner.Summarize(format, artifacts),
	}
	if config.Output != outputTable {
		return encode(cmd.OutOrStdout(), config.Output, result)
	}

	presenter.Section(fmt.Sprintf("%s, %s (%d files)", template, format, result.Summary.FileCount))
	rows := make([][]string, len(artifacts))
	for i, a := range artifacts {
		rows[i] = []string{a.Path, a.Description}
	}
	presenter.Table([]string{"PATH", "DESCRIPTION"}, rows)
	return nil
}
