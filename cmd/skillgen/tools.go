package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillgen/pkg/permissions"
	"github.com/jingkaihe/skillgen/pkg/presenter"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
	"github.com/jingkaihe/skillgen/pkg/validation"
)

// toolResolution is the encoded result of tools resolve.
type toolResolution struct {
	Tools       []skill.ToolID      `json:"tools" yaml:"tools"`
	Permissions skill.PermissionSet `json:"permissions" yaml:"permissions"`
	RiskTier    skill.RiskTier      `json:"risk_tier" yaml:"risk_tier"`
	AuditScore  int                 `json:"audit_score" yaml:"audit_score"`
	Advisories  skill.Advisories    `json:"advisories" yaml:"advisories"`
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect the tool catalog",
	Long:  `List the tools a skill can request, resolve tools to permissions and recommend tools for a description.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tool catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, err := getOutputFlag(cmd)
		if err != nil {
			return err
		}

		catalog := permissions.Catalog()
		if output != outputTable {
			return encode(cmd.OutOrStdout(), output, map[string]any{
				"catalog_version": permissions.CatalogVersion,
				"tools":           catalog,
			})
		}

		rows := make([][]string, len(catalog))
		for i, info := range catalog {
			perms := make([]string, len(info.Permissions))
			for j, p := range info.Permissions {
				perms[j] = string(p)
			}
			rows[i] = []string{string(info.ID), string(info.RiskTier), strconv.Itoa(info.Score), strings.Join(perms, ", "), info.Description}
		}
		presenter.Section(fmt.Sprintf("Tool catalog %s", permissions.CatalogVersion))
		presenter.Table([]string{"TOOL", "RISK", "SCORE", "PERMISSIONS", "DESCRIPTION"}, rows)
		return nil
	},
}

var toolsResolveCmd = &cobra.Command{
	Use:   "resolve <tool...>",
	Short: "Resolve tools to permissions and advisories",
	Long: `Resolve tools to their sorted permission set and risk tier, and report
dangerous combinations and escalation beyond the configured baseline.

Examples:
  skillgen tools resolve read write
  skillgen tools resolve bash write --baseline read`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := getOutputFlag(cmd)
		if err != nil {
			return err
		}

		if err := validation.ValidateToolList(args); err != nil {
			return err
		}

		tools := toToolIDs(args)
		perms, err := permissions.Resolve(tools)
		if err != nil {
			return err
		}

		result := toolResolution{
			Tools:       tools,
			Permissions: perms,
			RiskTier:    permissions.RiskTier(tools),
			AuditScore:  permissions.AuditScore(tools),
			Advisories: skill.Advisories{
				DangerousCombinations: permissions.DangerousCombinations(tools),
			},
		}
		baseline := toToolIDs(viper.GetStringSlice("policy.baseline_tools"))
		if escalation := permissions.DetectEscalation(tools, baseline); !escalation.IsEmpty() {
			result.Advisories.Escalation = &escalation
		}

		if output != outputTable {
			return encode(cmd.OutOrStdout(), output, result)
		}

		presenter.Table(nil, [][]string{
			{"Tools", joinToolIDs(result.Tools)},
			{"Permissions", strings.Join(result.Permissions.Strings(), ", ")},
			{"Risk tier", string(result.RiskTier)},
			{"Audit score", fmt.Sprintf("%d (%s)", result.AuditScore, permissions.AuditLevel(result.AuditScore))},
		})
		presenter.Advisories(result.Advisories)
		return nil
	},
}

var toolsRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend tools for a description and primary function",
	Long: `Suggest tools from keywords in a skill's description and primary function.

Examples:
  skillgen tools recommend --function "code review" --description "read and edit files"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, err := getOutputFlag(cmd)
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		function, _ := cmd.Flags().GetString("function")
		if description == "" && function == "" {
			return usageError(cmd, "--description or --function is required")
		}

		tools := permissions.Recommend(description, function)
		if output != outputTable {
			return encode(cmd.OutOrStdout(), output, map[string]any{"tools": tools})
		}
		presenter.Info(joinToolIDs(tools))
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{toolsListCmd, toolsResolveCmd, toolsRecommendCmd} {
		addOutputFlag(cmd)
		toolsCmd.AddCommand(cmd)
	}
	toolsRecommendCmd.Flags().String("description", "", "Skill description")
	toolsRecommendCmd.Flags().String("function", "", "Primary function")
}

func toToolIDs(names []string) []skill.ToolID {
	out := make([]skill.ToolID, len(names))
	for i, n := range names {
		out[i] = skill.ToolID(n)
	}
	return out
}

func joinToolIDs(tools []skill.ToolID) string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
