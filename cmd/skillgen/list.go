package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillgen/pkg/presenter"
	"github.com/jingkaihe/skillgen/pkg/skills"
)

var listCmd = &cobra.Command{
	Use:   "list [pattern...]",
	Short: "List skills under the output directory",
	Long: `List the skills found under the output directory, or under the roots given
with --root. Generated packages are recognised by skill-definition/skill.json,
hand-written ones by a SKILL.md file with frontmatter.

Patterns are glob patterns matched against skill names.

Examples:
  skillgen list
  skillgen list 'data-*' --root ./skills-a --root ./skills-b`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSlice("root", nil, "Output roots to scan (defaults to the output directory)")
	addOutputFlag(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	output, err := getOutputFlag(cmd)
	if err != nil {
		return err
	}

	roots, _ := cmd.Flags().GetStringSlice("root")
	if len(roots) == 0 {
		roots = []string{viper.GetString("output_dir")}
	}

	discovery, err := skills.NewDiscovery(skills.WithRoots(roots...))
	if err != nil {
		return err
	}
	found, err := discovery.DiscoverSkills()
	if err != nil {
		return err
	}
	found, err = skills.Filter(found, args...)
	if err != nil {
		return err
	}

	names := skills.SortedNames(found)
	if output != outputTable {
		list := make([]*skills.Skill, len(names))
		for i, name := range names {
			list[i] = found[name]
		}
		return encode(cmd.OutOrStdout(), output, list)
	}

	if len(names) == 0 {
		presenter.Info("No skills found")
		return nil
	}

	rows := make([][]string, len(names))
	for i, name := range names {
		s := found[name]
		rows[i] = []string{s.Name, string(s.Type), string(s.Template), string(s.Source), s.Directory}
	}
	presenter.Section(fmt.Sprintf("Skills (%d)", len(names)))
	presenter.Table([]string{"NAME", "TYPE", "TEMPLATE", "SOURCE", "DIRECTORY"}, rows)
	return nil
}
