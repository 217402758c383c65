// Package planner turns a template family and output format into the
// ordered, content-free list of artifacts the writer should emit.
package planner

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/jingkaihe/skillgen/pkg/pathguard"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

type artifact struct {
	suffix      string
	description string
}

var (
	skillDefinition   = artifact{"skill-definition/skill.json", "Skill definition"}
	toolsConfig       = artifact{"tools/tools.json", "Tool and permission configuration"}
	implementation    = artifact{"implementation.js", "Skill implementation entry point"}
	unitTest          = artifact{"tests/unit/basic.test.js", "Unit tests"}
	integrationTest   = artifact{"tests/integration/integration.test.js", "Integration tests"}
	basicExample      = artifact{"examples/basic-example.md", "Basic usage example"}
	advancedExample   = artifact{"examples/advanced-usage.md", "Advanced usage example"}
	readme            = artifact{"docs/README.md", "Skill overview"}
	apiReference      = artifact{"docs/API-reference.md", "API reference"}
	developmentGuide  = artifact{"docs/development-guide.md", "Development guide"}
	mainTemplate      = artifact{"templates/main-template.json", "Main template"}
	variablesTemplate = artifact{"templates/variables-config.json", "Template variables"}
	gitignore         = artifact{".gitignore", "Git ignore rules"}
	packageJSON       = artifact{"package.json", "Package manifest"}
)

var formatArtifacts = map[skill.OutputFormat][]artifact{
	skill.FormatFullPackage: {
		skillDefinition, toolsConfig, implementation,
		unitTest, integrationTest,
		basicExample, advancedExample,
		readme, apiReference, developmentGuide,
		mainTemplate, variablesTemplate,
		gitignore, packageJSON,
	},
	skill.FormatMinimal: {
		skillDefinition, toolsConfig, implementation,
	},
	skill.FormatTemplateOnly: {
		skillDefinition, mainTemplate, variablesTemplate,
	},
}

var templateLabels = map[skill.TemplateID]string{
	skill.TemplateCoordinator: "coordinator",
	skill.TemplateSpecialist:  "specialist",
	skill.TemplateIntegration: "tool integration",
	skill.TemplateAnalytics:   "analytics",
	skill.TemplateDefault:     "default",
}

// Plan returns the artifacts for skillName in the given format. Paths are
// slash-separated and relative to the output directory.
//
// Plan panics on an unknown format or on a path that fails the relative path
// check; both indicate a caller that skipped validation.
func Plan(template skill.TemplateID, skillName string, format skill.OutputFormat) []skill.ArtifactDescriptor {
	entries, ok := formatArtifacts[format]
	if !ok {
		panic(fmt.Sprintf("planner: unknown output format %q", format))
	}

	label, ok := templateLabels[template]
	if !ok {
		label = string(template)
	}

	root := skill.SkillDir(skillName)
	out := make([]skill.ArtifactDescriptor, len(entries))
	for i, a := range entries {
		p := root + "/" + a.suffix
		if err := pathguard.CheckRelative(p); err != nil {
			panic(fmt.Sprintf("planner: %v", err))
		}
		out[i] = skill.ArtifactDescriptor{
			Path:        p,
			Description: fmt.Sprintf("%s (%s template)", a.description, label),
		}
	}
	return out
}

// Summarize derives the structure summary from an artifact list.
func Summarize(format skill.OutputFormat, artifacts []skill.ArtifactDescriptor) skill.StructureSummary {
	summary := skill.StructureSummary{Format: format, FileCount: len(artifacts)}
	for _, a := range artifacts {
		if strings.Contains(a.Path, "tests/") {
			summary.HasTests = true
		}
		if strings.Contains(a.Path, "docs/") {
			summary.HasDocs = true
		}
		if strings.Contains(a.Path, "examples/") {
			summary.HasExamples = true
		}
	}
	return summary
}

// Compare renders a unified diff between two artifact lists, one path per
// line. It returns an empty string when both lists have the same paths.
func Compare(fromLabel string, from []skill.ArtifactDescriptor, toLabel string, to []skill.ArtifactDescriptor) string {
	return udiff.Unified(fromLabel, toLabel, pathLines(from), pathLines(to))
}

func pathLines(artifacts []skill.ArtifactDescriptor) string {
	var b strings.Builder
	for _, a := range artifacts {
		b.WriteString(a.Path)
		b.WriteByte('\n')
	}
	return b.String()
}
