// Package skills discovers skill packages already present under an output
// root. A skill is either a generated package, identified by its
// skill-definition/skill.json, or a hand-written directory with a SKILL.md
// file whose YAML frontmatter names and describes it.
package skills

import "github.com/jingkaihe/skillgen/pkg/types/skill"

// Source tells where a discovered skill's metadata came from.
type Source string

const (
	SourceDefinition Source = "skill.json"
	SourceMarkdown   Source = "SKILL.md"
)

// Skill is a discovered skill with its metadata.
type Skill struct {
	Name            string             `json:"name" yaml:"name"`
	Description     string             `json:"description" yaml:"description"`
	PrimaryFunction string             `json:"primary_function,omitempty" yaml:"primary_function,omitempty"`
	Type            skill.Type         `json:"type,omitempty" yaml:"type,omitempty"`
	Template        skill.TemplateID   `json:"template,omitempty" yaml:"template,omitempty"`
	Format          skill.OutputFormat `json:"format,omitempty" yaml:"format,omitempty"`
	Tools           []skill.ToolID     `json:"tools,omitempty" yaml:"tools,omitempty"`
	UseCases        []string           `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`
	Directory       string             `json:"directory" yaml:"directory"`
	Source          Source             `json:"source" yaml:"source"`
	// Content is the SKILL.md body without frontmatter.
	Content string `json:"-" yaml:"-"`
}
