package skills

import (
	"bytes"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

const (
	skillFileName     = "SKILL.md"
	definitionPattern = "skills/*/skill-definition/skill.json"
	skillFilePattern  = "skills/*/" + skillFileName
	defaultOutputRoot = "generated-skills"
)

// Discovery finds skills under one or more output roots.
type Discovery struct {
	roots []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithRoots sets the output roots to scan. Earlier roots take precedence
// when the same skill name appears more than once.
func WithRoots(roots ...string) Option {
	return func(d *Discovery) error {
		if len(roots) == 0 {
			return errors.New("at least one output root is required")
		}
		d.roots = roots
		return nil
	}
}

// NewDiscovery creates a new skill discovery instance. Without options it
// scans ./generated-skills.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{roots: []string{defaultOutputRoot}}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// DiscoverSkills finds all skills under the configured roots. A generated
// skill.json takes precedence over a SKILL.md in the same directory.
// Unreadable or malformed skills are skipped.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, root := range d.roots {
		if err := d.discoverFromRoot(root, skills); err != nil {
			return nil, err
		}
	}

	return skills, nil
}

func (d *Discovery) discoverFromRoot(root string, skills map[string]*Skill) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}
	fsys := os.DirFS(root)

	definitions, err := doublestar.Glob(fsys, definitionPattern)
	if err != nil {
		return errors.Wrapf(err, "failed to scan %s", root)
	}
	markdown, err := doublestar.Glob(fsys, skillFilePattern)
	if err != nil {
		return errors.Wrapf(err, "failed to scan %s", root)
	}
	sort.Strings(definitions)
	sort.Strings(markdown)

	claimed := make(map[string]bool)
	for _, rel := range definitions {
		dir := filepath.Join(root, filepath.FromSlash(path.Dir(path.Dir(rel))))
		s, err := LoadDefinition(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		s.Directory = dir
		claimed[dir] = true
		addSkill(skills, s)
	}

	for _, rel := range markdown {
		dir := filepath.Join(root, filepath.FromSlash(path.Dir(rel)))
		if claimed[dir] {
			continue
		}
		s, err := LoadSkillFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		s.Directory = dir
		addSkill(skills, s)
	}
	return nil
}

func addSkill(skills map[string]*Skill, s *Skill) {
	if _, exists := skills[s.Name]; !exists {
		skills[s.Name] = s
	}
}

// GetSkill returns a specific skill by name
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	s, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return s, nil
}

// ListSkillNames returns the sorted names of all discovered skills.
func (d *Discovery) ListSkillNames() ([]string, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}
	return SortedNames(skills), nil
}

// SortedNames returns the keys of skills in lexical order.
func SortedNames(skills map[string]*Skill) []string {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDefinition reads a generated skill-definition/skill.json.
func LoadDefinition(file string) (*Skill, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill definition")
	}

	var def skill.DefinitionFile
	if err := json.Unmarshal(content, &def); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", file)
	}
	if def.Name == "" {
		return nil, errors.Errorf("%s has no skill name", file)
	}

	return &Skill{
		Name:            def.Name,
		Description:     def.Description,
		PrimaryFunction: def.PrimaryFunction,
		Type:            def.Type,
		Template:        def.Template,
		Format:          def.Format,
		Tools:           def.Tools,
		UseCases:        def.UseCases,
		Source:          SourceDefinition,
	}, nil
}

// LoadSkillFile loads a skill from a SKILL.md file. The frontmatter must
// carry a name and a description; primary_function, skill_type, tools and
// use_cases are optional.
func LoadSkillFile(file string) (*Skill, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	primary := firstString(metaData, "primary_function", "primary-function")
	skillType := firstString(metaData, "skill_type", "type")

	var tools []skill.ToolID
	for _, t := range stringList(firstValue(metaData, "tools", "allowed-tools")) {
		tools = append(tools, skill.ToolID(t))
	}

	return &Skill{
		Name:            name,
		Description:     description,
		PrimaryFunction: primary,
		Type:            skill.Type(skillType),
		Tools:           tools,
		UseCases:        stringList(firstValue(metaData, "use_cases", "use-cases")),
		Content:         extractBodyContent(string(content)),
		Source:          SourceMarkdown,
	}, nil
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	s, _ := firstValue(m, keys...).(string)
	return s
}

// stringList accepts a YAML list or a comma separated string.
func stringList(v any) []string {
	var out []string
	switch l := v.(type) {
	case string:
		for _, part := range strings.Split(l, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	case []any:
		for _, item := range l {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	return out
}

// extractBodyContent removes YAML frontmatter and returns the body
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

// Filter keeps the skills whose name matches any of the glob patterns. With
// no patterns every skill is kept.
func Filter(skills map[string]*Skill, patterns ...string) (map[string]*Skill, error) {
	if len(patterns) == 0 {
		return skills, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid skill name pattern %q", p)
		}
	}

	filtered := make(map[string]*Skill)
	for name, s := range skills {
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, name); ok {
				filtered[name] = s
				break
			}
		}
	}
	return filtered, nil
}
