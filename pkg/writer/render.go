package writer

import (
	"bytes"
	"embed"
	"encoding/json"
	"path"
	"strings"
	"text/template"
	"unicode"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var stubTemplates = template.Must(template.New("stubs").Funcs(template.FuncMap{
	"comment":  commentText,
	"jsString": jsString,
}).ParseFS(templateFS, "templates/*.tmpl"))

// textTemplates maps an artifact file name to its embedded template.
var textTemplates = map[string]string{
	"implementation.js":    "implementation.js.tmpl",
	"basic.test.js":        "basic.test.js.tmpl",
	"integration.test.js":  "integration.test.js.tmpl",
	"basic-example.md":     "basic-example.md.tmpl",
	"advanced-usage.md":    "advanced-usage.md.tmpl",
	"README.md":            "README.md.tmpl",
	"API-reference.md":     "API-reference.md.tmpl",
	"development-guide.md": "development-guide.md.tmpl",
	".gitignore":           "gitignore.tmpl",
}

type stubData struct {
	Name            string
	ClassName       string
	Description     string
	PrimaryFunction string
	Type            skill.Type
	Template        skill.TemplateID
	UseCases        []string
	Tools           []skill.ToolID
	Permissions     []string
	RiskTier        skill.RiskTier
}

func newStubData(m *skill.Manifest) stubData {
	def := m.SkillDefinition
	return stubData{
		Name:            def.Name,
		ClassName:       className(def.Name),
		Description:     def.Description,
		PrimaryFunction: def.PrimaryFunction,
		Type:            def.Type,
		Template:        def.Template,
		UseCases:        def.UseCases,
		Tools:           m.Tools.Requested,
		Permissions:     m.Tools.Permissions.Strings(),
		RiskTier:        m.Tools.RiskTier,
	}
}

// commentText makes s safe inside a /* */ block comment.
func commentText(s string) string {
	s = strings.ReplaceAll(s, "*/", `*\/`)
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) (string, error) {
	out, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// className turns a skill name such as "data-report" into "DataReportSkill".
func className(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "-") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	out := b.String()
	if out == "" || unicode.IsDigit([]rune(out)[0]) {
		out = "Generated" + out
	}
	return out + "Skill"
}

// Render returns the stub content of one artifact.
func Render(m *skill.Manifest, a skill.ArtifactDescriptor) ([]byte, error) {
	base := path.Base(a.Path)
	data := newStubData(m)

	if name, ok := textTemplates[base]; ok {
		var buf bytes.Buffer
		if err := stubTemplates.ExecuteTemplate(&buf, name, data); err != nil {
			return nil, errors.Wrapf(err, "failed to render %s", a.Path)
		}
		return buf.Bytes(), nil
	}

	var doc any
	switch base {
	case "skill.json":
		doc = skill.NewDefinitionFile(m)
	case "tools.json":
		doc = map[string]any{
			"tools":           m.Tools.Requested,
			"permissions":     m.Tools.Permissions,
			"risk_tier":       m.Tools.RiskTier,
			"advisories":      m.Tools.Advisories,
			"catalog_version": m.CatalogVersion,
		}
	case "main-template.json":
		doc = map[string]any{
			"template":    m.SkillDefinition.Template,
			"name":        "{{skill_name}}",
			"description": "{{description}}",
			"sections":    []string{"overview", "instructions", "examples"},
		}
	case "variables-config.json":
		doc = map[string]any{
			"variables": map[string]string{
				"skill_name":       m.SkillDefinition.Name,
				"description":      m.SkillDefinition.Description,
				"primary_function": m.SkillDefinition.PrimaryFunction,
			},
		}
	case "package.json":
		doc = map[string]any{
			"name":        m.SkillDefinition.Name,
			"version":     "0.1.0",
			"description": m.SkillDefinition.Description,
			"main":        "implementation.js",
			"scripts":     map[string]string{"test": "jest"},
			"devDependencies": map[string]string{
				"jest": "^29.0.0",
			},
		}
	default:
		return nil, errors.Errorf("no stub content for %s", a.Path)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", a.Path)
	}
	return append(out, '\n'), nil
}
