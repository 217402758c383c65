// Package templates selects the template family for a skill request.
package templates

import (
	"strings"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

var typeTemplates = map[skill.Type]skill.TemplateID{
	skill.TypeCoordinator:       skill.TemplateCoordinator,
	skill.TypeSpecialist:        skill.TemplateSpecialist,
	skill.TypeToolIntegration:   skill.TemplateIntegration,
	skill.TypeLearningAnalytics: skill.TemplateAnalytics,
	skill.TypeAnalytics:         skill.TemplateAnalytics,
}

// KeywordRule maps primary-function keywords to a template family.
type KeywordRule struct {
	Template skill.TemplateID
	Keywords []string
}

// keywordRules is evaluated in order; the first rule with a matching keyword wins.
var keywordRules = []KeywordRule{
	{skill.TemplateAnalytics, []string{"data analysis", "analytics", "analyze", "analysis", "数据分析"}},
	{skill.TemplateIntegration, []string{"integration", "integrate", "系统集成"}},
	{skill.TemplateSpecialist, []string{"code review", "review", "lint", "代码审查"}},
	{skill.TemplateCoordinator, []string{"workflow", "orchestrat", "coordinat", "工作流"}},
}

// Select returns the template family for a request. A skill type that maps
// to a family is authoritative; otherwise the primary function is matched
// case-insensitively against the keyword table, falling back to the default
// template.
func Select(skillType skill.Type, primaryFunction string) skill.TemplateID {
	if id, ok := typeTemplates[skillType]; ok {
		return id
	}

	fn := strings.ToLower(primaryFunction)
	for _, rule := range keywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(fn, kw) {
				return rule.Template
			}
		}
	}
	return skill.TemplateDefault
}

// ForRequest selects a template for a validated request. The defaulted skill
// type is not used for selection.
func ForRequest(req *skill.Request) skill.TemplateID {
	var t skill.Type
	if req.ExplicitType {
		t = req.SkillType
	}
	return Select(t, req.PrimaryFunction)
}

// Rules returns a copy of the keyword table in evaluation order.
func Rules() []KeywordRule {
	out := make([]KeywordRule, len(keywordRules))
	for i, r := range keywordRules {
		out[i] = KeywordRule{Template: r.Template, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}
