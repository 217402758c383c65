package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		skillType skill.Type
		function  string
		expected  skill.TemplateID
	}{
		{"coordinator type", skill.TypeCoordinator, "anything", skill.TemplateCoordinator},
		{"specialist type", skill.TypeSpecialist, "anything", skill.TemplateSpecialist},
		{"tool-integration type", skill.TypeToolIntegration, "anything", skill.TemplateIntegration},
		{"learning-analytics type", skill.TypeLearningAnalytics, "anything", skill.TemplateAnalytics},
		{"analytics type", skill.TypeAnalytics, "anything", skill.TemplateAnalytics},
		{"type beats keywords", skill.TypeCoordinator, "data analysis", skill.TemplateCoordinator},
		{"unknown type falls back to keywords", "mystery", "code review helper", skill.TemplateSpecialist},
		{"analytics keyword", "", "Data Analysis of sales", skill.TemplateAnalytics},
		{"chinese analytics keyword", "", "数据分析工具", skill.TemplateAnalytics},
		{"integration keyword", "", "Integrate with Jira", skill.TemplateIntegration},
		{"chinese integration keyword", "", "系统集成", skill.TemplateIntegration},
		{"review keyword", "", "Lint the repository", skill.TemplateSpecialist},
		{"chinese review keyword", "", "代码审查", skill.TemplateSpecialist},
		{"workflow keyword", "", "Orchestrate deployments", skill.TemplateCoordinator},
		{"chinese workflow keyword", "", "管理工作流", skill.TemplateCoordinator},
		{"first rule in declared order wins", "", "review the workflow and analyze it", skill.TemplateAnalytics},
		{"integration before specialist", "", "review the integration", skill.TemplateIntegration},
		{"no match", "", "say hello", skill.TemplateDefault},
		{"empty", "", "", skill.TemplateDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Select(tt.skillType, tt.function))
		})
	}
}

func TestForRequest_IgnoresDefaultedType(t *testing.T) {
	req := &skill.Request{
		SkillType:       skill.DefaultType,
		PrimaryFunction: "coordinate workflow",
	}
	assert.Equal(t, skill.TemplateCoordinator, ForRequest(req))

	req.ExplicitType = true
	assert.Equal(t, skill.TemplateSpecialist, ForRequest(req))
}

func TestRules_ReturnsCopy(t *testing.T) {
	rules := Rules()
	rules[0].Keywords[0] = "changed"

	assert.Equal(t, "data analysis", Rules()[0].Keywords[0])
	assert.Equal(t, skill.TemplateAnalytics, Rules()[0].Template)
}
