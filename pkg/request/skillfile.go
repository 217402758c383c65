package request

import (
	"github.com/jingkaihe/skillgen/pkg/skills"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// FromSkillFile turns the frontmatter of a SKILL.md file into a raw request.
// When no primary function is given the description stands in for it.
func FromSkillFile(path string) (skill.RawRequest, error) {
	s, err := skills.LoadSkillFile(path)
	if err != nil {
		return nil, err
	}
	return FromSkill(s), nil
}

// FromSkill builds a raw request from a discovered skill.
func FromSkill(s *skills.Skill) skill.RawRequest {
	primary := s.PrimaryFunction
	if primary == "" {
		primary = s.Description
	}

	raw := skill.RawRequest{
		skill.FieldSkillName:       s.Name,
		skill.FieldDescription:     s.Description,
		skill.FieldPrimaryFunction: primary,
	}
	if s.Type != "" {
		raw[skill.FieldSkillType] = string(s.Type)
	}
	if s.Format != "" {
		raw[skill.FieldOutputFormat] = string(s.Format)
	}
	if len(s.Tools) > 0 {
		tools := make([]any, len(s.Tools))
		for i, t := range s.Tools {
			tools[i] = string(t)
		}
		raw[skill.FieldToolsNeeded] = tools
	}
	if len(s.UseCases) > 0 {
		raw[skill.FieldUseCases] = toAnySlice(s.UseCases)
	}
	return raw
}
