// Package validation is the first hard gate of the generation pipeline. It
// checks a sanitized raw request in a fixed order and is the only place where
// the typed skill.Request is built.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgen/pkg/permissions"
	"github.com/jingkaihe/skillgen/pkg/sanitize"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

const (
	MaxSkillNameLength       = 50
	MaxDescriptionLength     = 1000
	MaxPrimaryFunctionLength = 500
	MaxUseCases              = 10
	MaxUseCaseLength         = 100
)

var skillNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var requiredFields = []string{
	skill.FieldSkillName,
	skill.FieldDescription,
	skill.FieldPrimaryFunction,
}

// Validate runs every request check in order and returns the first failure
// as a *skill.Error. On success the typed request is returned with defaults
// applied.
func Validate(raw skill.RawRequest) (*skill.Request, error) {
	if err := checkPresence(raw); err != nil {
		return nil, err
	}

	name := raw[skill.FieldSkillName].(string)
	description := raw[skill.FieldDescription].(string)
	primary := raw[skill.FieldPrimaryFunction].(string)

	for _, f := range []struct {
		field string
		value string
	}{
		{skill.FieldDescription, description},
		{skill.FieldPrimaryFunction, primary},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, skill.NewEmptyFieldError(f.field)
		}
	}

	if err := ValidateSkillName(name); err != nil {
		return nil, err
	}

	if err := checkLengths(name, description, primary); err != nil {
		return nil, err
	}

	useCases, err := checkUseCases(raw[skill.FieldUseCases])
	if err != nil {
		return nil, err
	}

	if err := CheckControlCharacters(skill.FieldDescription, description); err != nil {
		return nil, err
	}

	var tools []string
	if v, ok := raw[skill.FieldToolsNeeded]; ok && v != nil {
		list, ok := asList(v)
		if !ok {
			return nil, skill.NewFormatError(skill.FieldToolsNeeded, "must be a list of tool names")
		}
		tools, err = stringEntries(skill.FieldToolsNeeded, list)
		if err != nil {
			return nil, err
		}
		if err := ValidateToolList(tools); err != nil {
			return nil, err
		}
	}

	format := skill.DefaultFormat
	if v, ok := raw[skill.FieldOutputFormat]; ok && v != nil {
		s, ok := v.(string)
		if !ok || !skill.OutputFormat(s).IsValid() {
			return nil, skill.NewInvalidOutputFormatError(fmt.Sprint(v))
		}
		format = skill.OutputFormat(s)
	}

	skillType := skill.DefaultType
	explicitType := false
	if v, ok := raw[skill.FieldSkillType]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, skill.NewFormatError(skill.FieldSkillType, "must be a string")
		}
		if s != "" {
			skillType = skill.Type(s)
			explicitType = true
		}
	}

	req, err := decode(map[string]any{
		skill.FieldSkillName:       name,
		skill.FieldDescription:     description,
		skill.FieldPrimaryFunction: primary,
		skill.FieldSkillType:       string(skillType),
		skill.FieldToolsNeeded:     tools,
		skill.FieldUseCases:        useCases,
		skill.FieldOutputFormat:    string(format),
	})
	if err != nil {
		return nil, err
	}
	req.ExplicitType = explicitType
	return req, nil
}

// ValidateSkillName checks the skill name pattern and length.
func ValidateSkillName(name string) error {
	if !skillNamePattern.MatchString(name) {
		return skill.NewFormatError(skill.FieldSkillName,
			"must contain only lower-case letters, digits and hyphens")
	}
	if n := utf8.RuneCountInString(name); n > MaxSkillNameLength {
		return skill.NewFormatError(skill.FieldSkillName, "must be at most %d characters, got %d", MaxSkillNameLength, n)
	}
	return nil
}

// ValidateToolList rejects unknown and duplicated tool identifiers. Unknown
// tools are all reported together in request order and take precedence over
// duplicates. Identifiers are matched exactly.
func ValidateToolList(tools []string) error {
	var unknown []string
	for _, t := range tools {
		if !permissions.IsKnown(skill.ToolID(t)) {
			unknown = append(unknown, t)
		}
	}
	if len(unknown) > 0 {
		return skill.NewUnknownToolError(unknown...)
	}

	seen := make(map[string]bool, len(tools))
	var dups []string
	for _, t := range tools {
		if seen[t] {
			dups = append(dups, t)
			continue
		}
		seen[t] = true
	}
	if len(dups) > 0 {
		return skill.NewDuplicateToolError(dups...)
	}
	return nil
}

// CheckControlCharacters rejects C0 control characters other than tab, line
// feed and carriage return, DEL, and zero-width or bidi-control code points.
func CheckControlCharacters(field, value string) error {
	for _, r := range value {
		if isControl(r) || sanitize.IsInvisible(r) {
			return skill.NewControlCharacterError(field, r)
		}
	}
	return nil
}

func isControl(r rune) bool {
	switch {
	case r <= 0x08, r == 0x0B, r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r == 0x7F:
		return true
	}
	return false
}

func checkPresence(raw skill.RawRequest) error {
	var missing []string
	for _, field := range requiredFields {
		if v, ok := raw[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return skill.NewMissingFieldError(missing...)
	}

	for _, field := range requiredFields {
		if _, ok := raw[field].(string); !ok {
			return skill.NewFormatError(field, "must be a string, got %T", raw[field])
		}
	}
	return nil
}

func checkLengths(name, description, primary string) error {
	for _, f := range []struct {
		field string
		value string
		max   int
	}{
		{skill.FieldSkillName, name, MaxSkillNameLength},
		{skill.FieldDescription, description, MaxDescriptionLength},
		{skill.FieldPrimaryFunction, primary, MaxPrimaryFunctionLength},
	} {
		if n := utf8.RuneCountInString(f.value); n > f.max {
			return skill.NewFormatError(f.field, "must be at most %d characters, got %d", f.max, n)
		}
	}
	return nil
}

func checkUseCases(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := asList(v)
	if !ok {
		return nil, skill.NewFormatError(skill.FieldUseCases, "must be a list of strings")
	}
	if len(list) > MaxUseCases {
		return nil, skill.NewFormatError(skill.FieldUseCases, "must have at most %d entries, got %d", MaxUseCases, len(list))
	}
	cases, err := stringEntries(skill.FieldUseCases, list)
	if err != nil {
		return nil, err
	}
	for i, c := range cases {
		if n := utf8.RuneCountInString(c); n > MaxUseCaseLength {
			return nil, skill.NewFormatError(fmt.Sprintf("%s[%d]", skill.FieldUseCases, i),
				"must be at most %d characters, got %d", MaxUseCaseLength, n)
		}
	}
	return cases, nil
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func stringEntries(field string, list []any) ([]string, error) {
	out := make([]string, len(list))
	for i, entry := range list {
		s, ok := entry.(string)
		if !ok {
			return nil, skill.NewFormatError(fmt.Sprintf("%s[%d]", field, i), "must be a string, got %T", entry)
		}
		out[i] = s
	}
	return out, nil
}

func decode(input map[string]any) (*skill.Request, error) {
	var req skill.Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &req,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request decoder")
	}
	if err := decoder.Decode(input); err != nil {
		return nil, errors.Wrap(err, "failed to decode skill request")
	}
	return &req, nil
}
