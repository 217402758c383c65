package request

import (
	"github.com/spf13/pflag"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// Flag names shared by the commands that accept a request on the command line.
const (
	FlagName            = "name"
	FlagDescription     = "description"
	FlagPrimaryFunction = "function"
	FlagType            = "type"
	FlagTools           = "tools"
	FlagUseCases        = "use-case"
	FlagOutputFormat    = "format"
)

// Values holds request fields given on the command line. A nil pointer or a
// nil slice means the field was not given at all.
type Values struct {
	SkillName       *string
	Description     *string
	PrimaryFunction *string
	SkillType       *string
	OutputFormat    *string
	Tools           []string
	UseCases        []string
}

// FromValues builds a raw request containing only the given fields.
func FromValues(v Values) skill.RawRequest {
	raw := skill.RawRequest{}
	set := func(key string, s *string) {
		if s != nil {
			raw[key] = *s
		}
	}
	set(skill.FieldSkillName, v.SkillName)
	set(skill.FieldDescription, v.Description)
	set(skill.FieldPrimaryFunction, v.PrimaryFunction)
	set(skill.FieldSkillType, v.SkillType)
	set(skill.FieldOutputFormat, v.OutputFormat)

	if v.Tools != nil {
		raw[skill.FieldToolsNeeded] = toAnySlice(v.Tools)
	}
	if v.UseCases != nil {
		raw[skill.FieldUseCases] = toAnySlice(v.UseCases)
	}
	return raw
}

// RegisterFlags adds the request flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagName, "", "Skill name (lower-case letters, digits and hyphens)")
	fs.String(FlagDescription, "", "What the skill does")
	fs.String(FlagPrimaryFunction, "", "The main job of the skill")
	fs.String(FlagType, "", "Skill type: coordinator, specialist, tool-integration, learning-analytics or analytics")
	fs.StringSlice(FlagTools, nil, "Tools the skill needs (comma separated)")
	fs.StringArray(FlagUseCases, nil, "Example use case (repeatable)")
	fs.String(FlagOutputFormat, "", "Output format: full-package, minimal or template-only")
}

// HasRequestFlags reports whether any request flag was set.
func HasRequestFlags(fs *pflag.FlagSet) bool {
	for _, name := range []string{FlagName, FlagDescription, FlagPrimaryFunction, FlagType, FlagTools, FlagUseCases, FlagOutputFormat} {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// FromFlags builds a raw request from the flags registered by RegisterFlags.
// Only flags that were explicitly set are included, so an unset flag is
// reported as a missing field rather than an empty one.
func FromFlags(fs *pflag.FlagSet) (skill.RawRequest, error) {
	var v Values
	for _, f := range []struct {
		name   string
		target **string
	}{
		{FlagName, &v.SkillName},
		{FlagDescription, &v.Description},
		{FlagPrimaryFunction, &v.PrimaryFunction},
		{FlagType, &v.SkillType},
		{FlagOutputFormat, &v.OutputFormat},
	} {
		if !fs.Changed(f.name) {
			continue
		}
		s, err := fs.GetString(f.name)
		if err != nil {
			return nil, err
		}
		*f.target = &s
	}

	if fs.Changed(FlagTools) {
		tools, err := fs.GetStringSlice(FlagTools)
		if err != nil {
			return nil, err
		}
		v.Tools = append([]string{}, tools...)
	}
	if fs.Changed(FlagUseCases) {
		cases, err := fs.GetStringArray(FlagUseCases)
		if err != nil {
			return nil, err
		}
		v.UseCases = append([]string{}, cases...)
	}

	return FromValues(v), nil
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
