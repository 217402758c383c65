// Package sanitize normalizes the free-text fields of a raw skill request and
// strips content that could be used for injection before validation runs.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptTagPattern   = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	jsSchemePattern    = regexp.MustCompile(`(?i)javascript\s*:`)

	quoteReplacer = strings.NewReplacer(";", "", "'", "", `"`, "", "`", "")
)

// textFields are the request keys whose string values are sanitized.
var textFields = []string{
	skill.FieldSkillName,
	skill.FieldDescription,
	skill.FieldPrimaryFunction,
}

// IsInvisible reports whether r is a zero-width or bidi-control code point.
func IsInvisible(r rune) bool {
	switch {
	case r >= 0x200B && r <= 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2060 && r <= 0x206F:
		return true
	case r == 0xFEFF:
		return true
	}
	return false
}

// Text applies the free-text rules to a single string: invisible characters
// are removed, script fragments and javascript: prefixes are stripped, quote
// and statement characters are dropped, and whitespace is trimmed and
// collapsed.
func Text(s string) string {
	s = strings.Map(func(r rune) rune {
		if IsInvisible(r) {
			return -1
		}
		return r
	}, s)

	s = scriptBlockPattern.ReplaceAllString(s, "")
	s = scriptTagPattern.ReplaceAllString(s, "")
	s = jsSchemePattern.ReplaceAllString(s, "")
	s = quoteReplacer.Replace(s)

	return strings.Join(strings.Fields(s), " ")
}

// Request returns a sanitized copy of raw. Non-string values are copied
// through untouched so the validator can report them; the input map is never
// modified.
func Request(raw skill.RawRequest) skill.RawRequest {
	out := raw.Clone()

	for _, field := range textFields {
		if s, ok := out[field].(string); ok {
			out[field] = Text(s)
		}
	}

	if name, ok := out[skill.FieldSkillName].(string); ok {
		out[skill.FieldSkillName] = strings.ToLower(name)
	}

	switch cases := out[skill.FieldUseCases].(type) {
	case []any:
		for i, c := range cases {
			if s, ok := c.(string); ok {
				cases[i] = Text(s)
			}
		}
	case []string:
		cleaned := make([]string, len(cases))
		for i, c := range cases {
			cleaned[i] = Text(c)
		}
		out[skill.FieldUseCases] = cleaned
	}

	return out
}
