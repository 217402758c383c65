package skill

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies a request rejection.
type ErrorKind string

const (
	KindMissingField        ErrorKind = "missing_field"
	KindEmptyField          ErrorKind = "empty_field"
	KindFormat              ErrorKind = "format"
	KindUnknownTool         ErrorKind = "unknown_tool"
	KindDuplicateTool       ErrorKind = "duplicate_tool"
	KindInvalidOutputFormat ErrorKind = "invalid_output_format"
	KindUnsafePath          ErrorKind = "unsafe_path"
	KindControlCharacter    ErrorKind = "control_character"

	// KindDangerousCombination is only produced when a policy opts in to
	// blocking dangerous tool combinations.
	KindDangerousCombination ErrorKind = "dangerous_combination"
	// KindDuplicateSkillName is produced when a skill name was already used
	// within the same generation session.
	KindDuplicateSkillName ErrorKind = "duplicate_skill_name"
)

// Error is a request-rejection error. Field names the offending request field
// (possibly index-qualified, e.g. "use_cases[3]"); Values carries the
// offending values where several are reported together.
type Error struct {
	Kind    ErrorKind
	Field   string
	Values  []string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// KindOf returns the kind of a request-rejection error, looking through any
// wrapping.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a request-rejection error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// NewMissingFieldError reports every missing required field in declaration order.
func NewMissingFieldError(fields ...string) *Error {
	return &Error{
		Kind:    KindMissingField,
		Field:   strings.Join(fields, ", "),
		Values:  fields,
		Message: "required field missing",
	}
}

// NewEmptyFieldError reports a required text field that is blank after trimming.
func NewEmptyFieldError(field string) *Error {
	return &Error{Kind: KindEmptyField, Field: field, Message: "must not be empty"}
}

// NewFormatError reports a pattern, type or length violation.
func NewFormatError(field, format string, args ...any) *Error {
	return &Error{Kind: KindFormat, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewUnknownToolError reports every unknown tool identifier together.
func NewUnknownToolError(tools ...string) *Error {
	return &Error{
		Kind:    KindUnknownTool,
		Field:   FieldToolsNeeded,
		Values:  tools,
		Message: "unknown tool(s): " + strings.Join(tools, ", "),
	}
}

// NewDuplicateToolError reports tool identifiers listed more than once.
func NewDuplicateToolError(tools ...string) *Error {
	return &Error{
		Kind:    KindDuplicateTool,
		Field:   FieldToolsNeeded,
		Values:  tools,
		Message: "duplicate tool(s): " + strings.Join(tools, ", "),
	}
}

// NewInvalidOutputFormatError reports an output format outside the known set.
func NewInvalidOutputFormatError(value string) *Error {
	known := make([]string, len(OutputFormats))
	for i, f := range OutputFormats {
		known[i] = string(f)
	}
	return &Error{
		Kind:    KindInvalidOutputFormat,
		Field:   FieldOutputFormat,
		Values:  []string{value},
		Message: fmt.Sprintf("unsupported output format %q (expected one of %s)", value, strings.Join(known, ", ")),
	}
}

// NewUnsafePathError reports an output path rejected by the path guard.
func NewUnsafePathError(path, reason string) *Error {
	return &Error{
		Kind:    KindUnsafePath,
		Field:   "output_dir",
		Values:  []string{path},
		Message: "invalid output path: " + reason,
	}
}

// NewControlCharacterError reports control or obfuscation characters in a field.
func NewControlCharacterError(field string, r rune) *Error {
	return &Error{
		Kind:    KindControlCharacter,
		Field:   field,
		Values:  []string{fmt.Sprintf("U+%04X", r)},
		Message: fmt.Sprintf("contains disallowed character U+%04X", r),
	}
}

// NewDangerousCombinationError reports a blocked tool combination.
func NewDangerousCombinationError(c DangerousCombination) *Error {
	names := make([]string, len(c.Tools))
	for i, t := range c.Tools {
		names[i] = string(t)
	}
	return &Error{
		Kind:    KindDangerousCombination,
		Field:   FieldToolsNeeded,
		Values:  names,
		Message: fmt.Sprintf("dangerous tool combination %s: %s", strings.Join(names, " + "), c.Reason),
	}
}

// NewDuplicateSkillNameError reports a skill name already used in the session.
func NewDuplicateSkillNameError(name string) *Error {
	return &Error{
		Kind:    KindDuplicateSkillName,
		Field:   FieldSkillName,
		Values:  []string{name},
		Message: fmt.Sprintf("skill %q already exists in this generation session", name),
	}
}
