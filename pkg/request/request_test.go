package request

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("req.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("REQ.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("req.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("req.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("req"))
}

func TestParse(t *testing.T) {
	t.Run("single json object", func(t *testing.T) {
		reqs, err := Parse([]byte(`{"skill_name":"demo","tools_needed":["read"],"use_cases":[]}`), FormatJSON)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, "demo", reqs[0][skill.FieldSkillName])
		assert.Equal(t, []any{"read"}, reqs[0][skill.FieldToolsNeeded])
	})

	t.Run("yaml list", func(t *testing.T) {
		reqs, err := Parse([]byte(`
- skill_name: one
  description: first
- skill_name: two
  tools_needed: [read, write]
`), FormatYAML)
		require.NoError(t, err)
		require.Len(t, reqs, 2)
		assert.Equal(t, "two", reqs[1][skill.FieldSkillName])
		assert.Equal(t, []any{"read", "write"}, reqs[1][skill.FieldToolsNeeded])
	})

	t.Run("yaml keeps wrong types for the validator", func(t *testing.T) {
		reqs, err := Parse([]byte("skill_name: 42\ndescription: null\n"), FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, 42, reqs[0][skill.FieldSkillName])
		v, ok := reqs[0][skill.FieldDescription]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	errCases := []struct {
		name   string
		data   string
		format Format
	}{
		{"empty", "  \n", FormatYAML},
		{"invalid json", "{", FormatJSON},
		{"invalid yaml", "a: [", FormatYAML},
		{"scalar", `"just a string"`, FormatJSON},
		{"list of scalars", "[1, 2]", FormatJSON},
		{"empty list", "[]", FormatJSON},
		{"unknown format", "{}", "toml"},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "request.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"skill_name":"demo","description":"d","primary_function":"f"}`), 0o644))

	reqs, err := LoadFile(jsonPath)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "f", reqs[0][skill.FieldPrimaryFunction])

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestMarshalRoundTrip(t *testing.T) {
	raw := skill.RawRequest{
		skill.FieldSkillName:   "demo",
		skill.FieldToolsNeeded: []any{"read"},
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(raw, format)
			require.NoError(t, err)

			reqs, err := Parse(data, format)
			require.NoError(t, err)
			require.Len(t, reqs, 1)
			assert.Equal(t, "demo", reqs[0][skill.FieldSkillName])
			assert.Equal(t, []any{"read"}, reqs[0][skill.FieldToolsNeeded])
		})
	}
}

func TestFromValues(t *testing.T) {
	name := "demo"
	empty := ""
	raw := FromValues(Values{
		SkillName:   &name,
		Description: &empty,
		Tools:       []string{"read", "bash"},
	})

	assert.Equal(t, skill.RawRequest{
		skill.FieldSkillName:   "demo",
		skill.FieldDescription: "",
		skill.FieldToolsNeeded: []any{"read", "bash"},
	}, raw)
}

func TestFromFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	assert.False(t, HasRequestFlags(fs))

	require.NoError(t, fs.Parse([]string{
		"--name", "demo",
		"--function", "review code",
		"--tools", "read,glob",
		"--use-case", "first, with comma",
		"--use-case", "second",
	}))
	assert.True(t, HasRequestFlags(fs))

	raw, err := FromFlags(fs)
	require.NoError(t, err)

	assert.Equal(t, "demo", raw[skill.FieldSkillName])
	assert.Equal(t, "review code", raw[skill.FieldPrimaryFunction])
	assert.Equal(t, []any{"read", "glob"}, raw[skill.FieldToolsNeeded])
	assert.Equal(t, []any{"first, with comma", "second"}, raw[skill.FieldUseCases])

	_, hasDescription := raw[skill.FieldDescription]
	assert.False(t, hasDescription)
	_, hasFormat := raw[skill.FieldOutputFormat]
	assert.False(t, hasFormat)
}

func TestFromSkillFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SKILL.md")
	require.NoError(t, os.WriteFile(path, []byte(`---
name: Report-Builder
description: Builds weekly reports
skill_type: analytics
allowed-tools: read, write
use_cases:
  - weekly summary
---

# Report builder
`), 0o644))

	raw, err := FromSkillFile(path)
	require.NoError(t, err)

	assert.Equal(t, skill.RawRequest{
		skill.FieldSkillName:       "Report-Builder",
		skill.FieldDescription:     "Builds weekly reports",
		skill.FieldPrimaryFunction: "Builds weekly reports",
		skill.FieldSkillType:       "analytics",
		skill.FieldToolsNeeded:     []any{"read", "write"},
		skill.FieldUseCases:        []any{"weekly summary"},
	}, raw)

	_, err = FromSkillFile(filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	s := Schema()
	require.NotNil(t, s)
	assert.Equal(t, "object", s.Type)
	assert.ElementsMatch(t, []string{"skill_name", "description", "primary_function"}, s.Required)

	name, ok := s.Properties.Get("skill_name")
	require.True(t, ok)
	assert.Equal(t, "^[a-z0-9-]+$", name.Pattern)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, uint64(50), *name.MaxLength)

	_, ok = s.Properties.Get("ExplicitType")
	assert.False(t, ok)

	data, err := SchemaJSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Skill request", decoded["title"])
	assert.Equal(t, false, decoded["additionalProperties"])
}
