package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

func TestNew(t *testing.T) {
	presenter := New()
	assert.NotNil(t, presenter)
	assert.Equal(t, os.Stdout, presenter.output)
	assert.Equal(t, os.Stderr, presenter.errorOutput)
	assert.False(t, presenter.quiet)
}

func TestNewWithOptions(t *testing.T) {
	var output, errorOutput bytes.Buffer
	presenter := NewWithOptions(&output, &errorOutput, ColorNever)

	assert.Equal(t, &output, presenter.output)
	assert.Equal(t, &errorOutput, presenter.errorOutput)
	assert.Equal(t, ColorNever, presenter.colorMode)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		envColor string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"SKILLGEN_COLOR always", "", "always", ColorAlways},
		{"SKILLGEN_COLOR force", "", "force", ColorAlways},
		{"SKILLGEN_COLOR never", "", "never", ColorNever},
		{"SKILLGEN_COLOR off", "", "off", ColorNever},
		{"SKILLGEN_COLOR auto", "", "auto", ColorAuto},
		{"default", "", "", ColorAuto},
		{"invalid color", "", "invalid", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLGEN_COLOR", tt.envColor)
			if tt.noColor == "" {
				os.Unsetenv("NO_COLOR")
			}

			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	var errorOutput bytes.Buffer
	presenter := NewWithOptions(nil, &errorOutput, ColorNever)

	// Test with context
	err := errors.New("test error")
	presenter.Error(err, "test context")

	output := errorOutput.String()
	assert.Contains(t, output, "[ERROR]")
	assert.Contains(t, output, "test context")
	assert.Contains(t, output, "test error")

	// Test without context
	errorOutput.Reset()
	presenter.Error(err, "")

	output = errorOutput.String()
	assert.Contains(t, output, "[ERROR]")
	assert.Contains(t, output, "test error")
	assert.NotContains(t, output, "test context")

	// Test nil error
	errorOutput.Reset()
	presenter.Error(nil, "context")
	assert.Empty(t, errorOutput.String())
}

func TestSuccess(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Success("Operation completed")

	result := output.String()
	assert.Contains(t, result, "✓")
	assert.Contains(t, result, "Operation completed")
}

func TestSuccessQuietMode(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)

	presenter.Success("Operation completed")

	assert.Empty(t, output.String())
}

func TestWarning(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Warning("This is a warning")

	result := output.String()
	assert.Contains(t, result, "⚠")
	assert.Contains(t, result, "This is a warning")
}

func TestWarningQuietMode(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)

	presenter.Warning("This is a warning")

	assert.Empty(t, output.String())
}

func TestInfo(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Info("Information message")

	result := output.String()
	assert.Contains(t, result, "Information message")
	assert.NotContains(t, result, "[INFO]") // Info doesn't have prefix
}

func TestInfoQuietMode(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)

	presenter.Info("Information message")

	assert.Empty(t, output.String())
}

func TestSection(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Section("Test Section")

	result := output.String()
	lines := strings.Split(strings.TrimSpace(result), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "Test Section", lines[0])
	assert.Equal(t, strings.Repeat("-", len("Test Section")), lines[1])
}

func TestSectionQuietMode(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)

	presenter.Section("Test Section")

	assert.Empty(t, output.String())
}

func TestErrorShowsKind(t *testing.T) {
	var errorOutput bytes.Buffer
	presenter := NewWithOptions(nil, &errorOutput, ColorNever)

	presenter.Error(skill.NewUnknownToolError("teleport"), "")

	assert.Contains(t, errorOutput.String(), "[ERROR unknown_tool]")
	assert.Contains(t, errorOutput.String(), "teleport")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var output bytes.Buffer
			presenter := NewWithOptions(&output, nil, ColorNever)
			presenter.SetInput(strings.NewReader(tt.input))

			assert.Equal(t, tt.expected, presenter.Confirm("Proceed?"))
			assert.Contains(t, output.String(), "Proceed? [y/N]: ")
		})
	}
}

func testManifest() *skill.Manifest {
	return &skill.Manifest{
		SkillDefinition: skill.Definition{
			Name:     "demo",
			Type:     skill.TypeSpecialist,
			Template: skill.TemplateSpecialist,
		},
		Tools: skill.Tools{
			Requested:   []skill.ToolID{"bash", "write"},
			Permissions: skill.PermissionSet{"files:write", "system:execute"},
			RiskTier:    skill.RiskHigh,
			Advisories: skill.Advisories{
				DangerousCombinations: []skill.DangerousCombination{
					{Tools: []skill.ToolID{"bash", "write"}, Reason: "can write and execute scripts"},
				},
				Escalation: &skill.Escalation{Dangerous: []skill.ToolID{"bash"}},
			},
		},
		Artifacts: []skill.ArtifactDescriptor{
			{Path: "skills/demo/skill-definition/skill.json", Description: "Skill definition (specialist template)"},
		},
		StructureSummary: skill.StructureSummary{Format: skill.FormatMinimal, FileCount: 1},
		OutputDir:        "out",
	}
}

func TestManifest(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Manifest(testManifest())

	result := output.String()
	assert.Contains(t, result, "Skill demo")
	assert.Contains(t, result, "specialist-template")
	assert.Contains(t, result, "bash, write")
	assert.Contains(t, result, "files:write, system:execute")
	assert.Contains(t, result, "Artifacts (1)")
	assert.Contains(t, result, "skills/demo/skill-definition/skill.json")
	assert.Contains(t, result, "dangerous combination bash, write: can write and execute scripts")
	assert.Contains(t, result, "dangerous tools beyond baseline: bash")
	assert.NotContains(t, result, "sensitive tools")
}

func TestManifestQuietAndNil(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Manifest(nil)
	assert.Empty(t, output.String())

	presenter.SetQuiet(true)
	presenter.Manifest(testManifest())
	assert.Empty(t, output.String())
}

func TestTable(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Table([]string{"TOOL", "RISK"}, [][]string{
		{"read", "low"},
		{"webfetch", "medium"},
	})

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "TOOL      RISK", lines[0])
	assert.Equal(t, "read      low", lines[1])
	assert.Equal(t, "webfetch  medium", lines[2])
}

func TestSeparator(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Separator()

	result := output.String()
	assert.Contains(t, result, strings.Repeat("-", 60))
}

func TestSeparatorQuietMode(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)

	presenter.Separator()

	assert.Empty(t, output.String())
}

func TestQuietMode(t *testing.T) {
	presenter := New()

	assert.False(t, presenter.IsQuiet())

	presenter.SetQuiet(true)
	assert.True(t, presenter.IsQuiet())

	presenter.SetQuiet(false)
	assert.False(t, presenter.IsQuiet())
}

func TestColorModeConfiguration(t *testing.T) {
	// Test ColorNever disables colors
	presenter := NewWithOptions(&bytes.Buffer{}, &bytes.Buffer{}, ColorNever)
	assert.Equal(t, ColorNever, presenter.colorMode)

	// Test ColorAlways enables colors
	oldNoColor := color.NoColor
	presenter = NewWithOptions(&bytes.Buffer{}, &bytes.Buffer{}, ColorAlways)
	assert.Equal(t, ColorAlways, presenter.colorMode)

	// Restore original color setting
	color.NoColor = oldNoColor
}

func TestGlobalFunctions(t *testing.T) {
	// Save original global presenter
	originalPresenter := defaultPresenter
	
	// Create a presenter with captured output
	var output, errorOutput bytes.Buffer
	testPresenter := NewWithOptions(&output, &errorOutput, ColorNever)
	defaultPresenter = testPresenter
	
	// Restore original presenter after test
	defer func() {
		defaultPresenter = originalPresenter
	}()
	
	// Test Error function
	output.Reset()
	errorOutput.Reset()
	Error(errors.New("test error"), "error context")
	assert.Contains(t, errorOutput.String(), "[ERROR]")
	assert.Contains(t, errorOutput.String(), "error context")
	assert.Contains(t, errorOutput.String(), "test error")
	
	// Test Success function
	output.Reset()
	Success("success message")
	assert.Contains(t, output.String(), "✓")
	assert.Contains(t, output.String(), "success message")
	
	// Test Warning function
	output.Reset()
	Warning("warning message")
	assert.Contains(t, output.String(), "⚠")
	assert.Contains(t, output.String(), "warning message")
	
	// Test Info function
	output.Reset()
	Info("info message")
	assert.Contains(t, output.String(), "info message")
	
	// Test Section function
	output.Reset()
	Section("Test Section")
	assert.Contains(t, output.String(), "Test Section")
	assert.Contains(t, output.String(), "----------")
	
	// Test Table function
	output.Reset()
	Table(nil, [][]string{{"a", "b"}})
	assert.Contains(t, output.String(), "a  b")
	
	// Test Separator function
	output.Reset()
	Separator()
	assert.Contains(t, output.String(), "----")
	
	// Test quiet mode functions
	SetQuiet(true)
	assert.True(t, IsQuiet())
	
	// Verify quiet mode works
	output.Reset()
	Info("should not appear")
	assert.Empty(t, output.String())
	
	SetQuiet(false)
	assert.False(t, IsQuiet())
}
