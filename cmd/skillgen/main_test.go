package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillgen/pkg/generator"
	"github.com/jingkaihe/skillgen/pkg/request"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
	"github.com/jingkaihe/skillgen/pkg/version"
)

func newRequestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	request.RegisterFlags(cmd.Flags())
	addOutputFlag(cmd)
	return cmd
}

func TestGetOutputFlag(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
		wantErr  bool
	}{
		{nil, outputTable, false},
		{[]string{"-o", "json"}, outputJSON, false},
		{[]string{"--output", "yaml"}, outputYAML, false},
		{[]string{"-o", "xml"}, "", true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd := newRequestCommand()
			require.NoError(t, cmd.ParseFlags(tt.args))

			output, err := getOutputFlag(cmd)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "--help")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output)
		})
	}
}

func TestEncode(t *testing.T) {
	v := map[string]any{"name": "demo", "tools": []string{"read"}}

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, outputJSON, v))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "demo", decoded["name"])

	buf.Reset()
	require.NoError(t, encode(&buf, outputYAML, v))
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{"read"}, decoded["tools"])

	assert.Error(t, encode(&buf, outputTable, v))
}

func TestLoadRequests(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "requests.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
- skill_name: one
  description: first
  primary_function: do one
- skill_name: two
  description: second
  primary_function: do two
`), 0o644))

	t.Run("files", func(t *testing.T) {
		cmd := newRequestCommand()
		raws, err := loadRequests(cmd, []string{file})
		require.NoError(t, err)
		require.Len(t, raws, 2)
		assert.Equal(t, "two", raws[1][skill.FieldSkillName])
	})

	t.Run("stdin", func(t *testing.T) {
		cmd := newRequestCommand()
		cmd.SetIn(strings.NewReader(`{"skill_name": "piped", "description": "d", "primary_function": "f"}`))
		raws, err := loadRequests(cmd, []string{"-"})
		require.NoError(t, err)
		require.Len(t, raws, 1)
		assert.Equal(t, "piped", raws[0][skill.FieldSkillName])
	})

	t.Run("flags", func(t *testing.T) {
		cmd := newRequestCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--name", "flagged", "--tools", "read,write"}))
		raws, err := loadRequests(cmd, nil)
		require.NoError(t, err)
		require.Len(t, raws, 1)
		assert.Equal(t, "flagged", raws[0][skill.FieldSkillName])
		assert.Equal(t, []any{"read", "write"}, raws[0][skill.FieldToolsNeeded])
	})

	t.Run("flags and files", func(t *testing.T) {
		cmd := newRequestCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--name", "flagged"}))
		_, err := loadRequests(cmd, []string{file})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be combined")
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := loadRequests(newRequestCommand(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadRequests(newRequestCommand(), []string{filepath.Join(dir, "missing.yaml")})
		assert.Error(t, err)
	})
}

func validRaw(name string) skill.RawRequest {
	return skill.RawRequest{
		skill.FieldSkillName:       name,
		skill.FieldDescription:     "A demo skill",
		skill.FieldPrimaryFunction: "code review",
		skill.FieldOutputFormat:    "minimal",
	}
}

func TestGenerateAll(t *testing.T) {
	ctx := context.Background()

	t.Run("single request keeps the error unwrapped", func(t *testing.T) {
		manifests, failures := generateAll(ctx, generator.New(), []skill.RawRequest{{}}, "out")
		assert.Empty(t, manifests)
		require.Len(t, failures, 1)
		assert.True(t, skill.IsKind(failures[0], skill.KindMissingField))
		assert.NotContains(t, failures[0].Error(), "request 0")
	})

	t.Run("batch splits successes and failures", func(t *testing.T) {
		raws := []skill.RawRequest{validRaw("one"), validRaw("one"), validRaw("two")}
		manifests, failures := generateAll(ctx, generator.New(), raws, "out")

		require.Len(t, manifests, 2)
		assert.Equal(t, "one", manifests[0].SkillDefinition.Name)
		assert.Equal(t, "two", manifests[1].SkillDefinition.Name)
		require.Len(t, failures, 1)
		assert.True(t, skill.IsKind(failures[0], skill.KindDuplicateSkillName))
	})
}

func TestShowManifests(t *testing.T) {
	m, err := generator.New().Generate(context.Background(), validRaw("demo"), "out")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, showManifests(&buf, outputJSON, []*skill.Manifest{m}))
	var single map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &single))
	assert.Contains(t, single, "skill_definition")

	buf.Reset()
	require.NoError(t, showManifests(&buf, outputJSON, []*skill.Manifest{m, m}))
	var list []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestPlanConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  PlanConfig
		wantErr skill.ErrorKind
	}{
		{"valid", PlanConfig{Name: "demo", Format: "minimal"}, ""},
		{"valid compare", PlanConfig{Name: "demo", Format: "minimal", Compare: "full-package"}, ""},
		{"bad name", PlanConfig{Name: "../demo", Format: "minimal"}, skill.KindFormat},
		{"bad format", PlanConfig{Name: "demo", Format: "huge"}, skill.KindInvalidOutputFormat},
		{"bad compare", PlanConfig{Name: "demo", Format: "minimal", Compare: "huge"}, skill.KindInvalidOutputFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, skill.IsKind(err, tt.wantErr), "unexpected error: %v", err)
		})
	}
}

func TestGetGenerateConfigFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "generate"}
	addOutputFlag(cmd)
	defaults := NewGenerateConfig()
	cmd.Flags().BoolP("write", "w", defaults.Write, "")
	cmd.Flags().BoolP("yes", "y", defaults.Yes, "")
	cmd.Flags().Bool("audit", defaults.Audit, "")

	config, err := getGenerateConfigFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, defaults, config)

	require.NoError(t, cmd.ParseFlags([]string{"-w", "-y", "--audit", "-o", "yaml"}))
	config, err = getGenerateConfigFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, &GenerateConfig{Output: outputYAML, Write: true, Yes: true, Audit: true}, config)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, NewValidateConfig().Validate())
	assert.Error(t, (&ValidateConfig{DebounceTime: -1}).Validate())
}

func TestDebounceFileEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan FileEvent)
	output := make(chan FileEvent, 10)
	go debounceFileEvents(ctx, input, output, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		input <- FileEvent{Path: "a.yaml", Time: time.Now()}
	}
	input <- FileEvent{Path: "b.yaml", Time: time.Now()}

	received := map[string]int{}
	timeout := time.After(2 * time.Second)
	for len(received) < 2 {
		select {
		case event := <-output:
			received[event.Path]++
		case <-timeout:
			t.Fatalf("timed out waiting for debounced events, got %v", received)
		}
	}

	time.Sleep(100 * time.Millisecond)
	select {
	case event := <-output:
		received[event.Path]++
	default:
	}
	assert.Equal(t, map[string]int{"a.yaml": 1, "b.yaml": 1}, received)
}

func TestDebounceFileEventsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	input := make(chan FileEvent)
	output := make(chan FileEvent)
	done := make(chan struct{})

	go func() {
		debounceFileEvents(ctx, input, output, time.Hour)
		close(done)
	}()

	input <- FileEvent{Path: "a.yaml"}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debouncer did not stop after cancellation")
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"generate", "validate", "plan", "tools", "list", "import", "schema", "version"} {
		assert.True(t, names[name], "missing command %s", name)
	}
}

func TestRootVersion(t *testing.T) {
	assert.Equal(t, version.Get().Short(), rootCmd.Version)
	assert.True(t, strings.HasPrefix(rootCmd.Version, version.Version+" ("))
}
