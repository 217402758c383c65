// Package presenter provides consistent CLI output functionality for user-facing messages,
// including success, error, warning, and informational output with color support and quiet mode.
package presenter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// Presenter defines the interface for consistent CLI output
type Presenter interface {
	Error(err error, context string)
	Success(message string)
	Warning(message string)
	Info(message string)
	Section(title string)
	Prompt(question string, options ...string) string
	Confirm(question string) bool
	Manifest(m *skill.Manifest)
	Advisories(a skill.Advisories)
	Table(headers []string, rows [][]string)
	Separator()
	SetQuiet(quiet bool)
	IsQuiet() bool
}

// TerminalPresenter implements Presenter for terminal output
type TerminalPresenter struct {
	input       io.Reader
	output      io.Writer
	errorOutput io.Writer
	colorMode   ColorMode
	quiet       bool
}

// ColorMode represents different color output modes
type ColorMode int

const (
	// ColorAuto automatically detects whether to use colored output based on terminal capabilities
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output regardless of terminal capabilities
	ColorAlways
	// ColorNever disables colored output regardless of terminal capabilities
	ColorNever
)

// New creates a new TerminalPresenter with default settings
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a TerminalPresenter with custom settings
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	presenter := &TerminalPresenter{
		input:       os.Stdin,
		output:      output,
		errorOutput: errorOutput,
		colorMode:   colorMode,
		quiet:       false,
	}

	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	case ColorAuto:
	}

	return presenter
}

// SetInput replaces the reader used by Prompt and Confirm.
func (p *TerminalPresenter) SetInput(r io.Reader) {
	p.input = r
}

// detectColorMode determines the appropriate color mode based on environment
func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}

	switch os.Getenv("SKILLGEN_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Error displays an error message to stderr. Validation errors are shown
// with their kind so scripts can grep for it.
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}

	errorColor := color.New(color.FgRed, color.Bold)
	label := "ERROR"
	if kind, ok := skill.KindOf(err); ok {
		label = "ERROR " + string(kind)
	}
	if context != "" {
		errorColor.Fprintf(p.errorOutput, "[%s] %s: %v\n", label, context, err)
	} else {
		errorColor.Fprintf(p.errorOutput, "[%s] %v\n", label, err)
	}
}

// Success displays a success message
func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}

	successColor := color.New(color.FgGreen, color.Bold)
	successColor.Fprintf(p.output, "✓ %s\n", message)
}

// Warning displays a warning message
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}

	warningColor := color.New(color.FgYellow, color.Bold)
	warningColor.Fprintf(p.output, "⚠ %s\n", message)
}

// Info displays an informational message
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}

	fmt.Fprintf(p.output, "%s\n", message)
}

// Section displays a section header with consistent formatting
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}

	headerColor := color.New(color.Bold)
	separator := strings.Repeat("-", len(title))

	headerColor.Fprintf(p.output, "%s\n", title)
	headerColor.Fprintf(p.output, "%s\n", separator)
}

// Prompt displays a prompt and reads user input
func (p *TerminalPresenter) Prompt(question string, options ...string) string {
	promptColor := color.New(color.FgCyan)

	if len(options) > 0 {
		optionsStr := strings.Join(options, "/")
		promptColor.Fprintf(p.output, "%s [%s]: ", question, optionsStr)
	} else {
		promptColor.Fprintf(p.output, "%s: ", question)
	}

	reader := bufio.NewReader(p.input)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return ""
	}

	return strings.TrimSpace(response)
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *TerminalPresenter) Confirm(question string) bool {
	switch strings.ToLower(p.Prompt(question, "y", "N")) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Manifest displays a human readable summary of a generation manifest
func (p *TerminalPresenter) Manifest(m *skill.Manifest) {
	if p.quiet || m == nil {
		return
	}

	def := m.SkillDefinition
	p.Section(fmt.Sprintf("Skill %s", def.Name))
	p.Table(nil, [][]string{
		{"Type", string(def.Type)},
		{"Template", string(def.Template)},
		{"Format", string(m.StructureSummary.Format)},
		{"Output", m.OutputDir},
		{"Tools", joinTools(m.Tools.Requested)},
		{"Permissions", strings.Join(m.Tools.Permissions.Strings(), ", ")},
		{"Risk tier", string(m.Tools.RiskTier)},
	})
	if len(m.Tools.Suggested) > 0 {
		p.Info(fmt.Sprintf("Suggested tools: %s", joinTools(m.Tools.Suggested)))
	}

	fmt.Fprintln(p.output)
	p.Section(fmt.Sprintf("Artifacts (%d)", m.StructureSummary.FileCount))
	rows := make([][]string, len(m.Artifacts))
	for i, a := range m.Artifacts {
		rows[i] = []string{a.Path, a.Description}
	}
	p.Table(nil, rows)

	p.Advisories(m.Tools.Advisories)
}

// Advisories displays permission advisories as warnings
func (p *TerminalPresenter) Advisories(a skill.Advisories) {
	for _, c := range a.DangerousCombinations {
		p.Warning(fmt.Sprintf("dangerous combination %s: %s", joinTools(c.Tools), c.Reason))
	}
	if a.Escalation != nil {
		if len(a.Escalation.Dangerous) > 0 {
			p.Warning(fmt.Sprintf("dangerous tools beyond baseline: %s", joinTools(a.Escalation.Dangerous)))
		}
		if len(a.Escalation.Sensitive) > 0 {
			p.Warning(fmt.Sprintf("sensitive tools beyond baseline: %s", joinTools(a.Escalation.Sensitive)))
		}
	}
}

// Table displays rows in aligned columns. Headers are optional.
func (p *TerminalPresenter) Table(headers []string, rows [][]string) {
	if p.quiet {
		return
	}

	tw := tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	if len(headers) > 0 {
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// Separator displays a visual separator
func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}

	separatorColor := color.New(color.Faint)
	separatorColor.Fprintf(p.output, "%s\n", strings.Repeat("-", 60))
}

// SetQuiet enables or disables quiet mode
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet returns whether quiet mode is enabled
func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

func joinTools(tools []skill.ToolID) string {
	if len(tools) == 0 {
		return "none"
	}
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = string(t)
	}
	return strings.Join(out, ", ")
}

// Global presenter instance for convenience
var defaultPresenter = New()

// Error displays an error message using the default presenter instance.
func Error(err error, context string) {
	defaultPresenter.Error(err, context)
}

// Success displays a success message using the default presenter instance.
func Success(message string) {
	defaultPresenter.Success(message)
}

// Warning displays a warning message using the default presenter instance.
func Warning(message string) {
	defaultPresenter.Warning(message)
}

// Info displays an informational message using the default presenter instance.
func Info(message string) {
	defaultPresenter.Info(message)
}

// Section displays a section header using the default presenter instance.
func Section(title string) {
	defaultPresenter.Section(title)
}

// Prompt displays a prompt and reads user input using the default presenter instance.
func Prompt(question string, options ...string) string {
	return defaultPresenter.Prompt(question, options...)
}

// Confirm asks a yes/no question using the default presenter instance.
func Confirm(question string) bool {
	return defaultPresenter.Confirm(question)
}

// Manifest displays a manifest summary using the default presenter instance.
func Manifest(m *skill.Manifest) {
	defaultPresenter.Manifest(m)
}

// Advisories displays permission advisories using the default presenter instance.
func Advisories(a skill.Advisories) {
	defaultPresenter.Advisories(a)
}

// Table displays aligned rows using the default presenter instance.
func Table(headers []string, rows [][]string) {
	defaultPresenter.Table(headers, rows)
}

// Separator displays a visual separator using the default presenter instance.
func Separator() {
	defaultPresenter.Separator()
}

// SetQuiet enables or disables quiet mode for the default presenter instance.
func SetQuiet(quiet bool) {
	defaultPresenter.SetQuiet(quiet)
}

// IsQuiet returns whether quiet mode is enabled for the default presenter instance.
func IsQuiet() bool {
	return defaultPresenter.IsQuiet()
}
