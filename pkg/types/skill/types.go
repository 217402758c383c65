// Package skill defines the shared data model of the skill generation
// pipeline: the typed request, tool and permission identifiers, artifact
// descriptors and the generation manifest handed to the filesystem writer.
package skill

import (
	"path/filepath"
)

// Request field names as they appear in raw (JSON / YAML / flag) requests.
const (
	FieldSkillName       = "skill_name"
	FieldDescription     = "description"
	FieldPrimaryFunction = "primary_function"
	FieldSkillType       = "skill_type"
	FieldToolsNeeded     = "tools_needed"
	FieldUseCases        = "use_cases"
	FieldOutputFormat    = "output_format"
)

// RawRequest is the loosely typed request as decoded from JSON, YAML or CLI
// flags. Everything up to and including validation operates on this shape.
type RawRequest map[string]any

// Clone returns a shallow copy of the request. List values are copied so the
// clone can be modified without touching the original.
func (r RawRequest) Clone() RawRequest {
	out := make(RawRequest, len(r))
	for k, v := range r {
		if list, ok := v.([]any); ok {
			cp := make([]any, len(list))
			copy(cp, list)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// Type is the declared category of a skill.
type Type string

const (
	TypeCoordinator       Type = "coordinator"
	TypeSpecialist        Type = "specialist"
	TypeToolIntegration   Type = "tool-integration"
	TypeLearningAnalytics Type = "learning-analytics"
	TypeAnalytics         Type = "analytics"
)

// DefaultType is recorded in the skill definition when no type is requested.
const DefaultType = TypeSpecialist

// OutputFormat controls the breadth of the generated artifact set.
type OutputFormat string

const (
	FormatFullPackage  OutputFormat = "full-package"
	FormatMinimal      OutputFormat = "minimal"
	FormatTemplateOnly OutputFormat = "template-only"
)

// DefaultFormat is used when a request does not name an output format.
const DefaultFormat = FormatFullPackage

// OutputFormats lists the accepted formats in display order.
var OutputFormats = []OutputFormat{FormatFullPackage, FormatMinimal, FormatTemplateOnly}

// IsValid reports whether f is one of the known output formats.
func (f OutputFormat) IsValid() bool {
	for _, known := range OutputFormats {
		if f == known {
			return true
		}
	}
	return false
}

// ToolID identifies a tool in the tool catalog.
type ToolID string

// Permission is a lower-case "category:action" string.
type Permission string

// PermissionSet is a deduplicated, lexicographically sorted permission list.
type PermissionSet []Permission

// Strings returns the permissions as plain strings.
func (p PermissionSet) Strings() []string {
	out := make([]string, len(p))
	for i, perm := range p {
		out[i] = string(perm)
	}
	return out
}

// RiskTier is the coarse risk classification of a tool.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Rank orders tiers so the highest can be picked.
func (t RiskTier) Rank() int {
	switch t {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// TemplateID names a template family.
type TemplateID string

const (
	TemplateCoordinator TemplateID = "coordinator-template"
	TemplateSpecialist  TemplateID = "specialist-template"
	TemplateIntegration TemplateID = "integration-template"
	TemplateAnalytics   TemplateID = "analytics-template"
	TemplateDefault     TemplateID = "default-template"
)

// Request is the validated, typed skill request. It is only ever built by the
// validation package after every check has passed.
type Request struct {
	SkillName       string       `json:"skill_name" yaml:"skill_name" mapstructure:"skill_name" jsonschema:"required,pattern=^[a-z0-9-]+$,minLength=1,maxLength=50,description=Lower-case skill identifier"`
	Description     string       `json:"description" yaml:"description" mapstructure:"description" jsonschema:"required,minLength=1,maxLength=1000,description=What the skill does"`
	PrimaryFunction string       `json:"primary_function" yaml:"primary_function" mapstructure:"primary_function" jsonschema:"required,minLength=1,maxLength=500,description=The main job of the skill"`
	SkillType       Type         `json:"skill_type,omitempty" yaml:"skill_type,omitempty" mapstructure:"skill_type" jsonschema:"enum=coordinator,enum=specialist,enum=tool-integration,enum=learning-analytics,enum=analytics,description=Skill category used for template selection"`
	ToolsNeeded     []ToolID     `json:"tools_needed,omitempty" yaml:"tools_needed,omitempty" mapstructure:"tools_needed" jsonschema:"uniqueItems=true,description=Tools the skill may use"`
	UseCases        []string     `json:"use_cases,omitempty" yaml:"use_cases,omitempty" mapstructure:"use_cases" jsonschema:"maxItems=10,description=Example use cases (max 100 characters each)"`
	OutputFormat    OutputFormat `json:"output_format,omitempty" yaml:"output_format,omitempty" mapstructure:"output_format" jsonschema:"enum=full-package,enum=minimal,enum=template-only,default=full-package"`

	// ExplicitType is true when SkillType came from the request rather than
	// from DefaultType. Template selection only honours explicit types.
	ExplicitType bool `json:"-" yaml:"-" mapstructure:"-"`
}

// ArtifactDescriptor describes one file the writer should emit. Path is
// slash-separated and relative to the output directory.
type ArtifactDescriptor struct {
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
}

// Definition is the skill definition recorded in a manifest.
type Definition struct {
	Name            string     `json:"name" yaml:"name"`
	Type            Type       `json:"type" yaml:"type"`
	Template        TemplateID `json:"template" yaml:"template"`
	Description     string     `json:"description" yaml:"description"`
	PrimaryFunction string     `json:"primary_function" yaml:"primary_function"`
	UseCases        []string   `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`
}

// DefinitionFile is the content of skill-definition/skill.json in a written
// skill package. Skill discovery reads it back.
type DefinitionFile struct {
	Definition     `yaml:",inline"`
	Format         OutputFormat  `json:"format" yaml:"format"`
	Tools          []ToolID      `json:"tools" yaml:"tools"`
	Permissions    PermissionSet `json:"permissions" yaml:"permissions"`
	RiskTier       RiskTier      `json:"risk_tier" yaml:"risk_tier"`
	CatalogVersion string        `json:"catalog_version" yaml:"catalog_version"`
}

// NewDefinitionFile builds the definition file content for m.
func NewDefinitionFile(m *Manifest) DefinitionFile {
	return DefinitionFile{
		Definition:     m.SkillDefinition,
		Format:         m.StructureSummary.Format,
		Tools:          m.Tools.Requested,
		Permissions:    m.Tools.Permissions,
		RiskTier:       m.Tools.RiskTier,
		CatalogVersion: m.CatalogVersion,
	}
}

// DangerousCombination is an advisory raised for a risky pair of tools.
type DangerousCombination struct {
	Tools  []ToolID `json:"tools" yaml:"tools"`
	Reason string   `json:"reason" yaml:"reason"`
}

// Escalation lists tools requested beyond a baseline grant.
type Escalation struct {
	Dangerous []ToolID `json:"dangerous,omitempty" yaml:"dangerous,omitempty"`
	Sensitive []ToolID `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`
}

// IsEmpty reports whether no escalation was found.
func (e Escalation) IsEmpty() bool {
	return len(e.Dangerous) == 0 && len(e.Sensitive) == 0
}

// Advisories are non-blocking permission findings meant for an external
// audit or confirmation step.
type Advisories struct {
	DangerousCombinations []DangerousCombination `json:"dangerous_combinations,omitempty" yaml:"dangerous_combinations,omitempty"`
	Escalation            *Escalation            `json:"escalation,omitempty" yaml:"escalation,omitempty"`
}

// RequiresConfirmation reports whether any advisory was raised.
func (a Advisories) RequiresConfirmation() bool {
	return len(a.DangerousCombinations) > 0 || (a.Escalation != nil && !a.Escalation.IsEmpty())
}

// Tools is the tool section of a manifest.
type Tools struct {
	Requested   []ToolID      `json:"requested" yaml:"requested"`
	Permissions PermissionSet `json:"permissions" yaml:"permissions"`
	RiskTier    RiskTier      `json:"risk_tier" yaml:"risk_tier"`
	Advisories  Advisories    `json:"advisories" yaml:"advisories"`
	Suggested   []ToolID      `json:"suggested,omitempty" yaml:"suggested,omitempty"`
}

// StructureSummary is derived from the artifact list, never set by hand.
type StructureSummary struct {
	Format      OutputFormat `json:"format" yaml:"format"`
	FileCount   int          `json:"file_count" yaml:"file_count"`
	HasTests    bool         `json:"has_tests" yaml:"has_tests"`
	HasDocs     bool         `json:"has_docs" yaml:"has_docs"`
	HasExamples bool         `json:"has_examples" yaml:"has_examples"`
}

// Manifest is the terminal artifact of the pipeline for one accepted request.
type Manifest struct {
	SkillDefinition  Definition           `json:"skill_definition" yaml:"skill_definition"`
	Tools            Tools                `json:"tools" yaml:"tools"`
	Artifacts        []ArtifactDescriptor `json:"artifacts" yaml:"artifacts"`
	StructureSummary StructureSummary     `json:"structure_summary" yaml:"structure_summary"`
	OutputDir        string               `json:"output_dir" yaml:"output_dir"`
	CatalogVersion   string               `json:"catalog_version" yaml:"catalog_version"`
}

// SkillDir returns the slash-separated directory of the skill relative to the
// output directory.
func SkillDir(name string) string {
	return "skills/" + name
}

// ResolvedPath joins an artifact path onto the manifest's output directory
// using the platform separator.
func (m *Manifest) ResolvedPath(a ArtifactDescriptor) string {
	return filepath.Join(m.OutputDir, filepath.FromSlash(a.Path))
}

// SkillRoot returns the platform path of the skill directory.
func (m *Manifest) SkillRoot() string {
	return filepath.Join(m.OutputDir, filepath.FromSlash(SkillDir(m.SkillDefinition.Name)))
}
