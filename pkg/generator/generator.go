// Package generator runs the skill generation pipeline: it sanitizes and
// validates a raw request, checks the output directory, resolves
// permissions and advisories, selects a template and plans the artifacts,
// producing one immutable manifest per accepted request.
package generator

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jingkaihe/skillgen/pkg/logger"
	"github.com/jingkaihe/skillgen/pkg/pathguard"
	"github.com/jingkaihe/skillgen/pkg/permissions"
	"github.com/jingkaihe/skillgen/pkg/planner"
	"github.com/jingkaihe/skillgen/pkg/sanitize"
	"github.com/jingkaihe/skillgen/pkg/telemetry"
	"github.com/jingkaihe/skillgen/pkg/templates"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
	"github.com/jingkaihe/skillgen/pkg/validation"
)

// Generator turns raw requests into manifests. It is safe for concurrent
// use; the audit log is the only mutable state.
type Generator struct {
	policy        Policy
	baseline      []skill.ToolID
	defaultFormat skill.OutputFormat
	existing      map[string]bool
	audit         *permissions.AuditLog
}

// Option configures a Generator.
type Option func(*Generator)

// WithPolicy sets the permission policy.
func WithPolicy(p Policy) Option {
	return func(g *Generator) {
		g.policy = p
		g.baseline = make([]skill.ToolID, len(p.BaselineTools))
		for i, t := range p.BaselineTools {
			g.baseline[i] = skill.ToolID(t)
		}
	}
}

// WithDefaultFormat sets the output format used when a request names none.
func WithDefaultFormat(f skill.OutputFormat) Option {
	return func(g *Generator) {
		g.defaultFormat = f
	}
}

// WithExistingSkills marks skill names as already taken in this session,
// typically the skills found under the output root.
func WithExistingSkills(names ...string) Option {
	return func(g *Generator) {
		for _, n := range names {
			g.existing[n] = true
		}
	}
}

// WithAuditLog shares an audit log between generators.
func WithAuditLog(l *permissions.AuditLog) Option {
	return func(g *Generator) {
		g.audit = l
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		defaultFormat: skill.DefaultFormat,
		existing:      make(map[string]bool),
		audit:         permissions.NewAuditLog(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AuditLog returns the audit trail of every manifest produced so far.
func (g *Generator) AuditLog() *permissions.AuditLog {
	return g.audit
}

// Generate produces the manifest for one request, or the first error found.
// A manifest is never partially populated.
func (g *Generator) Generate(ctx context.Context, raw skill.RawRequest, outputDir string) (*skill.Manifest, error) {
	return g.generate(ctx, raw, outputDir, g.isTaken)
}

func (g *Generator) isTaken(name string) bool {
	return g.existing[name]
}

func (g *Generator) generate(ctx context.Context, raw skill.RawRequest, outputDir string, taken func(string) bool) (*skill.Manifest, error) {
	return telemetry.WithSpanValue(ctx, "generator.generate", func(ctx context.Context) (*skill.Manifest, error) {
		req, err := g.validate(ctx, raw)
		if err != nil {
			logger.G(ctx).WithError(err).Debug("request rejected")
			return nil, err
		}

		ctx = logger.WithRequest(ctx, req.SkillName)
		log := logger.G(ctx)
		telemetry.SetAttributes(ctx, attribute.String("skill.name", req.SkillName))

		if taken(req.SkillName) {
			err := skill.NewDuplicateSkillNameError(req.SkillName)
			log.WithError(err).Debug("request rejected")
			return nil, err
		}

		err = telemetry.WithSpan(ctx, "generator.check_output_dir", func(context.Context) error {
			return pathguard.Check(outputDir)
		}, attribute.String("output_dir", outputDir))
		if err != nil {
			log.WithError(err).Debug("output directory rejected")
			return nil, err
		}

		tools, err := g.resolveTools(ctx, req)
		if err != nil {
			log.WithError(err).Debug("permission resolution failed")
			return nil, err
		}

		var (
			template  skill.TemplateID
			artifacts []skill.ArtifactDescriptor
			summary   skill.StructureSummary
		)
		telemetry.WithSpanFunc(ctx, "generator.plan", func(ctx context.Context) {
			template = templates.ForRequest(req)
			artifacts = planner.Plan(template, req.SkillName, req.OutputFormat)
			summary = planner.Summarize(req.OutputFormat, artifacts)
			telemetry.SetAttributes(ctx,
				attribute.String("template", string(template)),
				attribute.String("format", string(req.OutputFormat)),
				attribute.Int("artifacts", len(artifacts)),
			)
		})
		log.WithFields(logrus.Fields{
			"template": template,
			"format":   req.OutputFormat,
			"files":    summary.FileCount,
		}).Debug("artifacts planned")

		manifest := &skill.Manifest{
			SkillDefinition: skill.Definition{
				Name:            req.SkillName,
				Type:            req.SkillType,
				Template:        template,
				Description:     req.Description,
				PrimaryFunction: req.PrimaryFunction,
				UseCases:        req.UseCases,
			},
			Tools:            tools,
			Artifacts:        artifacts,
			StructureSummary: summary,
			OutputDir:        outputDir,
			CatalogVersion:   permissions.CatalogVersion,
		}

		entry := g.audit.Record(req.SkillName, req.ToolsNeeded)
		log.WithFields(logrus.Fields{
			"audit_id":    entry.ID,
			"audit_score": entry.Score,
			"audit_level": entry.Level,
		}).Debug("manifest created")

		return manifest, nil
	})
}

func (g *Generator) validate(ctx context.Context, raw skill.RawRequest) (*skill.Request, error) {
	return telemetry.WithSpanValue(ctx, "generator.validate", func(context.Context) (*skill.Request, error) {
		withDefaults := raw.Clone()
		if v, ok := withDefaults[skill.FieldOutputFormat]; !ok || v == nil {
			withDefaults[skill.FieldOutputFormat] = string(g.defaultFormat)
		}
		return validation.Validate(sanitize.Request(withDefaults))
	})
}

func (g *Generator) resolveTools(ctx context.Context, req *skill.Request) (skill.Tools, error) {
	return telemetry.WithSpanValue(ctx, "generator.resolve_permissions", func(ctx context.Context) (skill.Tools, error) {
		perms, err := permissions.Resolve(req.ToolsNeeded)
		if err != nil {
			return skill.Tools{}, err
		}

		combos := permissions.DangerousCombinations(req.ToolsNeeded)
		if len(combos) > 0 && g.policy.BlockDangerousCombinations {
			return skill.Tools{}, skill.NewDangerousCombinationError(combos[0])
		}

		advisories := skill.Advisories{DangerousCombinations: combos}
		if esc := permissions.DetectEscalation(req.ToolsNeeded, g.baseline); !esc.IsEmpty() {
			advisories.Escalation = &esc
		}
		if advisories.RequiresConfirmation() {
			logger.G(ctx).WithField("combinations", len(combos)).Warn("requested tools require confirmation")
		}

		requested := append([]skill.ToolID{}, req.ToolsNeeded...)
		tools := skill.Tools{
			Requested:   requested,
			Permissions: perms,
			RiskTier:    permissions.RiskTier(req.ToolsNeeded),
			Advisories:  advisories,
		}
		if len(requested) == 0 {
			tools.Suggested = permissions.Recommend(req.Description, req.PrimaryFunction)
		}
		return tools, nil
	})
}
