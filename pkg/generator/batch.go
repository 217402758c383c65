package generator

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgen/pkg/logger"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// Batch generates manifests for raws one at a time. A skill name produced
// earlier in the batch, or already known to the generator, is rejected with
// a duplicate-name error. The returned slice has one slot per request, nil
// where that request failed; all failures are aggregated into the returned
// error. Cancellation of ctx stops the batch before the next request.
func (g *Generator) Batch(ctx context.Context, raws []skill.RawRequest, outputDir string) ([]*skill.Manifest, error) {
	manifests := make([]*skill.Manifest, len(raws))
	produced := make(map[string]bool)
	taken := func(name string) bool {
		return g.existing[name] || produced[name]
	}

	var result *multierror.Error
	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "batch stopped before request %d", i))
			break
		}

		m, err := g.generate(ctx, raw, outputDir, taken)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "request %d", i))
			continue
		}
		produced[m.SkillDefinition.Name] = true
		manifests[i] = m
	}

	logger.G(ctx).WithField("requests", len(raws)).
		WithField("failed", len(result.WrappedErrors())).
		Debug("batch finished")

	return manifests, result.ErrorOrNil()
}
