package skills

import (
	"context"

	"github.com/jingkaihe/skillgen/pkg/logger"
)

// ExistingNames returns the names of the skills already present under root.
// Discovery failures are logged and yield no names, so a broken root never
// blocks generation by itself.
func ExistingNames(ctx context.Context, root string) []string {
	discovery, err := NewDiscovery(WithRoots(root))
	if err != nil {
		logger.G(ctx).WithError(err).Debug("failed to create skill discovery")
		return nil
	}

	names, err := discovery.ListSkillNames()
	if err != nil {
		logger.G(ctx).WithError(err).Debug("failed to discover skills")
		return nil
	}

	logger.G(ctx).WithField("root", root).WithField("skills", len(names)).Debug("discovered existing skills")
	return names
}
