package permissions

import (
	"sort"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// Resolve returns the deduplicated, sorted union of the permissions granted
// by tools. Duplicate tools are tolerated. Any unknown tool fails the whole
// call with an error naming every unknown tool in request order.
func Resolve(tools []skill.ToolID) (skill.PermissionSet, error) {
	var unknown []string
	seen := make(map[skill.Permission]struct{})
	for _, t := range tools {
		info, ok := catalog[t]
		if !ok {
			unknown = append(unknown, string(t))
			continue
		}
		for _, p := range info.Permissions {
			seen[p] = struct{}{}
		}
	}
	if len(unknown) > 0 {
		return nil, skill.NewUnknownToolError(unknown...)
	}

	out := make(skill.PermissionSet, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// RiskTier returns the highest catalog tier among tools, or low when no
// known tool is given.
func RiskTier(tools []skill.ToolID) skill.RiskTier {
	tier := skill.RiskLow
	for _, t := range tools {
		if info, ok := catalog[t]; ok && info.RiskTier.Rank() > tier.Rank() {
			tier = info.RiskTier
		}
	}
	return tier
}
