// Package permissions maps requested tools to the minimal permission set a
// generated skill needs, and hosts the advisory policy layer built on top of
// the tool catalog.
package permissions

import (
	"sort"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// CatalogVersion identifies the revision of the tool catalog.
const CatalogVersion = "2024.1"

const (
	ToolRead      skill.ToolID = "read"
	ToolWrite     skill.ToolID = "write"
	ToolEdit      skill.ToolID = "edit"
	ToolBash      skill.ToolID = "bash"
	ToolWebFetch  skill.ToolID = "webfetch"
	ToolWebSearch skill.ToolID = "websearch"
	ToolContext   skill.ToolID = "context"
	ToolGlob      skill.ToolID = "glob"
)

// unknownToolScore is the audit score used for tools missing from the catalog.
const unknownToolScore = 5

// ToolInfo is one catalog entry.
type ToolInfo struct {
	ID          skill.ToolID       `json:"id" yaml:"id"`
	Permissions []skill.Permission `json:"permissions" yaml:"permissions"`
	RiskTier    skill.RiskTier     `json:"risk_tier" yaml:"risk_tier"`
	Description string             `json:"description" yaml:"description"`
	Score       int                `json:"score" yaml:"score"`
}

var catalog = map[skill.ToolID]ToolInfo{
	ToolRead: {
		ID:          ToolRead,
		Permissions: []skill.Permission{"files:read"},
		RiskTier:    skill.RiskLow,
		Description: "Read file contents",
		Score:       1,
	},
	ToolWrite: {
		ID:          ToolWrite,
		Permissions: []skill.Permission{"files:write"},
		RiskTier:    skill.RiskMedium,
		Description: "Create or overwrite files",
		Score:       3,
	},
	ToolEdit: {
		ID:          ToolEdit,
		Permissions: []skill.Permission{"files:edit"},
		RiskTier:    skill.RiskMedium,
		Description: "Modify existing files in place",
		Score:       3,
	},
	ToolBash: {
		ID:          ToolBash,
		Permissions: []skill.Permission{"system:execute"},
		RiskTier:    skill.RiskHigh,
		Description: "Execute shell commands",
		Score:       10,
	},
	ToolWebFetch: {
		ID:          ToolWebFetch,
		Permissions: []skill.Permission{"network:fetch"},
		RiskTier:    skill.RiskMedium,
		Description: "Fetch content from a URL",
		Score:       4,
	},
	ToolWebSearch: {
		ID:          ToolWebSearch,
		Permissions: []skill.Permission{"network:search"},
		RiskTier:    skill.RiskMedium,
		Description: "Search the web",
		Score:       4,
	},
	ToolContext: {
		ID:          ToolContext,
		Permissions: []skill.Permission{"context:read", "context:write"},
		RiskTier:    skill.RiskHigh,
		Description: "Read and modify the conversation context",
		Score:       8,
	},
	ToolGlob: {
		ID:          ToolGlob,
		Permissions: []skill.Permission{"files:search"},
		RiskTier:    skill.RiskLow,
		Description: "Find files by pattern",
		Score:       1,
	},
}

// IsKnown reports whether id is in the catalog. Matching is exact.
func IsKnown(id skill.ToolID) bool {
	_, ok := catalog[id]
	return ok
}

// Lookup returns the catalog entry for id. The returned permissions slice is
// a copy.
func Lookup(id skill.ToolID) (ToolInfo, bool) {
	info, ok := catalog[id]
	if !ok {
		return ToolInfo{}, false
	}
	info.Permissions = append([]skill.Permission(nil), info.Permissions...)
	return info, true
}

// Catalog returns every catalog entry sorted by tool id.
func Catalog() []ToolInfo {
	out := make([]ToolInfo, 0, len(catalog))
	for id := range catalog {
		info, _ := Lookup(id)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Score returns the audit risk score of a tool. Unknown tools score 5.
func Score(id skill.ToolID) int {
	if info, ok := catalog[id]; ok {
		return info.Score
	}
	return unknownToolScore
}
