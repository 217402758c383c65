package permissions

import (
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

type combination struct {
	tools  []skill.ToolID
	reason string
}

// dangerousCombinations are checked in this order.
var dangerousCombinations = []combination{
	{
		tools:  []skill.ToolID{ToolBash, ToolWrite},
		reason: "shell execution combined with file writes can persist arbitrary code",
	},
	{
		tools:  []skill.ToolID{ToolBash, ToolContext},
		reason: "shell execution combined with context access can exfiltrate or rewrite conversation state",
	},
	{
		tools:  []skill.ToolID{ToolWebFetch, ToolWrite},
		reason: "fetched remote content can be written to disk unreviewed",
	},
}

var (
	dangerousAdditions = []skill.ToolID{ToolBash, ToolContext}
	sensitiveAdditions = []skill.ToolID{ToolWrite, ToolWebFetch, ToolWebSearch}
)

// DangerousCombinations reports every risky tool pair fully contained in
// tools. The result is advisory and never blocks generation by itself.
func DangerousCombinations(tools []skill.ToolID) []skill.DangerousCombination {
	set := toSet(tools)
	var out []skill.DangerousCombination
	for _, c := range dangerousCombinations {
		if containsAll(set, c.tools) {
			out = append(out, skill.DangerousCombination{
				Tools:  append([]skill.ToolID(nil), c.tools...),
				Reason: c.reason,
			})
		}
	}
	return out
}

// DetectEscalation lists the dangerous and sensitive tools in requested that
// the baseline does not already grant.
func DetectEscalation(requested, baseline []skill.ToolID) skill.Escalation {
	req := toSet(requested)
	base := toSet(baseline)

	var esc skill.Escalation
	for _, t := range dangerousAdditions {
		if req[t] && !base[t] {
			esc.Dangerous = append(esc.Dangerous, t)
		}
	}
	for _, t := range sensitiveAdditions {
		if req[t] && !base[t] {
			esc.Sensitive = append(esc.Sensitive, t)
		}
	}
	return esc
}

func toSet(tools []skill.ToolID) map[skill.ToolID]bool {
	set := make(map[skill.ToolID]bool, len(tools))
	for _, t := range tools {
		set[t] = true
	}
	return set
}

func containsAll(set map[skill.ToolID]bool, tools []skill.ToolID) bool {
	for _, t := range tools {
		if !set[t] {
			return false
		}
	}
	return true
}
