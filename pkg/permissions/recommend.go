package permissions

import (
	"sort"
	"strings"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

type keywordRule struct {
	keywords []string
	tools    []skill.ToolID
}

// functionRules are matched against the primary function.
var functionRules = []keywordRule{
	{[]string{"文件操作", "file operation", "file management"}, []skill.ToolID{ToolRead}},
	{[]string{"代码编辑", "code edit", "refactor"}, []skill.ToolID{ToolRead, ToolEdit}},
	{[]string{"系统管理", "system admin", "shell"}, []skill.ToolID{ToolBash}},
	{[]string{"网络访问", "network access", "http"}, []skill.ToolID{ToolWebFetch}},
	{[]string{"搜索功能", "web search"}, []skill.ToolID{ToolWebSearch}},
	{[]string{"上下文管理", "context management"}, []skill.ToolID{ToolContext}},
}

// descriptionRules are matched against the description.
var descriptionRules = []keywordRule{
	{[]string{"读取", "read"}, []skill.ToolID{ToolRead}},
	{[]string{"写入", "write"}, []skill.ToolID{ToolWrite}},
	{[]string{"编辑", "edit"}, []skill.ToolID{ToolEdit}},
	{[]string{"执行", "execute"}, []skill.ToolID{ToolBash}},
	{[]string{"获取", "fetch", "download"}, []skill.ToolID{ToolWebFetch}},
	{[]string{"搜索", "search"}, []skill.ToolID{ToolWebSearch}},
	{[]string{"上下文", "context"}, []skill.ToolID{ToolContext}},
}

// Recommend suggests a least-privilege tool set from the free text of a
// request. It always returns at least read, sorted by tool id.
func Recommend(description, primaryFunction string) []skill.ToolID {
	set := map[skill.ToolID]bool{}
	apply := func(text string, rules []keywordRule) {
		text = strings.ToLower(text)
		for _, r := range rules {
			for _, kw := range r.keywords {
				if strings.Contains(text, kw) {
					for _, t := range r.tools {
						set[t] = true
					}
					break
				}
			}
		}
	}
	apply(primaryFunction, functionRules)
	apply(description, descriptionRules)

	if len(set) == 0 {
		set[ToolRead] = true
	}

	out := make([]skill.ToolID, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
