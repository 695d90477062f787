package workflow

import (
	"regexp"
	"strings"
)

// planItem matches one markdown list item: "- task", "* task", "1. task",
// with an optional "[ ]"/"[x]" checkbox after the bullet.
var planItem = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s+(?:\[[ xX]\]\s+)?(.+)$`)

// ParsePlanTasks extracts task seeds from a plan note's markdown content:
// each list item becomes one pending task, in document order. Non-list
// lines (prose, headings) are ignored.
func ParsePlanTasks(content string) []TaskSeed {
	var seeds []TaskSeed
	for _, line := range strings.Split(content, "\n") {
		m := planItem.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if title == "" {
			continue
		}
		seeds = append(seeds, TaskSeed{Title: title})
	}
	return seeds
}
