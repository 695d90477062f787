package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// --- Pure projections over a workflow and its history ---
//
// Nothing here mutates state: every function derives a human-readable view
// from a loaded aggregate, its checkpoints, and its event log.

// barWidth is the glyph width of rendered progress bars.
const barWidth = 16

// StatusFormat controls how much detail RenderStatus emits.
type StatusFormat string

const (
	FormatSummary  StatusFormat = "summary"
	FormatDetailed StatusFormat = "detailed"
	FormatMinimal  StatusFormat = "minimal"
)

// StatusFormatValues returns all status format values, for tool schema enums.
func StatusFormatValues() []string {
	return []string{string(FormatSummary), string(FormatDetailed), string(FormatMinimal)}
}

// ValidateStatusFormat returns an error if the format is not recognized.
func ValidateStatusFormat(f StatusFormat) error {
	switch f {
	case FormatSummary, FormatDetailed, FormatMinimal:
		return nil
	}
	return fmt.Errorf("invalid format %q: must be one of: summary, detailed, minimal", f)
}

// ProgressBar renders a fixed-width block-glyph bar scaled to the percentage.
func ProgressBar(p Progress) string {
	filled := p.Percentage * barWidth / 100
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// RenderStatus builds the get_workflow_status view.
func RenderStatus(wf *Workflow, format StatusFormat) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", wf.Title)
	fmt.Fprintf(&b, "Status: %s\n", wf.Status)
	fmt.Fprintf(&b, "Progress: [%s] %d%% (%d/%d tasks)\n", ProgressBar(wf.Progress), wf.Progress.Percentage, wf.Progress.Completed, wf.Progress.Total)

	if format == FormatMinimal {
		return b.String()
	}

	if current := currentTask(wf); current != nil {
		fmt.Fprintf(&b, "\n🔄 Current: %s", current.Title)
		if current.Description != "" {
			fmt.Fprintf(&b, " — %s", firstLine(current.Description))
		}
		b.WriteString("\n")
	}

	if blocked := blockedTasks(wf); len(blocked) > 0 {
		b.WriteString("\n🚫 Blocked:\n")
		for _, t := range blocked {
			fmt.Fprintf(&b, "- %s\n", t.Title)
		}
	}

	if next := NextActionable(wf); len(next) > 0 {
		b.WriteString("\n⏭️ Next up:\n")
		for _, t := range next {
			fmt.Fprintf(&b, "- %s (%s)\n", t.Title, t.Priority)
		}
	}

	if format == FormatDetailed {
		b.WriteString("\n## Tasks\n\n")
		for _, t := range OrderedTasks(wf) {
			fmt.Fprintf(&b, "%s %s [%s, %s]\n", taskGlyph(t.Status), t.Title, t.Status, t.Priority)
		}
	}

	return b.String()
}

// RenderResume builds the resume_workflow "where you left off" digest.
// Checkpoints are expected newest-first (as ListCheckpoints returns them).
func RenderResume(wf *Workflow, checkpoints []Checkpoint, events []Event, linkedNotes int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Resuming: %s\n\n", wf.Title)

	if len(checkpoints) > 0 {
		cp := checkpoints[0]
		fmt.Fprintf(&b, "📍 Last checkpoint: %s (%s)", formatStamp(cp.CreatedAt), cp.Reason)
		if cp.Notes != "" {
			fmt.Fprintf(&b, " — %s", firstLine(cp.Notes))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("📍 No checkpoints yet\n")
	}

	fmt.Fprintf(&b, "Progress: [%s] %d%%\n", ProgressBar(wf.Progress), wf.Progress.Percentage)

	if last := lastCompleted(wf); last != nil {
		fmt.Fprintf(&b, "✅ Last completed: %s\n", last.Title)
	}
	if current := currentTask(wf); current != nil {
		fmt.Fprintf(&b, "🔄 In progress: %s\n", current.Title)
	}

	if next := NextActionable(wf); len(next) > 0 {
		b.WriteString("\n⏭️ Next actions:\n")
		for _, t := range next {
			fmt.Fprintf(&b, "- %s (%s)\n", t.Title, t.Priority)
		}
	}

	if len(events) > 0 {
		recent := events
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}

		var today, earlier []Event
		todayStr := timeNow().Local().Format("2006-01-02")
		for _, ev := range recent {
			if localDate(ev.Timestamp) == todayStr {
				today = append(today, ev)
			} else {
				earlier = append(earlier, ev)
			}
		}

		b.WriteString("\n## Recent activity\n")
		if len(today) > 0 {
			b.WriteString("\nToday:\n")
			for i := len(today) - 1; i >= 0; i-- {
				b.WriteString(eventLine(today[i], false))
			}
		}
		if len(earlier) > 0 {
			b.WriteString("\nEarlier:\n")
			for i := len(earlier) - 1; i >= 0; i-- {
				b.WriteString(eventLine(earlier[i], true))
			}
		}
	}

	fmt.Fprintf(&b, "\n🔗 Linked notes: %d\n", linkedNotes)
	return b.String()
}

// RenderTimeline builds the get_timeline view: events filtered by type,
// truncated to the most recent limit, grouped by calendar date descending.
// A limit of zero yields an empty listing.
func RenderTimeline(events []Event, limit int, types []EventType) string {
	filtered := events
	if len(types) > 0 {
		allowed := make(map[EventType]bool, len(types))
		for _, t := range types {
			allowed[t] = true
		}
		filtered = nil
		for _, ev := range events {
			if allowed[ev.Type] {
				filtered = append(filtered, ev)
			}
		}
	}

	if limit >= 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}

	var b strings.Builder
	b.WriteString("# Timeline\n")
	if len(filtered) == 0 {
		b.WriteString("\nNo events.\n")
		return b.String()
	}

	// Newest first, grouped by local calendar date.
	currentDate := ""
	for i := len(filtered) - 1; i >= 0; i-- {
		ev := filtered[i]
		date := localDate(ev.Timestamp)
		if date != currentDate {
			fmt.Fprintf(&b, "\n## %s\n", formatDateHeading(ev.Timestamp))
			currentDate = date
		}
		b.WriteString(eventLine(ev, false))
	}
	return b.String()
}

// --- Task selection helpers ---

// OrderedTasks returns tasks sorted by order, stable on ties. Duplicate
// order values (possible after a partial reorder) keep slice position.
func OrderedTasks(wf *Workflow) []Task {
	out := append([]Task(nil), wf.Tasks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// currentTask returns the first in-progress task in presentation order.
func currentTask(wf *Workflow) *Task {
	for _, t := range OrderedTasks(wf) {
		if t.Status == TaskInProgress {
			found := t
			return &found
		}
	}
	return nil
}

// lastCompleted returns the most recently completed task by completedAt.
func lastCompleted(wf *Workflow) *Task {
	var best *Task
	for i := range wf.Tasks {
		t := &wf.Tasks[i]
		if t.Status != TaskCompleted {
			continue
		}
		if best == nil || t.CompletedAt > best.CompletedAt {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	found := *best
	return &found
}

// blockedTasks returns tasks explicitly blocked, plus pending tasks gated
// by an unfinished sibling dependency. Dangling dependency ids never gate.
func blockedTasks(wf *Workflow) []Task {
	var out []Task
	for _, t := range OrderedTasks(wf) {
		switch {
		case t.Status == TaskBlocked:
			out = append(out, t)
		case t.Status == TaskPending && !depsSatisfied(wf, t):
			out = append(out, t)
		}
	}
	return out
}

// NextActionable returns pending tasks whose resolvable dependencies are
// all completed, in presentation order.
func NextActionable(wf *Workflow) []Task {
	var out []Task
	for _, t := range OrderedTasks(wf) {
		if t.Status == TaskPending && depsSatisfied(wf, t) {
			out = append(out, t)
		}
	}
	return out
}

// depsSatisfied reports whether every dependency that still resolves to a
// sibling task is completed.
func depsSatisfied(wf *Workflow, t Task) bool {
	for _, depID := range t.DependsOn {
		dep := FindTask(wf, depID)
		if dep == nil {
			continue // dangling reference, tolerated
		}
		if dep.Status != TaskCompleted {
			return false
		}
	}
	return true
}

// --- Formatting helpers ---

// taskGlyph maps a task status to its display glyph.
func taskGlyph(s TaskStatus) string {
	switch s {
	case TaskPending:
		return "⬜"
	case TaskInProgress:
		return "🔄"
	case TaskVerifying:
		return "🔍"
	case TaskReview:
		return "👀"
	case TaskCompleted:
		return "✅"
	case TaskFailed:
		return "❌"
	case TaskSkipped:
		return "⏭️"
	case TaskBlocked:
		return "🚫"
	}
	return "•"
}

// eventGlyph maps an event type to its display glyph.
func eventGlyph(t EventType) string {
	switch t {
	case EventWorkflowCreated:
		return "🆕"
	case EventWorkflowStarted:
		return "🚀"
	case EventWorkflowCompleted:
		return "🏁"
	case EventWorkflowPaused:
		return "⏸️"
	case EventWorkflowFailed:
		return "💥"
	case EventWorkflowCancelled:
		return "🛑"
	case EventTaskCreated:
		return "➕"
	case EventTaskStarted:
		return "🔄"
	case EventTaskCompleted:
		return "✅"
	case EventTaskFailed:
		return "❌"
	case EventTaskSkipped:
		return "⏭️"
	case EventStepCompleted:
		return "☑️"
	case EventCheckpointCreated:
		return "📍"
	case EventVerificationRun:
		return "🔍"
	case EventReviewSubmitted:
		return "👀"
	}
	return "•"
}

// eventLine renders one timeline entry, stamped with local time
// (or full date when withDate is set).
func eventLine(ev Event, withDate bool) string {
	stamp := localTime(ev.Timestamp)
	if withDate {
		stamp = formatStamp(ev.Timestamp)
	}
	label := string(ev.Type)
	if title, ok := ev.Payload["title"].(string); ok && title != "" {
		label = fmt.Sprintf("%s — %s", ev.Type, title)
	}
	return fmt.Sprintf("- %s %s %s\n", stamp, eventGlyph(ev.Type), label)
}

func parseStamp(stamp string) (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts.Local(), true
}

func localDate(stamp string) string {
	ts, ok := parseStamp(stamp)
	if !ok {
		return ""
	}
	return ts.Format("2006-01-02")
}

func localTime(stamp string) string {
	ts, ok := parseStamp(stamp)
	if !ok {
		return stamp
	}
	return ts.Format("15:04")
}

func formatStamp(stamp string) string {
	ts, ok := parseStamp(stamp)
	if !ok {
		return stamp
	}
	return ts.Format("Jan 2, 2006 15:04")
}

func formatDateHeading(stamp string) string {
	ts, ok := parseStamp(stamp)
	if !ok {
		return stamp
	}
	return ts.Format("January 2, 2006")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
