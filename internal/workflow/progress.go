package workflow

import "math"

// ComputeProgress derives completion state from a task list.
// Zero tasks is defined as zero percent.
func ComputeProgress(tasks []Task) Progress {
	total := len(tasks)
	completed := 0
	for _, t := range tasks {
		if t.Status == TaskCompleted {
			completed++
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return Progress{Completed: completed, Total: total, Percentage: pct}
}
