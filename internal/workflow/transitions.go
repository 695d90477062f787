package workflow

import "fmt"

// --- Optional workflow status transition checking ---
//
// The store is permissive by default: any enumerated status may be set
// directly, matching how ad hoc external callers use it. Strict mode layers
// this table in front of explicit status updates only; task-driven
// automation (draft → active on first start, active → completed on last
// completion) always follows allowed edges.

// allowedTransitions maps each status to the statuses it may move to
// when strict mode is enabled. Terminal states have no outgoing edges.
var allowedTransitions = map[Status][]Status{
	StatusDraft:     {StatusReady, StatusActive, StatusCancelled},
	StatusReady:     {StatusDraft, StatusActive, StatusCancelled},
	StatusActive:    {StatusPaused, StatusBlocked, StatusCompleted, StatusFailed, StatusCancelled},
	StatusPaused:    {StatusActive, StatusFailed, StatusCancelled},
	StatusBlocked:   {StatusActive, StatusFailed, StatusCancelled},
	StatusCompleted: {},
	StatusFailed:    {},
	StatusCancelled: {},
}

// CanTransition reports whether from → to is an allowed edge.
// Setting the same status again is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a descriptive error for a disallowed edge.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("transition %s → %s is not allowed (allowed from %s: %v)", from, to, from, allowedTransitions[from])
	}
	return nil
}
