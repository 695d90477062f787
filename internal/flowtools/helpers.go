// Package flowtools provides the MCP tool handlers for the workflow store:
// workflow CRUD, task management, checkpoints, artifact linking, and the
// read-only status/resume/timeline projections.
//
// Handlers follow the same pattern as notetools: constructor-injected store
// interfaces, Definition()/Handle() pairs, and error-flagged tool results
// for caller mistakes.
package flowtools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/workflow"
)

// csvArg splits a comma-separated string argument into trimmed,
// non-empty values.
func csvArg(req mcp.CallToolRequest, key string) []string {
	raw := req.GetString(key, "")
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// notFound reports whether an error is a NotFound from the workflow store.
func notFound(err error) bool {
	return errors.Is(err, workflow.ErrNotFound)
}

// workflowHeader renders the one-line summary used by mutation responses.
func workflowHeader(wf *workflow.Workflow) string {
	return fmt.Sprintf("%s (%s)\nStatus: %s | Progress: [%s] %d%% (%d/%d tasks)",
		wf.Title, wf.ID, wf.Status,
		workflow.ProgressBar(wf.Progress), wf.Progress.Percentage,
		wf.Progress.Completed, wf.Progress.Total)
}
