// Package notetools provides the MCP tool handlers for the note store,
// templates, and the project/tag directory.
//
// Each tool follows the same pattern:
// - A struct with its store dependency injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() validates arguments, calls the store, formats a text result
//
// Caller mistakes (missing fields, bad enums, unknown ids) come back as
// error-flagged tool results, never as Go errors.
package notetools

import (
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/magicnote/magic-note/internal/note"
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

// notFound reports whether an error is a NotFound from the note store.
func notFound(err error) bool {
	return errors.Is(err, note.ErrNotFound)
}

// summarize truncates content for one-line listings. Truncation counts
// runes, never splitting a multibyte character.
func summarize(content string, max int) string {
	s := strings.ReplaceAll(content, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
