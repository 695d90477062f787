package workflow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/magicnote/magic-note/internal/storage"
)

// appendEvent writes one history entry to the workflow's event log.
// Events are emitted only as side effects of store mutations; there is no
// caller-facing primitive to author them. Caller must hold the mutex.
func (fs *FileStore) appendEvent(workflowID string, evType EventType, payload map[string]any) error {
	ev := Event{
		WorkflowID: workflowID,
		Type:       evType,
		Payload:    payload,
		Timestamp:  timeNow().UTC().Format(time.RFC3339),
	}
	if err := storage.AppendJSONL(fs.eventsPath(workflowID), ev); err != nil {
		return fmt.Errorf("appending %s event for %q: %w", evType, workflowID, err)
	}
	return nil
}

// Events returns a workflow's history in append order. Unparseable lines
// are skipped, matching the log reader's malformed-line tolerance.
func (fs *FileStore) Events(workflowID string) ([]Event, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.loadWorkflow(workflowID); err != nil {
		return nil, err
	}

	records, err := storage.ReadJSONL(fs.eventsPath(workflowID))
	if err != nil {
		return nil, fmt.Errorf("reading events for %q: %w", workflowID, err)
	}

	events := make([]Event, 0, len(records))
	for _, rec := range records {
		var ev Event
		if err := json.Unmarshal(rec, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}
