package workflow

import (
	"errors"
	"os"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir())
}

// seedWorkflow creates a workflow with three pending tasks.
func seedWorkflow(t *testing.T, fs *FileStore) *Workflow {
	t.Helper()
	wf, err := fs.Create(CreateParams{
		Title:   "Ship auth",
		Project: "webapp",
		Tags:    []string{"auth"},
		Tasks: []TaskSeed{
			{Title: "Design schema"},
			{Title: "Implement JWT", Priority: PriorityHigh},
			{Title: "Write tests"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return wf
}

func eventTypes(t *testing.T, fs *FileStore, id string) []EventType {
	t.Helper()
	events, err := fs.Events(id)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

// --- Create ---

func TestCreate_SeededStartsActive(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	if wf.Status != StatusActive {
		t.Errorf("Status = %s, want active", wf.Status)
	}
	if wf.Progress.Total != 3 || wf.Progress.Completed != 0 || wf.Progress.Percentage != 0 {
		t.Errorf("Progress = %+v, want 0/3 at 0%%", wf.Progress)
	}
	for i, task := range wf.Tasks {
		if task.Order != i {
			t.Errorf("task %d Order = %d, want %d", i, task.Order, i)
		}
		if task.Status != TaskPending {
			t.Errorf("task %d Status = %s, want pending", i, task.Status)
		}
	}
	if wf.Tasks[0].Priority != PriorityMedium {
		t.Errorf("default priority = %s, want medium", wf.Tasks[0].Priority)
	}
	if wf.Tasks[1].Priority != PriorityHigh {
		t.Errorf("explicit priority = %s, want high", wf.Tasks[1].Priority)
	}

	types := eventTypes(t, fs, wf.ID)
	want := []EventType{EventWorkflowCreated, EventTaskCreated, EventTaskCreated, EventTaskCreated}
	if len(types) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(types), len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestCreate_EmptyStartsDraft(t *testing.T) {
	fs := newTestStore(t)

	wf, err := fs.Create(CreateParams{Title: "Someday"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if wf.Status != StatusDraft {
		t.Errorf("Status = %s, want draft", wf.Status)
	}
	if wf.Progress.Total != 0 || wf.Progress.Percentage != 0 {
		t.Errorf("Progress = %+v, want 0/0 at 0%%", wf.Progress)
	}
}

func TestCreate_RejectsBadSeedPriority(t *testing.T) {
	fs := newTestStore(t)

	_, err := fs.Create(CreateParams{
		Title: "x",
		Tasks: []TaskSeed{{Title: "t", Priority: "urgent"}},
	})
	if err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

// --- Get / List ---

func TestGet_NotFound(t *testing.T) {
	fs := newTestStore(t)
	if _, err := fs.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestList_FiltersAndSort(t *testing.T) {
	fs := newTestStore(t)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	restore := timeNow
	defer func() { timeNow = restore }()

	timeNow = func() time.Time { return base }
	older := seedWorkflow(t, fs)
	timeNow = func() time.Time { return base.Add(time.Hour) }
	newer, err := fs.Create(CreateParams{Title: "Fix pipeline", Project: "ci"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := fs.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d summaries, want 2", len(all))
	}
	if all[0].ID != newer.ID {
		t.Error("most recently updated should come first")
	}

	byProject, err := fs.List(Filter{Project: "webapp"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byProject) != 1 || byProject[0].ID != older.ID {
		t.Errorf("project filter: got %+v", byProject)
	}

	active, err := fs.List(Filter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(active) != 1 || active[0].ID != older.ID {
		t.Errorf("ActiveOnly should return only the seeded (active) workflow, got %+v", active)
	}

	search, err := fs.List(Filter{Search: "PIPELINE"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(search) != 1 || search[0].ID != newer.ID {
		t.Errorf("search filter: got %+v", search)
	}
}

// --- Update ---

func TestUpdate_StatusChangeEmitsEvent(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	status := StatusPaused
	got, err := fs.Update(wf.ID, UpdateParams{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != StatusPaused {
		t.Errorf("Status = %s, want paused", got.Status)
	}

	types := eventTypes(t, fs, wf.ID)
	if types[len(types)-1] != EventWorkflowPaused {
		t.Errorf("last event = %s, want workflow_paused", types[len(types)-1])
	}
}

func TestUpdate_PermissiveByDefault(t *testing.T) {
	fs := newTestStore(t)
	wf, err := fs.Create(CreateParams{Title: "draft work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// draft → completed skips the intended lifecycle; allowed by default.
	status := StatusCompleted
	if _, err := fs.Update(wf.ID, UpdateParams{Status: &status}); err != nil {
		t.Errorf("permissive store rejected a status update: %v", err)
	}
}

func TestUpdate_StrictModeRejectsSkippedEdges(t *testing.T) {
	fs := newTestStore(t)
	fs.EnableStrictTransitions()
	wf, err := fs.Create(CreateParams{Title: "draft work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := StatusCompleted
	if _, err := fs.Update(wf.ID, UpdateParams{Status: &status}); err == nil {
		t.Error("strict store should reject draft → completed")
	}

	status = StatusActive
	if _, err := fs.Update(wf.ID, UpdateParams{Status: &status}); err != nil {
		t.Errorf("strict store should allow draft → active: %v", err)
	}
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	status := Status("done-ish")
	if _, err := fs.Update(wf.ID, UpdateParams{Status: &status}); err == nil {
		t.Error("expected error for unknown status")
	}
}

// --- Delete / Archive ---

func TestDelete_Cascades(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)
	if _, err := fs.CreateCheckpoint(wf.ID, "before delete", ReasonManual); err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}

	if err := fs.Delete(wf.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := fs.Get(wf.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted workflow still resolves: %v", err)
	}
	if _, err := fs.Events(wf.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("events should be gone with the workflow: %v", err)
	}
	if _, err := os.Stat(fs.dir(wf.ID)); !os.IsNotExist(err) {
		t.Error("workflow directory should be removed")
	}
}

func TestArchive_MarksCompleted(t *testing.T) {
	fs := newTestStore(t)
	fs.EnableStrictTransitions()
	wf, err := fs.Create(CreateParams{Title: "old work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Archiving bypasses the transition table even from draft.
	got, err := fs.Archive(wf.ID)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", got.Status)
	}

	// Data is retained.
	if _, err := fs.Get(wf.ID); err != nil {
		t.Errorf("archived workflow should still resolve: %v", err)
	}

	again, err := fs.Archive(wf.ID)
	if err != nil {
		t.Fatalf("second Archive: %v", err)
	}
	if again.Status != StatusCompleted {
		t.Error("archive should be idempotent")
	}
}

// --- Tasks ---

func TestAddTask_AppendsAtEnd(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	task, err := fs.AddTask(wf.ID, AddTaskParams{Title: "Deploy"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Order != 3 {
		t.Errorf("Order = %d, want 3", task.Order)
	}
	if task.Status != TaskPending {
		t.Errorf("Status = %s, want pending", task.Status)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("Priority = %s, want medium", task.Priority)
	}

	got, err := fs.Get(wf.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Progress.Total != 4 {
		t.Errorf("Total = %d, want 4", got.Progress.Total)
	}

	types := eventTypes(t, fs, wf.ID)
	if types[len(types)-1] != EventTaskCreated {
		t.Errorf("last event = %s, want task_created", types[len(types)-1])
	}
}

func TestUpdateTask_NoEvent(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)
	before := len(eventTypes(t, fs, wf.ID))

	status := TaskCompleted
	task, err := fs.UpdateTask(wf.ID, wf.Tasks[0].ID, UpdateTaskParams{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if task.Status != TaskCompleted {
		t.Errorf("Status = %s, want completed", task.Status)
	}
	if task.CompletedAt == "" {
		t.Error("CompletedAt should be set when completed")
	}

	got, err := fs.Get(wf.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Progress.Completed != 1 {
		t.Errorf("Completed = %d, want 1", got.Progress.Completed)
	}

	if after := len(eventTypes(t, fs, wf.ID)); after != before {
		t.Errorf("UpdateTask emitted %d event(s); SetTaskStatus is the event-bearing path", after-before)
	}
}

func TestRemoveTask_KeepsSiblingOrders(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	if err := fs.RemoveTask(wf.ID, wf.Tasks[1].ID); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}

	got, err := fs.Get(wf.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got.Tasks))
	}
	if got.Tasks[0].Order != 0 || got.Tasks[1].Order != 2 {
		t.Errorf("orders = %d,%d; removal must not renumber survivors", got.Tasks[0].Order, got.Tasks[1].Order)
	}
	if got.Progress.Total != 2 {
		t.Errorf("Total = %d, want 2", got.Progress.Total)
	}

	if err := fs.RemoveTask(wf.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound for unknown task, got %v", err)
	}
}

func TestReorderTasks(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)
	a, b, c := wf.Tasks[0].ID, wf.Tasks[1].ID, wf.Tasks[2].ID

	got, err := fs.ReorderTasks(wf.ID, []string{c, a, b})
	if err != nil {
		t.Fatalf("ReorderTasks: %v", err)
	}
	ordered := OrderedTasks(got)
	if ordered[0].ID != c || ordered[1].ID != a || ordered[2].ID != b {
		t.Errorf("order after reorder = %s,%s,%s", ordered[0].Title, ordered[1].Title, ordered[2].Title)
	}

	// Empty list is a no-op.
	if _, err := fs.ReorderTasks(wf.ID, nil); err != nil {
		t.Errorf("empty reorder should be a no-op: %v", err)
	}

	// Unknown id fails.
	if _, err := fs.ReorderTasks(wf.ID, []string{"nope"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound for unknown task id, got %v", err)
	}
}

func TestReorderTasks_PartialKeepsUnlistedOrders(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)
	b := wf.Tasks[1].ID

	got, err := fs.ReorderTasks(wf.ID, []string{b})
	if err != nil {
		t.Fatalf("ReorderTasks: %v", err)
	}
	if task := FindTask(got, b); task.Order != 0 {
		t.Errorf("listed task Order = %d, want 0", task.Order)
	}
	if got.Tasks[2].Order != 2 {
		t.Errorf("unlisted task Order = %d, want its previous 2", got.Tasks[2].Order)
	}
}

// --- SetTaskStatus ---

func TestSetTaskStatus_CompletedAtInvariant(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)
	taskID := wf.Tasks[0].ID

	_, task, err := fs.SetTaskStatus(wf.ID, taskID, TaskCompleted, "")
	if err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	if task.CompletedAt == "" {
		t.Error("CompletedAt should be set on completion")
	}

	_, task, err = fs.SetTaskStatus(wf.ID, taskID, TaskInProgress, "reopening")
	if err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	if task.CompletedAt != "" {
		t.Error("CompletedAt must be cleared when leaving completed")
	}
}

func TestSetTaskStatus_StartingActivatesDraft(t *testing.T) {
	fs := newTestStore(t)
	wf, err := fs.Create(CreateParams{Title: "drafted"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	task, err := fs.AddTask(wf.ID, AddTaskParams{Title: "only task"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	got, _, err := fs.SetTaskStatus(wf.ID, task.ID, TaskInProgress, "")
	if err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	if got.Status != StatusActive {
		t.Errorf("Status = %s, want active after first task starts", got.Status)
	}

	types := eventTypes(t, fs, wf.ID)
	last2 := types[len(types)-2:]
	if last2[0] != EventTaskStarted || last2[1] != EventWorkflowStarted {
		t.Errorf("last events = %v, want task_started then workflow_started", last2)
	}
}

func TestSetTaskStatus_LastCompletionFinishesWorkflow(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	for i, task := range wf.Tasks {
		got, _, err := fs.SetTaskStatus(wf.ID, task.ID, TaskCompleted, "")
		if err != nil {
			t.Fatalf("SetTaskStatus #%d: %v", i, err)
		}
		if i < len(wf.Tasks)-1 && got.Status != StatusActive {
			t.Errorf("after %d completions Status = %s, want active", i+1, got.Status)
		}
		if i == len(wf.Tasks)-1 {
			if got.Status != StatusCompleted {
				t.Errorf("final Status = %s, want completed", got.Status)
			}
			if got.Progress.Percentage != 100 {
				t.Errorf("final Percentage = %d, want 100", got.Progress.Percentage)
			}
		}
	}

	types := eventTypes(t, fs, wf.ID)
	if types[len(types)-1] != EventWorkflowCompleted {
		t.Errorf("last event = %s, want workflow_completed", types[len(types)-1])
	}
}

func TestSetTaskStatus_NotePayload(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	if _, _, err := fs.SetTaskStatus(wf.ID, wf.Tasks[0].ID, TaskFailed, "flaky CI"); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}

	events, err := fs.Events(wf.ID)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	last := events[len(events)-1]
	if last.Type != EventTaskFailed {
		t.Fatalf("last event = %s, want task_failed", last.Type)
	}
	if note, _ := last.Payload["note"].(string); note != "flaky CI" {
		t.Errorf("payload note = %q, want 'flaky CI'", note)
	}
}

func TestSetTaskStatus_ProgressRounding(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	got, _, err := fs.SetTaskStatus(wf.ID, wf.Tasks[0].ID, TaskCompleted, "")
	if err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	// 1 of 3 is 33 after rounding.
	if got.Progress.Percentage != 33 {
		t.Errorf("Percentage = %d, want 33", got.Progress.Percentage)
	}

	got, _, err = fs.SetTaskStatus(wf.ID, wf.Tasks[1].ID, TaskCompleted, "")
	if err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	// 2 of 3 rounds up to 67.
	if got.Progress.Percentage != 67 {
		t.Errorf("Percentage = %d, want 67", got.Progress.Percentage)
	}
}

// --- DelegateTask ---

func TestDelegateTask(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	task, err := fs.DelegateTask(wf.ID, wf.Tasks[0].ID, "code-reviewer", "check the schema")
	if err != nil {
		t.Fatalf("DelegateTask: %v", err)
	}
	if task.Status != TaskInProgress {
		t.Errorf("Status = %s, want in_progress", task.Status)
	}

	events, err := fs.Events(wf.ID)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	last := events[len(events)-1]
	if last.Type != EventTaskStarted {
		t.Fatalf("last event = %s, want task_started", last.Type)
	}
	if agent, _ := last.Payload["delegated_to"].(string); agent != "code-reviewer" {
		t.Errorf("payload delegated_to = %q", agent)
	}
	if instr, _ := last.Payload["instructions"].(string); instr != "check the schema" {
		t.Errorf("payload instructions = %q", instr)
	}
}

// --- Linking ---

func TestLink_WorkflowLevelIdempotent(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	got, err := fs.Link("note-1", wf.ID, "")
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	got, err = fs.Link("note-1", wf.ID, "")
	if err != nil {
		t.Fatalf("second Link: %v", err)
	}
	if len(got.RelatedNoteIDs) != 1 {
		t.Errorf("RelatedNoteIDs = %v, want exactly one entry", got.RelatedNoteIDs)
	}

	got, err = fs.Unlink("note-1", wf.ID, "")
	if err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if len(got.RelatedNoteIDs) != 0 {
		t.Errorf("RelatedNoteIDs = %v, want empty after unlink", got.RelatedNoteIDs)
	}

	// Unlinking an absent reference is a no-op.
	if _, err := fs.Unlink("note-1", wf.ID, ""); err != nil {
		t.Errorf("unlink of absent reference should be a no-op: %v", err)
	}
}

func TestLink_TaskLevel(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)
	taskID := wf.Tasks[1].ID

	got, err := fs.Link("note-1", wf.ID, taskID)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if task := FindTask(got, taskID); len(task.NoteIDs) != 1 || task.NoteIDs[0] != "note-1" {
		t.Errorf("task NoteIDs = %v", task.NoteIDs)
	}
	if len(got.RelatedNoteIDs) != 0 {
		t.Error("task-level link must not touch the workflow-level set")
	}

	if _, err := fs.Link("note-1", wf.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound for unknown task, got %v", err)
	}
}

// --- Checkpoints ---

func TestCheckpoint_RestoreRoundtrip(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	if _, _, err := fs.SetTaskStatus(wf.ID, wf.Tasks[0].ID, TaskCompleted, ""); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	cp, err := fs.CreateCheckpoint(wf.ID, "one down", ReasonMilestone)
	if err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}
	if cp.Snapshot.Progress.Completed != 1 {
		t.Errorf("snapshot Completed = %d, want 1", cp.Snapshot.Progress.Completed)
	}

	// Drift past the checkpoint.
	if _, _, err := fs.SetTaskStatus(wf.ID, wf.Tasks[1].ID, TaskCompleted, ""); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}

	got, err := fs.RestoreCheckpoint(wf.ID, cp.ID)
	if err != nil {
		t.Fatalf("RestoreCheckpoint: %v", err)
	}
	if got.Progress.Completed != 1 {
		t.Errorf("restored Completed = %d, want 1", got.Progress.Completed)
	}
	if task := FindTask(got, wf.Tasks[1].ID); task.Status != TaskPending {
		t.Errorf("post-checkpoint completion should be rolled back, got %s", task.Status)
	}

	if _, err := fs.RestoreCheckpoint(wf.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound for unknown checkpoint, got %v", err)
	}
}

func TestCheckpoint_SnapshotIsDeepCopy(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	cp, err := fs.CreateCheckpoint(wf.ID, "", ReasonAuto)
	if err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}

	if _, _, err := fs.SetTaskStatus(wf.ID, wf.Tasks[0].ID, TaskCompleted, ""); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}

	listed, err := fs.ListCheckpoints(wf.ID)
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	if listed[0].Snapshot.Tasks[0].Status != TaskPending {
		t.Error("snapshot changed after a later mutation; it must be immutable")
	}
	_ = cp
}

func TestCheckpoint_ListNewestFirstAndLatest(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	first, err := fs.CreateCheckpoint(wf.ID, "first", ReasonManual)
	if err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}
	second, err := fs.CreateCheckpoint(wf.ID, "second", ReasonSessionEnd)
	if err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}

	listed, err := fs.ListCheckpoints(wf.ID)
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != second.ID || listed[1].ID != first.ID {
		t.Errorf("list order wrong: %v, %v", listed[0].Notes, listed[1].Notes)
	}

	latest, err := fs.LatestCheckpoint(wf.ID)
	if err != nil {
		t.Fatalf("LatestCheckpoint: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Error("LatestCheckpoint should return the newest checkpoint")
	}

	types := eventTypes(t, fs, wf.ID)
	if types[len(types)-1] != EventCheckpointCreated {
		t.Errorf("last event = %s, want checkpoint_created", types[len(types)-1])
	}
}

func TestLatestCheckpoint_NoneIsNil(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	latest, err := fs.LatestCheckpoint(wf.ID)
	if err != nil {
		t.Fatalf("LatestCheckpoint: %v", err)
	}
	if latest != nil {
		t.Error("want nil when no checkpoints exist")
	}
}

func TestCheckpoint_DefaultsToManual(t *testing.T) {
	fs := newTestStore(t)
	wf := seedWorkflow(t, fs)

	cp, err := fs.CreateCheckpoint(wf.ID, "", "")
	if err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}
	if cp.Reason != ReasonManual {
		t.Errorf("Reason = %s, want manual", cp.Reason)
	}
}

// --- Events ---

func TestEvents_UnknownWorkflow(t *testing.T) {
	fs := newTestStore(t)
	if _, err := fs.Events("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}
