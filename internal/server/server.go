// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the concrete stores and injects
// them into the tool handlers that depend on the store interfaces. No
// business logic lives here, only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/magicnote/magic-note/internal/config"
	"github.com/magicnote/magic-note/internal/flowtools"
	"github.com/magicnote/magic-note/internal/note"
	"github.com/magicnote/magic-note/internal/notetools"
	"github.com/magicnote/magic-note/internal/templates"
	"github.com/magicnote/magic-note/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where dependencies are resolved.
func New(cfg *config.Config) (*server.MCPServer, error) {
	notes := note.NewFileStore(cfg.DataDir)
	flows := workflow.NewFileStore(cfg.DataDir)
	if cfg.StrictTransitions {
		flows.EnableStrictTransitions()
	}
	renderer := templates.NewRenderer()

	s := server.NewMCPServer(
		"magic-note",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Note tools ---

	addNote := notetools.NewAddNoteTool(notes)
	s.AddTool(addNote.Definition(), addNote.Handle)

	getNote := notetools.NewGetNoteTool(notes)
	s.AddTool(getNote.Definition(), getNote.Handle)

	listNotes := notetools.NewListNotesTool(notes)
	s.AddTool(listNotes.Definition(), listNotes.Handle)

	updateNote := notetools.NewUpdateNoteTool(notes)
	s.AddTool(updateNote.Definition(), updateNote.Handle)

	deleteNote := notetools.NewDeleteNoteTool(notes)
	s.AddTool(deleteNote.Definition(), deleteNote.Handle)

	upsertInsight := notetools.NewUpsertInsightTool(notes)
	s.AddTool(upsertInsight.Definition(), upsertInsight.Handle)

	// --- Template tools ---

	listTemplates := notetools.NewListTemplatesTool(renderer)
	s.AddTool(listTemplates.Definition(), listTemplates.Handle)

	useTemplate := notetools.NewUseTemplateTool(renderer)
	s.AddTool(useTemplate.Definition(), useTemplate.Handle)

	// --- Directory tools ---

	listProjects := notetools.NewListProjectsTool(notes, flows)
	s.AddTool(listProjects.Definition(), listProjects.Handle)

	listTags := notetools.NewListTagsTool(notes, flows)
	s.AddTool(listTags.Definition(), listTags.Handle)

	// --- Workflow tools ---

	createWorkflow := flowtools.NewCreateWorkflowTool(flows, notes)
	s.AddTool(createWorkflow.Definition(), createWorkflow.Handle)

	getWorkflow := flowtools.NewGetWorkflowTool(flows)
	s.AddTool(getWorkflow.Definition(), getWorkflow.Handle)

	listWorkflows := flowtools.NewListWorkflowsTool(flows)
	s.AddTool(listWorkflows.Definition(), listWorkflows.Handle)

	updateWorkflow := flowtools.NewUpdateWorkflowTool(flows)
	s.AddTool(updateWorkflow.Definition(), updateWorkflow.Handle)

	deleteWorkflow := flowtools.NewDeleteWorkflowTool(flows)
	s.AddTool(deleteWorkflow.Definition(), deleteWorkflow.Handle)

	archiveWorkflow := flowtools.NewArchiveWorkflowTool(flows)
	s.AddTool(archiveWorkflow.Definition(), archiveWorkflow.Handle)

	// --- Task tools ---

	addTask := flowtools.NewAddTaskTool(flows)
	s.AddTool(addTask.Definition(), addTask.Handle)

	updateTask := flowtools.NewUpdateTaskTool(flows)
	s.AddTool(updateTask.Definition(), updateTask.Handle)

	removeTask := flowtools.NewRemoveTaskTool(flows)
	s.AddTool(removeTask.Definition(), removeTask.Handle)

	reorderTasks := flowtools.NewReorderTasksTool(flows)
	s.AddTool(reorderTasks.Definition(), reorderTasks.Handle)

	setTaskStatus := flowtools.NewSetTaskStatusTool(flows)
	s.AddTool(setTaskStatus.Definition(), setTaskStatus.Handle)

	delegateTask := flowtools.NewDelegateTaskTool(flows)
	s.AddTool(delegateTask.Definition(), delegateTask.Handle)

	// --- Checkpoint tools ---

	createCheckpoint := flowtools.NewCreateCheckpointTool(flows)
	s.AddTool(createCheckpoint.Definition(), createCheckpoint.Handle)

	listCheckpoints := flowtools.NewListCheckpointsTool(flows)
	s.AddTool(listCheckpoints.Definition(), listCheckpoints.Handle)

	restoreCheckpoint := flowtools.NewRestoreCheckpointTool(flows)
	s.AddTool(restoreCheckpoint.Definition(), restoreCheckpoint.Handle)

	// --- Linking tools ---

	linkArtifact := flowtools.NewLinkArtifactTool(flows, notes)
	s.AddTool(linkArtifact.Definition(), linkArtifact.Handle)

	unlinkArtifact := flowtools.NewUnlinkArtifactTool(flows, notes)
	s.AddTool(unlinkArtifact.Definition(), unlinkArtifact.Handle)

	// --- Query tools ---

	workflowStatus := flowtools.NewGetWorkflowStatusTool(flows)
	s.AddTool(workflowStatus.Definition(), workflowStatus.Handle)

	resumeWorkflow := flowtools.NewResumeWorkflowTool(flows)
	s.AddTool(resumeWorkflow.Definition(), resumeWorkflow.Handle)

	getTimeline := flowtools.NewGetTimelineTool(flows)
	s.AddTool(getTimeline.Definition(), getTimeline.Handle)

	return s, nil
}

// serverInstructions returns the guidance sent to MCP clients on initialize.
func serverInstructions() string {
	return `Magic Note is persistent working memory for coding agents: typed notes
(prompt, plan, choice, insight) plus tracked workflows with ordered tasks,
checkpoints, and an event timeline.

Typical loop:
1. Capture context as notes (add_note, upsert_insight, use_template).
2. Turn a plan into tracked work: create_workflow with inline tasks or
   plan_note_id.
3. Report progress with set_task_status. It updates workflow status and the
   event log automatically.
4. Checkpoint before breaks (create_checkpoint) and recover with
   resume_workflow.
5. Inspect with get_workflow_status, get_timeline, list_projects, list_tags.

Notes and workflows are linked weakly via link_artifact; deleting either
side never cascades to the other.`
}
