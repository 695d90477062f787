package note

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir())
}

func mustCreate(t *testing.T, fs *FileStore, params CreateParams) *Note {
	t.Helper()
	n, err := fs.Create(params)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return n
}

// --- Create ---

func TestCreate_SetsFields(t *testing.T) {
	fs := newTestStore(t)

	n := mustCreate(t, fs, CreateParams{
		Type:    TypePlan,
		Title:   "Auth rollout",
		Content: "- step one",
		Tags:    []string{"auth", "backend"},
		Project: "webapp",
	})

	if n.ID == "" {
		t.Error("ID should be assigned")
	}
	if n.Type != TypePlan {
		t.Errorf("Type = %s, want plan", n.Type)
	}
	if n.CreatedAt == "" || n.CreatedAt != n.UpdatedAt {
		t.Errorf("timestamps: created %q, updated %q, want equal and non-empty", n.CreatedAt, n.UpdatedAt)
	}
	if _, err := time.Parse(time.RFC3339, n.CreatedAt); err != nil {
		t.Errorf("CreatedAt not RFC3339: %v", err)
	}
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	fs := newTestStore(t)

	_, err := fs.Create(CreateParams{Type: "journal", Title: "x", Content: "y"})
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !strings.Contains(err.Error(), "invalid note type") {
		t.Errorf("error = %v, want invalid note type", err)
	}
}

func TestCreate_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	n := mustCreate(t, NewFileStore(dir), CreateParams{Type: TypePrompt, Title: "keep", Content: "body"})

	got, err := NewFileStore(dir).Get(n.ID)
	if err != nil {
		t.Fatalf("Get from fresh store: %v", err)
	}
	if got.Title != "keep" {
		t.Errorf("Title = %q, want keep", got.Title)
	}
}

// --- Get ---

func TestGet_NotFound(t *testing.T) {
	fs := newTestStore(t)

	_, err := fs.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

// --- List ---

func TestList_EmptyStore(t *testing.T) {
	fs := newTestStore(t)

	notes, err := fs.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("got %d notes, want 0", len(notes))
	}
}

func TestList_FiltersAreANDCombined(t *testing.T) {
	fs := newTestStore(t)
	mustCreate(t, fs, CreateParams{Type: TypePlan, Title: "plan a", Content: "c", Project: "webapp", Tags: []string{"auth"}})
	mustCreate(t, fs, CreateParams{Type: TypePlan, Title: "plan b", Content: "c", Project: "cli", Tags: []string{"auth"}})
	mustCreate(t, fs, CreateParams{Type: TypeChoice, Title: "pick db", Content: "c", Project: "webapp"})

	notes, err := fs.List(Filter{Type: TypePlan, Project: "webapp"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "plan a" {
		t.Errorf("got %d notes, want exactly 'plan a'", len(notes))
	}
}

func TestList_TagFilterRequiresAllTags(t *testing.T) {
	fs := newTestStore(t)
	mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "both", Content: "c", Tags: []string{"auth", "backend"}})
	mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "one", Content: "c", Tags: []string{"auth"}})

	notes, err := fs.List(Filter{Tags: []string{"auth", "backend"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "both" {
		t.Errorf("got %d notes, want exactly 'both'", len(notes))
	}
}

func TestList_SearchMatchesTitleAndTags(t *testing.T) {
	fs := newTestStore(t)
	mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "JWT refresh tokens", Content: "c"})
	mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "unrelated", Content: "c", Tags: []string{"jwt-helpers"}})
	mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "nothing here", Content: "jwt only in content"})

	notes, err := fs.List(Filter{Search: "JWT"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2 (title and tag matches, not content)", len(notes))
	}
}

func TestList_NewestUpdatedFirst(t *testing.T) {
	fs := newTestStore(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	restore := timeNow
	defer func() { timeNow = restore }()

	timeNow = func() time.Time { return base }
	mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "older", Content: "c"})
	timeNow = func() time.Time { return base.Add(time.Hour) }
	mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "newer", Content: "c"})

	notes, err := fs.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 2 || notes[0].Title != "newer" {
		t.Errorf("want 'newer' first, got %+v", notes)
	}
}

// --- Update ---

func TestUpdate_PartialFields(t *testing.T) {
	fs := newTestStore(t)
	n := mustCreate(t, fs, CreateParams{Type: TypeChoice, Title: "old title", Content: "old body", Project: "webapp"})

	title := "new title"
	got, err := fs.Update(n.ID, UpdateParams{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "new title" {
		t.Errorf("Title = %q, want new title", got.Title)
	}
	if got.Content != "old body" {
		t.Errorf("Content = %q, should be untouched", got.Content)
	}
	if got.Project != "webapp" {
		t.Errorf("Project = %q, should be untouched", got.Project)
	}
	if got.Type != TypeChoice {
		t.Errorf("Type = %s, must never change", got.Type)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	fs := newTestStore(t)
	title := "x"
	if _, err := fs.Update("nope", UpdateParams{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

// --- Delete ---

func TestDelete_RemovesNote(t *testing.T) {
	fs := newTestStore(t)
	n := mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "doomed", Content: "c"})

	if err := fs.Delete(n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Get(n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted note still resolves: %v", err)
	}
	if err := fs.Delete(n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be NotFound, got %v", err)
	}
}

func TestDelete_LastNoteLeavesArrayDocument(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	n := mustCreate(t, fs, CreateParams{Type: TypePrompt, Title: "only", Content: "c"})

	if err := fs.Delete(n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, NotesFile))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		t.Errorf("document should stay a JSON array, got: %s", data)
	}
}

// --- UpsertInsight ---

func TestUpsertInsight_CreatesThenAppends(t *testing.T) {
	fs := newTestStore(t)

	restore := timeNow
	defer func() { timeNow = restore }()
	timeNow = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	first, created, err := fs.UpsertInsight("webapp", "config lives in /etc/webapp")
	if err != nil {
		t.Fatalf("UpsertInsight: %v", err)
	}
	if !created {
		t.Error("first call should create the note")
	}
	if first.Title != "Insights: webapp" {
		t.Errorf("Title = %q, want 'Insights: webapp'", first.Title)
	}
	if first.Type != TypeInsight {
		t.Errorf("Type = %s, want insight", first.Type)
	}
	if !strings.Contains(first.Content, "## 2026-03-01 09:30") {
		t.Errorf("content missing dated heading: %s", first.Content)
	}

	timeNow = func() time.Time { return time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC) }
	second, created, err := fs.UpsertInsight("webapp", "retries are handled upstream")
	if err != nil {
		t.Fatalf("UpsertInsight: %v", err)
	}
	if created {
		t.Error("second call should append, not create")
	}
	if second.ID != first.ID {
		t.Error("insight entries should land in the same note")
	}
	if !strings.Contains(second.Content, "## 2026-03-01 09:30") || !strings.Contains(second.Content, "## 2026-03-02 14:00") {
		t.Errorf("content should carry both dated entries: %s", second.Content)
	}

	notes, err := fs.List(Filter{Type: TypeInsight, Project: "webapp"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("got %d insight notes for webapp, want 1", len(notes))
	}
}

func TestUpsertInsight_SeparatePerProject(t *testing.T) {
	fs := newTestStore(t)

	a, _, err := fs.UpsertInsight("alpha", "one")
	if err != nil {
		t.Fatalf("UpsertInsight: %v", err)
	}
	b, _, err := fs.UpsertInsight("beta", "two")
	if err != nil {
		t.Fatalf("UpsertInsight: %v", err)
	}
	if a.ID == b.ID {
		t.Error("different projects must get different insight notes")
	}
}
