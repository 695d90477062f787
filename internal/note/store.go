package note

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magicnote/magic-note/internal/storage"
)

// NotesFile is the filename for the persisted note set.
const NotesFile = "notes.json"

// ErrNotFound reports that a note id did not resolve.
var ErrNotFound = errors.New("note not found")

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Store defines the persistence interface for notes.
// Abstracted so tools depend on the interface, not the file layout.
type Store interface {
	Create(params CreateParams) (*Note, error)
	Get(id string) (*Note, error)
	List(filter Filter) ([]Note, error)
	Update(id string, params UpdateParams) (*Note, error)
	Delete(id string) error
	UpsertInsight(project, content string) (*Note, bool, error)
}

// FileStore implements Store on a single JSON document.
// All mutations are serialized behind a mutex: within one server instance
// the load → mutate → persist unit of work is race-free. Concurrent
// processes sharing a data dir remain last-writer-wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a note store rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{path: filepath.Join(dataDir, NotesFile)}
}

// Create validates and persists a new note.
func (fs *FileStore) Create(params CreateParams) (*Note, error) {
	if err := ValidateType(params.Type); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	notes, err := fs.load()
	if err != nil {
		return nil, err
	}

	now := timeNow().UTC().Format(time.RFC3339)
	n := Note{
		ID:        newID(),
		Type:      params.Type,
		Title:     params.Title,
		Content:   params.Content,
		Tags:      params.Tags,
		Project:   params.Project,
		CreatedAt: now,
		UpdatedAt: now,
	}

	notes = append(notes, n)
	if err := fs.save(notes); err != nil {
		return nil, err
	}
	return &n, nil
}

// Get returns a note by id.
func (fs *FileStore) Get(id string) (*Note, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	notes, err := fs.load()
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == id {
			n := notes[i]
			return &n, nil
		}
	}
	return nil, fmt.Errorf("note %q: %w", id, ErrNotFound)
}

// List returns notes matching the filter, most recently updated first.
func (fs *FileStore) List(filter Filter) ([]Note, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	notes, err := fs.load()
	if err != nil {
		return nil, err
	}

	var result []Note
	for _, n := range notes {
		if matches(n, filter) {
			result = append(result, n)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt > result[j].UpdatedAt
	})
	return result, nil
}

// Update applies a partial update to a note.
func (fs *FileStore) Update(id string, params UpdateParams) (*Note, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	notes, err := fs.load()
	if err != nil {
		return nil, err
	}

	for i := range notes {
		if notes[i].ID != id {
			continue
		}
		if params.Title != nil {
			notes[i].Title = *params.Title
		}
		if params.Content != nil {
			notes[i].Content = *params.Content
		}
		if params.Tags != nil {
			notes[i].Tags = *params.Tags
		}
		if params.Project != nil {
			notes[i].Project = *params.Project
		}
		notes[i].UpdatedAt = timeNow().UTC().Format(time.RFC3339)

		if err := fs.save(notes); err != nil {
			return nil, err
		}
		n := notes[i]
		return &n, nil
	}
	return nil, fmt.Errorf("note %q: %w", id, ErrNotFound)
}

// Delete removes a note by id.
func (fs *FileStore) Delete(id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	notes, err := fs.load()
	if err != nil {
		return err
	}

	for i := range notes {
		if notes[i].ID == id {
			notes = append(notes[:i], notes[i+1:]...)
			return fs.save(notes)
		}
	}
	return fmt.Errorf("note %q: %w", id, ErrNotFound)
}

// UpsertInsight appends a dated entry to the project's single insight note,
// creating the note on first use. Returns the note and whether it was created.
func (fs *FileStore) UpsertInsight(project, content string) (*Note, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	notes, err := fs.load()
	if err != nil {
		return nil, false, err
	}

	now := timeNow().UTC()
	entry := fmt.Sprintf("## %s\n\n%s", now.Format("2006-01-02 15:04"), content)

	for i := range notes {
		if notes[i].Type == TypeInsight && notes[i].Project == project {
			notes[i].Content += "\n\n" + entry
			notes[i].UpdatedAt = now.Format(time.RFC3339)
			if err := fs.save(notes); err != nil {
				return nil, false, err
			}
			n := notes[i]
			return &n, false, nil
		}
	}

	n := Note{
		ID:        newID(),
		Type:      TypeInsight,
		Title:     fmt.Sprintf("Insights: %s", project),
		Content:   entry,
		Project:   project,
		CreatedAt: now.Format(time.RFC3339),
		UpdatedAt: now.Format(time.RFC3339),
	}
	notes = append(notes, n)
	if err := fs.save(notes); err != nil {
		return nil, false, err
	}
	return &n, true, nil
}

// matches reports whether a note satisfies every populated filter field.
func matches(n Note, f Filter) bool {
	if f.Type != "" && n.Type != f.Type {
		return false
	}
	if f.Project != "" && n.Project != f.Project {
		return false
	}
	for _, want := range f.Tags {
		if !hasTag(n.Tags, want) {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(n.Title), needle) && !tagContains(n.Tags, needle) {
			return false
		}
	}
	return true
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func tagContains(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// load reads the full note set. A missing file is an empty set.
func (fs *FileStore) load() ([]Note, error) {
	var notes []Note
	if err := storage.ReadJSON(fs.path, &notes); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading notes: %w", err)
	}
	return notes, nil
}

// save persists the full note set. An empty set is written as [],
// not null, so the document stays an array.
func (fs *FileStore) save(notes []Note) error {
	if notes == nil {
		notes = []Note{}
	}
	if err := storage.WriteJSON(fs.path, notes); err != nil {
		return fmt.Errorf("writing notes: %w", err)
	}
	return nil
}

// newID generates a note id: UUIDv7 for time-ordered ids, falling back
// to random v4 if the monotonic source fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
