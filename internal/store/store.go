// Package store owns the persistence root and maps task identifiers to
// records over a pluggable backend.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jot-sh/jot/internal/clierr"
	"github.com/jot-sh/jot/internal/config"
	"github.com/jot-sh/jot/internal/filelock"
	"github.com/jot-sh/jot/internal/ident"
	"github.com/jot-sh/jot/internal/task"
)

// DirName is the persistence root directory created by init.
const DirName = ".jot"

const lockFileName = ".lock"

// Warning describes a record that could not be decoded during a
// lenient listing.
type Warning struct {
	ID  string
	Err error
}

// Store provides task record persistence over a Backend chosen by the
// tracker config.
type Store struct {
	cfg     *config.Config
	backend Backend
}

// Init creates a fresh persistence root under parentDir and returns an
// open store. Fails with AlreadyInitialized when the root exists.
func Init(parentDir, backendName, defaultAgent string) (*Store, error) {
	absParent, err := filepath.Abs(parentDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	root := filepath.Join(absParent, DirName)
	if _, err := os.Stat(root); err == nil {
		return nil, clierr.Newf(clierr.AlreadyInitialized, "%s already exists", root).
			WithDetails(map[string]any{"dir": root})
	}

	cfg := config.NewDefault(backendName)
	cfg.DefaultAgent = defaultAgent
	cfg.SetDir(root)

	s, err := open(cfg)
	if err != nil {
		return nil, err
	}

	// For the jj backend the repository check and bookmark creation
	// come first so a failure leaves no half-initialized .jot behind.
	if jj, ok := s.backend.(*jjBackend); ok {
		if err := jj.checkRepo(); err != nil {
			return nil, err
		}
		if err := jj.initRoot(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(root, dirMode); err != nil {
		return nil, fmt.Errorf("creating %s: %w", root, err)
	}
	if dir, ok := s.backend.(*dirBackend); ok {
		if err := dir.initDir(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open locates an existing persistence root by walking ancestor
// directories from startDir. Fails with NotInitialized if none is found.
func Open(startDir string) (*Store, error) {
	root, err := FindDir(startDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	return open(cfg)
}

// OpenAt opens the store for an already-loaded config.
func OpenAt(cfg *config.Config) (*Store, error) {
	return open(cfg)
}

func open(cfg *config.Config) (*Store, error) {
	s := &Store{cfg: cfg}
	switch cfg.Backend {
	case config.BackendDir:
		s.backend = newDirBackend(cfg.Dir())
	case config.BackendJJ:
		s.backend = newJJBackend(filepath.Dir(cfg.Dir()))
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalid, cfg.Backend)
	}
	return s, nil
}

// FindDir walks upward from startDir looking for a .jot directory.
func FindDir(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.NotInitialized,
				"no task tracker found (run 'jot init' to create one)")
		}
		dir = parent
	}
}

// Config returns the tracker config the store was opened with.
func (s *Store) Config() *config.Config { return s.cfg }

// RecordsDir returns the directory task records live in and true when
// the backend keeps records on the filesystem.
func (s *Store) RecordsDir() (string, bool) {
	if b, ok := s.backend.(*dirBackend); ok {
		return b.tasksPath(), true
	}
	return "", false
}

// Create persists a new task and assigns its identifier. An exclusive
// advisory lock covers the identifier allocation so concurrent creates
// cannot collide; every other operation stays last-writer-wins.
func (s *Store) Create(t *task.Task) error {
	unlock, err := filelock.Lock(filepath.Join(s.cfg.Dir(), lockFileName))
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	id, err := s.backend.Create(task.Encode(t))
	if err != nil {
		return err
	}
	t.ID = id
	return s.backend.Save(id, task.Encode(t))
}

// Resolve accepts a full id or an unambiguous prefix and returns the
// canonical identifier. The "jt-" prefix may be omitted for records
// stored by the dir backend.
func (s *Store) Resolve(partial string) (string, error) {
	records, err := s.backend.List()
	if err != nil {
		return "", err
	}

	matches := matchPrefix(records, partial)
	if len(matches) == 0 && !strings.HasPrefix(partial, ident.Prefix) {
		matches = matchPrefix(records, ident.Normalize(partial))
	}

	switch len(matches) {
	case 0:
		return "", clierr.Newf(clierr.TaskNotFound, "no task matching %q", partial).
			WithDetails(map[string]any{"id": partial})
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", clierr.Newf(clierr.AmbiguousID, "ambiguous id %q, matches: %s",
			partial, strings.Join(matches, ", ")).
			WithDetails(map[string]any{"id": partial, "matches": matches})
	}
}

func matchPrefix(records []Record, prefix string) []string {
	var matches []string
	for _, r := range records {
		if strings.HasPrefix(r.ID, prefix) {
			matches = append(matches, r.ID)
		}
	}
	return matches
}

// Load reads and decodes the record stored under id.
func (s *Store) Load(id string) (*task.Task, error) {
	text, err := s.backend.Load(id)
	if err != nil {
		return nil, err
	}
	t, err := task.Decode(text, id)
	if err != nil {
		return nil, clierr.Newf(clierr.CorruptRecord, "task %s is corrupt: %v", id, err).
			WithDetails(map[string]any{"id": id})
	}
	return t, nil
}

// Save persists the full record at its id, overwriting any previous
// content. Idempotent.
func (s *Store) Save(t *task.Task) error {
	return s.backend.Save(t.ID, task.Encode(t))
}

// Delete removes the record permanently. Used only by decay.
func (s *Store) Delete(id string) error {
	return s.backend.Delete(id)
}

// List returns every live record ordered by creation time ascending,
// ties broken by id. Records that fail to decode are skipped and
// reported as warnings so one corrupt file cannot hide the rest.
func (s *Store) List() ([]*task.Task, []Warning, error) {
	records, err := s.backend.List()
	if err != nil {
		return nil, nil, err
	}

	var tasks []*task.Task
	var warnings []Warning
	for _, r := range records {
		t, err := task.Decode(r.Text, r.ID)
		if err != nil {
			warnings = append(warnings, Warning{ID: r.ID, Err: err})
			continue
		}
		tasks = append(tasks, t)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].Created.Equal(tasks[j].Created) {
			return tasks[i].Created.Before(tasks[j].Created)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, warnings, nil
}

// Archive appends a block to the archive log, then deletes the listed
// records. Not transactional: an interruption between the append and a
// delete leaves that task both live and logged, which is tolerated and
// never corrected automatically.
func (s *Store) Archive(ids []string, block string) error {
	if err := s.backend.AppendArchive(block); err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Delete(id); err != nil {
			return err
		}
	}
	return nil
}
