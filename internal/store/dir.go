package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jot-sh/jot/internal/clierr"
	"github.com/jot-sh/jot/internal/ident"
)

const (
	tasksDirName   = "tasks"
	taskExt        = ".task"
	archiveLogName = "decay.log"

	recordFileMode = 0o600
	dirMode        = 0o750

	// maxIDAttempts bounds the collision-retry loop. The identifier
	// space dwarfs any plausible live task count, so hitting the bound
	// means the random source is broken, not that the store is full.
	maxIDAttempts = 100
)

// dirBackend persists one text file per task under <root>/tasks and
// appends decay blocks to <root>/decay.log.
type dirBackend struct {
	root string
}

func newDirBackend(root string) *dirBackend {
	return &dirBackend{root: root}
}

// initDir creates the tasks subdirectory for a fresh store.
func (b *dirBackend) initDir() error {
	if err := os.MkdirAll(b.tasksPath(), dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}
	return nil
}

func (b *dirBackend) Create(text string) (string, error) {
	for range maxIDAttempts {
		id := ident.New()
		path := b.recordPath(id)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(text), recordFileMode); err != nil {
			return "", fmt.Errorf("writing record: %w", err)
		}
		return id, nil
	}
	return "", clierr.Newf(clierr.IDSpaceExhausted,
		"failed to generate a unique id after %d attempts", maxIDAttempts)
}

func (b *dirBackend) Load(id string) (string, error) {
	data, err := os.ReadFile(b.recordPath(id)) //nolint:gosec // record path from trusted store root
	if err != nil {
		if os.IsNotExist(err) {
			return "", clierr.Newf(clierr.TaskNotFound, "task %s not found", id).
				WithDetails(map[string]any{"id": id})
		}
		return "", fmt.Errorf("reading record %s: %w", id, err)
	}
	return string(data), nil
}

func (b *dirBackend) Save(id, text string) error {
	if err := os.WriteFile(b.recordPath(id), []byte(text), recordFileMode); err != nil {
		return fmt.Errorf("writing record %s: %w", id, err)
	}
	return nil
}

func (b *dirBackend) Delete(id string) error {
	if err := os.Remove(b.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return clierr.Newf(clierr.TaskNotFound, "task %s not found", id).
				WithDetails(map[string]any{"id": id})
		}
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	return nil
}

func (b *dirBackend) List() ([]Record, error) {
	entries, err := os.ReadDir(b.tasksPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, taskExt) {
			continue
		}
		id := strings.TrimSuffix(name, taskExt)
		text, err := b.Load(id)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{ID: id, Text: text})
	}
	return records, nil
}

func (b *dirBackend) AppendArchive(text string) error {
	path := filepath.Join(b.root, archiveLogName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, recordFileMode) //nolint:gosec // log path from trusted store root
	if err != nil {
		return fmt.Errorf("opening archive log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("writing archive log: %w", err)
	}
	return nil
}

func (b *dirBackend) tasksPath() string {
	return filepath.Join(b.root, tasksDirName)
}

func (b *dirBackend) recordPath(id string) string {
	return filepath.Join(b.tasksPath(), id+taskExt)
}
