package store

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/jot-sh/jot/internal/clierr"
)

const (
	// jjBookmark names the root commit that anchors all task records.
	// Each record is the description of a child commit of this bookmark;
	// the bookmark commit's own description holds the archive log.
	jjBookmark = "jot"

	jjListMarker    = "<<JOT:"
	jjListEndMarker = "<<JOT:END>>"
)

// jjBackend stores each task record as the description of a jj commit.
// jj is treated purely as a key-value store: a change id addresses an
// opaque text blob.
type jjBackend struct {
	// dir is the working directory for jj invocations, the directory
	// holding the .jot dir.
	dir string
}

func newJJBackend(dir string) *jjBackend {
	return &jjBackend{dir: dir}
}

// run executes a jj command and returns its output streams.
func (b *jjBackend) run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command("jj", args...)
	cmd.Dir = b.dir
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	stdout, stderr = outBuf.String(), errBuf.String()
	if err != nil {
		if _, lookErr := exec.LookPath("jj"); lookErr != nil {
			return stdout, stderr, clierr.New(clierr.BackendFailure, "jj executable not found in PATH")
		}
		return stdout, stderr, clierr.Newf(clierr.BackendFailure, "jj %s: %s",
			strings.Join(args, " "), strings.TrimSpace(stderr))
	}
	return stdout, stderr, nil
}

// checkRepo verifies that the working directory is inside a jj repository.
func (b *jjBackend) checkRepo() error {
	if _, _, err := b.run("root"); err != nil {
		return clierr.New(clierr.BackendFailure, "not in a jj repository")
	}
	return nil
}

// initRoot creates the root bookmark that task record commits hang off.
func (b *jjBackend) initRoot() error {
	if out, _, err := b.run("bookmark", "list"); err == nil {
		for _, line := range strings.Split(out, "\n") {
			if line == jjBookmark || strings.HasPrefix(line, jjBookmark+":") || strings.HasPrefix(line, jjBookmark+" ") {
				return clierr.Newf(clierr.AlreadyInitialized, "%s bookmark already exists", jjBookmark)
			}
		}
	}
	_, stderr, err := b.run("new", "root()", "--no-edit", "-m", jjBookmark+" root")
	if err != nil {
		return err
	}
	id, err := parseChangeID(stderr)
	if err != nil {
		return err
	}
	_, _, err = b.run("bookmark", "create", jjBookmark, "-r", id)
	return err
}

func (b *jjBackend) Create(text string) (string, error) {
	_, stderr, err := b.run("new", jjBookmark, "--no-edit", "-m", text)
	if err != nil {
		return "", err
	}
	return parseChangeID(stderr)
}

func (b *jjBackend) Load(id string) (string, error) {
	out, _, err := b.run("log", "-r", id, "--no-graph", "-T", "description")
	if err != nil {
		return "", clierr.Newf(clierr.TaskNotFound, "task %s not found", id).
			WithDetails(map[string]any{"id": id, "cause": err.Error()})
	}
	return out, nil
}

func (b *jjBackend) Save(id, text string) error {
	_, _, err := b.run("describe", "-r", id, "-m", text)
	return err
}

func (b *jjBackend) Delete(id string) error {
	_, _, err := b.run("abandon", id)
	return err
}

func (b *jjBackend) List() ([]Record, error) {
	template := fmt.Sprintf(
		`"%s" ++ change_id.short(12) ++ ">>\n" ++ description ++ "\n%s\n"`,
		jjListMarker, jjListEndMarker)
	out, _, err := b.run("log", "-r", "children("+jjBookmark+")", "--no-graph", "-T", template)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, block := range strings.Split(out, jjListEndMarker+"\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		header, text, found := strings.Cut(block, "\n")
		if !found {
			continue
		}
		id, ok := strings.CutPrefix(header, jjListMarker)
		if !ok {
			continue
		}
		id, ok = strings.CutSuffix(id, ">>")
		if !ok {
			continue
		}
		records = append(records, Record{ID: id, Text: text})
	}
	return records, nil
}

// AppendArchive appends a decay block to the root bookmark commit's
// description, which serves as the append-only archive log.
func (b *jjBackend) AppendArchive(text string) error {
	current, err := b.Load(jjBookmark)
	if err != nil {
		return err
	}
	if current != "" && !strings.HasSuffix(current, "\n") {
		current += "\n"
	}
	return b.Save(jjBookmark, current+text)
}

// parseChangeID extracts the change id jj reports for a new commit.
func parseChangeID(stderr string) (string, error) {
	for _, line := range strings.Split(stderr, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Created new commit ")
		if !ok {
			continue
		}
		if id, _, found := strings.Cut(rest, " "); found || id != "" {
			return id, nil
		}
	}
	return "", clierr.Newf(clierr.BackendFailure, "could not parse change id from jj output: %s",
		strings.TrimSpace(stderr))
}
