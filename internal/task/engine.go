package task

import (
	"slices"
	"strings"
	"time"

	"github.com/jot-sh/jot/internal/clierr"
)

// FallbackAuthor is used when no agent can be resolved for a note.
const FallbackAuthor = "unknown"

// Claim transitions an open task to claimed by the given agent.
func (t *Task) Claim(agent string, now time.Time) error {
	switch t.Status {
	case StatusDone:
		return clierr.Newf(clierr.AlreadyDone, "task %s is already done", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	case StatusClaimed:
		return clierr.Newf(clierr.AlreadyClaimed, "task %s is already claimed by %s",
			t.ID, t.claimant()).
			WithDetails(map[string]any{"id": t.ID, "agent": t.Agent})
	}
	t.Status = StatusClaimed
	t.Agent = agent
	t.Updated = now
	return nil
}

// Done completes a task from open or claimed, recording the completion
// timestamp. A non-empty note is appended, authored by the current
// claimant, falling back to defaultAgent. The agent field is kept so a
// done task still shows who finished it; only Reopen clears it.
func (t *Task) Done(note, defaultAgent string, now time.Time) error {
	if t.Status == StatusDone {
		return clierr.Newf(clierr.AlreadyDone, "task %s is already done", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	}
	t.Status = StatusDone
	t.DoneAt = &now
	if note != "" {
		author := t.Agent
		if author == "" {
			author = defaultAgent
		}
		t.AddNote(author, note, now)
	}
	t.Updated = now
	return nil
}

// Reopen returns a task to open, clearing the claimant and completion
// timestamp unconditionally. It never fails.
func (t *Task) Reopen(now time.Time) {
	t.Status = StatusOpen
	t.Agent = ""
	t.DoneAt = nil
	t.Updated = now
}

// Block appends a blocking dependency. The caller is responsible for
// verifying that target refers to an existing task.
func (t *Task) Block(target string, now time.Time) error {
	if target == t.ID {
		return clierr.Newf(clierr.SelfBlock, "task %s cannot block itself", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	}
	if slices.Contains(t.BlockedBy, target) {
		return clierr.Newf(clierr.DuplicateBlock, "task %s is already blocked by %s", t.ID, target).
			WithDetails(map[string]any{"id": t.ID, "target": target})
	}
	t.BlockedBy = append(t.BlockedBy, target)
	t.Updated = now
	return nil
}

// Unblock removes a blocking dependency. This is the only operation
// that shrinks any of the task's collections.
func (t *Task) Unblock(target string, now time.Time) error {
	idx := slices.Index(t.BlockedBy, target)
	if idx < 0 {
		return clierr.Newf(clierr.NotBlocked, "task %s is not blocked by %s", t.ID, target).
			WithDetails(map[string]any{"id": t.ID, "target": target})
	}
	t.BlockedBy = slices.Delete(t.BlockedBy, idx, idx+1)
	t.Updated = now
	return nil
}

// AddLink records a typed relation to another task. The caller is
// responsible for verifying that target refers to an existing task.
func (t *Task) AddLink(target string, kind LinkKind, now time.Time) error {
	if target == t.ID {
		return clierr.Newf(clierr.InvalidInput, "task %s cannot link to itself", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	}
	if slices.Contains(t.Links, Link{Target: target, Kind: kind}) {
		return clierr.Newf(clierr.DuplicateLink, "task %s is already linked to %s as %s",
			t.ID, target, kind).
			WithDetails(map[string]any{"id": t.ID, "target": target, "kind": string(kind)})
	}
	t.Links = append(t.Links, Link{Target: target, Kind: kind})
	t.Updated = now
	return nil
}

// AddNote appends a note. It never fails: an empty author falls back
// to FallbackAuthor, and trailing newlines are normalized away since
// the codec terminates bodies with a newline of its own.
func (t *Task) AddNote(author, body string, now time.Time) {
	if author == "" {
		author = FallbackAuthor
	}
	t.Notes = append(t.Notes, Note{
		Author:    author,
		Timestamp: now,
		Body:      strings.TrimRight(body, "\n"),
	})
	t.Updated = now
}

func (t *Task) claimant() string {
	if t.Agent == "" {
		return FallbackAuthor
	}
	return t.Agent
}

// StatusIndex maps task ids to statuses for derived-state lookups.
type StatusIndex map[string]Status

// IndexStatuses builds a StatusIndex over a record set.
func IndexStatuses(tasks []*Task) StatusIndex {
	idx := make(StatusIndex, len(tasks))
	for _, t := range tasks {
		idx[t.ID] = t.Status
	}
	return idx
}

// Blocked reports whether the task is blocked: blocked_by is non-empty
// and at least one listed id refers to a task that is not done. An id
// that no longer resolves does not block, since decay only removes
// done tasks.
func (t *Task) Blocked(idx StatusIndex) bool {
	for _, dep := range t.BlockedBy {
		if status, ok := idx[dep]; ok && status != StatusDone {
			return true
		}
	}
	return false
}

// Ready reports whether the task is open and not blocked.
func (t *Task) Ready(idx StatusIndex) bool {
	return t.Status == StatusOpen && !t.Blocked(idx)
}

// Decayable reports whether the task is eligible for decay at the
// given cutoff: done, with a completion time at or before it.
func (t *Task) Decayable(cutoff time.Time) bool {
	return t.Status == StatusDone && t.DoneAt != nil && !t.DoneAt.After(cutoff)
}
