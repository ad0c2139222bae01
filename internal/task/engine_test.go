package task

import (
	"errors"
	"testing"
	"time"

	"github.com/jot-sh/jot/internal/clierr"
)

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) {
		t.Fatalf("error %v is not a clierr.Error", err)
	}
	if cliErr.Code != code {
		t.Fatalf("error code = %s, want %s", cliErr.Code, code)
	}
}

func TestClaim(t *testing.T) {
	tk := newTestTask(t)
	now := testClock().Add(time.Minute)

	if err := tk.Claim("alice", now); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if tk.Status != StatusClaimed || tk.Agent != "alice" {
		t.Errorf("after claim: status=%q agent=%q", tk.Status, tk.Agent)
	}
	if !tk.Updated.Equal(now) {
		t.Errorf("updated = %v, want %v", tk.Updated, now)
	}
}

func TestClaimAlreadyClaimed(t *testing.T) {
	tk := newTestTask(t)
	if err := tk.Claim("alice", testClock()); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	err := tk.Claim("bob", testClock())
	wantCode(t, err, clierr.AlreadyClaimed)
	if tk.Agent != "alice" {
		t.Errorf("failed claim mutated agent: %q", tk.Agent)
	}
}

func TestClaimDoneTask(t *testing.T) {
	tk := newTestTask(t)
	if err := tk.Done("", "", testClock()); err != nil {
		t.Fatalf("Done: %v", err)
	}
	wantCode(t, tk.Claim("alice", testClock()), clierr.AlreadyDone)
}

func TestDoneFromOpen(t *testing.T) {
	tk := newTestTask(t)
	now := testClock().Add(time.Hour)

	if err := tk.Done("", "", now); err != nil {
		t.Fatalf("Done: %v", err)
	}
	if tk.Status != StatusDone {
		t.Errorf("status = %q, want done", tk.Status)
	}
	if tk.DoneAt == nil || !tk.DoneAt.Equal(now) {
		t.Errorf("done_at = %v, want %v", tk.DoneAt, now)
	}
	if len(tk.Notes) != 0 {
		t.Errorf("empty note should not be appended, got %d notes", len(tk.Notes))
	}
}

func TestDoneKeepsAgent(t *testing.T) {
	tk := newTestTask(t)
	if err := tk.Claim("alice", testClock()); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if err := tk.Done("", "", testClock()); err != nil {
		t.Fatalf("Done: %v", err)
	}
	if tk.Agent != "alice" {
		t.Errorf("agent = %q, want alice kept for attribution", tk.Agent)
	}
}

func TestDoneNoteAuthor(t *testing.T) {
	tests := []struct {
		name         string
		agent        string
		defaultAgent string
		want         string
	}{
		{"claimant wins", "alice", "bob", "alice"},
		{"falls back to default", "", "bob", "bob"},
		{"falls back to unknown", "", "", FallbackAuthor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newTestTask(t)
			tk.Agent = tt.agent
			if tt.agent != "" {
				tk.Status = StatusClaimed
			}
			if err := tk.Done("wrapped up", tt.defaultAgent, testClock()); err != nil {
				t.Fatalf("Done: %v", err)
			}
			if len(tk.Notes) != 1 || tk.Notes[0].Author != tt.want {
				t.Errorf("note author = %q, want %q", tk.Notes[0].Author, tt.want)
			}
		})
	}
}

func TestDoneTwice(t *testing.T) {
	tk := newTestTask(t)
	if err := tk.Done("", "", testClock()); err != nil {
		t.Fatalf("Done: %v", err)
	}
	wantCode(t, tk.Done("", "", testClock()), clierr.AlreadyDone)
}

func TestReopen(t *testing.T) {
	tk := newTestTask(t)
	if err := tk.Claim("alice", testClock()); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if err := tk.Done("", "", testClock()); err != nil {
		t.Fatalf("Done: %v", err)
	}

	now := testClock().Add(2 * time.Hour)
	tk.Reopen(now)
	if tk.Status != StatusOpen || tk.Agent != "" || tk.DoneAt != nil {
		t.Errorf("after reopen: status=%q agent=%q done_at=%v", tk.Status, tk.Agent, tk.DoneAt)
	}

	// Reopening an open task is a no-op that still touches updated.
	later := now.Add(time.Minute)
	tk.Reopen(later)
	if !tk.Updated.Equal(later) {
		t.Errorf("updated = %v, want %v", tk.Updated, later)
	}
}

func TestBlockUnblock(t *testing.T) {
	tk := newTestTask(t)

	if err := tk.Block("jt-0001", testClock()); err != nil {
		t.Fatalf("Block: %v", err)
	}
	wantCode(t, tk.Block("jt-0001", testClock()), clierr.DuplicateBlock)
	wantCode(t, tk.Block(tk.ID, testClock()), clierr.SelfBlock)

	if err := tk.Unblock("jt-0001", testClock()); err != nil {
		t.Fatalf("Unblock: %v", err)
	}
	if len(tk.BlockedBy) != 0 {
		t.Errorf("blocked_by = %v, want empty", tk.BlockedBy)
	}
	wantCode(t, tk.Unblock("jt-0001", testClock()), clierr.NotBlocked)
}

func TestAddLink(t *testing.T) {
	tk := newTestTask(t)

	if err := tk.AddLink("jt-0001", KindRelatesTo, testClock()); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	wantCode(t, tk.AddLink("jt-0001", KindRelatesTo, testClock()), clierr.DuplicateLink)
	wantCode(t, tk.AddLink(tk.ID, KindRelatesTo, testClock()), clierr.InvalidInput)

	// Same target under a different kind is a distinct link.
	if err := tk.AddLink("jt-0001", KindDuplicates, testClock()); err != nil {
		t.Fatalf("AddLink with different kind: %v", err)
	}
	if len(tk.Links) != 2 {
		t.Errorf("links = %v, want 2 entries", tk.Links)
	}
}

func TestAddNote(t *testing.T) {
	tk := newTestTask(t)

	tk.AddNote("", "anonymous observation", testClock())
	if tk.Notes[0].Author != FallbackAuthor {
		t.Errorf("author = %q, want %q", tk.Notes[0].Author, FallbackAuthor)
	}

	tk.AddNote("alice", "trailing newlines\n\n", testClock())
	if tk.Notes[1].Body != "trailing newlines" {
		t.Errorf("body = %q, trailing newlines should be trimmed", tk.Notes[1].Body)
	}
}

func TestDecayable(t *testing.T) {
	tk := newTestTask(t)
	cutoff := testClock().Add(time.Hour)

	if tk.Decayable(cutoff) {
		t.Error("open task must not be decayable")
	}

	if err := tk.Done("", "", testClock()); err != nil {
		t.Fatalf("Done: %v", err)
	}
	if !tk.Decayable(cutoff) {
		t.Error("task done before the cutoff should be decayable")
	}
	if !tk.Decayable(testClock()) {
		t.Error("cutoff is inclusive")
	}
	if tk.Decayable(testClock().Add(-time.Minute)) {
		t.Error("task done after the cutoff must not be decayable")
	}

	tk.Reopen(testClock())
	if tk.Decayable(cutoff) {
		t.Error("reopened task must not be decayable")
	}
}

func TestBlockedAndReady(t *testing.T) {
	blocker := newTestTask(t)
	blocker.ID = "jt-0001"
	tk := newTestTask(t)
	tk.ID = "jt-0002"
	if err := tk.Block(blocker.ID, testClock()); err != nil {
		t.Fatalf("Block: %v", err)
	}

	idx := IndexStatuses([]*Task{blocker, tk})
	if !tk.Blocked(idx) {
		t.Error("task with an open blocker should be blocked")
	}
	if tk.Ready(idx) {
		t.Error("blocked task should not be ready")
	}

	// A done blocker no longer blocks even while its id is listed.
	blocker.Status = StatusDone
	idx = IndexStatuses([]*Task{blocker, tk})
	if tk.Blocked(idx) {
		t.Error("done blocker should not block")
	}
	if !tk.Ready(idx) {
		t.Error("task with only done blockers should be ready")
	}

	// An id that no longer resolves does not block either.
	idx = IndexStatuses([]*Task{tk})
	if tk.Blocked(idx) {
		t.Error("decayed blocker should not block")
	}

	// A claimed task is never ready regardless of blockers.
	if err := tk.Claim("alice", testClock()); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if tk.Ready(idx) {
		t.Error("claimed task should not be ready")
	}
}
