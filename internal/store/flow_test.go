package store

import (
	"strings"
	"testing"
	"time"

	"github.com/jot-sh/jot/internal/task"
)

// Walks one task through its whole life: created, blocking another,
// claimed, finished, and finally decayed into the archive log.
func TestTaskLifecycle(t *testing.T) {
	st, _ := initTestStore(t)
	now := testClock()

	auth := mustCreate(t, st, "Fix auth token refresh")
	deploy := mustCreate(t, st, "Deploy new login flow")

	// deploy waits on auth.
	dep, err := st.Load(deploy.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := dep.Block(auth.ID, now); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if err := st.Save(dep); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tasks, _, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	idx := task.IndexStatuses(tasks)
	for _, tk := range tasks {
		switch tk.ID {
		case auth.ID:
			if !tk.Ready(idx) {
				t.Errorf("%s should be ready", tk.ID)
			}
		case deploy.ID:
			if !tk.Blocked(idx) {
				t.Errorf("%s should be blocked", tk.ID)
			}
		}
	}

	// Claim and finish the blocker.
	a, err := st.Load(auth.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := a.Claim("agent-7", now.Add(time.Minute)); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	doneAt := now.Add(time.Hour)
	if err := a.Done("rotated the signing key", "", doneAt); err != nil {
		t.Fatalf("Done: %v", err)
	}
	if err := st.Save(a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The dependent unblocks without being touched.
	tasks, _, err = st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	idx = task.IndexStatuses(tasks)
	dep, err = st.Load(deploy.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !dep.Ready(idx) {
		t.Error("dependent should be ready once its blocker is done")
	}
	if len(dep.BlockedBy) != 1 {
		t.Errorf("blocked_by should keep the finished blocker id, got %v", dep.BlockedBy)
	}

	// Decay the finished task.
	if err := st.Archive([]string{auth.ID}, "=== decay ===\n"+auth.ID+" gone\n"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if _, err := st.Load(auth.ID); err == nil {
		t.Error("decayed task should be gone")
	}

	// The dependent still lists the stale blocker id without being
	// blocked by it.
	tasks, _, err = st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != deploy.ID {
		t.Fatalf("tasks = %v, want only %s", tasks, deploy.ID)
	}
	idx = task.IndexStatuses(tasks)
	if tasks[0].Blocked(idx) {
		t.Error("stale blocker id must not block after decay")
	}
	if !strings.HasPrefix(tasks[0].Summary, "Deploy") {
		t.Errorf("summary = %q", tasks[0].Summary)
	}
}
