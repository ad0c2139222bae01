package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jot-sh/jot/internal/task"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name                 string
		jsonF, tableF, compF bool
		env                  string
		want                 Format
	}{
		{"default is table", false, false, false, "", FormatTable},
		{"json flag", true, false, false, "", FormatJSON},
		{"compact flag", false, false, true, "", FormatCompact},
		{"flag beats env", false, true, false, "json", FormatTable},
		{"env json", false, false, false, "json", FormatJSON},
		{"env oneline", false, false, false, "oneline", FormatCompact},
		{"env garbage", false, false, false, "xml", FormatTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JOT_OUTPUT", tt.env)
			if got := Detect(tt.jsonF, tt.tableF, tt.compF); got != tt.want {
				t.Errorf("Detect = %v, want %v", got, tt.want)
			}
		})
	}
}

func sampleTask(t *testing.T, id string) *task.Task {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tk, err := task.New("Fix login flow", 2, "", now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tk.ID = id
	return tk
}

func TestRowDisplayStatus(t *testing.T) {
	blocker := sampleTask(t, "jt-0001")
	tk := sampleTask(t, "jt-0002")
	if err := tk.Block(blocker.ID, tk.Created); err != nil {
		t.Fatalf("Block: %v", err)
	}

	idx := task.IndexStatuses([]*task.Task{blocker, tk})
	rows := Rows([]*task.Task{blocker, tk}, idx)

	if rows[0].DisplayStatus() != "open" {
		t.Errorf("unblocked task displays %q, want open", rows[0].DisplayStatus())
	}
	if rows[1].DisplayStatus() != "blocked" {
		t.Errorf("blocked task displays %q, want blocked", rows[1].DisplayStatus())
	}
}

func TestRowJSONCarriesBlockedFlag(t *testing.T) {
	tk := sampleTask(t, "jt-0001")
	rows := Rows([]*task.Task{tk}, task.StatusIndex{})

	var buf bytes.Buffer
	if err := JSON(&buf, rows); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded[0]["is_blocked"]; !ok {
		t.Error("row JSON missing is_blocked field")
	}
	if decoded[0]["id"] != "jt-0001" {
		t.Errorf("row JSON id = %v", decoded[0]["id"])
	}
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "no task matching \"ff\"", map[string]any{"id": "ff"})

	var resp ErrorResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Code != "TASK_NOT_FOUND" {
		t.Errorf("code = %q", resp.Code)
	}
	if resp.Error == "" {
		t.Error("error message empty")
	}
}

func TestTaskCompact(t *testing.T) {
	DisableColor()
	tk := sampleTask(t, "jt-0001")
	tk.Agent = "alice"
	tk.Status = task.StatusClaimed

	var buf bytes.Buffer
	TaskCompact(&buf, Rows([]*task.Task{tk}, task.StatusIndex{}))

	line := buf.String()
	for _, want := range []string{"jt-0001", "claimed", "p2", "Fix login flow", "@alice"} {
		if !strings.Contains(line, want) {
			t.Errorf("compact line %q missing %q", line, want)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ts   time.Time
		want string
	}{
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-49 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		if got := Age(tt.ts, now); got != tt.want {
			t.Errorf("Age(%v) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}
