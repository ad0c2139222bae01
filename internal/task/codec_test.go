package task

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func testClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestTask(t *testing.T) *Task {
	t.Helper()
	tk, err := New("Fix login flow", 2, "", testClock())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tk.ID = "jt-a1b2"
	return tk
}

func roundTrip(t *testing.T, tk *Task) *Task {
	t.Helper()
	decoded, err := Decode(Encode(tk), "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return decoded
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tk := newTestTask(t)
	tk.Change = "xyzw"
	tk.BlockedBy = []string{"jt-0001", "jt-0002"}
	tk.Links = []Link{
		{Target: "jt-0003", Kind: KindRelatesTo},
		{Target: "jt-0004", Kind: KindSupersedes},
	}
	tk.AddNote("alice", "first look\nneeds a repro", testClock())
	tk.AddNote("bob", "reproduced on main", testClock().Add(time.Hour))

	got := roundTrip(t, tk)
	if !reflect.DeepEqual(got, tk) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, tk)
	}
}

func TestEncodeDecodeMinimalTask(t *testing.T) {
	tk := newTestTask(t)
	got := roundTrip(t, tk)
	if !reflect.DeepEqual(got, tk) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, tk)
	}
	if got.Notes != nil || got.BlockedBy != nil || got.Links != nil {
		t.Errorf("empty collections should stay nil, got %+v", got)
	}
}

func TestEncodeDecodeDoneTask(t *testing.T) {
	tk := newTestTask(t)
	if err := tk.Claim("alice", testClock()); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if err := tk.Done("shipped", "", testClock().Add(time.Hour)); err != nil {
		t.Fatalf("Done: %v", err)
	}

	got := roundTrip(t, tk)
	if !reflect.DeepEqual(got, tk) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, tk)
	}
	if got.DoneAt == nil || !got.DoneAt.Equal(testClock().Add(time.Hour)) {
		t.Errorf("done_at not preserved: %v", got.DoneAt)
	}
	if got.Agent != "alice" {
		t.Errorf("agent not preserved on done task: %q", got.Agent)
	}
}

func TestEncodeOmitsEmptyCollections(t *testing.T) {
	text := Encode(newTestTask(t))
	for _, key := range []string{"blocked_by", "links"} {
		if strings.Contains(text, key) {
			t.Errorf("encoded record contains %q header for empty collection:\n%s", key, text)
		}
	}
	// Unset scalar fields keep a bare header so absence stays visible.
	for _, line := range []string{"agent:\n", "change:\n", "done_at:\n"} {
		if !strings.Contains(text, line) {
			t.Errorf("encoded record missing bare header %q:\n%s", strings.TrimSpace(line), text)
		}
	}
}

func TestDecodeMultilineNoteBody(t *testing.T) {
	tk := newTestTask(t)
	tk.AddNote("alice", "line one\n\nline three", testClock())

	got := roundTrip(t, tk)
	if got.Notes[0].Body != "line one\n\nline three" {
		t.Errorf("note body mangled: %q", got.Notes[0].Body)
	}
}

func TestDecodeDefaults(t *testing.T) {
	text := "id: jt-ffff\nsummary: bare minimum\n"
	tk, err := Decode(text, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tk.Status != StatusOpen {
		t.Errorf("status = %q, want open", tk.Status)
	}
	if tk.Priority != PriorityDefault {
		t.Errorf("priority = %d, want %d", tk.Priority, PriorityDefault)
	}
	if tk.Created.IsZero() || tk.Updated.IsZero() {
		t.Error("timestamps should be defaulted, not zero")
	}
}

func TestDecodeExternalIDWins(t *testing.T) {
	text := "id: jt-aaaa\nsummary: stored under another name\n"
	tk, err := Decode(text, "zzzzzzzzzzzz")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tk.ID != "zzzzzzzzzzzz" {
		t.Errorf("id = %q, want external id to take precedence", tk.ID)
	}
}

func TestDecodeIgnoresUnknownKeys(t *testing.T) {
	text := "id: jt-aaaa\nsummary: future record\nshiny_new_field: whatever\n"
	tk, err := Decode(text, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tk.Summary != "future record" {
		t.Errorf("summary = %q", tk.Summary)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing id", "summary: no id\n"},
		{"missing summary", "id: jt-aaaa\n"},
		{"bad status", "id: jt-aaaa\nsummary: s\nstatus: paused\n"},
		{"bad priority", "id: jt-aaaa\nsummary: s\npriority: high\n"},
		{"bad timestamp", "id: jt-aaaa\nsummary: s\ncreated: yesterday\n"},
		{"bad link", "id: jt-aaaa\nsummary: s\nlinks: jt-bbbb\n"},
		{"bad link kind", "id: jt-aaaa\nsummary: s\nlinks: jt-bbbb/follows\n"},
		{"bad note header", "id: jt-aaaa\nsummary: s\n\n--- alice\nbody\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.text, ""); err == nil {
				t.Errorf("Decode(%q) succeeded, want error", tt.text)
			}
		})
	}
}

func TestDecodeTimestampsNormalizedToUTC(t *testing.T) {
	text := "id: jt-aaaa\nsummary: offset zone\ncreated: 2026-03-01T14:00:00+02:00\n"
	tk, err := Decode(text, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tk.Created.Location() != time.UTC {
		t.Errorf("created location = %v, want UTC", tk.Created.Location())
	}
	if !tk.Created.Equal(testClock()) {
		t.Errorf("created = %v, want %v", tk.Created, testClock())
	}
}
