package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The record wire format is line-oriented and forward compatible:
// "key: value" headers up to the first line starting with "---", then
// zero or more note sections, each opened by "--- <author> <timestamp>"
// and followed by the body lines. Unknown header keys are ignored so
// newer writers do not break older readers.

const noteMarker = "--- "

// Encode serializes a task to its canonical text record.
// The empty-valued agent/change/done_at headers are always written;
// blocked_by and links are omitted entirely when empty.
func Encode(t *Task) string {
	var b strings.Builder
	writeHeader(&b, "id", t.ID)
	fmt.Fprintf(&b, "status: %s\n", t.Status)
	fmt.Fprintf(&b, "summary: %s\n", t.Summary)
	fmt.Fprintf(&b, "priority: %d\n", t.Priority)
	writeHeader(&b, "agent", t.Agent)
	writeHeader(&b, "change", t.Change)
	fmt.Fprintf(&b, "created: %s\n", t.Created.Format(time.RFC3339))
	fmt.Fprintf(&b, "updated: %s\n", t.Updated.Format(time.RFC3339))
	doneAt := ""
	if t.DoneAt != nil {
		doneAt = t.DoneAt.Format(time.RFC3339)
	}
	writeHeader(&b, "done_at", doneAt)

	if len(t.BlockedBy) > 0 {
		fmt.Fprintf(&b, "blocked_by: %s\n", strings.Join(t.BlockedBy, " "))
	}
	if len(t.Links) > 0 {
		parts := make([]string, len(t.Links))
		for i, l := range t.Links {
			parts[i] = l.Target + "/" + string(l.Kind)
		}
		fmt.Fprintf(&b, "links: %s\n", strings.Join(parts, " "))
	}

	for _, n := range t.Notes {
		fmt.Fprintf(&b, "\n%s%s %s\n", noteMarker, n.Author, n.Timestamp.Format(time.RFC3339))
		b.WriteString(n.Body)
		if !strings.HasSuffix(n.Body, "\n") {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// writeHeader emits "key: value" or the bare "key:" form for an unset value.
func writeHeader(b *strings.Builder, key, value string) {
	if value == "" {
		fmt.Fprintf(b, "%s:\n", key)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", key, value)
}

// Decode parses a text record back into a Task. externalID, when
// non-empty, supplies the identifier for backends that address records
// themselves; it takes precedence over any id header. A record with
// neither an id header nor an external id, or without a summary, is
// corrupt.
func Decode(text, externalID string) (*Task, error) {
	t := &Task{Priority: PriorityDefault, Status: StatusOpen}

	lines := strings.Split(text, "\n")
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "---") {
			break
		}
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ": ")
		if !found {
			// Bare "key:" means the field is unset, not an error.
			if !strings.HasSuffix(line, ":") {
				continue
			}
			key, value = strings.TrimSuffix(line, ":"), ""
		}
		if err := decodeHeader(t, key, value); err != nil {
			return nil, err
		}
	}

	notes, err := decodeNotes(lines[i:])
	if err != nil {
		return nil, err
	}
	t.Notes = notes

	if externalID != "" {
		t.ID = externalID
	}
	if t.ID == "" {
		return nil, errors.New("missing id")
	}
	if t.Summary == "" {
		return nil, errors.New("missing summary")
	}

	now := Clock()
	if t.Created.IsZero() {
		t.Created = now
	}
	if t.Updated.IsZero() {
		t.Updated = now
	}

	return t, nil
}

func decodeHeader(t *Task, key, value string) error {
	if value == "" {
		return nil // unset field, any key
	}
	var err error
	switch key {
	case "id":
		t.ID = value
	case "status":
		t.Status, err = ParseStatus(value)
	case "summary":
		t.Summary = value
	case "priority":
		t.Priority, err = strconv.Atoi(value)
		if err != nil {
			err = fmt.Errorf("invalid priority %q", value)
		}
	case "agent":
		t.Agent = value
	case "change":
		t.Change = value
	case "created":
		t.Created, err = parseTime(value)
	case "updated":
		t.Updated, err = parseTime(value)
	case "done_at":
		var ts time.Time
		if ts, err = parseTime(value); err == nil {
			t.DoneAt = &ts
		}
	case "blocked_by":
		t.BlockedBy = strings.Fields(value)
	case "links":
		t.Links, err = decodeLinks(value)
	default:
		// Unknown keys are ignored for forward compatibility.
	}
	return err
}

func decodeLinks(value string) ([]Link, error) {
	var links []Link
	for _, part := range strings.Fields(value) {
		target, kindStr, found := strings.Cut(part, "/")
		if !found {
			return nil, fmt.Errorf("invalid link %q: expected target/kind", part)
		}
		kind, err := ParseLinkKind(kindStr)
		if err != nil {
			return nil, err
		}
		links = append(links, Link{Target: target, Kind: kind})
	}
	return links, nil
}

// decodeNotes parses note sections. Each starts at a "--- " line whose
// remainder splits on the first space into author and timestamp; the
// body runs to the next "--- " line or end of input.
func decodeNotes(lines []string) ([]Note, error) {
	var notes []Note
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], noteMarker) {
			continue
		}
		author, tsStr, found := strings.Cut(lines[i][len(noteMarker):], " ")
		if !found {
			return nil, fmt.Errorf("invalid note header %q: expected author and timestamp", lines[i])
		}
		ts, err := parseTime(tsStr)
		if err != nil {
			return nil, err
		}

		var body []string
		for i+1 < len(lines) && !strings.HasPrefix(lines[i+1], noteMarker) {
			i++
			body = append(body, lines[i])
		}
		// Encode guarantees a trailing newline on each body, which the
		// line split turns into a trailing empty string. Drop it along
		// with any blank separator before the next section.
		for len(body) > 0 && body[len(body)-1] == "" {
			body = body[:len(body)-1]
		}

		notes = append(notes, Note{Author: author, Timestamp: ts, Body: strings.Join(body, "\n")})
	}
	return notes, nil
}

func parseTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return ts.UTC(), nil
}
