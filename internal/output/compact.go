package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jot-sh/jot/internal/task"
)

// TaskCompact renders listing rows in one-line-per-record compact format.
func TaskCompact(w io.Writer, rows []Row) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, r := range rows {
		fmt.Fprintln(w, formatTaskLine(r))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, now time.Time) {
	fmt.Fprintln(w, formatTaskLine(Row{Task: t}))

	ts := "  created:" + t.Created.Format("2006-01-02") +
		" updated:" + t.Updated.Format("2006-01-02") +
		" age:" + Age(t.Created, now)
	if t.DoneAt != nil {
		ts += " done:" + t.DoneAt.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	if len(t.BlockedBy) > 0 {
		fmt.Fprintln(w, "  blocked_by:"+strings.Join(t.BlockedBy, ","))
	}
	for _, l := range t.Links {
		fmt.Fprintln(w, "  link:"+l.Target+"/"+string(l.Kind))
	}
	for _, n := range t.Notes {
		fmt.Fprintln(w, "  note["+n.Author+"]: "+firstLine(n.Body))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(r Row) string {
	line := r.ID + " [" + r.DisplayStatus() + "/p" + strconv.Itoa(r.Priority) + "] " + r.Summary

	if r.Agent != "" {
		line += " @" + r.Agent
	}
	if r.Change != "" {
		line += " change:" + r.Change
	}
	if n := len(r.Notes); n > 0 {
		line += " (" + strconv.Itoa(n) + " notes)"
	}

	return line
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
