// Package output handles formatting CLI output as table, JSON, or compact.
package output

import (
	"os"

	"github.com/muesli/termenv"

	"github.com/jot-sh/jot/internal/task"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Detect returns the appropriate format based on flags and environment.
// Default is table when no explicit format is set.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	if tableFlag {
		return FormatTable
	}

	switch os.Getenv("JOT_OUTPUT") {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	case "table":
		return FormatTable
	}

	return FormatTable
}

func init() {
	// Honor NO_COLOR and CLICOLOR conventions before anything renders.
	if termenv.EnvNoColor() {
		DisableColor()
	}
}

// Row pairs a task with its derived blocked state for listing.
type Row struct {
	*task.Task
	IsBlocked bool `json:"is_blocked"`
}

// DisplayStatus returns the status label shown to humans: an open task
// with an unfinished blocker displays as "blocked".
func (r Row) DisplayStatus() string {
	if r.IsBlocked && r.Status == task.StatusOpen {
		return "blocked"
	}
	return string(r.Status)
}

// Rows builds listing rows over the given record set, computing each
// task's derived blocked state from the full set.
func Rows(tasks []*task.Task, idx task.StatusIndex) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{Task: t, IsBlocked: t.Blocked(idx)}
	}
	return rows
}
