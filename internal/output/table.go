package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jot-sh/jot/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[string]lipgloss.Style{
		"open":    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"claimed": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"blocked": lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"done":    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	// Priority colors: hotter the higher the urgency.
	priorityStyles = map[int]lipgloss.Style{
		1: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		2: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		3: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		4: lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		5: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	agentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[int]lipgloss.Style{}
	agentStyle = lipgloss.NewStyle()
}

const timeLayout = "2006-01-02 15:04"

// TaskTable renders listing rows as a formatted table.
func TaskTable(w io.Writer, rows []Row) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, statusW, summaryW, agentW := 4, 9, 9, 7
	for _, r := range rows {
		idW = max(idW, len(r.ID)+pad)
		statusW = max(statusW, len(r.DisplayStatus())+pad)
		summaryW = max(summaryW, min(len(r.Summary)+pad, 60)) //nolint:mnd // max summary column width
		agentW = max(agentW, len(r.Agent)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-4s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", "PRI", summaryW, "SUMMARY", agentW, "AGENT", "CHANGE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, r := range rows {
		summary := r.Summary
		const maxSummary = 58
		if len(summary) > maxSummary {
			summary = summary[:maxSummary-3] + "..."
		}
		agent := r.Agent
		if agent == "" {
			agent = dimStyle.Render("--")
		} else {
			agent = agentStyle.Render(agent)
		}
		change := r.Change
		if change == "" {
			change = dimStyle.Render("--")
		} else {
			change = "@" + change
		}

		line := fmt.Sprintf("%-*s %s %s %-*s %s %s",
			idW, r.ID,
			padRight(styledStatus(r.DisplayStatus()), statusW),
			padRight(styledPriority(r.Priority), 4),
			summaryW, summary,
			padRight(agent, agentW),
			change)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// TaskDetail renders a single task with full detail, including its
// dependencies, links, and note history.
func TaskDetail(w io.Writer, t *task.Task) {
	titleLine := fmt.Sprintf("Task %s: %s", t.ID, t.Summary)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "Status", styledStatus(string(t.Status)))
	printField(w, "Priority", styledPriority(t.Priority))
	printField(w, "Agent", stringOrDash(t.Agent))
	printField(w, "Change", stringOrDash(t.Change))
	printField(w, "Created", t.Created.Format(timeLayout))
	printField(w, "Updated", t.Updated.Format(timeLayout))
	if t.DoneAt != nil {
		printField(w, "Done at", t.DoneAt.Format(timeLayout))
	}
	if len(t.BlockedBy) > 0 {
		printField(w, "Blocked by", strings.Join(t.BlockedBy, ", "))
	}
	for _, l := range t.Links {
		printField(w, "Link", l.Target+" ("+string(l.Kind)+")")
	}

	for _, n := range t.Notes {
		fmt.Fprintln(w)
		noteHeader := fmt.Sprintf("--- %s %s", n.Author, n.Timestamp.Format(timeLayout))
		fmt.Fprintln(w, dimStyle.Render(noteHeader))
		fmt.Fprintln(w, n.Body)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func styledStatus(status string) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(status)
	}
	return status
}

func styledPriority(p int) string {
	label := "p" + strconv.Itoa(p)
	if style, ok := priorityStyles[p]; ok {
		return style.Render(label)
	}
	return label
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// padRight pads a possibly-styled string to the given display width.
// len() on the raw value would count ANSI escapes, so padding is
// computed from the unstyled width via lipgloss.
func padRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// Age renders how long ago ts was as a compact human string.
func Age(ts, now time.Time) string {
	d := now.Sub(ts)
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d"
	}
	if h := int(d.Hours()); h > 0 {
		return strconv.Itoa(h) + "h"
	}
	return strconv.Itoa(int(d.Minutes())) + "m"
}
