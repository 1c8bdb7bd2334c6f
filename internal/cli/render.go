package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/arloliu/allot"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func renderJSON(w io.Writer, result *allot.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

func renderTable(w io.Writer, result *allot.Result) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Plan %s (%s)", result.RunID, result.Strategy)))
	b.WriteString("\n")

	rows := make([][]string, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		fallback := ""
		if a.Fallback {
			fallback = "yes"
		}
		rows = append(rows, []string{
			a.PersonID,
			a.TaskID,
			a.ProjectID,
			formatNumber(a.Effort),
			formatNumber(a.Score),
			fallback,
			formatMonths(a.Months),
		})
	}
	assignments := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("PERSON", "TASK", "PROJECT", "EFFORT", "SCORE", "FALLBACK", "MONTHS").
		Rows(rows...)
	b.WriteString(assignments.Render())
	b.WriteString("\n")

	if len(result.Warnings) > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d task(s) not fully assigned", len(result.Warnings))))
		b.WriteString("\n")

		warnRows := make([][]string, 0, len(result.Warnings))
		for _, w := range result.Warnings {
			warnRows = append(warnRows, []string{w.TaskID, w.Reason})
		}
		warnings := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			Headers("TASK", "REASON").
			Rows(warnRows...)
		b.WriteString(warnings.Render())
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("required %s, assigned %s, fallback %s, duration %s",
		formatNumber(result.TotalRequired),
		formatNumber(result.TotalAssigned),
		formatNumber(result.FallbackEffort),
		result.Duration.Round(time.Microsecond),
	)
	if len(result.FitnessHistory) > 0 {
		summary += fmt.Sprintf(", fitness %s after %d generations", formatNumber(result.Fitness), result.Generations)
	}
	if result.Truncated {
		summary += ", stopped on time budget"
	}
	b.WriteString(mutedStyle.Render(summary))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())

	return err
}

// formatNumber prints v with at most two decimals.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func formatMonths(months []allot.MonthlyAllocation) string {
	parts := make([]string, 0, len(months))
	for _, m := range months {
		parts = append(parts, m.Month.String()+":"+formatNumber(m.Hours))
	}

	return strings.Join(parts, ",")
}
