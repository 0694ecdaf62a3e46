package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/converge/internal/model"
)

// View renders the current progress state.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(m.title))

	if len(m.order) > 0 {
		var lines []string
		for _, id := range m.order {
			lines = append(lines, m.renderResource(m.results[id]))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	sections = append(sections, summaryStyle.Render(m.summaryLine()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderResource(res model.ResourceResult) string {
	line := fmt.Sprintf(" %s %s", m.statusIcon(res.Status), res.ResourceID)
	if strings.TrimSpace(res.Message) != "" {
		line = fmt.Sprintf("%s — %s", line, res.Message)
	}
	if res.Duration > 0 {
		line = fmt.Sprintf("%s (%s)", line, res.Duration.Truncate(10*time.Millisecond))
	}
	return line
}

func (m Model) statusIcon(status string) string {
	switch status {
	case model.StatusSatisfied:
		return satisfiedStyle.Render("✓")
	case model.StatusConverged:
		return convergedStyle.Render("✚")
	case model.StatusWouldConverge:
		return unmetStyle.Render("↻")
	case model.StatusFailed:
		return failureStyle.Render("✗")
	case model.StatusRunning:
		return runningStyle.Render(m.spin.View())
	default:
		return pendingStyle.Render("…")
	}
}

func (m Model) summaryLine() string {
	var satisfied, converged, unmet, failed int
	for _, res := range m.results {
		switch res.Status {
		case model.StatusSatisfied:
			satisfied++
		case model.StatusConverged:
			converged++
		case model.StatusWouldConverge:
			unmet++
		case model.StatusFailed:
			failed++
		}
	}

	parts := []string{
		fmt.Sprintf("%d satisfied", satisfied),
		fmt.Sprintf("%d converged", converged),
	}
	if unmet > 0 {
		parts = append(parts, fmt.Sprintf("%d unmet", unmet))
	}
	if failed > 0 {
		parts = append(parts, failureStyle.Render(fmt.Sprintf("%d failed", failed)))
	}
	if m.cancelled {
		parts = append(parts, failureStyle.Render("cancelled"))
	} else if !m.finished && m.completed < m.total {
		parts = append(parts, fmt.Sprintf("%d/%d done", m.completed, m.total))
	}

	return strings.Join(parts, ", ")
}
