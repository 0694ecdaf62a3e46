package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/converge/internal/model"
)

// Update handles Bubbletea messages and advances the progress state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ResourceStartMsg:
		if msg.ID == "" {
			return m, nil
		}
		m.track(msg.ID)
		existing := m.results[msg.ID]
		existing.Status = model.StatusRunning
		m.results[msg.ID] = existing
		return m, nil

	case ResourceCompleteMsg:
		id := msg.Result.ResourceID
		if id == "" {
			return m, nil
		}
		m.track(id)
		previous := m.results[id]
		m.results[id] = msg.Result
		if !terminal(previous.Status) && terminal(msg.Result.Status) {
			m.completed++
		}
		return m, nil

	case RunDoneMsg:
		m.finished = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) track(id string) {
	if _, exists := m.results[id]; exists {
		return
	}
	m.order = append(m.order, id)
	m.results[id] = model.ResourceResult{ResourceID: id, Status: model.StatusPending}
	m.total++
}

func terminal(status string) bool {
	switch status {
	case model.StatusSatisfied, model.StatusConverged, model.StatusWouldConverge, model.StatusFailed:
		return true
	}
	return false
}
