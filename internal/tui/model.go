package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/model"
)

// ResourceStartMsg indicates a resource check has started.
type ResourceStartMsg struct {
	ID string
}

// ResourceCompleteMsg reports that a resource has finished its ensure pass.
type ResourceCompleteMsg struct {
	Result model.ResourceResult
}

// RunDoneMsg signals that the whole run has completed.
type RunDoneMsg struct{}

// Model contains the Bubbletea state for Converge's progress view.
type Model struct {
	title     string
	order     []string
	results   map[string]model.ResourceResult
	spin      spinner.Model
	total     int
	completed int
	finished  bool
	cancelled bool
}

// NewModel constructs the progress model for the given manifest.
func NewModel(manifest *config.Manifest) Model {
	m := Model{
		title:   "Converge",
		results: make(map[string]model.ResourceResult),
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	if manifest != nil {
		if manifest.Name != "" {
			m.title = "Converge • " + manifest.Name
		}
		for _, res := range manifest.Resources {
			if !res.Enabled {
				continue
			}
			m.order = append(m.order, res.ID)
			m.results[res.ID] = model.ResourceResult{ResourceID: res.ID, Status: model.StatusPending}
			m.total++
		}
	}

	return m
}

// Init starts the spinner tick loop.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Finished reports whether the run has completed or been cancelled.
func (m Model) Finished() bool {
	return m.finished
}

// Completed returns the number of resources with a terminal status.
func (m Model) Completed() int {
	return m.completed
}
