package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	summaryStyle = lipgloss.NewStyle().MarginTop(1)

	satisfiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	convergedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	unmetStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
