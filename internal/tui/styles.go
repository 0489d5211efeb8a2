package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#575B7E")).
			Padding(0, 1)

	endpointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)

	scrollbackStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	monitorOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	monitorOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	echoStyle = lipgloss.NewStyle().Bold(true)
	busyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
