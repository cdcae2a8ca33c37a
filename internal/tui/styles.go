package tui

import "github.com/charmbracelet/lipgloss"

// Global styles used across views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("205")).
			PaddingRight(2)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")).
			PaddingRight(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	cursorItemStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			Foreground(lipgloss.Color("170")).
			Bold(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120"))

	overLimitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")) // Lighter gray for dark terminals

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)
