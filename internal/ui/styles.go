package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)
	optionStyle  = lipgloss.NewStyle().Bold(true)
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)
