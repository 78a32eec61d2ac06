package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorError   = lipgloss.Color("#EF4444") // Red
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorSuccess = lipgloss.Color("#10B981") // Emerald
	colorMuted   = lipgloss.Color("#6B7280") // Gray
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	okStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)
