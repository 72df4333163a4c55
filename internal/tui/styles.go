package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#E50914")

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(accent)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	ratingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	tagStyle         = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("236"))
	selectedTagStyle = tagStyle.Background(accent).Foreground(lipgloss.Color("15"))
	spinnerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	modalStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2)
)
