package viz

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(0, 1)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(42)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	puffStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	desensStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)
