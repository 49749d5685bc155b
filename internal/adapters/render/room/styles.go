package room

import (
	"github.com/bnema/talkie/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	standby   lipgloss.Style
	transmit  lipgloss.Style
	receive   lipgloss.Style
	detail    lipgloss.Style
	callsign  lipgloss.Style
	system    lipgloss.Style
	timestamp lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	errorLine lipgloss.Style
	help      lipgloss.Style
}

func newStyles(theme domain.Theme) styles {
	accent := lipgloss.Color(theme.Accent)
	if theme.Accent == "" {
		accent = lipgloss.Color("39")
	}

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		standby:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		transmit:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(accent).Padding(0, 1),
		receive:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		callsign:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		system:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		errorLine: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		help:      lipgloss.NewStyle().Faint(true),
	}
}
