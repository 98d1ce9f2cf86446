package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Panel         lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	HoverBg       lipgloss.Style
	SelectionBg   lipgloss.Style
	Popup         lipgloss.Style
	AddressBar    lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	MapBorder     lipgloss.Style
	MapDot        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:   lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HoverBg:     lipgloss.NewStyle().Background(lipgloss.Color("236")),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("99")),
		AddressBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		MapBorder:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		MapDot:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// TypeColor returns the accent color of a result type
func TypeColor(t domain.ResultType) string {
	switch t {
	case domain.TypePeople:
		return "78" // green
	case domain.TypeEvents:
		return "214" // yellow
	case domain.TypeProjects:
		return "33" // blue
	case domain.TypeGroups:
		return "51" // cyan
	case domain.TypeIdeas:
		return "213" // pink
	case domain.TypeOrganizations:
		return "141" // purple
	case domain.TypeCloudfile:
		return "250" // light gray
	default:
		return "203" // red
	}
}

// TypeLabel returns the singular display label of a result type
func TypeLabel(t domain.ResultType) string {
	switch t {
	case domain.TypePeople:
		return "Person"
	case domain.TypeEvents:
		return "Event"
	case domain.TypeProjects:
		return "Project"
	case domain.TypeGroups:
		return "Group"
	case domain.TypeIdeas:
		return "Idea"
	case domain.TypeOrganizations:
		return "Organization"
	case domain.TypeCloudfile:
		return "File"
	default:
		return "Unknown"
	}
}

// IconFunc maps a result type to its marker icon
type IconFunc func(domain.ResultType) string

// DefaultIcon is used when no icon map is configured
func DefaultIcon(t domain.ResultType) string {
	switch t {
	case domain.TypePeople:
		return "☺"
	case domain.TypeEvents:
		return "◷"
	case domain.TypeProjects:
		return "◆"
	case domain.TypeGroups:
		return "●"
	case domain.TypeIdeas:
		return "✶"
	case domain.TypeOrganizations:
		return "■"
	case domain.TypeCloudfile:
		return "▤"
	default:
		return "?"
	}
}
