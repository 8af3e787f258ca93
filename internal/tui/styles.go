package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/coyuki/ramifi/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color

	// Title/text colors
	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	// Status colors
	Open       lipgloss.Color
	Completed  lipgloss.Color
	NotPlanned lipgloss.Color
	Forked     lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow (selected)

	Open:       lipgloss.Color("#74B9FF"), // Light blue
	Completed:  lipgloss.Color("#00B894"), // Green
	NotPlanned: lipgloss.Color("#636E72"), // Gray
	Forked:     lipgloss.Color("#A29BFE"), // Lavender
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// Header
	Header     lipgloss.Style
	HeaderUser lipgloss.Style

	// Filter tabs
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Issue list
	IssueID            lipgloss.Style
	IssueName          lipgloss.Style
	IssueNameSelected  lipgloss.Style
	IssueLabel         lipgloss.Style
	IssueParent        lipgloss.Style
	SelectionIndicator lipgloss.Style
	Empty              lipgloss.Style

	// Status badges
	StatusOpen       lipgloss.Style
	StatusCompleted  lipgloss.Style
	StatusNotPlanned lipgloss.Style
	StatusForked     lipgloss.Style

	// Detail
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	CommentMeta lipgloss.Style

	// Input & footer
	InputPrompt lipgloss.Style
	InputFrame  lipgloss.Style
	StatusLine  lipgloss.Style
	ErrorLine   lipgloss.Style
	Footer      lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#2D3436"))

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),
		HeaderUser: lipgloss.NewStyle().Foreground(Colors.Secondary),

		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(Colors.Muted),
		TabActive: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(Colors.TitleSelected),

		IssueID:            lipgloss.NewStyle().Foreground(Colors.Muted),
		IssueName:          lipgloss.NewStyle().Foreground(Colors.TitleNormal),
		IssueNameSelected:  lipgloss.NewStyle().Bold(true).Foreground(Colors.TitleSelected),
		IssueLabel:         lipgloss.NewStyle().Foreground(Colors.Secondary),
		IssueParent:        lipgloss.NewStyle().Italic(true).Foreground(Colors.Muted),
		SelectionIndicator: lipgloss.NewStyle().Foreground(Colors.Primary),
		Empty:              lipgloss.NewStyle().Italic(true).Foreground(Colors.Muted),

		StatusOpen:       badge.Background(Colors.Open),
		StatusCompleted:  badge.Background(Colors.Completed),
		StatusNotPlanned: badge.Background(Colors.NotPlanned),
		StatusForked:     badge.Background(Colors.Forked),

		DetailTitle: lipgloss.NewStyle().Bold(true).Foreground(Colors.TitleSelected),
		DetailLabel: lipgloss.NewStyle().Foreground(Colors.Muted),
		CommentMeta: lipgloss.NewStyle().Foreground(Colors.Secondary),

		InputPrompt: lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary),
		InputFrame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(0, 1),

		StatusLine: lipgloss.NewStyle().Foreground(Colors.Success),
		ErrorLine:  lipgloss.NewStyle().Bold(true).Foreground(Colors.Error),
		Footer:     lipgloss.NewStyle().MarginTop(1),
	}
}

// StatusStyle returns the badge style for a status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusOpen:
		return s.StatusOpen
	case domain.StatusClosedCompleted:
		return s.StatusCompleted
	case domain.StatusClosedNotPlanned:
		return s.StatusNotPlanned
	case domain.StatusClosedForked:
		return s.StatusForked
	default:
		return s.StatusOpen
	}
}

// StatusIcon returns the list icon for a status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusOpen:
		return "○"
	case domain.StatusClosedCompleted:
		return "✔"
	case domain.StatusClosedNotPlanned:
		return "⊘"
	case domain.StatusClosedForked:
		return "⑂"
	default:
		return "?"
	}
}
