package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Detail key.Binding // Open detail view
	Parent key.Binding // Jump to the issue this one was forked from

	// Issue actions
	New        key.Binding // Create new issue
	Comment    key.Binding // Add comment
	Close      key.Binding // Close as completed
	NotPlanned key.Binding // Close as not planned
	Reopen     key.Binding // Reopen
	Fork       key.Binding // Fork into a follow-up

	// View
	Filter key.Binding // Cycle filter tabs
	Search key.Binding // Search by name
	Help   key.Binding // Show help

	// Snapshot & users
	Import     key.Binding
	Export     key.Binding
	SwitchUser key.Binding
	AddUser    key.Binding

	// General
	Submit key.Binding // Submit multi-line input
	Quit   key.Binding // Quit application
	Escape key.Binding // Cancel/back
	Enter  key.Binding // Confirm single-line input
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter", "detail"),
		),
		Parent: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "parent"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new issue"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		NotPlanned: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "not planned"),
		),
		Reopen: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "reopen"),
		),
		Fork: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fork"),
		),
		Filter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		SwitchUser: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "switch user"),
		),
		AddUser: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "add user"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
	}
}

// ShortHelp returns keybindings to show in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.New, k.Close, k.Fork, k.Filter, k.Search, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail, k.Parent},                          // Navigation
		{k.New, k.Comment, k.Close, k.NotPlanned, k.Reopen, k.Fork}, // Issue actions
		{k.Filter, k.Search, k.Help, k.Quit},                        // View & general
		{k.Import, k.Export, k.SwitchUser, k.AddUser},               // Snapshot & users
	}
}
