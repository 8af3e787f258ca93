// Package tui provides the terminal user interface for ramifi.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal      Mode = iota // Default navigation mode
	ModeSearch                  // Name search input
	ModeInputName               // Name input (new issue)
	ModeInputDesc               // Description input (new issue)
	ModeInputLabels             // Labels input (new issue)
	ModeComment                 // Comment input
	ModeImportPath              // Import path prompt
	ModeExportPath              // Export path prompt
	ModeSwitchUser              // User picker
	ModeAddUserName             // Name input (new user)
	ModeAddUserEmail            // Email input (new user)
	ModeDetail                  // Issue detail view
	ModeHelp                    // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSearch:
		return "search"
	case ModeInputName:
		return "input_name"
	case ModeInputDesc:
		return "input_desc"
	case ModeInputLabels:
		return "input_labels"
	case ModeComment:
		return "comment"
	case ModeImportPath:
		return "import_path"
	case ModeExportPath:
		return "export_path"
	case ModeSwitchUser:
		return "switch_user"
	case ModeAddUserName:
		return "add_user_name"
	case ModeAddUserEmail:
		return "add_user_email"
	case ModeDetail:
		return "detail"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeSearch, ModeInputName, ModeInputDesc, ModeInputLabels, ModeComment,
		ModeImportPath, ModeExportPath, ModeAddUserName, ModeAddUserEmail:
		return true
	case ModeNormal, ModeSwitchUser, ModeDetail, ModeHelp:
		return false
	}
	return false
}

// usesTextarea returns true if the mode edits multi-line text.
func (m Mode) usesTextarea() bool {
	return m == ModeInputDesc || m == ModeComment
}
