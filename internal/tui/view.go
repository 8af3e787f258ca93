package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/coyuki/ramifi/internal/domain"
)

// defaultWidth is used before the first WindowSizeMsg arrives.
const defaultWidth = 80

// View renders the TUI.
func (m *Model) View() string {
	if m.mode == ModeDetail {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.viewHeader(),
			m.detailView.View(),
			m.viewFooter(),
		)
	}

	parts := []string{m.viewHeader(), m.viewTabs(), m.viewList()}
	switch {
	case m.mode == ModeHelp:
		parts = append(parts, m.styles.Footer.Render(m.help.FullHelpView(m.keys.FullHelp())))
	case m.mode == ModeSwitchUser:
		parts = append(parts, m.viewUserPicker())
	case m.mode.IsInputMode():
		parts = append(parts, m.viewInput())
	}
	parts = append(parts, m.viewFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewHeader() string {
	user := m.styles.HeaderUser.Render("@" + m.state.CurrentUser.Name)
	return m.styles.Header.Render("ramifi") + "  " + user
}

func (m *Model) viewTabs() string {
	tabs := make([]string, 0, len(domain.AllFilters()))
	for _, f := range domain.AllFilters() {
		label := f.Display()
		if f == m.state.Filter {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.query != "" && m.mode != ModeSearch {
		line += "  " + m.styles.DetailLabel.Render("search: "+m.query)
	}
	return line + "\n"
}

func (m *Model) viewList() string {
	if len(m.issues) == 0 {
		return m.styles.Empty.Render("  No issues") + "\n"
	}

	width := m.width
	if width == 0 {
		width = defaultWidth
	}

	var b strings.Builder
	for i, issue := range m.issues {
		b.WriteString(m.renderIssueRow(issue, i == m.cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderIssueRow renders one list line: cursor, id, status badge, labels, name.
func (m *Model) renderIssueRow(issue domain.Issue, selected bool, width int) string {
	indicator := " "
	nameStyle := m.styles.IssueName
	if selected {
		indicator = ">"
		nameStyle = m.styles.IssueNameSelected
	}

	idStr := fmt.Sprintf("%3d", issue.ID)
	badge := m.styles.StatusStyle(issue.Status).Render(StatusIcon(issue.Status) + " " + issue.Status.Display())

	var labelsStr string
	for _, l := range issue.Labels {
		labelsStr += "[" + l + "] "
	}

	var parentStr string
	if issue.ParentID != nil {
		parentStr = " ← " + domain.IssueRef(*issue.ParentID)
	}

	prefix := "  " + m.styles.SelectionIndicator.Render(indicator) + " " + m.styles.IssueID.Render(idStr) + "  " + badge + "  "
	if labelsStr != "" {
		prefix += m.styles.IssueLabel.Render(labelsStr)
	}

	maxNameLen := width - lipgloss.Width(prefix) - runewidth.StringWidth(parentStr) - 2
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	name := escapeNewlines(issue.Name)
	if runewidth.StringWidth(name) > maxNameLen {
		name = runewidth.Truncate(name, maxNameLen, "...")
	}

	line := prefix + nameStyle.Render(name)
	if parentStr != "" {
		line += m.styles.IssueParent.Render(parentStr)
	}
	return line
}

func (m *Model) viewInput() string {
	var prompt, field string
	switch m.mode {
	case ModeSearch:
		prompt, field = "Search", m.lineInput.View()
	case ModeInputName:
		prompt, field = "New issue", m.lineInput.View()
	case ModeInputDesc:
		prompt, field = "Description for "+m.pendingName+" (ctrl+s to continue)", m.textInput.View()
	case ModeInputLabels:
		prompt, field = "Labels for "+m.pendingName, m.lineInput.View()
	case ModeComment:
		target := ""
		if issue, ok := m.SelectedIssue(); ok {
			target = " on " + domain.IssueRef(issue.ID)
		}
		prompt, field = "Comment"+target+" (ctrl+s to save)", m.textInput.View()
	case ModeImportPath:
		prompt, field = "Import", m.lineInput.View()
	case ModeExportPath:
		prompt, field = "Export", m.lineInput.View()
	case ModeAddUserName:
		prompt, field = "New user", m.lineInput.View()
	case ModeAddUserEmail:
		prompt, field = "Email for "+m.pendingName, m.lineInput.View()
	case ModeNormal, ModeSwitchUser, ModeDetail, ModeHelp:
		return ""
	}
	return m.styles.InputFrame.Render(m.styles.InputPrompt.Render(prompt) + "\n" + field)
}

func (m *Model) viewUserPicker() string {
	var b strings.Builder
	b.WriteString(m.styles.InputPrompt.Render("Switch user"))
	for i, u := range m.users {
		indicator := " "
		if i == m.userCursor {
			indicator = ">"
		}
		current := ""
		if u.Is(m.state.CurrentUser) {
			current = " (current)"
		}
		b.WriteString("\n" + m.styles.SelectionIndicator.Render(indicator) + " " + u.String() + m.styles.DetailLabel.Render(current))
	}
	return m.styles.InputFrame.Render(b.String())
}

func (m *Model) viewFooter() string {
	var line string
	switch {
	case m.err != nil:
		line = m.styles.ErrorLine.Render("Error: " + m.err.Error())
	case m.status != "":
		line = m.styles.StatusLine.Render(m.status)
	}
	if m.mode == ModeHelp {
		return line
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, m.help.ShortHelpView(m.keys.ShortHelp()))
}

// showDetail fills the detail viewport with the selected issue.
func (m *Model) showDetail() {
	issue, ok := m.SelectedIssue()
	if !ok {
		m.mode = ModeNormal
		return
	}
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	if m.detailView.Height == 0 {
		m.detailView.Height = 20
	}
	m.detailView.Width = width
	m.detailView.SetContent(m.detailContent(issue, width))
	m.detailView.GotoTop()
}

// detailContent renders the full issue: fields, fork relatives and comments.
func (m *Model) detailContent(issue domain.Issue, width int) string {
	var b strings.Builder
	label := m.styles.DetailLabel.Render

	b.WriteString(m.styles.DetailTitle.Render(fmt.Sprintf("%s %s", domain.IssueRef(issue.ID), issue.Name)))
	b.WriteString("\n\n")
	b.WriteString(label("Status:  ") + m.styles.StatusStyle(issue.Status).Render(issue.Status.Display()) + "\n")
	b.WriteString(label("Creator: ") + issue.Creator.String() + "\n")
	labels := "none"
	if len(issue.Labels) > 0 {
		labels = strings.Join(issue.Labels, ", ")
	}
	b.WriteString(label("Labels:  ") + labels + "\n")
	b.WriteString(label("Created: ") + issue.CreatedAt.Format(time.DateTime) + "\n")

	if issue.ParentID != nil {
		parentName := ""
		if parent, ok := m.state.Issues.Get(*issue.ParentID); ok {
			parentName = ": " + parent.Name
		}
		b.WriteString(label("Forked from ") + domain.IssueRef(*issue.ParentID) + parentName + "\n")
	}

	if children := m.state.Issues.Children(issue.ID); len(children) > 0 {
		b.WriteString("\n" + label("Forks:") + "\n")
		for _, child := range children {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", domain.IssueRef(child.ID), StatusIcon(child.Status), child.Name))
		}
	}

	if len(issue.Comments) > 0 {
		b.WriteString("\n" + label("Comments:") + "\n")
		textStyle := lipgloss.NewStyle().Width(max(width-4, 10)).PaddingLeft(2)
		for _, c := range issue.Comments {
			b.WriteString(m.styles.CommentMeta.Render(fmt.Sprintf("  %s · %s", c.Author.Name, c.Date.Format(time.DateTime))) + "\n")
			b.WriteString(textStyle.Render(c.Text) + "\n")
		}
	}
	return b.String()
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
