package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/usecase"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.textInput.SetWidth(max(msg.Width-6, 20))
		m.lineInput.Width = max(msg.Width-20, 20)
		m.detailView.Width = msg.Width
		m.detailView.Height = max(msg.Height-4, 3)
		if m.mode == ModeDetail {
			m.showDetail()
		}
		return m, nil

	case MsgFrame:
		return m, m.handleFrame()

	case MsgSaved:
		return m, nil

	case MsgError:
		m.err = msg.Err
		if m.logger != nil {
			m.logger.Error(0, "tui", msg.Err.Error())
		}
		return m, nil

	case MsgClearStatus:
		if msg.Seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, m.forwardToInput(msg)
}

// handleFrame applies at most one imported state per frame and surfaces
// finished transfers in the status line.
func (m *Model) handleFrame() tea.Cmd {
	cmds := []tea.Cmd{frameTick()}
	if m.transfers == nil {
		return tea.Batch(cmds...)
	}

	if next, ok := m.transfers.Poll(); ok {
		m.state.ReplaceWith(next)
		m.query = ""
		m.cursor = 0
		if m.mode == ModeDetail || m.mode == ModeSwitchUser || m.mode == ModeComment {
			m.exitInput()
		}
		m.refresh()
		m.log(0, "import", "applied imported state")
		cmds = append(cmds, m.save(), m.setStatus(fmt.Sprintf("Imported %d issues", next.Issues.Len())))
	}
	if err := m.transfers.PollFailure(); err != nil {
		m.err = err
	}
	if path, ok := m.transfers.PollExported(); ok {
		cmds = append(cmds, m.setStatus("Exported to "+path))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeSearch:
		return m.handleSearchMode(msg)
	case ModeInputName, ModeInputLabels, ModeImportPath, ModeExportPath, ModeAddUserName, ModeAddUserEmail:
		return m.handleLineInputMode(msg)
	case ModeInputDesc, ModeComment:
		return m.handleTextareaMode(msg)
	case ModeSwitchUser:
		return m.handleSwitchUserMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.mode = ModeNormal
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.issues)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.query != "" {
			m.query = ""
			m.refresh()
		}
		m.err = nil
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.SelectedIssue(); ok {
			m.mode = ModeDetail
			m.showDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Parent):
		return m, m.jumpToParent()

	case key.Matches(msg, m.keys.New):
		m.pendingName, m.pendingDesc = "", ""
		m.enterLineInput(ModeInputName, "Issue name", "")
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		if _, ok := m.SelectedIssue(); ok {
			m.enterTextarea(ModeComment, "Comment")
		}
		return m, nil

	case key.Matches(msg, m.keys.Close):
		return m, m.closeSelected(usecase.CloseCompleted)

	case key.Matches(msg, m.keys.NotPlanned):
		return m, m.closeSelected(usecase.CloseNotPlanned)

	case key.Matches(msg, m.keys.Reopen):
		return m, m.reopenSelected()

	case key.Matches(msg, m.keys.Fork):
		return m, m.forkSelected()

	case key.Matches(msg, m.keys.Filter):
		m.state.Filter = m.state.Filter.Next()
		m.cursor = 0
		m.refresh()
		return m, m.save()

	case key.Matches(msg, m.keys.Search):
		m.enterLineInput(ModeSearch, "Search names", m.query)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Import):
		m.enterLineInput(ModeImportPath, "Import file (empty = file picker)", "")
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.enterLineInput(ModeExportPath, "Export file (empty = file picker)", m.exportName)
		return m, nil

	case key.Matches(msg, m.keys.SwitchUser):
		m.mode = ModeSwitchUser
		m.userCursor = 0
		for i, u := range m.users {
			if u.Is(m.state.CurrentUser) {
				m.userCursor = i
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.AddUser):
		m.pendingName = ""
		m.enterLineInput(ModeAddUserName, "User name", "")
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.query = ""
		m.exitInput()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.exitInput()
		return m, nil
	}

	cmd := m.forwardToInput(msg)
	m.query = m.lineInput.Value()
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m *Model) handleLineInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.exitInput()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		return m, m.submitLine(strings.TrimSpace(m.lineInput.Value()))
	}
	return m, m.forwardToInput(msg)
}

func (m *Model) handleTextareaMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.exitInput()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, m.submitText(m.textInput.Value())
	}
	return m, m.forwardToInput(msg)
}

func (m *Model) handleSwitchUserMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
	case key.Matches(msg, m.keys.Up):
		if m.userCursor > 0 {
			m.userCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.userCursor < len(m.users)-1 {
			m.userCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		m.mode = ModeNormal
		if m.userCursor >= len(m.users) {
			return m, nil
		}
		name := m.users[m.userCursor].Name
		if err := m.state.SwitchUser(name); err != nil {
			m.err = err
			return m, nil
		}
		m.log(0, "user", "switched to "+name)
		return m, tea.Batch(m.save(), m.setStatus("Current user: "+name))
	}
	return m, nil
}

func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Detail):
		m.mode = ModeNormal
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Parent):
		cmd := m.jumpToParent()
		m.showDetail()
		return m, cmd
	}
	var cmd tea.Cmd
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

// submitLine completes a single-line prompt.
func (m *Model) submitLine(value string) tea.Cmd {
	switch m.mode {
	case ModeInputName:
		if value == "" {
			m.err = domain.ErrEmptyName
			return nil
		}
		m.pendingName = value
		m.enterTextarea(ModeInputDesc, "Description (empty = name)")
		return nil

	case ModeInputLabels:
		return m.createIssue(parseLabels(value))

	case ModeImportPath:
		m.exitInput()
		if m.transfers == nil {
			return nil
		}
		if value == "" {
			m.transfers.RequestImport(m.ctx)
		} else {
			m.transfers.RequestImportPath(m.ctx, value)
		}
		return m.setStatus("Importing...")

	case ModeExportPath:
		m.exitInput()
		if m.transfers == nil {
			return nil
		}
		if value == "" {
			m.transfers.RequestExport(m.ctx, m.state, m.exportName)
		} else {
			m.transfers.RequestExportPath(m.ctx, m.state, value)
		}
		return m.setStatus("Exporting...")

	case ModeAddUserName:
		if value == "" {
			m.err = domain.ErrEmptyUserName
			return nil
		}
		m.pendingName = value
		m.enterLineInput(ModeAddUserEmail, "Email", "")
		return nil

	case ModeAddUserEmail:
		if value == "" {
			m.err = domain.ErrEmptyEmail
			return nil
		}
		if err := m.state.Users.Add(domain.NewUser(m.pendingName, value)); err != nil {
			m.err = err
			return nil
		}
		name := m.pendingName
		m.exitInput()
		m.refresh()
		m.log(0, "user", "added "+name)
		return tea.Batch(m.save(), m.setStatus("Added user "+name))

	case ModeNormal, ModeSearch, ModeInputDesc, ModeComment, ModeSwitchUser, ModeDetail, ModeHelp:
	}
	return nil
}

// submitText completes a multi-line prompt.
func (m *Model) submitText(value string) tea.Cmd {
	switch m.mode {
	case ModeInputDesc:
		m.pendingDesc = value
		m.enterLineInput(ModeInputLabels, "Labels (comma separated)", "")
		return nil

	case ModeComment:
		issue, ok := m.SelectedIssue()
		if !ok {
			m.exitInput()
			return nil
		}
		if err := m.state.Issues.AddComment(issue.ID, value, m.state.CurrentUser, m.clock.Now()); err != nil {
			m.err = err
			return nil
		}
		m.exitInput()
		m.refresh()
		m.log(issue.ID, "comment", "comment added")
		return tea.Batch(m.save(), m.setStatus("Commented on "+domain.IssueRef(issue.ID)))

	case ModeNormal, ModeSearch, ModeInputName, ModeInputLabels, ModeImportPath, ModeExportPath,
		ModeSwitchUser, ModeAddUserName, ModeAddUserEmail, ModeDetail, ModeHelp:
	}
	return nil
}

func (m *Model) createIssue(labels []string) tea.Cmd {
	id, err := usecase.CreateDescribedIssue(m.state, usecase.NewIssueInput{
		Name:        m.pendingName,
		Description: m.pendingDesc,
		Labels:      labels,
	}, m.clock.Now())
	if err != nil {
		m.err = err
		return nil
	}
	m.exitInput()
	m.refresh()
	m.selectIssue(id)
	m.log(id, "issue", "created")
	return tea.Batch(m.save(), m.setStatus("Created "+domain.IssueRef(id)))
}

func (m *Model) closeSelected(reason usecase.CloseReason) tea.Cmd {
	issue, ok := m.SelectedIssue()
	if !ok {
		return nil
	}
	if err := usecase.CloseWithReason(m.state.Issues, issue.ID, reason); err != nil {
		m.err = err
		return nil
	}
	m.refresh()
	m.log(issue.ID, "issue", "closed as "+string(reason))
	return tea.Batch(m.save(), m.setStatus(fmt.Sprintf("Closed %s (%s)", domain.IssueRef(issue.ID), reason)))
}

func (m *Model) reopenSelected() tea.Cmd {
	issue, ok := m.SelectedIssue()
	if !ok {
		return nil
	}
	if err := m.state.Issues.Reopen(issue.ID); err != nil {
		m.err = err
		return nil
	}
	m.refresh()
	m.log(issue.ID, "issue", "reopened")
	return tea.Batch(m.save(), m.setStatus("Reopened "+domain.IssueRef(issue.ID)))
}

// forkSelected forks the selected issue and shows all issues so that both
// the closed source and the new child stay visible.
func (m *Model) forkSelected() tea.Cmd {
	issue, ok := m.SelectedIssue()
	if !ok {
		return nil
	}
	childID, err := m.state.Issues.Fork(issue.ID, m.state.CurrentUser, m.clock.Now())
	if err != nil {
		m.err = err
		return nil
	}
	m.state.Filter = domain.FilterAll
	m.query = ""
	m.refresh()
	m.selectIssue(childID)
	m.log(issue.ID, "fork", "forked into "+domain.IssueRef(childID))
	m.log(childID, "fork", "forked from "+domain.IssueRef(issue.ID))
	return tea.Batch(m.save(), m.setStatus(fmt.Sprintf("Forked %s into %s", domain.IssueRef(issue.ID), domain.IssueRef(childID))))
}

// jumpToParent selects the issue the current one was forked from,
// switching to the all filter so the parent is listed.
func (m *Model) jumpToParent() tea.Cmd {
	issue, ok := m.SelectedIssue()
	if !ok || issue.ParentID == nil {
		return nil
	}
	parentID := *issue.ParentID
	changed := m.state.Filter != domain.FilterAll
	m.state.Filter = domain.FilterAll
	m.query = ""
	m.refresh()
	m.selectIssue(parentID)
	if changed {
		return m.save()
	}
	return nil
}

func (m *Model) enterLineInput(mode Mode, placeholder, value string) {
	m.mode = mode
	m.err = nil
	m.textInput.Blur()
	m.lineInput.Reset()
	m.lineInput.Placeholder = placeholder
	m.lineInput.SetValue(value)
	m.lineInput.CursorEnd()
	m.lineInput.Focus()
}

func (m *Model) enterTextarea(mode Mode, placeholder string) {
	m.mode = mode
	m.err = nil
	m.lineInput.Blur()
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	m.textInput.Focus()
}

func (m *Model) exitInput() {
	m.mode = ModeNormal
	m.lineInput.Blur()
	m.textInput.Blur()
}

// forwardToInput passes msg to the focused input component.
func (m *Model) forwardToInput(msg tea.Msg) tea.Cmd {
	if !m.mode.IsInputMode() {
		return nil
	}
	var cmd tea.Cmd
	if m.mode.usesTextarea() {
		m.textInput, cmd = m.textInput.Update(msg)
	} else {
		m.lineInput, cmd = m.lineInput.Update(msg)
	}
	return cmd
}

// parseLabels splits a comma separated list, dropping blanks.
func parseLabels(s string) []string {
	var labels []string
	for _, part := range strings.Split(s, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
