package gridtui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tOgg1/taskdeck/internal/grid"
	"github.com/tOgg1/taskdeck/internal/gridtui/styles"
	"github.com/tOgg1/taskdeck/internal/models"
)

type editTarget int

const (
	targetCell editTarget = iota
	targetSearch
)

// editSession binds the editor to one cell (or the search box) for the
// lifetime of a popup. The key value is captured when the session opens so
// row replacements underneath do not retarget the commit.
type editSession struct {
	target   editTarget
	editor   grid.Editor
	kind     models.Kind
	table    string
	keyField string
	keyValue string
	column   string
	rule     models.Rule
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.mode == modeEditing {
		return m.updateEditing(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextTheme):
		m.setPalette(styles.CyclePalette(m.palette.Name, 1))
		return m, nil
	case key.Matches(msg, m.keys.PrevTheme):
		m.setPalette(styles.CyclePalette(m.palette.Name, -1))
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusGrid {
			m.focus = focusHeader
		} else {
			m.focus = focusGrid
		}
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		if m.focus == focusHeader {
			m.focus = focusGrid
			return m, nil
		}
		return m, tea.Quit
	}

	if m.focus == focusHeader {
		return m.updateHeader(msg)
	}
	return m.updateGrid(msg)
}

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.schema().ColumnCount()
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor.NextRow(m.rows().Len())
	case key.Matches(msg, m.keys.Up):
		m.cursor.PrevRow(m.rows().Len())
	case key.Matches(msg, m.keys.Right):
		m.cursor.NextColumn(cols)
	case key.Matches(msg, m.keys.Left):
		m.cursor.PrevColumn()
	case key.Matches(msg, m.keys.Edit):
		m.openCellEditor()
	}
	m.ensureVisible()
	return m, nil
}

func (m *Model) updateHeader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Right):
		m.control = (m.control + 1) % headerControlCount
	case key.Matches(msg, m.keys.Left):
		m.control = (m.control + headerControlCount - 1) % headerControlCount
	case key.Matches(msg, m.keys.Edit):
		if m.control == controlToggle {
			return m, m.switchKind()
		}
		m.openSearchEditor()
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	if s == nil {
		m.mode = modeNormal
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.commit()
	case key.Matches(msg, m.keys.Cancel):
		m.closeSession()
		return m, nil
	}

	if s.target == targetCell && s.rule.IsAction() {
		// y confirms as well; every other key is ignored
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && (msg.Runes[0] == 'y' || msg.Runes[0] == 'Y') {
			return m, m.commit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Backspace):
		s.editor.Backspace()
	case key.Matches(msg, m.keys.CursorLeft):
		s.editor.Left()
	case key.Matches(msg, m.keys.CursorRight):
		s.editor.Right()
	case msg.Type == tea.KeySpace:
		s.editor.Insert(' ')
	case msg.Type == tea.KeyRunes && msg.Paste:
		s.editor.InsertString(string(msg.Runes))
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			s.editor.Insert(r)
		}
	}
	return m, nil
}

func (m *Model) openCellEditor() {
	record, ok := m.selectedRecord()
	if !ok {
		return
	}
	schema := m.schema()
	col, ok := schema.Column(m.cursor.Col)
	if !ok || !col.Rule.Editable() {
		return
	}

	s := &editSession{
		target:   targetCell,
		kind:     m.active,
		table:    schema.Table,
		keyField: schema.KeyColumn,
		keyValue: record.ID(),
		column:   col.Name,
		rule:     col.Rule,
	}
	if col.Rule.AcceptsInput() {
		s.editor.Reset(record.Field(m.cursor.Col))
	}
	m.session = s
	m.mode = modeEditing
}

func (m *Model) openSearchEditor() {
	s := &editSession{target: targetSearch, kind: m.active}
	s.editor.Reset(m.cache.Filter())
	m.session = s
	m.mode = modeEditing
}

func (m *Model) closeSession() {
	if m.session != nil {
		m.session.editor.Clear()
	}
	m.session = nil
	m.mode = modeNormal
}

// switchKind activates the other dataset, clears the shared filter and
// fetches the newly active rows.
func (m *Model) switchKind() tea.Cmd {
	m.active = m.active.Other()
	m.cache.SetFilter("")
	if snap := m.datasets[m.active]; snap.Filter != "" {
		m.datasets[m.active] = grid.Snapshot{Kind: m.active}
	}
	m.cursor.Clamp(m.rows().Len(), m.schema().ColumnCount())
	m.rowOffset, m.colOffset = 0, 0
	m.ensureVisible()
	m.focus = focusGrid
	return m.fetchCmd(m.active, "", false)
}

func (m *Model) setPalette(p styles.Palette) {
	m.palette = p
	m.styles = styles.NewStyles(p)
}
