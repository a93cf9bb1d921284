package gridtui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/tOgg1/taskdeck/internal/models"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	headerHeight = 3
	footerHeight = 4
	statusHeight = 1
	tableHead    = 1

	maxCellWidth = 28
	minCellWidth = 2
	cellGap      = 1
	scrollbarW   = 1
)

func (m *Model) effectiveWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) effectiveHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

func (m *Model) bodyHeight() int {
	h := m.effectiveHeight() - headerHeight - footerHeight - statusHeight
	if h < tableHead+1 {
		return tableHead + 1
	}
	return h
}

func (m *Model) visibleRows() int {
	return m.bodyHeight() - tableHead
}

// ensureVisible scrolls so the selected row and column are on screen.
func (m *Model) ensureVisible() {
	n := m.rows().Len()
	visible := m.visibleRows()
	row := m.cursor.Row
	if row >= 0 {
		if row < m.rowOffset {
			m.rowOffset = row
		}
		if row >= m.rowOffset+visible {
			m.rowOffset = row - visible + 1
		}
	}
	if maxOffset := n - visible; m.rowOffset > maxOffset {
		m.rowOffset = maxOffset
	}
	if m.rowOffset < 0 {
		m.rowOffset = 0
	}

	widths := columnWidths(m.schema(), m.rows().Rows)
	avail := m.effectiveWidth() - scrollbarW
	col := m.cursor.Col
	if col < m.colOffset {
		m.colOffset = col
	}
	for m.colOffset < col && spanWidth(widths, m.colOffset, col) > avail {
		m.colOffset++
	}
	if m.colOffset < 0 {
		m.colOffset = 0
	}
}

// columnWidths sizes each column to its widest cell, title included.
func columnWidths(schema *models.Schema, rows []models.Record) []int {
	widths := make([]int, schema.ColumnCount())
	for i, col := range schema.Columns {
		widths[i] = runewidth.StringWidth(col.Title)
	}
	for _, row := range rows {
		for i := range widths {
			if w := runewidth.StringWidth(row.Field(i)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, w := range widths {
		switch {
		case w > maxCellWidth:
			widths[i] = maxCellWidth
		case w < minCellWidth:
			widths[i] = minCellWidth
		}
	}
	return widths
}

// spanWidth is the rendered width of columns from..to inclusive.
func spanWidth(widths []int, from, to int) int {
	total := 0
	for i := from; i <= to && i < len(widths); i++ {
		total += widths[i] + cellGap
	}
	return total
}

func fitCell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = truncate.StringWithTail(s, uint(width), "…")
	}
	return runewidth.FillRight(s, width)
}

// View renders the header controls, the grid (or the edit popup), the
// status line and the key help.
func (m *Model) View() string {
	width := m.effectiveWidth()

	var body string
	if m.mode == modeEditing && m.session != nil {
		body = lipgloss.Place(width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.renderPopup(width))
	} else {
		body = m.renderTable(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(width),
		body,
		m.renderStatus(width),
		m.renderFooter(width),
	)
}

func (m *Model) renderHeader(width int) string {
	searchStyle := m.styles.Control
	toggleStyle := m.styles.Control
	if m.focus == focusHeader && m.mode == modeNormal {
		if m.control == controlSearch {
			searchStyle = m.styles.ControlFocus
		} else {
			toggleStyle = m.styles.ControlFocus
		}
	}

	filter := m.cache.Filter()
	label := "search " + m.schema().SearchColumn
	if filter != "" {
		label = "search: " + filter
	}
	search := searchStyle.Render(fitCell(label, 30))

	names := make([]string, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		name := models.SchemaFor(kind).Table
		if kind == m.active {
			name = "[" + name + "]"
		}
		names = append(names, name)
	}
	toggle := toggleStyle.Render(strings.Join(names, "  "))

	title := m.styles.Muted.Render(" taskdeck · " + m.palette.Name)
	row := lipgloss.JoinHorizontal(lipgloss.Center, search, " ", toggle, title)
	return truncateLines(row, width)
}

func (m *Model) renderTable(width int) string {
	schema := m.schema()
	snap := m.rows()
	widths := columnWidths(schema, snap.Rows)
	avail := width - scrollbarW

	last := m.colOffset
	for last+1 < len(widths) && spanWidth(widths, m.colOffset, last+1) <= avail {
		last++
	}

	gridFocused := m.focus == focusGrid
	lines := make([]string, 0, m.bodyHeight())

	var head strings.Builder
	for i := m.colOffset; i <= last; i++ {
		head.WriteString(m.styles.HeaderCell.Render(fitCell(schema.Columns[i].Title, widths[i]) + " "))
	}
	lines = append(lines, head.String())

	visible := m.visibleRows()
	end := m.rowOffset + visible
	if end > snap.Len() {
		end = snap.Len()
	}
	for r := m.rowOffset; r < end; r++ {
		record := snap.Rows[r]
		base := m.styles.Row
		if r%2 == 1 {
			base = m.styles.RowAlt
		}
		var line strings.Builder
		for i := m.colOffset; i <= last; i++ {
			style := base
			switch {
			case gridFocused && r == m.cursor.Row && i == m.cursor.Col:
				style = m.styles.SelectedCell
			case gridFocused && r == m.cursor.Row:
				style = m.styles.SelectedRow
			case gridFocused && i == m.cursor.Col:
				style = m.styles.SelectedCol.Inherit(base)
			}
			line.WriteString(style.Render(fitCell(record.Field(i), widths[i])))
			line.WriteString(base.Render(" "))
		}
		lines = append(lines, line.String())
	}

	if snap.Len() == 0 {
		lines = append(lines, m.styles.Muted.Render("  no rows"))
	}
	for len(lines) < m.bodyHeight() {
		lines = append(lines, "")
	}

	bar := scrollbar(snap.Len(), m.rowOffset, visible)
	for i := range lines {
		if i == 0 || i-1 >= len(bar) {
			continue
		}
		pad := avail - lipgloss.Width(lines[i])
		if pad < 0 {
			pad = 0
		}
		lines[i] += strings.Repeat(" ", pad) + m.styles.Muted.Render(bar[i-1])
	}
	return strings.Join(lines, "\n")
}

// scrollbar returns one glyph per visible row, or nothing when everything fits.
func scrollbar(total, offset, visible int) []string {
	if visible <= 0 || total <= visible {
		return nil
	}
	thumb := visible * visible / total
	if thumb < 1 {
		thumb = 1
	}
	start := offset * visible / total
	if start+thumb > visible {
		start = visible - thumb
	}
	out := make([]string, visible)
	for i := range out {
		out[i] = "│"
		if i >= start && i < start+thumb {
			out[i] = "┃"
		}
	}
	return out
}

func (m *Model) renderPopup(width int) string {
	s := m.session
	popupWidth := width * 3 / 5
	if popupWidth < 30 {
		popupWidth = width - 2
	}
	inner := popupWidth - 4

	var title, content, hint string
	switch {
	case s.target == targetSearch:
		title = "filter " + m.schema().SearchColumn
		content = m.renderInput(inner)
		hint = "empty shows every row"
	case s.rule == models.RuleActionCopy:
		title = "copy row"
		content = fmt.Sprintf("Duplicate %s row %s?", s.table, s.keyValue)
		hint = "enter/y confirm · esc cancel"
	case s.rule == models.RuleActionDelete:
		title = "delete row"
		content = fmt.Sprintf("Delete %s row %s?", s.table, s.keyValue)
		hint = "enter/y confirm · esc cancel"
	default:
		title = fmt.Sprintf("%s · %s %s", s.column, s.keyField, s.keyValue)
		content = m.renderInput(inner)
		if s.rule == models.RuleNumericOnly {
			hint = "numbers only"
		}
	}

	hints := m.help.ShortHelpView(editHelp{keys: m.keys, action: s.rule.IsAction() && s.target == targetCell}.ShortHelp())
	parts := []string{m.styles.PopupTitle.Render(title), content}
	if hint != "" {
		parts = append(parts, m.styles.Muted.Render(hint))
	}
	parts = append(parts, hints)
	return m.styles.Popup.Width(popupWidth).Render(strings.Join(parts, "\n"))
}

// renderInput draws the editor buffer with a block cursor, scrolled so the
// cursor stays inside width.
func (m *Model) renderInput(width int) string {
	before, after := m.session.editor.Split()
	under := " "
	if after != "" {
		r := []rune(after)
		under = string(r[0])
		after = string(r[1:])
	}
	for runewidth.StringWidth(before)+runewidth.StringWidth(under) > width && before != "" {
		_, size := utf8.DecodeRuneInString(before)
		before = before[size:]
	}
	cursor := lipgloss.NewStyle().Reverse(true).Render(under)
	rest := width - runewidth.StringWidth(before) - runewidth.StringWidth(under)
	if rest < 0 {
		rest = 0
	}
	return before + cursor + truncate.String(after, uint(rest))
}

func (m *Model) renderStatus(width int) string {
	snap := m.rows()
	parts := []string{
		fmt.Sprintf("%s · %d rows", m.schema().Table, snap.Len()),
	}
	if filter := m.cache.Filter(); filter != "" {
		parts = append(parts, fmt.Sprintf("filter %q", filter))
	}
	if !snap.FetchedAt.IsZero() {
		parts = append(parts, "refreshed "+humanize.Time(snap.FetchedAt))
	} else {
		parts = append(parts, "loading")
	}
	if m.inflight > 0 {
		parts = append(parts, fmt.Sprintf("saving %d", m.inflight))
	}
	line := m.styles.Status.Render(strings.Join(parts, " · "))

	if m.status.text != "" {
		style := m.styles.Status
		switch m.status.kind {
		case statusError:
			style = m.styles.StatusError
		case statusOK:
			style = m.styles.StatusOK
		}
		line += "  " + style.Render(m.status.text)
	}
	return truncateLines(line, width)
}

func (m *Model) renderFooter(width int) string {
	var view string
	if m.mode == modeEditing && m.session != nil {
		view = m.help.View(editHelp{keys: m.keys, action: m.session.rule.IsAction() && m.session.target == targetCell})
	} else {
		h := m.help
		h.ShowAll = true
		view = h.View(normalHelp{keys: m.keys})
	}
	border := m.styles.Footer.GetHorizontalBorderSize()
	return m.styles.Footer.Width(width - border).Render(view)
}

func truncateLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = truncate.String(line, uint(width))
	}
	return strings.Join(lines, "\n")
}

var _ help.KeyMap = normalHelp{}
