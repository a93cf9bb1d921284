package gridtui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Down      key.Binding
	Up        key.Binding
	Right     key.Binding
	Left      key.Binding
	Edit      key.Binding
	Focus     key.Binding
	NextTheme key.Binding
	PrevTheme key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	Submit      key.Binding
	Cancel      key.Binding
	Backspace   key.Binding
	CursorLeft  key.Binding
	CursorRight key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next row")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev row")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next col")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev col")),
		Edit:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "edit")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "search/table")),
		NextTheme: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "next color")),
		PrevTheme: key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "prev color")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),

		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Backspace:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		CursorLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "cursor left")),
		CursorRight: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "cursor right")),
	}
}

// normalHelp is shown in the footer while browsing.
type normalHelp struct{ keys keyMap }

func (h normalHelp) ShortHelp() []key.Binding {
	k := h.keys
	return []key.Binding{k.Down, k.Up, k.Right, k.Left, k.Edit, k.Quit}
}

func (h normalHelp) FullHelp() [][]key.Binding {
	k := h.keys
	return [][]key.Binding{
		{k.Down, k.Up, k.Right, k.Left},
		{k.Edit, k.Focus, k.Quit},
		{k.NextTheme, k.PrevTheme},
	}
}

// editHelp is shown in the footer while a popup is open.
type editHelp struct {
	keys   keyMap
	action bool
}

func (h editHelp) ShortHelp() []key.Binding {
	k := h.keys
	if h.action {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
			k.Cancel,
		}
	}
	return []key.Binding{k.Submit, k.Cancel, k.Backspace, k.CursorLeft, k.CursorRight}
}

func (h editHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
