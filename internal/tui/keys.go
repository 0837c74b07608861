package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Next    key.Binding
	Flip    key.Binding
	Known   key.Binding
	Unknown key.Binding
	Back    key.Binding
	Restart key.Binding
	Quit    key.Binding
	Field   key.Binding
	Toggle  key.Binding
	Start   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Next:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next")),
		Flip:    key.NewBinding(key.WithKeys(" ", "f"), key.WithHelp("space", "flip")),
		Known:   key.NewBinding(key.WithKeys("y", "right"), key.WithHelp("y/→", "knew it")),
		Unknown: key.NewBinding(key.WithKeys("n", "left"), key.WithHelp("n/←", "still learning")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Restart: key.NewBinding(key.WithKeys("r", "enter"), key.WithHelp("r", "new document")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Field:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Toggle:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "change")),
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
	}
}

func (k keyMap) uploadHelp() []key.Binding {
	return []key.Binding{k.Field, k.Toggle, k.Start}
}

func (k keyMap) pickerHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back}
}

func (k keyMap) quizHelp(answered bool) []key.Binding {
	if answered {
		return []key.Binding{k.Select, k.Back}
	}
	answer := key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "answer"))
	return []key.Binding{answer, k.Up, k.Down, k.Select, k.Back}
}

func (k keyMap) deckHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Known, k.Unknown, k.Back}
}

func (k keyMap) endHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Quit}
}
