package historyui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Grow   key.Binding
	Shrink key.Binding
	Filter key.Binding
	Top    key.Binding
	Bottom key.Binding
	Quit   key.Binding
	Field  key.Binding
	Apply  key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:   key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev tab")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next tab")),
		Grow:   key.NewBinding(key.WithKeys("=", "+"), key.WithHelp("=", "wider window")),
		Shrink: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower window")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filters")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Field:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Grow, k.Shrink, k.Filter, k.Quit}
}

func (k keyMap) filterHelp() []key.Binding {
	return []key.Binding{k.Field, k.Apply, k.Cancel}
}
