package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Theme     key.Binding
	Logout    key.Binding
	Back      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Submit    key.Binding
	Tabs      key.Binding

	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Toggle key.Binding
	Reload key.Binding
	Search key.Binding

	Login    key.Binding
	Register key.Binding
	Pricing  key.Binding
	Verify   key.Binding
	Resend   key.Binding
	Choose   key.Binding
	Complete key.Binding

	Yes key.Binding
	No  key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Theme:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
	Logout:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "log out")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Tabs:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "pages")),

	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Toggle: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),

	Login:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log in")),
	Register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "sign up")),
	Pricing:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "pricing")),
	Verify:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "verify email")),
	Resend:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "resend email")),
	Choose:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "checkout")),
	Complete: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next suggestion")),

	Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
}
