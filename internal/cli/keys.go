package cli

import "github.com/charmbracelet/bubbles/key"

type itineraryKeyMap struct {
	Prefs      key.Binding
	Generate   key.Binding
	Regenerate key.Binding
	History    key.Binding
	Dismiss    key.Binding
	Clear      key.Binding
}

func newItineraryKeyMap() itineraryKeyMap {
	return itineraryKeyMap{
		Prefs:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preferences")),
		Generate:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		Regenerate: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "replace event")),
		History:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	}
}

var (
	quitKey = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	backKey = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
)
