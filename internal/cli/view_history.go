package cli

import (
	"github.com/alexanderramin/outings/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// historyView shows the session journal in a scrollable viewport.
type historyView struct {
	state *SharedState
	vp    viewport.Model
	err   error
}

// historyLoadedMsg carries rendered journal content.
type historyLoadedMsg struct {
	content string
	err     error
}

func newHistoryView(state *SharedState) *historyView {
	vp := viewport.New(state.Width, state.ContentHeight())
	vp.MouseWheelEnabled = true
	return &historyView{state: state, vp: vp}
}

func (v *historyView) Init() tea.Cmd {
	state := v.state
	return func() tea.Msg {
		entries, err := state.App.Journal.Entries(state.Ctx)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{content: formatter.FormatHistory(entries, state.App.now())}
	}
}

func (v *historyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		v.err = msg.err
		v.vp.SetContent(msg.content)
		v.vp.GotoBottom()
		return v, nil

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "h" {
			return v, popView()
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *historyView) View() string {
	if v.err != nil {
		return formatter.ErrorPanel("History unavailable", v.err.Error())
	}
	return v.vp.View()
}

func (v *historyView) ID() ViewID    { return ViewHistory }
func (v *historyView) Title() string { return "History" }
func (v *historyView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}
