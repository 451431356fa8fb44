package cli

import (
	"github.com/alexanderramin/outings/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel pops the wizard view, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// flashMsg shows a one-line message under the current view until the next
// key press.
type flashMsg struct {
	text string
}

// planDoneMsg and regenDoneMsg report a finished controller call. Views
// render from the controller snapshot, so these only wake the UI.
type planDoneMsg struct {
	plan *domain.Plan
	err  error
}

type regenDoneMsg struct {
	index int
	plan  *domain.Plan
	err   error
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func flash(text string) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text} }
}
