package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/outings/internal/cli/formatter"
	"github.com/alexanderramin/outings/internal/session"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// itineraryView is the home view: preferences, the current plan, and the
// controls that drive the session.
type itineraryView struct {
	state   *SharedState
	keys    itineraryKeyMap
	spinner spinner.Model
}

func newItineraryView(state *SharedState) *itineraryView {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = formatter.StylePurple
	return &itineraryView{
		state:   state,
		keys:    newItineraryKeyMap(),
		spinner: sp,
	}
}

func (v *itineraryView) Init() tea.Cmd {
	return nil
}

func (v *itineraryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctrl := v.state.App.Session

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Prefs):
			return v, pushView(newPrefsView(v.state))

		case key.Matches(msg, v.keys.Generate):
			prefs := v.state.Prefs.Snapshot()
			return v, tea.Batch(v.spinner.Tick, requestPlanCmd(v.state.Ctx, ctrl, prefs))

		case key.Matches(msg, v.keys.Regenerate):
			index := int(msg.Runes[0] - '1')
			return v, tea.Batch(v.spinner.Tick, regenerateCmd(v.state.Ctx, ctrl, index))

		case key.Matches(msg, v.keys.History):
			if v.state.App.Journal == nil {
				return v, flash(formatter.Dim("History is not available."))
			}
			return v, pushView(newHistoryView(v.state))

		case key.Matches(msg, v.keys.Dismiss):
			ctrl.DismissNotice()
			return v, nil

		case key.Matches(msg, v.keys.Clear):
			if ctrl.Snapshot().Kind() == session.KindIdle {
				return v, nil
			}
			ctrl.Reset(v.state.Ctx)
			return v, flash(formatter.Dim("Session cleared."))
		}

	case spinner.TickMsg:
		if !ctrl.Snapshot().Loading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *itineraryView) View() string {
	snap := v.state.App.Session.Snapshot()

	var b strings.Builder
	b.WriteString(formatter.FormatPreferences(v.state.Prefs.Snapshot()))
	b.WriteString("\n\n")

	switch st := snap.State.(type) {
	case session.Idle:
		b.WriteString(formatter.Dim("Press g to plan an outing, p to change preferences."))

	case session.GeneratingPlan:
		b.WriteString(v.spinner.View() + " " + formatter.Dim("Planning your outing…"))

	case session.PlanReady:
		b.WriteString(formatter.FormatItinerary(st.Plan, -1))
		b.WriteString("\n\n")
		b.WriteString(formatter.Dim(fmt.Sprintf("Press 1-%d to replace an event, g for a new plan.", min(st.Plan.Len(), 9))))

	case session.RegeneratingEvent:
		b.WriteString(formatter.FormatItinerary(st.Plan, st.Index))
		b.WriteString("\n\n")
		b.WriteString(v.spinner.View() + " " + formatter.Dim(fmt.Sprintf("Finding a new event %d…", st.Index+1)))

	case session.Failed:
		b.WriteString(formatter.ErrorPanel("Planning failed", st.Err.Error()))
		b.WriteString("\n\n")
		b.WriteString(formatter.Dim("Press g to try again."))
	}

	if snap.Notice != "" {
		b.WriteString("\n\n")
		b.WriteString(formatter.StyleYellow.Render("! "+snap.Notice) + formatter.Dim("  (x to dismiss)"))
	}

	return b.String()
}

func (v *itineraryView) ID() ViewID    { return ViewItinerary }
func (v *itineraryView) Title() string { return "" }
func (v *itineraryView) ShortHelp() []key.Binding {
	bindings := []key.Binding{v.keys.Prefs, v.keys.Generate}
	snap := v.state.App.Session.Snapshot()
	if snap.Kind() == session.KindPlanReady {
		bindings = append(bindings, v.keys.Regenerate)
	}
	if v.state.App.Journal != nil {
		bindings = append(bindings, v.keys.History)
	}
	if snap.Notice != "" {
		bindings = append(bindings, v.keys.Dismiss)
	}
	if snap.Kind() != session.KindIdle {
		bindings = append(bindings, v.keys.Clear)
	}
	return bindings
}
