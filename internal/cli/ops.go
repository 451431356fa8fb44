package cli

import (
	"context"

	"github.com/alexanderramin/outings/internal/domain"
	"github.com/alexanderramin/outings/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// requestPlanCmd runs a plan request off the UI goroutine. prefs is
// snapshotted by the caller so later form edits cannot race the request.
func requestPlanCmd(ctx context.Context, c *session.Controller, prefs domain.PreferenceSet) tea.Cmd {
	return func() tea.Msg {
		plan, err := c.RequestPlan(ctx, prefs)
		return planDoneMsg{plan: plan, err: err}
	}
}

func regenerateCmd(ctx context.Context, c *session.Controller, index int) tea.Cmd {
	return func() tea.Msg {
		plan, err := c.RegenerateEvent(ctx, index)
		return regenDoneMsg{index: index, plan: plan, err: err}
	}
}
