package cli

import (
	"context"

	"github.com/alexanderramin/outings/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App
	Ctx context.Context

	// Preferences the next plan request is made with. Edited by the
	// preference form; snapshotted when a request is sent.
	Prefs *domain.Preferences

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(ctx context.Context, app *App) *SharedState {
	prefs := app.Prefs
	if prefs == nil {
		prefs = domain.NewPreferences()
	}
	return &SharedState{App: app, Ctx: ctx, Prefs: prefs}
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
