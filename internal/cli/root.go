package cli

import (
	"time"

	"github.com/alexanderramin/outings/internal/domain"
	"github.com/alexanderramin/outings/internal/journal"
	"github.com/alexanderramin/outings/internal/session"
	"github.com/spf13/cobra"
)

// App holds what CLI commands and the TUI operate on.
type App struct {
	Session *session.Controller
	// Journal is optional; history surfaces are hidden without it.
	Journal *journal.Journal
	// Prefs seeds the TUI preference form.
	Prefs *domain.Preferences

	// IsInteractive reports whether stdin is a terminal. The bare
	// "outings" command launches the TUI only when it returns true.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "outings" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "outings",
		Short: "Plan a day out and reshape it one event at a time",
		Long: `Outings asks a planning service for an itinerary that fits your budget,
interests, and planning mode, then lets you replace individual events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runShell(cmd.Context(), app)
		},
	}

	root.AddCommand(
		newPlanCmd(app),
		newShellCmd(app),
	)

	return root
}
