package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/outings/internal/cli/formatter"
	"github.com/alexanderramin/outings/internal/domain"
	"github.com/alexanderramin/outings/internal/journal"
	"github.com/spf13/cobra"
)

type planOptions struct {
	budget     int
	interests  []string
	mode       domain.Mode
	prefsPath  string
	regenerate []int
	jsonOut    bool
}

func newPlanCmd(app *App) *cobra.Command {
	opts := &planOptions{mode: domain.ModeSurprise}
	modeFlag := newModeValue(&opts.mode)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate an itinerary, optionally replacing events",
		Long: `Ask the planning service for an itinerary. Each --regenerate replaces the
event at that position (1-based) in the plan current at that point.`,
		Example: `  outings plan --budget 80 --interest Food --interest Art
  outings plan --prefs prefs.yaml --mode must-see --regenerate 2 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := opts.resolve(cmd, modeFlag)
			if err != nil {
				return err
			}
			return runPlan(cmd, app, prefs.Snapshot(), opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.budget, "budget", domain.DefaultBudget, fmt.Sprintf("budget in dollars (%d-%d)", domain.MinBudget, domain.MaxBudget))
	f.StringArrayVarP(&opts.interests, "interest", "i", nil, "interest to include (repeatable)")
	f.Var(modeFlag, "mode", "planning mode: surprise or must-see")
	f.StringVar(&opts.prefsPath, "prefs", "", "YAML preferences file; flags override its values")
	f.IntSliceVarP(&opts.regenerate, "regenerate", "r", nil, "1-based event to replace after planning (repeatable, applied in order)")
	f.BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")

	return cmd
}

// resolve layers the flags that were set over the preferences file, or
// over the defaults when there is none.
func (o *planOptions) resolve(cmd *cobra.Command, modeFlag *modeValue) (*domain.Preferences, error) {
	prefs := domain.NewPreferences()
	if o.prefsPath != "" {
		loaded, err := loadPrefsFile(o.prefsPath)
		if err != nil {
			return nil, err
		}
		prefs = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("budget") {
		if o.budget < domain.MinBudget || o.budget > domain.MaxBudget {
			return nil, &domain.ValidationError{
				Field:   "budget",
				Message: fmt.Sprintf("budget must be between %d and %d", domain.MinBudget, domain.MaxBudget),
			}
		}
		prefs.SetBudget(o.budget)
	}
	if flags.Changed("interest") {
		var names []string
		for _, v := range o.interests {
			for _, n := range strings.Split(v, ",") {
				if n = strings.TrimSpace(n); n != "" {
					names = append(names, n)
				}
			}
		}
		prefs.SetInterests(names)
	}
	if modeFlag.set {
		prefs.SetMode(o.mode)
	}
	return prefs, nil
}

func runPlan(cmd *cobra.Command, app *App, prefs domain.PreferenceSet, opts *planOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	spin := func(msg string) func() {
		if opts.jsonOut || !app.interactive() {
			return func() {}
		}
		return formatter.StartSpinner(cmd.ErrOrStderr(), msg)
	}

	stop := spin("Planning your outing…")
	plan, err := app.Session.RequestPlan(ctx, prefs)
	stop()
	if err != nil {
		return fmt.Errorf("planning outing: %w", err)
	}

	// A rejected replacement keeps the last good plan; a protocol violation
	// fails the session and leaves nothing to print.
	var regenErr error
	for _, n := range opts.regenerate {
		stop := spin(fmt.Sprintf("Replacing event %d…", n))
		next, err := app.Session.RegenerateEvent(ctx, n-1)
		stop()
		if err != nil {
			regenErr = fmt.Errorf("replacing event %d: %w", n, err)
			plan = app.Session.Snapshot().Plan()
			break
		}
		plan = next
	}

	var history []journal.Entry
	if app.Journal != nil {
		history, err = app.Journal.Entries(ctx)
		if err != nil {
			return fmt.Errorf("reading session history: %w", err)
		}
	}

	if opts.jsonOut {
		if plan == nil {
			return regenErr
		}
		if err := writePlanJSON(out, prefs, plan, app.Session.Snapshot().Regenerations, history); err != nil {
			return err
		}
	} else {
		writePlanText(out, prefs, plan, history, app.now())
	}
	return regenErr
}

func writePlanText(w io.Writer, prefs domain.PreferenceSet, plan *domain.Plan, history []journal.Entry, now time.Time) {
	fmt.Fprintln(w, formatter.Header("Your outing"))
	fmt.Fprintln(w, formatter.FormatPreferences(prefs))
	fmt.Fprintln(w)
	fmt.Fprintln(w, formatter.FormatItinerary(plan, -1))
	if len(history) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, formatter.Header("Session history"))
		fmt.Fprint(w, formatter.FormatHistory(history, now))
	}
}

type jsonEvent struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
	Duration int     `json:"duration"`
	ImageURL string  `json:"image_url,omitempty"`
}

type jsonPreferences struct {
	Budget    int      `json:"budget"`
	Interests []string `json:"interests"`
	Mode      string   `json:"mode"`
}

type jsonHistoryEntry struct {
	Seq           int     `json:"seq"`
	Generation    uint64  `json:"generation"`
	Kind          string  `json:"kind"`
	Op            string  `json:"op"`
	OutingID      string  `json:"outing_id,omitempty"`
	ReplacedIndex *int    `json:"replaced_index,omitempty"`
	TotalCost     float64 `json:"total_cost,omitempty"`
	TotalDuration int     `json:"total_duration,omitempty"`
	Message       string  `json:"message,omitempty"`
	At            string  `json:"at"`
}

type jsonPlanOutput struct {
	OutingID      string             `json:"outing_id"`
	Preferences   jsonPreferences    `json:"preferences"`
	Plan          []jsonEvent        `json:"plan"`
	TotalCost     float64            `json:"total_cost"`
	TotalDuration int                `json:"total_duration"`
	Regenerations int                `json:"regenerations"`
	History       []jsonHistoryEntry `json:"history,omitempty"`
}

func writePlanJSON(w io.Writer, prefs domain.PreferenceSet, plan *domain.Plan, regenerations int, history []journal.Entry) error {
	if plan == nil {
		return errors.New("no plan to print")
	}
	out := jsonPlanOutput{
		OutingID: plan.OutingID,
		Preferences: jsonPreferences{
			Budget:    prefs.Budget,
			Interests: append([]string{}, prefs.Interests...),
			Mode:      string(prefs.Mode),
		},
		Plan:          make([]jsonEvent, 0, len(plan.Events)),
		TotalCost:     plan.TotalCost,
		TotalDuration: plan.TotalDurationMinutes,
		Regenerations: regenerations,
	}
	for _, e := range plan.Events {
		out.Plan = append(out.Plan, jsonEvent{
			Type: e.Type, Name: e.Name, Cost: e.Cost, Duration: e.DurationMinutes, ImageURL: e.ImageURL,
		})
	}
	for _, h := range history {
		entry := jsonHistoryEntry{
			Seq:        h.Seq,
			Generation: h.Generation,
			Kind:       string(h.Kind),
			Op:         string(h.Op),
			OutingID:   h.OutingID,
			Message:    h.Message,
			At:         h.CreatedAt.Format(time.RFC3339),
		}
		if h.ReplacedIndex >= 0 {
			idx := h.ReplacedIndex
			entry.ReplacedIndex = &idx
		}
		if h.Plan != nil {
			entry.TotalCost = h.Plan.TotalCost
			entry.TotalDuration = h.Plan.TotalDurationMinutes
		}
		out.History = append(out.History, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return nil
}
