package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/outings/internal/cli/formatter"
	"github.com/alexanderramin/outings/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// outingsHuhTheme returns a custom huh theme using the Gruvbox palette.
func outingsHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[x] ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// prefsFormFields backs the preference form. Budget is text so huh can
// validate it as typed.
type prefsFormFields struct {
	budget    string
	interests []string
	mode      domain.Mode
}

func newPrefsFormFields(p *domain.Preferences) *prefsFormFields {
	return &prefsFormFields{
		budget:    strconv.Itoa(p.Budget()),
		interests: p.Interests(),
		mode:      p.Mode(),
	}
}

// interestOptions lists the known interests followed by any free-form ones
// already selected.
func interestOptions(selected []string) []huh.Option[string] {
	names := slices.Clone(domain.KnownInterests)
	for _, s := range selected {
		if !slices.Contains(names, s) {
			names = append(names, s)
		}
	}
	opts := make([]huh.Option[string], 0, len(names))
	for _, n := range names {
		opts = append(opts, huh.NewOption(n, n).Selected(slices.Contains(selected, n)))
	}
	return opts
}

// newPrefsForm builds the budget / interests / mode form over fields.
func newPrefsForm(fields *prefsFormFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Budget ($%d-$%d)", domain.MinBudget, domain.MaxBudget)).
				Placeholder(strconv.Itoa(domain.DefaultBudget)).
				Value(&fields.budget).
				Validate(validateBudget),
			huh.NewMultiSelect[string]().
				Title("Interests").
				Description("space to toggle").
				Options(interestOptions(fields.interests)...).
				Value(&fields.interests),
			huh.NewSelect[domain.Mode]().
				Title("Planning mode").
				Options(
					huh.NewOption(domain.ModeSurprise.Label(), domain.ModeSurprise),
					huh.NewOption(domain.ModeMustSee.Label(), domain.ModeMustSee),
				).
				Value(&fields.mode),
		),
	).WithTheme(outingsHuhTheme()).WithShowHelp(false)
}

func validateBudget(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number of dollars")
	}
	if n < domain.MinBudget || n > domain.MaxBudget {
		return fmt.Errorf("budget must be between %d and %d", domain.MinBudget, domain.MaxBudget)
	}
	return nil
}

// applyPrefsForm copies submitted form values into prefs and returns a
// confirmation line.
func applyPrefsForm(prefs *domain.Preferences, fields *prefsFormFields) (string, error) {
	if err := validateBudget(fields.budget); err != nil {
		return "", err
	}
	budget, _ := strconv.Atoi(strings.TrimSpace(fields.budget))
	mode := fields.mode
	if !mode.Valid() {
		return "", &domain.ValidationError{Field: "mode", Message: "unknown planning mode " + string(mode)}
	}

	prefs.SetBudget(budget)
	prefs.SetInterests(fields.interests)
	prefs.SetMode(mode)

	return fmt.Sprintf("%s Preferences saved: %s",
		formatter.StyleGreen.Render("✔"),
		formatter.FormatPreferences(prefs.Snapshot())), nil
}
