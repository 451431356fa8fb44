package domain

import (
	"slices"
	"strings"
)

const (
	MinBudget     = 20
	MaxBudget     = 300
	DefaultBudget = 50
)

// PreferenceSet is an immutable snapshot of the user's preferences, taken at
// the moment a request is issued.
type PreferenceSet struct {
	Budget    int
	Interests []string
	Mode      Mode
}

// Validate checks that the set can be submitted to the planning service.
func (p PreferenceSet) Validate() error {
	if len(p.Interests) == 0 {
		return &ValidationError{Field: "interests", Message: "no interests selected"}
	}
	if p.Budget < MinBudget || p.Budget > MaxBudget {
		return &ValidationError{Field: "budget", Message: "budget must be between 20 and 300"}
	}
	if !p.Mode.Valid() {
		return &ValidationError{Field: "mode", Message: "unknown planning mode " + string(p.Mode)}
	}
	return nil
}

// Preferences is the mutable preference model edited by the presentation
// layer. It is not safe for concurrent use; take a Snapshot before handing
// preferences to another goroutine.
type Preferences struct {
	budget    int
	interests []string
	mode      Mode
}

// NewPreferences returns the default preferences: budget 50, no interests,
// surprise mode.
func NewPreferences() *Preferences {
	return &Preferences{budget: DefaultBudget, mode: ModeSurprise}
}

// PreferencesFrom builds a model from an existing set, clamping the budget
// and dropping blank or duplicate interests.
func PreferencesFrom(set PreferenceSet) *Preferences {
	p := NewPreferences()
	p.SetBudget(set.Budget)
	p.SetInterests(set.Interests)
	if set.Mode != "" {
		p.mode = set.Mode
	}
	return p
}

// SetBudget stores v clamped to [MinBudget, MaxBudget].
func (p *Preferences) SetBudget(v int) {
	p.budget = max(MinBudget, min(MaxBudget, v))
}

// ToggleInterest adds name if absent and removes it if present.
// Blank names are ignored.
func (p *Preferences) ToggleInterest(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if i := slices.Index(p.interests, name); i >= 0 {
		p.interests = slices.Delete(p.interests, i, i+1)
		return
	}
	p.interests = append(p.interests, name)
}

// SetInterests replaces the interest set, keeping first-seen order.
func (p *Preferences) SetInterests(names []string) {
	p.interests = nil
	for _, n := range names {
		if !p.HasInterest(strings.TrimSpace(n)) {
			p.ToggleInterest(n)
		}
	}
}

func (p *Preferences) SetMode(m Mode) {
	p.mode = m
}

func (p *Preferences) Budget() int { return p.budget }

func (p *Preferences) Mode() Mode { return p.mode }

// Interests returns a copy of the selected interests in selection order.
func (p *Preferences) Interests() []string {
	return slices.Clone(p.interests)
}

func (p *Preferences) HasInterest(name string) bool {
	return slices.Contains(p.interests, name)
}

// Validate fails with a ValidationError when the model cannot be submitted.
func (p *Preferences) Validate() error {
	return p.Snapshot().Validate()
}

// Snapshot returns an independent copy of the current preferences.
func (p *Preferences) Snapshot() PreferenceSet {
	return PreferenceSet{
		Budget:    p.budget,
		Interests: slices.Clone(p.interests),
		Mode:      p.mode,
	}
}
