package testutil

import (
	"github.com/alexanderramin/outings/internal/domain"
)

// Preference options
type PreferenceOption func(*domain.PreferenceSet)

func WithBudget(b int) PreferenceOption {
	return func(p *domain.PreferenceSet) {
		p.Budget = b
	}
}

func WithInterests(names ...string) PreferenceOption {
	return func(p *domain.PreferenceSet) {
		p.Interests = names
	}
}

func WithMode(m domain.Mode) PreferenceOption {
	return func(p *domain.PreferenceSet) {
		p.Mode = m
	}
}

// NewTestPreferences returns {budget:50, interests:[Food History], mode:surprise}
// with opts applied.
func NewTestPreferences(opts ...PreferenceOption) domain.PreferenceSet {
	p := domain.PreferenceSet{
		Budget:    50,
		Interests: []string{"Food", "History"},
		Mode:      domain.ModeSurprise,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// AbcPlan is the two-event plan used across session and CLI tests:
// Lunch X (20, 60m) then Activity Y (10, 90m), outing "abc".
func AbcPlan() *domain.Plan {
	return &domain.Plan{
		OutingID: "abc",
		Events: []domain.Event{
			{Type: "Lunch", Name: "X", Cost: 20, DurationMinutes: 60},
			{Type: "Activity", Name: "Y", Cost: 10, DurationMinutes: 90},
		},
		TotalCost:            30,
		TotalDurationMinutes: 150,
	}
}

// AbcPlanWithBreakfast is AbcPlan after regenerating index 0 into
// Breakfast Z (15, 40m).
func AbcPlanWithBreakfast() *domain.Plan {
	return &domain.Plan{
		OutingID: "abc",
		Events: []domain.Event{
			{Type: "Breakfast", Name: "Z", Cost: 15, DurationMinutes: 40},
			{Type: "Activity", Name: "Y", Cost: 10, DurationMinutes: 90},
		},
		TotalCost:            25,
		TotalDurationMinutes: 130,
	}
}

// ReplaceEvent returns a plan with the event at index swapped for e and the
// totals recomputed, as the planning service would.
func ReplaceEvent(p *domain.Plan, index int, e domain.Event) *domain.Plan {
	events := p.CloneEvents()
	events[index] = e
	return domain.NewPlan(p.OutingID, events)
}
