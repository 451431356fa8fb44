package domain

import (
	"fmt"
	"math"
	"slices"
)

// costTolerance absorbs float rounding when comparing reported totals with
// the sum of event costs.
const costTolerance = 0.005

// Event is a single stop in an itinerary. Events are never mutated once they
// are part of a Plan; regeneration replaces them wholesale.
type Event struct {
	Type            string
	Name            string
	Cost            float64
	DurationMinutes int
	ImageURL        string // empty when the service supplied none
}

// Validate checks the per-event invariants.
func (e Event) Validate() error {
	if e.Cost < 0 {
		return fmt.Errorf("event %q has negative cost %v", e.Name, e.Cost)
	}
	if e.DurationMinutes < 0 {
		return fmt.Errorf("event %q has negative duration %d", e.Name, e.DurationMinutes)
	}
	return nil
}

// Plan is an ordered itinerary identified by the service-assigned OutingID.
// TotalCost and TotalDurationMinutes always equal the sums over Events.
type Plan struct {
	OutingID             string
	Events               []Event
	TotalCost            float64
	TotalDurationMinutes int
}

// NewPlan builds a plan whose totals are derived from events.
func NewPlan(outingID string, events []Event) *Plan {
	p := &Plan{OutingID: outingID, Events: slices.Clone(events)}
	p.TotalCost, p.TotalDurationMinutes = SumEvents(p.Events)
	return p
}

// SumEvents returns the aggregate cost and duration of events.
func SumEvents(events []Event) (float64, int) {
	var cost float64
	var minutes int
	for _, e := range events {
		cost += e.Cost
		minutes += e.DurationMinutes
	}
	return cost, minutes
}

// Len returns the number of events in the plan.
func (p *Plan) Len() int {
	return len(p.Events)
}

// InRange reports whether i addresses an event of the plan.
func (p *Plan) InRange(i int) bool {
	return i >= 0 && i < len(p.Events)
}

// CloneEvents returns a copy of the event sequence, safe to hand to callers
// that may modify it.
func (p *Plan) CloneEvents() []Event {
	return slices.Clone(p.Events)
}

// Validate checks the plan invariants: an outing identifier, at least one
// event, valid events, and totals consistent with the events.
func (p *Plan) Validate() error {
	if p.OutingID == "" {
		return fmt.Errorf("plan has no outing id")
	}
	if len(p.Events) == 0 {
		return fmt.Errorf("plan %s has no events", p.OutingID)
	}
	for _, e := range p.Events {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	cost, minutes := SumEvents(p.Events)
	if math.Abs(cost-p.TotalCost) > costTolerance {
		return fmt.Errorf("plan %s total cost %v does not match events (%v)", p.OutingID, p.TotalCost, cost)
	}
	if minutes != p.TotalDurationMinutes {
		return fmt.Errorf("plan %s total duration %d does not match events (%d)", p.OutingID, p.TotalDurationMinutes, minutes)
	}
	return nil
}
