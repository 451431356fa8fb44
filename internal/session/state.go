package session

import "github.com/alexanderramin/outings/internal/domain"

// StateKind names the variants of State.
type StateKind int

const (
	KindIdle StateKind = iota
	KindGeneratingPlan
	KindPlanReady
	KindRegeneratingEvent
	KindFailed
)

func (k StateKind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindGeneratingPlan:
		return "generating_plan"
	case KindPlanReady:
		return "plan_ready"
	case KindRegeneratingEvent:
		return "regenerating_event"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the closed set of session states. Only the types in this file
// implement it, so a state carries exactly the data that is valid for it.
type State interface {
	Kind() StateKind
	sealed()
}

// Idle is the initial state: no plan, nothing in flight.
type Idle struct{}

// GeneratingPlan means a whole-plan request is outstanding.
type GeneratingPlan struct{}

// PlanReady holds the current plan.
type PlanReady struct {
	Plan *domain.Plan
}

// RegeneratingEvent holds the current plan while the event at Index is being
// replaced by the planning service.
type RegeneratingEvent struct {
	Plan  *domain.Plan
	Index int
}

// Failed holds the error that ended the last whole-plan request. No plan is
// retained.
type Failed struct {
	Err error
}

func (Idle) Kind() StateKind              { return KindIdle }
func (GeneratingPlan) Kind() StateKind    { return KindGeneratingPlan }
func (PlanReady) Kind() StateKind         { return KindPlanReady }
func (RegeneratingEvent) Kind() StateKind { return KindRegeneratingEvent }
func (Failed) Kind() StateKind            { return KindFailed }

func (Idle) sealed()              {}
func (GeneratingPlan) sealed()    {}
func (PlanReady) sealed()         {}
func (RegeneratingEvent) sealed() {}
func (Failed) sealed()            {}

// planOf returns the plan carried by s, or nil.
func planOf(s State) *domain.Plan {
	switch st := s.(type) {
	case PlanReady:
		return st.Plan
	case RegeneratingEvent:
		return st.Plan
	default:
		return nil
	}
}

// Snapshot is a read-only view of the session for presentation.
type Snapshot struct {
	State State

	// Preferences that produced the current plan (or the in-flight request).
	Preferences domain.PreferenceSet

	// Notice is a transient user-facing message: a rolled-back regeneration,
	// a rejected operation, or a validation failure.
	Notice string

	// Regenerations counts successful regenerations of the current outing.
	Regenerations int

	// Generation increases with every operation that changes state.
	Generation uint64
}

// Kind returns the kind of the snapshot's state.
func (s Snapshot) Kind() StateKind {
	return s.State.Kind()
}

// Plan returns the plan on display, or nil when there is none.
func (s Snapshot) Plan() *domain.Plan {
	return planOf(s.State)
}

// Loading reports whether a request is outstanding.
func (s Snapshot) Loading() bool {
	k := s.State.Kind()
	return k == KindGeneratingPlan || k == KindRegeneratingEvent
}

// RegeneratingIndex returns the event being regenerated, or -1.
func (s Snapshot) RegeneratingIndex() int {
	if st, ok := s.State.(RegeneratingEvent); ok {
		return st.Index
	}
	return -1
}

// Err returns the failure held by a Failed state, or nil.
func (s Snapshot) Err() error {
	if st, ok := s.State.(Failed); ok {
		return st.Err
	}
	return nil
}
