package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/outings/internal/domain"
	"github.com/alexanderramin/outings/internal/planner"
)

// Controller owns the itinerary session state machine. It is the only writer
// of session state; presentation reads it through Snapshot.
//
// Operations block until the planning service answers. The mutex is held only
// while a transition is decided or committed, never across network I/O, so
// Snapshot stays responsive while a request is outstanding.
type Controller struct {
	client           planner.Client
	observer         Observer
	maxRegenerations int

	mu            sync.Mutex
	state         State
	prefs         domain.PreferenceSet
	notice        string
	regenerations int
	generation    uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver sets the transition observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithMaxRegenerations caps successful regenerations per outing.
// Zero or negative disables the cap.
func WithMaxRegenerations(n int) Option {
	return func(c *Controller) {
		c.maxRegenerations = max(n, 0)
	}
}

// NewController creates a Controller in the Idle state.
func NewController(client planner.Client, opts ...Option) *Controller {
	c := &Controller{
		client:   client,
		observer: NoopObserver{},
		state:    Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	prefs := c.prefs
	prefs.Interests = append([]string(nil), c.prefs.Interests...)
	return Snapshot{
		State:         c.state,
		Preferences:   prefs,
		Notice:        c.notice,
		Regenerations: c.regenerations,
		Generation:    c.generation,
	}
}

// DismissNotice clears the transient notice.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = ""
}

// Reset discards the current plan and returns to Idle. Responses to requests
// already in flight are discarded when they arrive.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	from := c.state.Kind()
	c.generation++
	c.state = Idle{}
	c.prefs = domain.PreferenceSet{}
	c.notice = ""
	c.regenerations = 0
	t := Transition{Op: OpReset, From: from, To: KindIdle, Generation: c.generation, Index: -1}
	c.mu.Unlock()

	c.observer.OnTransition(ctx, t)
}

// RequestPlan replaces the session's plan with a freshly generated one.
//
// Invalid preferences fail with a *domain.ValidationError before any request
// is made and leave the state untouched. A plan request already in flight
// causes a *ConcurrentOperationError. From any other state the session moves
// to GeneratingPlan, discarding the current plan; a regeneration still in
// flight becomes stale.
func (c *Controller) RequestPlan(ctx context.Context, prefs domain.PreferenceSet) (*domain.Plan, error) {
	if err := prefs.Validate(); err != nil {
		c.reject(ctx, OpRequestPlan, -1, err)
		return nil, err
	}

	c.mu.Lock()
	if _, busy := c.state.(GeneratingPlan); busy {
		c.mu.Unlock()
		err := &ConcurrentOperationError{Op: OpRequestPlan, InFlight: KindGeneratingPlan}
		c.reject(ctx, OpRequestPlan, -1, err)
		return nil, err
	}
	from := c.state.Kind()
	c.generation++
	token := c.generation
	c.state = GeneratingPlan{}
	c.prefs = prefs
	c.notice = ""
	c.regenerations = 0
	started := Transition{Op: OpRequestPlan, From: from, To: KindGeneratingPlan, Generation: token, Index: -1, Preferences: prefs}
	c.mu.Unlock()
	c.observer.OnTransition(ctx, started)

	plan, err := c.client.RequestPlan(ctx, prefs)

	c.mu.Lock()
	if token != c.generation {
		c.mu.Unlock()
		return nil, ErrSuperseded
	}
	var done Transition
	if err != nil {
		c.state = Failed{Err: err}
		done = Transition{Op: OpRequestPlan, From: KindGeneratingPlan, To: KindFailed, Generation: token, Index: -1, Preferences: prefs, Err: err}
	} else {
		c.state = PlanReady{Plan: plan}
		c.notice = ""
		done = Transition{Op: OpRequestPlan, From: KindGeneratingPlan, To: KindPlanReady, Generation: token, Index: -1, Plan: plan, Preferences: prefs}
	}
	c.mu.Unlock()
	c.observer.OnTransition(ctx, done)

	if err != nil {
		return nil, err
	}
	return plan, nil
}

// RegenerateEvent asks the planning service to replace the event at index of
// the current plan and adopts the complete plan it returns.
//
// The call is rejected without a request when no plan is ready, when index is
// out of range (*domain.ValidationError), when another operation is in flight
// (*ConcurrentOperationError), or when the regeneration cap is used up
// (*RegenerationLimitError). A failed request rolls the session back to the
// plan it started from and records a notice. A response for a different
// outing is a protocol violation and fails the session.
func (c *Controller) RegenerateEvent(ctx context.Context, index int) (*domain.Plan, error) {
	c.mu.Lock()
	var plan *domain.Plan
	switch st := c.state.(type) {
	case PlanReady:
		plan = st.Plan
	case GeneratingPlan, RegeneratingEvent:
		c.mu.Unlock()
		err := &ConcurrentOperationError{Op: OpRegenerateEvent, InFlight: st.Kind()}
		c.reject(ctx, OpRegenerateEvent, index, err)
		return nil, err
	default:
		c.mu.Unlock()
		err := &domain.ValidationError{Field: "index", Message: "no plan to regenerate"}
		c.reject(ctx, OpRegenerateEvent, index, err)
		return nil, err
	}
	if !plan.InRange(index) {
		c.mu.Unlock()
		err := &domain.ValidationError{
			Field:   "index",
			Message: fmt.Sprintf("event %d is out of range (plan has %d events)", index+1, plan.Len()),
		}
		c.reject(ctx, OpRegenerateEvent, index, err)
		return nil, err
	}
	if c.maxRegenerations > 0 && c.regenerations >= c.maxRegenerations {
		c.mu.Unlock()
		err := &RegenerationLimitError{Limit: c.maxRegenerations}
		c.reject(ctx, OpRegenerateEvent, index, err)
		return nil, err
	}
	c.generation++
	token := c.generation
	c.state = RegeneratingEvent{Plan: plan, Index: index}
	c.notice = ""
	prefs := c.prefs
	started := Transition{Op: OpRegenerateEvent, From: KindPlanReady, To: KindRegeneratingEvent, Generation: token, Index: index, Plan: plan, Preferences: prefs}
	c.mu.Unlock()
	c.observer.OnTransition(ctx, started)

	newPlan, err := c.client.RequestRegeneration(ctx, plan.OutingID, plan.CloneEvents(), index, prefs)

	c.mu.Lock()
	if token != c.generation {
		c.mu.Unlock()
		return nil, ErrSuperseded
	}
	var done Transition
	switch {
	case err != nil:
		c.state = PlanReady{Plan: plan}
		c.notice = fmt.Sprintf("Could not replace event %d: %v", index+1, err)
		done = Transition{Op: OpRegenerateEvent, From: KindRegeneratingEvent, To: KindPlanReady, Generation: token, Index: index, Plan: plan, Preferences: prefs, Err: err}
	case newPlan.OutingID != plan.OutingID:
		err = &planner.ProtocolViolation{
			Op:     planner.OpRegenerate,
			Reason: fmt.Sprintf("outing id changed from %q to %q", plan.OutingID, newPlan.OutingID),
		}
		c.state = Failed{Err: err}
		done = Transition{Op: OpRegenerateEvent, From: KindRegeneratingEvent, To: KindFailed, Generation: token, Index: index, Preferences: prefs, Err: err}
	default:
		c.state = PlanReady{Plan: newPlan}
		c.notice = ""
		c.regenerations++
		done = Transition{Op: OpRegenerateEvent, From: KindRegeneratingEvent, To: KindPlanReady, Generation: token, Index: index, Plan: newPlan, Preferences: prefs}
	}
	c.mu.Unlock()
	c.observer.OnTransition(ctx, done)

	if err != nil {
		return nil, err
	}
	return newPlan, nil
}

// reject records a notice for an operation refused without a state change.
func (c *Controller) reject(ctx context.Context, op Operation, index int, err error) {
	c.mu.Lock()
	c.notice = err.Error()
	kind := c.state.Kind()
	t := Transition{Op: op, From: kind, To: kind, Generation: c.generation, Index: index, Plan: planOf(c.state), Err: err}
	c.mu.Unlock()
	c.observer.OnTransition(ctx, t)
}
