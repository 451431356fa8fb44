package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/alexanderramin/outings/internal/domain"
)

// RegenerationCall captures the arguments of one RequestRegeneration call.
type RegenerationCall struct {
	OutingID    string
	Events      []domain.Event
	Index       int
	Preferences domain.PreferenceSet
}

// FakePlanner is a scripted planner.Client. Unset funcs fail the call with
// a generic error so that unexpected requests are visible.
type FakePlanner struct {
	PlanFunc  func(ctx context.Context, prefs domain.PreferenceSet) (*domain.Plan, error)
	RegenFunc func(ctx context.Context, call RegenerationCall) (*domain.Plan, error)

	mu         sync.Mutex
	planCalls  []domain.PreferenceSet
	regenCalls []RegenerationCall
}

// ReturnPlan scripts every plan request to return p.
func (f *FakePlanner) ReturnPlan(p *domain.Plan) *FakePlanner {
	f.PlanFunc = func(context.Context, domain.PreferenceSet) (*domain.Plan, error) { return p, nil }
	return f
}

// ReturnRegeneration scripts every regeneration request to return p.
func (f *FakePlanner) ReturnRegeneration(p *domain.Plan) *FakePlanner {
	f.RegenFunc = func(context.Context, RegenerationCall) (*domain.Plan, error) { return p, nil }
	return f
}

func (f *FakePlanner) RequestPlan(ctx context.Context, prefs domain.PreferenceSet) (*domain.Plan, error) {
	f.mu.Lock()
	f.planCalls = append(f.planCalls, prefs)
	fn := f.PlanFunc
	f.mu.Unlock()
	if fn == nil {
		return nil, errUnscripted
	}
	return fn(ctx, prefs)
}

func (f *FakePlanner) RequestRegeneration(ctx context.Context, outingID string, current []domain.Event, index int, prefs domain.PreferenceSet) (*domain.Plan, error) {
	call := RegenerationCall{OutingID: outingID, Events: slices.Clone(current), Index: index, Preferences: prefs}
	f.mu.Lock()
	f.regenCalls = append(f.regenCalls, call)
	fn := f.RegenFunc
	f.mu.Unlock()
	if fn == nil {
		return nil, errUnscripted
	}
	return fn(ctx, call)
}

// PlanCalls returns the preferences of every plan request so far.
func (f *FakePlanner) PlanCalls() []domain.PreferenceSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.planCalls)
}

// RegenerationCalls returns every regeneration request so far.
func (f *FakePlanner) RegenerationCalls() []RegenerationCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.regenCalls)
}

var errUnscripted = errors.New("fake planner: call not scripted")
