package session

import (
	"context"
	"io"
	"log/slog"

	"github.com/alexanderramin/outings/internal/domain"
)

// Operation names the intent that caused a transition.
type Operation string

const (
	OpRequestPlan     Operation = "request_plan"
	OpRegenerateEvent Operation = "regenerate_event"
	OpReset           Operation = "reset"
)

// Transition describes one committed state change, or a rejected operation
// (From == To, Err set).
type Transition struct {
	Op          Operation
	From        StateKind
	To          StateKind
	Generation  uint64
	Index       int                  // event index for regenerations, -1 otherwise
	Plan        *domain.Plan         // plan held by the target state, if any
	Preferences domain.PreferenceSet // zero for resets
	Err         error
}

// Observer receives session transitions.
type Observer interface {
	OnTransition(ctx context.Context, t Transition)
}

// NoopObserver ignores all transitions.
type NoopObserver struct{}

func (NoopObserver) OnTransition(context.Context, Transition) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes transitions to w as structured log lines.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) OnTransition(ctx context.Context, t Transition) {
	attrs := []any{
		"op", t.Op,
		"from", t.From.String(),
		"to", t.To.String(),
		"generation", t.Generation,
	}
	if t.Index >= 0 {
		attrs = append(attrs, "index", t.Index)
	}
	if t.Plan != nil {
		attrs = append(attrs,
			"outing_id", t.Plan.OutingID,
			"events", t.Plan.Len(),
			"total_cost", t.Plan.TotalCost,
			"total_duration", t.Plan.TotalDurationMinutes,
		)
	}
	if t.Err != nil {
		o.logger.WarnContext(ctx, "session_transition", append(attrs, "error", t.Err.Error())...)
		return
	}
	o.logger.InfoContext(ctx, "session_transition", attrs...)
}

type multiObserver []Observer

// MultiObserver fans transitions out to every non-nil observer.
func MultiObserver(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return NoopObserver{}
	case 1:
		return out[0]
	}
	return out
}

func (m multiObserver) OnTransition(ctx context.Context, t Transition) {
	for _, o := range m {
		o.OnTransition(ctx, t)
	}
}
