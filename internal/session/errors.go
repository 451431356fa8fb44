package session

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned to the caller of an operation whose response
// arrived after a newer operation replaced the state it started from. The
// response is discarded.
var ErrSuperseded = errors.New("response discarded: superseded by a newer request")

// ConcurrentOperationError rejects an operation while another one is in
// flight. No request is sent.
type ConcurrentOperationError struct {
	Op       Operation
	InFlight StateKind
}

func (e *ConcurrentOperationError) Error() string {
	switch e.InFlight {
	case KindRegeneratingEvent:
		return "an event is already being regenerated"
	case KindGeneratingPlan:
		return "a plan is already being generated"
	default:
		return fmt.Sprintf("%s rejected: operation in flight", e.Op)
	}
}

// RegenerationLimitError rejects a regeneration once the configured number of
// regenerations for the current outing has been used up.
type RegenerationLimitError struct {
	Limit int
}

func (e *RegenerationLimitError) Error() string {
	return fmt.Sprintf("regeneration limit of %d reached for this outing", e.Limit)
}
