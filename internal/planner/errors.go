package planner

import (
	"context"
	"errors"
	"fmt"
)

// genericServiceMessage is surfaced when the service fails without a usable
// detail message.
const genericServiceMessage = "Something went wrong!"

// TransportError indicates the request never reached the planning service or
// its response never came back (connection refused, timeout, broken body).
type TransportError struct {
	Op  Operation
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("planning service unreachable (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the transport failure was a deadline.
func (e *TransportError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// PlanningServiceError is a non-success response from the planning service.
// Message carries the service's detail text verbatim.
type PlanningServiceError struct {
	Op      Operation
	Status  int
	Message string
}

func (e *PlanningServiceError) Error() string {
	return e.Message
}

// ProtocolViolation indicates a response that does not honour the wire
// contract: undecodable body, missing outing id, inconsistent totals, or an
// outing id that changed across a regeneration.
type ProtocolViolation struct {
	Op     Operation
	Reason string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("planning service protocol violation (%s): %s", e.Op, e.Reason)
}

func errorCode(err error) string {
	var te *TransportError
	var se *PlanningServiceError
	var pv *ProtocolViolation
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te) && te.Timeout():
		return "TIMEOUT"
	case errors.As(err, &te):
		return "UNAVAILABLE"
	case errors.As(err, &se):
		return fmt.Sprintf("STATUS_%d", se.Status)
	case errors.As(err, &pv):
		return "PROTOCOL"
	default:
		return "UNKNOWN"
	}
}
