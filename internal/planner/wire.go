package planner

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/outings/internal/domain"
)

// preferencesPayload is the JSON body of POST /plan and the user_preferences
// member of POST /regenerate-event.
type preferencesPayload struct {
	Budget    int      `json:"budget"`
	Interests []string `json:"interests"`
	Mode      string   `json:"mode"`
}

type eventPayload struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
	Duration int     `json:"duration"`
	ImageURL string  `json:"image_url,omitempty"`
}

// regenerateRequest is the JSON body sent to POST /regenerate-event.
type regenerateRequest struct {
	OutingID            string             `json:"outing_id"`
	EventIndexToReplace int                `json:"event_index_to_replace"`
	CurrentPlan         []eventPayload     `json:"current_plan"`
	UserPreferences     preferencesPayload `json:"user_preferences"`
}

// planResponse is the success body of both endpoints.
type planResponse struct {
	OutingID      string         `json:"outing_id"`
	Plan          []eventPayload `json:"plan"`
	TotalCost     float64        `json:"total_cost"`
	TotalDuration int            `json:"total_duration"`
}

// errorResponse is the failure body. Detail is usually a string, but request
// validation failures carry a list of objects instead.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func toPreferencesPayload(p domain.PreferenceSet) preferencesPayload {
	interests := make([]string, len(p.Interests))
	copy(interests, p.Interests)
	return preferencesPayload{
		Budget:    p.Budget,
		Interests: interests,
		Mode:      string(p.Mode),
	}
}

func toEventPayloads(events []domain.Event) []eventPayload {
	out := make([]eventPayload, len(events))
	for i, e := range events {
		out[i] = eventPayload{
			Type:     e.Type,
			Name:     e.Name,
			Cost:     e.Cost,
			Duration: e.DurationMinutes,
			ImageURL: e.ImageURL,
		}
	}
	return out
}

// toPlan converts a decoded response into a domain plan, keeping the
// service-reported totals so that Validate can check them.
func (r planResponse) toPlan() (*domain.Plan, error) {
	events := make([]domain.Event, len(r.Plan))
	for i, e := range r.Plan {
		events[i] = domain.Event{
			Type:            e.Type,
			Name:            e.Name,
			Cost:            e.Cost,
			DurationMinutes: e.Duration,
			ImageURL:        e.ImageURL,
		}
	}
	plan := &domain.Plan{
		OutingID:             r.OutingID,
		Events:               events,
		TotalCost:            r.TotalCost,
		TotalDurationMinutes: r.TotalDuration,
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// detailMessage extracts the service's detail text, falling back to a
// generic message when it is absent or not a string.
func detailMessage(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Detail) == 0 {
		return genericServiceMessage
	}
	var detail string
	if err := json.Unmarshal(resp.Detail, &detail); err != nil || detail == "" {
		return genericServiceMessage
	}
	return detail
}

func decodePlan(op Operation, body []byte) (*domain.Plan, error) {
	var resp planResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProtocolViolation{Op: op, Reason: fmt.Sprintf("decoding response: %v", err)}
	}
	plan, err := resp.toPlan()
	if err != nil {
		return nil, &ProtocolViolation{Op: op, Reason: err.Error()}
	}
	return plan, nil
}
