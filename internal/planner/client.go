package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/outings/internal/domain"
	"github.com/google/uuid"
)

// Client is the transport adapter to the remote planning service.
// Implementations hold no session state; every call is independent.
type Client interface {
	// RequestPlan asks the service for a complete new itinerary.
	RequestPlan(ctx context.Context, prefs domain.PreferenceSet) (*domain.Plan, error)

	// RequestRegeneration asks the service to replace the event at index.
	// The returned plan is complete and authoritative; callers must not
	// assume only the targeted event changed.
	RequestRegeneration(ctx context.Context, outingID string, current []domain.Event, index int, prefs domain.PreferenceSet) (*domain.Plan, error)
}

// httpClient implements Client over the JSON/HTTP planning API.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client that talks to the service at cfg.Endpoint.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) RequestPlan(ctx context.Context, prefs domain.PreferenceSet) (*domain.Plan, error) {
	return c.call(ctx, OpPlan, "", toPreferencesPayload(prefs))
}

func (c *httpClient) RequestRegeneration(ctx context.Context, outingID string, current []domain.Event, index int, prefs domain.PreferenceSet) (*domain.Plan, error) {
	body := regenerateRequest{
		OutingID:            outingID,
		EventIndexToReplace: index,
		CurrentPlan:         toEventPayloads(current),
		UserPreferences:     toPreferencesPayload(prefs),
	}
	return c.call(ctx, OpRegenerate, outingID, body)
}

func (c *httpClient) call(ctx context.Context, op Operation, outingID string, body any) (*domain.Plan, error) {
	start := time.Now()
	requestID := uuid.New().String()

	timeoutMs := c.cfg.OperationTimeout(op)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", op, err)
	}

	var plan *domain.Plan
	var lastErr error
	attempts := 0

	for i := 0; i < 1+c.cfg.MaxRetries; i++ {
		attempts++
		plan, lastErr = c.doRequest(ctx, op, requestID, data)
		if lastErr == nil {
			break
		}
		// Only transport failures are retried, and never past the deadline.
		var te *TransportError
		if !errors.As(lastErr, &te) || ctx.Err() != nil {
			break
		}
	}

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		RequestID: requestID,
		OutingID:  outingID,
		Attempts:  attempts,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   lastErr == nil,
		ErrorCode: errorCode(lastErr),
	})

	if lastErr != nil {
		return nil, lastErr
	}
	return plan, nil
}

func (c *httpClient) doRequest(ctx context.Context, op Operation, requestID string, data []byte) (*domain.Plan, error) {
	url := strings.TrimRight(c.cfg.Endpoint, "/") + op.path()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, &TransportError{Op: op, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &PlanningServiceError{
			Op:      op,
			Status:  httpResp.StatusCode,
			Message: detailMessage(respBody),
		}
	}

	return decodePlan(op, respBody)
}
