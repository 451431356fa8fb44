package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/outings/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	return cfg
}

func testPrefs() domain.PreferenceSet {
	return domain.PreferenceSet{Budget: 50, Interests: []string{"Food", "History"}, Mode: domain.ModeSurprise}
}

const abcPlanJSON = `{"outing_id":"abc","plan":[
	{"type":"Lunch","name":"X","cost":20,"duration":60},
	{"type":"Activity","name":"Y","cost":10,"duration":90}],
	"total_cost":30,"total_duration":150}`

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func TestNewHTTPClient_HonoursProxyEnvironment(t *testing.T) {
	c := NewHTTPClient(testConfig("http://planner.internal"), nil).(*httpClient)
	tr, ok := c.http.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.Proxy)
	assert.Equal(t,
		reflect.ValueOf(http.ProxyFromEnvironment).Pointer(),
		reflect.ValueOf(tr.Proxy).Pointer())
}

func TestRequestPlan_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plan", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req preferencesPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 50, req.Budget)
		assert.Equal(t, []string{"Food", "History"}, req.Interests)
		assert.Equal(t, "surprise", req.Mode)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(abcPlanJSON))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewHTTPClient(testConfig(srv.URL), obs)
	plan, err := client.RequestPlan(context.Background(), testPrefs())

	require.NoError(t, err)
	assert.Equal(t, "abc", plan.OutingID)
	require.Len(t, plan.Events, 2)
	assert.Equal(t, domain.Event{Type: "Lunch", Name: "X", Cost: 20, DurationMinutes: 60}, plan.Events[0])
	assert.Equal(t, domain.Event{Type: "Activity", Name: "Y", Cost: 10, DurationMinutes: 90}, plan.Events[1])
	assert.Equal(t, 30.0, plan.TotalCost)
	assert.Equal(t, 150, plan.TotalDurationMinutes)

	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, OpPlan, obs.events[0].Op)
	assert.Equal(t, 1, obs.events[0].Attempts)
}

func TestRequestPlan_EmptyInterestsEncodedAsArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.JSONEq(t, `[]`, string(raw["interests"]))
		w.Write([]byte(abcPlanJSON))
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL), nil)
	_, err := client.RequestPlan(context.Background(), domain.PreferenceSet{Budget: 50, Mode: domain.ModeMustSee})
	require.NoError(t, err)
}

func TestRequestPlan_EndpointWithBasePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plan", r.URL.Path)
		w.Write([]byte(abcPlanJSON))
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL+"/api/"), nil)
	_, err := client.RequestPlan(context.Background(), testPrefs())
	require.NoError(t, err)
}

func TestRequestPlan_ImageURLDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"outing_id":"img","plan":[
			{"type":"Museum","name":"Dublinia","cost":15,"duration":90,"image_url":"https://img.example/d.jpg"}],
			"total_cost":15,"total_duration":90}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL), nil)
	plan, err := client.RequestPlan(context.Background(), testPrefs())
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/d.jpg", plan.Events[0].ImageURL)
}

func TestRequestPlan_ServiceErrorDetailVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"Failed to generate plan from any source."}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewHTTPClient(testConfig(srv.URL), obs)
	_, err := client.RequestPlan(context.Background(), testPrefs())

	var se *PlanningServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "Failed to generate plan from any source.", se.Error())
	require.Len(t, obs.events, 1)
	assert.Equal(t, "STATUS_500", obs.events[0].ErrorCode)
}

func TestRequestPlan_ServiceErrorFallbackMessage(t *testing.T) {
	bodies := []string{
		``,
		`not json`,
		`{}`,
		`{"detail":""}`,
		`{"detail":[{"loc":["body","budget"],"msg":"field required"}]}`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(body))
		}))

		client := NewHTTPClient(testConfig(srv.URL), nil)
		_, err := client.RequestPlan(context.Background(), testPrefs())
		srv.Close()

		var se *PlanningServiceError
		require.ErrorAs(t, err, &se, "body %q", body)
		assert.Equal(t, genericServiceMessage, se.Message, "body %q", body)
	}
}

func TestRequestPlan_ProtocolViolations(t *testing.T) {
	bodies := map[string]string{
		"garbage":           `{"outing_id":`,
		"missing outing id": `{"plan":[{"type":"A","name":"a","cost":1,"duration":1}],"total_cost":1,"total_duration":1}`,
		"empty plan":        `{"outing_id":"x","plan":[],"total_cost":0,"total_duration":0}`,
		"stale total cost":  `{"outing_id":"x","plan":[{"type":"A","name":"a","cost":1,"duration":1}],"total_cost":9,"total_duration":1}`,
		"negative duration": `{"outing_id":"x","plan":[{"type":"A","name":"a","cost":1,"duration":-1}],"total_cost":1,"total_duration":-1}`,
		"wrong field types": `{"outing_id":"x","plan":[{"type":"A","name":"a","cost":"free","duration":1}],"total_cost":0,"total_duration":1}`,
	}
	for name, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		client := NewHTTPClient(testConfig(srv.URL), nil)
		_, err := client.RequestPlan(context.Background(), testPrefs())
		srv.Close()

		var pv *ProtocolViolation
		assert.ErrorAs(t, err, &pv, name)
	}
}

func TestRequestPlan_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	obs := &recordingObserver{}

	client := NewHTTPClient(cfg, obs)
	_, err := client.RequestPlan(context.Background(), testPrefs())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.False(t, te.Timeout())
	require.Len(t, obs.events, 1)
	assert.Equal(t, "UNAVAILABLE", obs.events[0].ErrorCode)
}

func TestRequestPlan_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(abcPlanJSON))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Operations = map[Operation]OperationConfig{OpPlan: {TimeoutMs: 50}}

	client := NewHTTPClient(cfg, nil)
	_, err := client.RequestPlan(context.Background(), testPrefs())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Timeout())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRequestPlan_RetriesTransportFailures(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Write([]byte(abcPlanJSON))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	obs := &recordingObserver{}
	client := NewHTTPClient(cfg, obs)
	plan, err := client.RequestPlan(context.Background(), testPrefs())

	require.NoError(t, err)
	assert.Equal(t, "abc", plan.OutingID)
	assert.Equal(t, int32(2), attempts.Load())
	require.Len(t, obs.events, 1)
	assert.Equal(t, 2, obs.events[0].Attempts)
}

func TestRequestPlan_ServiceErrorsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"upstream down"}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3

	client := NewHTTPClient(cfg, nil)
	_, err := client.RequestPlan(context.Background(), testPrefs())

	var se *PlanningServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestRequestRegeneration_SendsFullContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/regenerate-event", r.URL.Path)

		var req regenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "abc", req.OutingID)
		assert.Equal(t, 0, req.EventIndexToReplace)
		require.Len(t, req.CurrentPlan, 2)
		assert.Equal(t, "X", req.CurrentPlan[0].Name)
		assert.Equal(t, 60, req.CurrentPlan[0].Duration)
		assert.Equal(t, "Y", req.CurrentPlan[1].Name)
		assert.Equal(t, 50, req.UserPreferences.Budget)
		assert.Equal(t, []string{"Food", "History"}, req.UserPreferences.Interests)
		assert.Equal(t, "surprise", req.UserPreferences.Mode)

		w.Write([]byte(`{"outing_id":"abc","plan":[
			{"type":"Breakfast","name":"Z","cost":15,"duration":40},
			{"type":"Activity","name":"Y","cost":10,"duration":90}],
			"total_cost":25,"total_duration":130}`))
	}))
	defer srv.Close()

	current := []domain.Event{
		{Type: "Lunch", Name: "X", Cost: 20, DurationMinutes: 60},
		{Type: "Activity", Name: "Y", Cost: 10, DurationMinutes: 90},
	}

	obs := &recordingObserver{}
	client := NewHTTPClient(testConfig(srv.URL), obs)
	plan, err := client.RequestRegeneration(context.Background(), "abc", current, 0, testPrefs())

	require.NoError(t, err)
	assert.Equal(t, "abc", plan.OutingID)
	assert.Equal(t, "Z", plan.Events[0].Name)
	assert.Equal(t, "Y", plan.Events[1].Name)
	assert.Equal(t, 25.0, plan.TotalCost)
	assert.Equal(t, 130, plan.TotalDurationMinutes)

	require.Len(t, obs.events, 1)
	assert.Equal(t, OpRegenerate, obs.events[0].Op)
	assert.Equal(t, "abc", obs.events[0].OutingID)
}

func TestRequestRegeneration_LimitReachedSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"Regeneration limit of 5 reached for this outing."}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL), nil)
	_, err := client.RequestRegeneration(context.Background(), "abc",
		[]domain.Event{{Type: "Pub", Name: "P", Cost: 5, DurationMinutes: 60}}, 0, testPrefs())

	var se *PlanningServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Status)
	assert.Equal(t, "Regeneration limit of 5 reached for this outing.", err.Error())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", errorCode(nil))
	assert.Equal(t, "TIMEOUT", errorCode(&TransportError{Op: OpPlan, Err: context.DeadlineExceeded}))
	assert.Equal(t, "UNAVAILABLE", errorCode(&TransportError{Op: OpPlan, Err: errors.New("refused")}))
	assert.Equal(t, "STATUS_403", errorCode(&PlanningServiceError{Status: 403}))
	assert.Equal(t, "PROTOCOL", errorCode(&ProtocolViolation{Reason: "x"}))
	assert.Equal(t, "UNKNOWN", errorCode(errors.New("other")))
}
