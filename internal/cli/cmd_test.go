package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/outings/internal/domain"
	"github.com/alexanderramin/outings/internal/journal"
	"github.com/alexanderramin/outings/internal/planner"
	"github.com/alexanderramin/outings/internal/session"
	"github.com/alexanderramin/outings/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

// testApp wires an App over fake planner responses and an in-memory journal.
func testApp(t *testing.T, fake *testutil.FakePlanner, opts ...session.Option) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	j := journal.New(database, testutil.NewTestUoW(database),
		journal.WithClock(func() time.Time { return testNow }))

	opts = append([]session.Option{session.WithObserver(j)}, opts...)
	return &App{
		Session: session.NewController(fake, opts...),
		Journal: j,
		Prefs:   domain.NewPreferences(),
		Now:     func() time.Time { return testNow },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writePrefsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- root ---

func TestRootCmd_NonInteractivePrintsHelp(t *testing.T) {
	app := testApp(t, &testutil.FakePlanner{})
	app.IsInteractive = func() bool { return false }

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "shell")
}

// --- plan ---

func TestPlanCmd_PrintsItineraryAndHistory(t *testing.T) {
	fake := (&testutil.FakePlanner{}).ReturnPlan(testutil.AbcPlan())
	app := testApp(t, fake)

	out, err := executeCmd(t, app, "plan", "--budget", "80", "--interest", "Food", "--interest", "Art", "--mode", "must-see")
	require.NoError(t, err)

	assert.Contains(t, out, "YOUR OUTING")
	assert.Contains(t, out, "Budget $80")
	assert.Contains(t, out, "Food, Art")
	assert.Contains(t, out, "MUST-SEE")
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "Total $30 · 2h 30m")
	assert.Contains(t, out, "SESSION HISTORY")
	assert.Contains(t, out, "new plan")

	calls := fake.PlanCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.PreferenceSet{Budget: 80, Interests: []string{"Food", "Art"}, Mode: domain.ModeMustSee}, calls[0])
}

func TestPlanCmd_CommaSeparatedInterests(t *testing.T) {
	fake := (&testutil.FakePlanner{}).ReturnPlan(testutil.AbcPlan())
	app := testApp(t, fake)

	_, err := executeCmd(t, app, "plan", "-i", "Food, History", "-i", "Food")
	require.NoError(t, err)

	calls := fake.PlanCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"Food", "History"}, calls[0].Interests)
	assert.Equal(t, domain.DefaultBudget, calls[0].Budget)
	assert.Equal(t, domain.ModeSurprise, calls[0].Mode)
}

func TestPlanCmd_RegeneratesInOrder(t *testing.T) {
	fake := (&testutil.FakePlanner{}).
		ReturnPlan(testutil.AbcPlan()).
		ReturnRegeneration(testutil.AbcPlanWithBreakfast())
	app := testApp(t, fake)

	out, err := executeCmd(t, app, "plan", "-i", "Food", "--regenerate", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Breakfast")
	assert.Contains(t, out, "Total $25 · 2h 10m")
	assert.Contains(t, out, "replaced 1")

	regens := fake.RegenerationCalls()
	require.Len(t, regens, 1)
	assert.Equal(t, "abc", regens[0].OutingID)
	assert.Equal(t, 0, regens[0].Index)
	assert.Equal(t, testutil.AbcPlan().Events, regens[0].Events)
}

func TestPlanCmd_JSON(t *testing.T) {
	fake := (&testutil.FakePlanner{}).
		ReturnPlan(testutil.AbcPlan()).
		ReturnRegeneration(testutil.AbcPlanWithBreakfast())
	app := testApp(t, fake)

	out, err := executeCmd(t, app, "plan", "-i", "Food", "-r", "1", "--json")
	require.NoError(t, err)

	var got jsonPlanOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "abc", got.OutingID)
	assert.Equal(t, 25.0, got.TotalCost)
	assert.Equal(t, 130, got.TotalDuration)
	assert.Equal(t, 1, got.Regenerations)
	require.Len(t, got.Plan, 2)
	assert.Equal(t, "Z", got.Plan[0].Name)
	assert.Equal(t, 40, got.Plan[0].Duration)
	assert.Equal(t, jsonPreferences{Budget: 50, Interests: []string{"Food"}, Mode: "surprise"}, got.Preferences)

	require.Len(t, got.History, 2)
	assert.Equal(t, "plan", got.History[0].Kind)
	assert.Nil(t, got.History[0].ReplacedIndex)
	require.NotNil(t, got.History[1].ReplacedIndex)
	assert.Equal(t, 0, *got.History[1].ReplacedIndex)
}

func TestPlanCmd_PrefsFileWithFlagOverride(t *testing.T) {
	fake := (&testutil.FakePlanner{}).ReturnPlan(testutil.AbcPlan())
	app := testApp(t, fake)
	path := writePrefsFile(t, "budget: 120\ninterests: [Music, Nightlife]\nmode: must-see\n")

	_, err := executeCmd(t, app, "plan", "--prefs", path, "--mode", "surprise")
	require.NoError(t, err)

	calls := fake.PlanCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.PreferenceSet{Budget: 120, Interests: []string{"Music", "Nightlife"}, Mode: domain.ModeSurprise}, calls[0])
}

func TestPlanCmd_NoInterestsIsValidationError(t *testing.T) {
	fake := (&testutil.FakePlanner{}).ReturnPlan(testutil.AbcPlan())
	app := testApp(t, fake)

	_, err := executeCmd(t, app, "plan")
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "interests", ve.Field)
	assert.Empty(t, fake.PlanCalls(), "no request without interests")
}

func TestPlanCmd_BudgetOutOfRange(t *testing.T) {
	fake := (&testutil.FakePlanner{}).ReturnPlan(testutil.AbcPlan())
	app := testApp(t, fake)

	_, err := executeCmd(t, app, "plan", "-i", "Food", "--budget", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget must be between 20 and 300")
	assert.Empty(t, fake.PlanCalls())
}

func TestPlanCmd_UnknownModeRejectedByFlag(t *testing.T) {
	app := testApp(t, &testutil.FakePlanner{})

	_, err := executeCmd(t, app, "plan", "-i", "Food", "--mode", "chaotic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")
}

func TestPlanCmd_ServiceErrorSurfacesDetail(t *testing.T) {
	fake := &testutil.FakePlanner{
		PlanFunc: func(context.Context, domain.PreferenceSet) (*domain.Plan, error) {
			return nil, &planner.PlanningServiceError{Op: planner.OpPlan, Status: 400, Message: "Budget too low for selected interests"}
		},
	}
	app := testApp(t, fake)

	_, err := executeCmd(t, app, "plan", "-i", "Food")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Budget too low for selected interests")
	assert.Equal(t, session.KindFailed, app.Session.Snapshot().Kind())
}

func TestPlanCmd_FailedRegenerationPrintsLastGoodPlan(t *testing.T) {
	failure := &planner.PlanningServiceError{Op: planner.OpRegenerate, Status: 403, Message: "Regeneration limit reached for this outing"}
	fake := (&testutil.FakePlanner{}).ReturnPlan(testutil.AbcPlan())
	fake.RegenFunc = func(context.Context, testutil.RegenerationCall) (*domain.Plan, error) {
		return nil, failure
	}
	app := testApp(t, fake)

	out, err := executeCmd(t, app, "plan", "-i", "Food", "-r", "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure))
	assert.Contains(t, err.Error(), "replacing event 2")

	assert.Contains(t, out, "Total $30 · 2h 30m")
	assert.Contains(t, out, "Regeneration limit reached for this outing")
}

func TestPlanCmd_OutingIDChangeOnRegenerationPrintsNoPlan(t *testing.T) {
	other := testutil.AbcPlanWithBreakfast()
	other.OutingID = "xyz"
	fake := (&testutil.FakePlanner{}).
		ReturnPlan(testutil.AbcPlan()).
		ReturnRegeneration(other)
	app := testApp(t, fake)

	out, err := executeCmd(t, app, "plan", "-i", "Food", "-r", "1")
	require.Error(t, err)
	var pv *planner.ProtocolViolation
	require.ErrorAs(t, err, &pv)

	assert.Equal(t, session.KindFailed, app.Session.Snapshot().Kind())
	assert.Contains(t, out, "No itinerary yet.")
	assert.NotContains(t, out, "Total $30")
}

func TestPlanCmd_OutingIDChangeOnRegenerationJSONPrintsNothing(t *testing.T) {
	other := testutil.AbcPlanWithBreakfast()
	other.OutingID = "xyz"
	fake := (&testutil.FakePlanner{}).
		ReturnPlan(testutil.AbcPlan()).
		ReturnRegeneration(other)
	app := testApp(t, fake)

	out, err := executeCmd(t, app, "plan", "-i", "Food", "-r", "1", "--json")
	require.Error(t, err)
	var pv *planner.ProtocolViolation
	require.ErrorAs(t, err, &pv)
	assert.NotContains(t, out, `"outing_id"`)
}

func TestPlanCmd_RegenerationOutOfRange(t *testing.T) {
	fake := (&testutil.FakePlanner{}).ReturnPlan(testutil.AbcPlan())
	app := testApp(t, fake)

	_, err := executeCmd(t, app, "plan", "-i", "Food", "-r", "3")
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, fake.RegenerationCalls())
}

func TestPlanCmd_RegenerationCap(t *testing.T) {
	fake := (&testutil.FakePlanner{}).
		ReturnPlan(testutil.AbcPlan()).
		ReturnRegeneration(testutil.AbcPlanWithBreakfast())
	app := testApp(t, fake, session.WithMaxRegenerations(1))

	_, err := executeCmd(t, app, "plan", "-i", "Food", "-r", "1", "-r", "2")
	require.Error(t, err)

	var le *session.RegenerationLimitError
	require.ErrorAs(t, err, &le)
	assert.Len(t, fake.RegenerationCalls(), 1)
}

func TestPlanCmd_WithoutJournal(t *testing.T) {
	fake := (&testutil.FakePlanner{}).ReturnPlan(testutil.AbcPlan())
	app := &App{Session: session.NewController(fake)}

	out, err := executeCmd(t, app, "plan", "-i", "Food")
	require.NoError(t, err)
	assert.Contains(t, out, "Lunch")
	assert.NotContains(t, out, "SESSION HISTORY")
}
