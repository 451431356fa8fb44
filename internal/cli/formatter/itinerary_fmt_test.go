package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/outings/internal/domain"
	"github.com/alexanderramin/outings/internal/journal"
	"github.com/alexanderramin/outings/internal/session"
	"github.com/alexanderramin/outings/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatItinerary(t *testing.T) {
	got := stripANSI(FormatItinerary(testutil.AbcPlan(), -1))

	assert.Contains(t, got, "Lunch")
	assert.Contains(t, got, "X")
	assert.Contains(t, got, "Activity")
	assert.Contains(t, got, "$20")
	assert.Contains(t, got, "1h 30m")
	assert.Contains(t, got, "Total $30 · 2h 30m")
	assert.Contains(t, got, "abc")
	assert.NotContains(t, got, "IMAGE")
	assert.NotContains(t, got, "replacing")
}

func TestFormatItinerary_MarksRegeneratingRow(t *testing.T) {
	got := stripANSI(FormatItinerary(testutil.AbcPlan(), 1))
	assert.Contains(t, got, "Y ↻ replacing…")
}

func TestFormatItinerary_ImageColumn(t *testing.T) {
	p := testutil.AbcPlan()
	p.Events[0].ImageURL = "https://img.example/x.png"

	got := stripANSI(FormatItinerary(p, -1))
	assert.Contains(t, got, "IMAGE")
	assert.Contains(t, got, "https://img.example/x.png")
}

func TestFormatItinerary_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatItinerary(nil, -1)), "No itinerary yet.")
}

func TestFormatPreferences(t *testing.T) {
	got := stripANSI(FormatPreferences(testutil.NewTestPreferences(testutil.WithMode(domain.ModeMustSee))))
	assert.Contains(t, got, "Budget $50")
	assert.Contains(t, got, "Food, History")
	assert.Contains(t, got, "MUST-SEE")

	got = stripANSI(FormatPreferences(domain.PreferenceSet{Budget: 20, Mode: domain.ModeSurprise}))
	assert.Contains(t, got, "no interests")
}

func TestFormatHistory(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	entries := []journal.Entry{
		{Seq: 1, Kind: journal.KindPlan, Op: session.OpRequestPlan, OutingID: "abc", Plan: testutil.AbcPlan(), CreatedAt: now.Add(-3 * time.Minute)},
		{Seq: 2, Kind: journal.KindPlan, Op: session.OpRegenerateEvent, ReplacedIndex: 0, OutingID: "abc", Plan: testutil.AbcPlanWithBreakfast(), CreatedAt: now},
		{Seq: 3, Kind: journal.KindNotice, Op: session.OpRegenerateEvent, OutingID: "abc", Message: "Regeneration limit reached", CreatedAt: now},
	}

	got := stripANSI(FormatHistory(entries, now))
	assert.Contains(t, got, "new plan")
	assert.Contains(t, got, "X → Y")
	assert.Contains(t, got, "3m ago")
	assert.Contains(t, got, "replaced 1")
	assert.Contains(t, got, "Z → Y")
	assert.Contains(t, got, "$25 · 2h 10m")
	assert.Contains(t, got, "notice")
	assert.Contains(t, got, "Regeneration limit reached")
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatHistory(nil, time.Now())), "Nothing has happened yet")
}
