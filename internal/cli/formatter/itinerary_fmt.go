package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/outings/internal/domain"
)

// FormatPreferences renders a one-line preference summary.
func FormatPreferences(p domain.PreferenceSet) string {
	interests := Dim("no interests")
	if len(p.Interests) > 0 {
		interests = StyleFg.Render(strings.Join(p.Interests, ", "))
	}
	sep := Dim(" · ")
	return Bold("Budget "+FormatCost(float64(p.Budget))) + sep + interests + sep + ModeBadge(p.Mode)
}

// FormatItinerary renders the plan's events as a table followed by the
// totals. regenerating marks the row being replaced; pass -1 for none.
func FormatItinerary(p *domain.Plan, regenerating int) string {
	if p == nil || len(p.Events) == 0 {
		return Dim("No itinerary yet.")
	}

	withImages := false
	for _, e := range p.Events {
		if e.ImageURL != "" {
			withImages = true
			break
		}
	}

	cols := []Column{
		{Title: "#", Right: true},
		{Title: "TYPE"},
		{Title: "NAME"},
		{Title: "COST", Right: true},
		{Title: "TIME", Right: true},
	}
	if withImages {
		cols = append(cols, Column{Title: "IMAGE"})
	}

	rows := make([][]string, 0, len(p.Events))
	for i, e := range p.Events {
		name := e.Name
		if i == regenerating {
			name = StyleYellow.Render(e.Name + " ↻ replacing…")
		}
		row := []string{
			strconv.Itoa(i + 1),
			StyleBlue.Render(e.Type),
			name,
			FormatCost(e.Cost),
			FormatMinutes(e.DurationMinutes),
		}
		if withImages {
			row = append(row, Dim(e.ImageURL))
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	b.WriteString(RenderTable(cols, rows))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s%s%s",
		Bold("Total"),
		StyleGreen.Render(FormatCost(p.TotalCost)),
		Dim(" · "),
		StyleGreen.Render(FormatMinutes(p.TotalDurationMinutes)),
	))
	b.WriteString("  " + TruncID(p.OutingID))
	return b.String()
}
