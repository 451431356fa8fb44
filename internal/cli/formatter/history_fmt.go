package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/outings/internal/journal"
	"github.com/alexanderramin/outings/internal/session"
)

// FormatHistory renders journal entries in the order given, numbering rows
// from 1.
func FormatHistory(entries []journal.Entry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("Nothing has happened yet this session.")
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			Dim(HumanTimestampFrom(e.CreatedAt, now)),
			historyKind(e),
			TruncID(e.OutingID),
			historyDetail(e),
		})
	}
	cols := []Column{
		{Title: "#", Right: true},
		{Title: "WHEN"},
		{Title: "WHAT"},
		{Title: "OUTING"},
		{Title: "DETAIL"},
	}
	return RenderTable(cols, rows)
}

func historyKind(e journal.Entry) string {
	switch {
	case e.Kind == journal.KindNotice:
		return StyleRed.Render("notice")
	case e.Op == session.OpRegenerateEvent:
		return StyleBlue.Render(fmt.Sprintf("replaced %d", e.ReplacedIndex+1))
	default:
		return StyleGreen.Render("new plan")
	}
}

func historyDetail(e journal.Entry) string {
	if e.Kind == journal.KindNotice || e.Plan == nil {
		return StyleYellow.Render(e.Message)
	}
	names := make([]string, len(e.Plan.Events))
	for i, ev := range e.Plan.Events {
		names[i] = ev.Name
	}
	return fmt.Sprintf("%s %s %s",
		strings.Join(names, " → "),
		Dim("·"),
		FormatCost(e.Plan.TotalCost)+" "+Dim("·")+" "+FormatMinutes(e.Plan.TotalDurationMinutes),
	)
}
