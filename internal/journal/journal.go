// Package journal keeps an in-process SQLite record of the plans a session
// adopted and the notices it surfaced.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/outings/internal/db"
	"github.com/alexanderramin/outings/internal/domain"
	"github.com/alexanderramin/outings/internal/session"
	"github.com/google/uuid"
)

// Kind distinguishes journal entries.
type Kind string

const (
	KindPlan   Kind = "plan"
	KindNotice Kind = "notice"
)

// Entry is one journal record. Plan is set for KindPlan entries and Message
// for KindNotice entries.
//
// Seq is the recording order and Generation the controller generation of the
// transition. Listings sort by generation first: observer calls for
// overlapping operations can arrive out of commit order.
type Entry struct {
	ID            string
	Seq           int
	Generation    uint64
	Kind          Kind
	Op            session.Operation
	OutingID      string
	ReplacedIndex int
	Preferences   domain.PreferenceSet
	Plan          *domain.Plan
	Message       string
	CreatedAt     time.Time
}

// Journal records session transitions. It implements session.Observer.
type Journal struct {
	conn   db.DBTX
	uow    db.UnitOfWork
	logger *slog.Logger
	now    func() time.Time

	// serializes seq allocation across concurrent observers
	mu sync.Mutex
}

var _ session.Observer = (*Journal)(nil)

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets where recording failures are reported.
func WithLogger(l *slog.Logger) Option {
	return func(j *Journal) {
		if l != nil {
			j.logger = l
		}
	}
}

// WithClock overrides the entry timestamp source.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		if now != nil {
			j.now = now
		}
	}
}

// New creates a Journal that reads through conn and writes through uow.
func New(conn db.DBTX, uow db.UnitOfWork, opts ...Option) *Journal {
	j := &Journal{
		conn:   conn,
		uow:    uow,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Open creates a Journal over a fresh in-memory database. The returned close
// function releases it; nothing survives the process.
func Open(opts ...Option) (*Journal, func() error, error) {
	database, err := db.OpenDB()
	if err != nil {
		return nil, nil, fmt.Errorf("opening journal database: %w", err)
	}
	return New(database, db.NewSQLiteUnitOfWork(database), opts...), database.Close, nil
}

// OnTransition records t. Failures are logged, never propagated to the session.
func (j *Journal) OnTransition(ctx context.Context, t session.Transition) {
	if err := j.Record(ctx, t); err != nil {
		j.logger.WarnContext(ctx, "journal_record_failed",
			"op", t.Op,
			"to", t.To.String(),
			"error", err.Error(),
		)
	}
}

// Record stores t when it adopted a plan or carried an error; other
// transitions are ignored.
func (j *Journal) Record(ctx context.Context, t session.Transition) error {
	switch {
	case t.Err != nil:
		return j.insert(ctx, KindNotice, t)
	case t.To == session.KindPlanReady && t.From != session.KindPlanReady && t.Plan != nil:
		return j.insert(ctx, KindPlan, t)
	default:
		return nil
	}
}

func (j *Journal) insert(ctx context.Context, kind Kind, t session.Transition) error {
	interests, err := json.Marshal(nonNil(t.Preferences.Interests))
	if err != nil {
		return fmt.Errorf("encoding interests: %w", err)
	}

	e := Entry{
		ID:            uuid.New().String(),
		Generation:    t.Generation,
		Kind:          kind,
		Op:            t.Op,
		ReplacedIndex: -1,
		Preferences:   t.Preferences,
		CreatedAt:     j.now().UTC(),
	}
	var events []domain.Event
	switch kind {
	case KindPlan:
		e.OutingID = t.Plan.OutingID
		e.Plan = t.Plan
		events = t.Plan.Events
		if t.Op == session.OpRegenerateEvent {
			e.ReplacedIndex = t.Index
		}
	case KindNotice:
		e.Message = t.Err.Error()
		if t.Plan != nil {
			e.OutingID = t.Plan.OutingID
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var seq int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM journal_entries`).Scan(&seq); err != nil {
			return fmt.Errorf("allocating journal seq: %w", err)
		}

		var totalCost float64
		var totalDuration int
		if e.Plan != nil {
			totalCost = e.Plan.TotalCost
			totalDuration = e.Plan.TotalDurationMinutes
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO journal_entries
			(id, seq, generation, kind, op, outing_id, replaced_index, budget, interests, mode, total_cost, total_duration, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, seq, int64(e.Generation), string(e.Kind), string(e.Op), e.OutingID, e.ReplacedIndex,
			e.Preferences.Budget, string(interests), string(e.Preferences.Mode),
			totalCost, totalDuration, e.Message, e.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting journal entry: %w", err)
		}

		for i, ev := range events {
			_, err := tx.ExecContext(ctx, `INSERT INTO journal_events
				(entry_id, position, type, name, cost, duration, image_url)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				e.ID, i, ev.Type, ev.Name, ev.Cost, ev.DurationMinutes, ev.ImageURL,
			)
			if err != nil {
				return fmt.Errorf("inserting journal event %d: %w", i, err)
			}
		}
		return nil
	})
}

const entryColumns = `id, seq, generation, kind, op, outing_id, replaced_index, budget, interests, mode,
	total_cost, total_duration, message, created_at`

// Entries returns every entry in session order. The last plan entry is the
// plan that is current, or was current before a reset or failure.
func (j *Journal) Entries(ctx context.Context) ([]Entry, error) {
	return j.list(ctx, `SELECT `+entryColumns+` FROM journal_entries ORDER BY generation, seq`)
}

// Plans returns the adopted plans in session order.
func (j *Journal) Plans(ctx context.Context) ([]Entry, error) {
	return j.list(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE kind = ? ORDER BY generation, seq`, string(KindPlan))
}

func (j *Journal) list(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := j.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	entries, err := scanEntries(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	// Events are loaded after the entry cursor is closed; the in-memory
	// database runs on a single connection.
	for i := range entries {
		if entries[i].Kind != KindPlan {
			continue
		}
		if err := j.loadEvents(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e                    Entry
			kind, op, mode       string
			interests, createdAt string
			generation           int64
			totalCost            float64
			totalDuration        int
		)
		err := rows.Scan(&e.ID, &e.Seq, &generation, &kind, &op, &e.OutingID, &e.ReplacedIndex,
			&e.Preferences.Budget, &interests, &mode, &totalCost, &totalDuration, &e.Message, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.Generation = uint64(generation)
		e.Kind = Kind(kind)
		e.Op = session.Operation(op)
		e.Preferences.Mode = domain.Mode(mode)
		if err := json.Unmarshal([]byte(interests), &e.Preferences.Interests); err != nil {
			return nil, fmt.Errorf("decoding interests of entry %s: %w", e.ID, err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at of entry %s: %w", e.ID, err)
		}
		if e.Kind == KindPlan {
			e.Plan = &domain.Plan{
				OutingID:             e.OutingID,
				TotalCost:            totalCost,
				TotalDurationMinutes: totalDuration,
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal entries: %w", err)
	}
	return entries, nil
}

func (j *Journal) loadEvents(ctx context.Context, e *Entry) error {
	rows, err := j.conn.QueryContext(ctx, `SELECT type, name, cost, duration, image_url
		FROM journal_events WHERE entry_id = ? ORDER BY position`, e.ID)
	if err != nil {
		return fmt.Errorf("loading events of entry %s: %w", e.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev domain.Event
		if err := rows.Scan(&ev.Type, &ev.Name, &ev.Cost, &ev.DurationMinutes, &ev.ImageURL); err != nil {
			return fmt.Errorf("scanning event of entry %s: %w", e.ID, err)
		}
		e.Plan.Events = append(e.Plan.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating events of entry %s: %w", e.ID, err)
	}
	if len(e.Plan.Events) == 0 {
		return fmt.Errorf("entry %s: %w", e.ID, errEmptyPlan)
	}
	return nil
}

var errEmptyPlan = errors.New("plan entry has no events")

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
