package tracking

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/huandu/go-sqlbuilder"
)

// Recorder writes playback records to the history database. Recording
// failures disable the recorder rather than interrupting playback.
type Recorder struct {
	db       *sql.DB
	engine   string
	disabled bool
}

// NewRecorder creates a recorder that tags records with the given engine name
func NewRecorder(db *sql.DB, engine string) *Recorder {
	return &Recorder{
		db:     db,
		engine: engine,
	}
}

// Record inserts a playback record, returning its assigned ID. A zero ID
// with no error means the recorder is disabled.
func (r *Recorder) Record(p *Playback) int64 {
	if r.disabled || r.db == nil {
		return 0
	}

	if p.Engine == "" {
		p.Engine = r.engine
	}
	if p.StartedAt == 0 {
		p.StartedAt = time.Now().Unix()
	}
	if p.Kind == "" {
		p.Kind = KindForSource(p.Source)
	}

	if err := p.Validate(); err != nil {
		slog.Warn("playback tracking skipped invalid record", "error", err, "source", p.Source)
		return 0
	}

	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto("playbacks")
	ib.Cols("source", "kind", "engine", "started_at", "duration_seconds", "outcome")
	ib.Values(p.Source, p.Kind, p.Engine, p.StartedAt, p.DurationSeconds, p.Outcome)

	query, args := ib.Build()
	result, err := r.db.Exec(query, args...)
	if err != nil {
		slog.Warn("playback tracking failed to record, disabling", "error", err, "source", p.Source)
		r.disabled = true
		return 0
	}

	id, err := result.LastInsertId()
	if err != nil {
		slog.Warn("playback tracking failed to read insert id", "error", err)
		return 0
	}

	p.ID = id
	slog.Debug("playback recorded",
		"id", id,
		"source", p.Source,
		"kind", p.Kind,
		"outcome", p.Outcome,
		"duration_seconds", p.DurationSeconds)

	return id
}

// UpdateOutcome updates the outcome and duration of a previously recorded
// playback, typically when it finishes or is stopped
func (r *Recorder) UpdateOutcome(id int64, outcome string, durationSeconds float64) {
	if r.disabled || r.db == nil || id == 0 {
		return
	}

	ub := sqlbuilder.NewUpdateBuilder()
	ub.Update("playbacks")
	ub.Set(
		ub.Assign("outcome", outcome),
		ub.Assign("duration_seconds", durationSeconds),
	)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	if _, err := r.db.Exec(query, args...); err != nil {
		slog.Warn("playback tracking failed to update outcome, disabling", "error", err, "id", id)
		r.disabled = true
		return
	}

	slog.Debug("playback outcome updated", "id", id, "outcome", outcome, "duration_seconds", durationSeconds)
}
