package tracking

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/tj/go-naturaldate"
)

// HistoryFilter narrows playback history queries
type HistoryFilter struct {
	// Time filters. Since takes priority over Days.
	Since string // Natural language, e.g. "yesterday", "3 days ago"
	Days  int    // Convenience: last N days

	// Content filters
	Source  string // Filter by exact source
	Kind    string // Filter by kind (file/url)
	Outcome string // Filter by outcome

	// Output control
	Limit  int // Maximum results (default: 20)
	Offset int // For pagination
}

// DefaultHistoryLimit caps history output when no limit is requested
const DefaultHistoryLimit = 20

// ResolveStartTime converts the filter's time options to a Unix lower
// bound. Zero means no lower bound.
func (f *HistoryFilter) ResolveStartTime(now time.Time) (int64, error) {
	if f.Since != "" {
		start, err := naturaldate.Parse(f.Since, now, naturaldate.WithDirection(naturaldate.Past))
		if err != nil {
			slog.Warn("failed to parse natural language date", "input", f.Since, "error", err)
			return 0, fmt.Errorf("failed to parse date '%s': %w", f.Since, err)
		}
		slog.Debug("parsed natural language date", "input", f.Since, "result", start)
		return start.Unix(), nil
	}

	if f.Days > 0 {
		return now.AddDate(0, 0, -f.Days).Unix(), nil
	}

	return 0, nil
}

// BuildQuery constructs the history SELECT statement and its arguments
func (f *HistoryFilter) BuildQuery(now time.Time) (string, []interface{}, error) {
	startUnix, err := f.ResolveStartTime(now)
	if err != nil {
		return "", nil, err
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "source", "kind", "engine", "started_at", "duration_seconds", "outcome")
	sb.From("playbacks")

	if startUnix > 0 {
		sb.Where(sb.GreaterEqualThan("started_at", startUnix))
	}
	if f.Source != "" {
		sb.Where(sb.Equal("source", f.Source))
	}
	if f.Kind != "" {
		sb.Where(sb.Equal("kind", f.Kind))
	}
	if f.Outcome != "" {
		sb.Where(sb.Equal("outcome", f.Outcome))
	}

	sb.OrderBy("started_at").Desc()

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	sb.Limit(limit)
	if f.Offset > 0 {
		sb.Offset(f.Offset)
	}

	query, args := sb.Build()
	slog.Debug("built history query", "query", query, "arg_count", len(args))

	return query, args, nil
}

// QueryHistory returns playback records matching the filter, most recent
// first
func QueryHistory(db *sql.DB, filter HistoryFilter) ([]Playback, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query, args, err := filter.BuildQuery(time.Now())
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playback history: %w", err)
	}
	defer rows.Close()

	var results []Playback
	for rows.Next() {
		var p Playback
		err := rows.Scan(&p.ID, &p.Source, &p.Kind, &p.Engine, &p.StartedAt, &p.DurationSeconds, &p.Outcome)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playback row: %w", err)
		}
		results = append(results, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playback rows: %w", err)
	}

	return results, nil
}
