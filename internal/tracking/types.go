package tracking

import (
	"fmt"
	"strings"
)

// Playback source kinds
const (
	KindFile = "file"
	KindURL  = "url"
)

// Playback outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeStopped   = "stopped"
	OutcomeFailed    = "failed"
)

// Playback represents a single playback history record
type Playback struct {
	ID              int64   `json:"id"`
	Source          string  `json:"source"`           // File path or URL
	Kind            string  `json:"kind"`             // "file" or "url"
	Engine          string  `json:"engine"`           // Engine that served the playback
	StartedAt       int64   `json:"started_at"`       // Unix timestamp
	DurationSeconds float64 `json:"duration_seconds"` // Seconds played before finishing
	Outcome         string  `json:"outcome"`          // completed, stopped, failed
}

// Validate checks that the playback record has sane field values
func (p *Playback) Validate() error {
	var problems []string

	if p.Source == "" {
		problems = append(problems, "source is required")
	}
	if p.Kind != KindFile && p.Kind != KindURL {
		problems = append(problems, fmt.Sprintf("invalid kind %q", p.Kind))
	}
	if p.StartedAt <= 0 {
		problems = append(problems, "started_at must be positive")
	}
	if p.DurationSeconds < 0 {
		problems = append(problems, "duration_seconds must not be negative")
	}
	switch p.Outcome {
	case OutcomeCompleted, OutcomeStopped, OutcomeFailed:
	default:
		problems = append(problems, fmt.Sprintf("invalid outcome %q", p.Outcome))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid playback record: %s", strings.Join(problems, "; "))
	}
	return nil
}

// KindForSource classifies a playback source as a file path or URL
func KindForSource(source string) string {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return KindURL
	}
	return KindFile
}
