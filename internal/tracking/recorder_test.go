package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRecord(t *testing.T) {
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	recorder := NewRecorder(db, "portable")

	id := recorder.Record(&Playback{
		Source:          "/music/test.wav",
		StartedAt:       1700000000,
		DurationSeconds: 2.5,
		Outcome:         OutcomeCompleted,
	})
	assert.NotZero(t, id)

	var source, kind, engine, outcome string
	var duration float64
	err = db.QueryRow("SELECT source, kind, engine, duration_seconds, outcome FROM playbacks WHERE id = ?", id).
		Scan(&source, &kind, &engine, &duration, &outcome)
	require.NoError(t, err)

	assert.Equal(t, "/music/test.wav", source)
	assert.Equal(t, KindFile, kind, "kind should be derived from source")
	assert.Equal(t, "portable", engine, "engine should default to recorder engine")
	assert.Equal(t, 2.5, duration)
	assert.Equal(t, OutcomeCompleted, outcome)
}

func TestRecorderDerivesURLKind(t *testing.T) {
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	recorder := NewRecorder(db, "native")

	id := recorder.Record(&Playback{
		Source:    "https://radio.example.com/stream",
		StartedAt: 1700000000,
		Outcome:   OutcomeStopped,
	})
	require.NotZero(t, id)

	var kind string
	err = db.QueryRow("SELECT kind FROM playbacks WHERE id = ?", id).Scan(&kind)
	require.NoError(t, err)
	assert.Equal(t, KindURL, kind)
}

func TestRecorderSkipsInvalidRecord(t *testing.T) {
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	recorder := NewRecorder(db, "portable")

	id := recorder.Record(&Playback{
		Source:    "",
		StartedAt: 1700000000,
		Outcome:   OutcomeCompleted,
	})
	assert.Zero(t, id, "invalid record should not be inserted")

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM playbacks").Scan(&count))
	assert.Zero(t, count)
}

func TestRecorderDisablesAfterFailure(t *testing.T) {
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)

	recorder := NewRecorder(db, "portable")

	// Closing the database makes inserts fail
	db.Close()

	id := recorder.Record(&Playback{
		Source:    "/music/test.wav",
		StartedAt: 1700000000,
		Outcome:   OutcomeCompleted,
	})
	assert.Zero(t, id)
	assert.True(t, recorder.disabled, "recorder should disable itself after a failure")

	// Subsequent calls are silent no-ops
	id = recorder.Record(&Playback{
		Source:    "/music/other.wav",
		StartedAt: 1700000000,
		Outcome:   OutcomeCompleted,
	})
	assert.Zero(t, id)
}

func TestRecorderUpdateOutcome(t *testing.T) {
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	recorder := NewRecorder(db, "portable")

	id := recorder.Record(&Playback{
		Source:    "/music/test.wav",
		StartedAt: 1700000000,
		Outcome:   OutcomeStopped,
	})
	require.NotZero(t, id)

	recorder.UpdateOutcome(id, OutcomeCompleted, 12.75)

	var outcome string
	var duration float64
	err = db.QueryRow("SELECT outcome, duration_seconds FROM playbacks WHERE id = ?", id).
		Scan(&outcome, &duration)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, outcome)
	assert.Equal(t, 12.75, duration)
}

func TestRecorderNilDatabase(t *testing.T) {
	recorder := NewRecorder(nil, "portable")

	id := recorder.Record(&Playback{
		Source:    "/music/test.wav",
		StartedAt: 1700000000,
		Outcome:   OutcomeCompleted,
	})
	assert.Zero(t, id, "nil database should be a no-op")
}

func TestPlaybackValidate(t *testing.T) {
	tests := []struct {
		name     string
		playback Playback
		wantErr  bool
	}{
		{
			name: "valid file playback",
			playback: Playback{
				Source:    "/music/test.wav",
				Kind:      KindFile,
				Engine:    "portable",
				StartedAt: 1700000000,
				Outcome:   OutcomeCompleted,
			},
			wantErr: false,
		},
		{
			name: "missing source",
			playback: Playback{
				Kind:      KindFile,
				StartedAt: 1700000000,
				Outcome:   OutcomeCompleted,
			},
			wantErr: true,
		},
		{
			name: "bad kind",
			playback: Playback{
				Source:    "/music/test.wav",
				Kind:      "stream",
				StartedAt: 1700000000,
				Outcome:   OutcomeCompleted,
			},
			wantErr: true,
		},
		{
			name: "negative duration",
			playback: Playback{
				Source:          "/music/test.wav",
				Kind:            KindFile,
				StartedAt:       1700000000,
				DurationSeconds: -1,
				Outcome:         OutcomeCompleted,
			},
			wantErr: true,
		},
		{
			name: "bad outcome",
			playback: Playback{
				Source:    "/music/test.wav",
				Kind:      KindFile,
				StartedAt: 1700000000,
				Outcome:   "interrupted",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.playback.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKindForSource(t *testing.T) {
	assert.Equal(t, KindFile, KindForSource("/music/test.wav"))
	assert.Equal(t, KindFile, KindForSource("relative/path.mp3"))
	assert.Equal(t, KindURL, KindForSource("http://example.com/stream"))
	assert.Equal(t, KindURL, KindForSource("HTTPS://example.com/stream"))
}
