package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"basso.audio/internal/config"
	"basso.audio/internal/tracking"
	"basso.audio/pkg/bass"
)

// positionPollInterval controls how often playback progress is sampled
const positionPollInterval = 200 * time.Millisecond

// stallPollLimit is how many consecutive unchanged position samples mean
// the stream has ended
const stallPollLimit = 5

func newPlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play SOURCE",
		Short: "Play an audio file or URL",
		Long:  "Play a local audio file or a network stream URL to completion. Ctrl-C stops playback.",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlayE,
	}
	return cmd
}

func runPlayE(cmd *cobra.Command, args []string) error {
	cli := cliFromContext(cmd.Context())
	if cli == nil {
		return fmt.Errorf("CLI instance not found in context")
	}

	cfg, err := loadAndValidateConfig(cmd, cli)
	if err != nil {
		return err
	}
	setupLogging(cfg, cmd.ErrOrStderr())
	cli.initializeTracking(cfg)

	source := args[0]

	eng, err := cli.engineFactory.CreateEngine(cfg.Engine, cfg.LibraryPath)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	stream, err := openStream(eng, source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer stream.Close()

	applyPlaybackConfig(stream, cfg)

	recorder := tracking.NewRecorder(cli.trackingDB, cfg.Engine)
	// Recorded pessimistically as stopped, upgraded when playback ends
	// cleanly
	recordID := recorder.Record(&tracking.Playback{
		Source:  source,
		Outcome: tracking.OutcomeStopped,
	})

	if err := stream.Play(); err != nil {
		recorder.UpdateOutcome(recordID, tracking.OutcomeFailed, 0)
		return fmt.Errorf("failed to start playback: %w", err)
	}

	slog.Info("playback started", "source", source)
	if cli.isInteractiveTerminal(1) {
		fmt.Fprintf(cmd.OutOrStdout(), "Playing %s\n", source)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	completed := waitForPlayback(ctx, stream)
	duration := stream.GetTime()

	if completed {
		recorder.UpdateOutcome(recordID, tracking.OutcomeCompleted, duration)
		slog.Info("playback completed", "source", source, "duration_seconds", duration)
	} else {
		stream.Stop()
		recorder.UpdateOutcome(recordID, tracking.OutcomeStopped, duration)
		slog.Info("playback stopped", "source", source, "duration_seconds", duration)
	}

	return nil
}

// openStream opens the source as a URL stream or file stream depending on
// its shape
func openStream(eng bass.Engine, source string) (*bass.Stream, error) {
	if tracking.KindForSource(source) == tracking.KindURL {
		return bass.NewStreamFromURL(eng, source)
	}
	return bass.NewStreamFromFile(eng, source)
}

// applyPlaybackConfig pushes configured volume and pan onto the stream
func applyPlaybackConfig(stream *bass.Stream, cfg *config.Config) {
	stream.SetVolume(float32(cfg.Volume))
	if cfg.Pan != 0 {
		stream.SetPanningPosition(float32(cfg.Pan))
	}
}

// waitForPlayback blocks until the stream finishes or the context is
// cancelled. Returns true when the stream played to the end.
func waitForPlayback(ctx context.Context, stream *bass.Stream) bool {
	ticker := time.NewTicker(positionPollInterval)
	defer ticker.Stop()

	lastPos := stream.GetPosition()
	stalled := 0

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			pos := stream.GetPosition()
			if pos == lastPos {
				stalled++
				if stalled >= stallPollLimit {
					return true
				}
			} else {
				stalled = 0
				lastPos = pos
			}
		}
	}
}
