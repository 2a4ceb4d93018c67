package portable

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// oto permits exactly one context per process, so all oto outputs share
// the context created for the first channel's format.
var (
	otoOnce       sync.Once
	otoSharedCtx  *oto.Context
	otoSharedErr  error
	otoSampleRate int
	otoChannels   int
)

// OtoOutput plays a channel through oto. 16-bit PCM only; the engine
// falls back to other outputs for wider sample formats.
type OtoOutput struct {
	player *oto.Player

	mutex   sync.Mutex
	started bool
	closed  bool
}

// pullReader adapts a PullFunc to the io.Reader oto players consume.
type pullReader struct {
	pull PullFunc
}

func (r *pullReader) Read(p []byte) (int, error) {
	r.pull(p)
	return len(p), nil
}

// NewOtoOutput is an OutputFactory producing oto-backed outputs.
func NewOtoOutput(spec OutputSpec, pull PullFunc) (Output, error) {
	if spec.BytesPerSample != 2 {
		return nil, fmt.Errorf("oto output supports 16-bit samples only, got %d bytes", spec.BytesPerSample)
	}

	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   int(spec.SampleRate),
			ChannelCount: int(spec.Channels),
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoSharedErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-readyChan

		otoSharedCtx = ctx
		otoSampleRate = int(spec.SampleRate)
		otoChannels = int(spec.Channels)
		slog.Debug("oto context initialized",
			"sample_rate", otoSampleRate,
			"channels", otoChannels)
	})

	if otoSharedErr != nil {
		return nil, otoSharedErr
	}

	// oto can't be reinitialized with a different format; reuse the
	// existing context and let playback run at the context's rate.
	if int(spec.SampleRate) != otoSampleRate || int(spec.Channels) != otoChannels {
		slog.Warn("oto context format mismatch, reusing existing context",
			"want_sample_rate", spec.SampleRate,
			"want_channels", spec.Channels,
			"have_sample_rate", otoSampleRate,
			"have_channels", otoChannels)
	}

	player := otoSharedCtx.NewPlayer(&pullReader{pull: pull})
	slog.Debug("oto output initialized")
	return &OtoOutput{player: player}, nil
}

// Start begins playback.
func (o *OtoOutput) Start() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.closed {
		return ErrOutputClosed
	}
	if o.started {
		return nil
	}

	o.player.Play()
	o.started = true
	slog.Debug("oto output started")
	return nil
}

// Stop pauses playback.
func (o *OtoOutput) Stop() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.closed || !o.started {
		return nil
	}

	o.player.Pause()
	o.started = false
	slog.Debug("oto output stopped")
	return nil
}

// Close releases the player. The shared context stays alive for other
// outputs.
func (o *OtoOutput) Close() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	if err := o.player.Close(); err != nil {
		slog.Error("failed to close oto player", "error", err)
		return err
	}

	slog.Debug("oto output closed")
	return nil
}
