package portable

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// OutputSpec describes the PCM format a channel feeds its output device.
type OutputSpec struct {
	Channels       uint32
	SampleRate     uint32
	BytesPerSample uint32
}

// PullFunc fills buf with the next PCM bytes of a channel, padding with
// silence when the channel is paused, stopped or exhausted. It is called
// from the output device's data thread.
type PullFunc func(buf []byte)

// Output is a playback device bound to one channel.
type Output interface {
	Start() error
	Stop() error
	Close() error
}

// OutputFactory creates an Output for the given format, wired to pull.
// The engine creates one output per channel, lazily on first play.
type OutputFactory func(spec OutputSpec, pull PullFunc) (Output, error)

// NewSystemOutput is an OutputFactory trying the system audio backends in
// order: malgo first, then oto when malgo cannot open a device.
func NewSystemOutput(spec OutputSpec, pull PullFunc) (Output, error) {
	out, err := NewMalgoOutput(spec, pull)
	if err == nil {
		return out, nil
	}
	slog.Debug("malgo output unavailable, falling back to oto", "error", err)

	out, otoErr := NewOtoOutput(spec, pull)
	if otoErr != nil {
		return nil, fmt.Errorf("no usable audio output (malgo: %v, oto: %v)", err, otoErr)
	}
	return out, nil
}

// NullOutput consumes PCM at roughly real-time rate without touching any
// audio hardware. Used by tests and headless environments.
type NullOutput struct {
	spec OutputSpec
	pull PullFunc

	mutex   sync.Mutex
	stopCh  chan struct{}
	closed  bool
	running bool
}

// NewNullOutput is an OutputFactory producing NullOutputs.
func NewNullOutput(spec OutputSpec, pull PullFunc) (Output, error) {
	slog.Debug("creating null output",
		"channels", spec.Channels,
		"sample_rate", spec.SampleRate,
		"bytes_per_sample", spec.BytesPerSample)
	return &NullOutput{spec: spec, pull: pull}, nil
}

// Start begins draining the channel on a background ticker.
func (o *NullOutput) Start() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.closed {
		return ErrOutputClosed
	}
	if o.running {
		return nil
	}

	o.stopCh = make(chan struct{})
	o.running = true

	// Drain in 10ms slices to mimic a real device callback cadence.
	byteRate := uint64(o.spec.SampleRate) * uint64(o.spec.Channels) * uint64(o.spec.BytesPerSample)
	sliceSize := int(byteRate / 100)
	if sliceSize == 0 {
		sliceSize = 1
	}

	go func(stopCh chan struct{}) {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		buf := make([]byte, sliceSize)
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				o.pull(buf)
			}
		}
	}(o.stopCh)

	return nil
}

// Stop halts draining.
func (o *NullOutput) Stop() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.running {
		close(o.stopCh)
		o.running = false
	}
	return nil
}

// Close stops draining and marks the output unusable.
func (o *NullOutput) Close() error {
	if err := o.Stop(); err != nil {
		return err
	}
	o.mutex.Lock()
	o.closed = true
	o.mutex.Unlock()
	return nil
}
