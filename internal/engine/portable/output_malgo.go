package portable

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/malgo"
)

// Output errors
var (
	ErrOutputClosed = errors.New("audio output is closed")
)

// MalgoOutput plays a channel through the system audio device via
// malgo/miniaudio. Each output owns its own malgo context and device.
type MalgoOutput struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	mutex   sync.Mutex
	started bool
	closed  bool
}

// NewMalgoOutput is an OutputFactory producing malgo-backed outputs.
func NewMalgoOutput(spec OutputSpec, pull PullFunc) (Output, error) {
	slog.Debug("initializing malgo output",
		"channels", spec.Channels,
		"sample_rate", spec.SampleRate,
		"bytes_per_sample", spec.BytesPerSample)

	var format malgo.FormatType
	switch spec.BytesPerSample {
	case 2:
		format = malgo.FormatS16
	case 3:
		format = malgo.FormatS24
	case 4:
		format = malgo.FormatS32
	default:
		return nil, fmt.Errorf("unsupported sample width: %d bytes", spec.BytesPerSample)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		slog.Debug("malgo internal", "message", message)
	})
	if err != nil {
		slog.Error("failed to initialize malgo context", "error", err)
		return nil, err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = format
	deviceConfig.Playback.Channels = spec.Channels
	deviceConfig.SampleRate = spec.SampleRate
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, framecount uint32) {
			pull(pOutputSample)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		slog.Error("failed to initialize playback device", "error", err)
		uninitContext(ctx)
		return nil, err
	}

	slog.Debug("malgo output initialized")
	return &MalgoOutput{ctx: ctx, device: device}, nil
}

// Start begins device playback.
func (o *MalgoOutput) Start() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.closed {
		return ErrOutputClosed
	}
	if o.started {
		return nil
	}

	if err := o.device.Start(); err != nil {
		slog.Error("failed to start playback device", "error", err)
		return err
	}

	o.started = true
	slog.Debug("malgo output started")
	return nil
}

// Stop halts device playback.
func (o *MalgoOutput) Stop() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.closed || !o.started {
		return nil
	}

	if err := o.device.Stop(); err != nil {
		slog.Error("failed to stop playback device", "error", err)
		return err
	}

	o.started = false
	slog.Debug("malgo output stopped")
	return nil
}

// Close releases the device and context.
func (o *MalgoOutput) Close() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	o.device.Uninit()
	uninitContext(o.ctx)

	slog.Debug("malgo output closed")
	return nil
}

// uninitContext tears down a malgo context. malgo requires both Uninit()
// and Free().
func uninitContext(ctx *malgo.AllocatedContext) {
	if err := ctx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	ctx.Free()
}
