// Package engine selects and constructs bass.Engine implementations.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"basso.audio/internal/engine/native"
	"basso.audio/internal/engine/portable"
	"basso.audio/pkg/bass"
)

// Factory errors
var (
	ErrInvalidEngineType    = errors.New("invalid engine type")
	ErrEngineCreationFailed = errors.New("engine creation failed")
)

// Factory creates bass.Engine instances based on configuration
type Factory interface {
	CreateEngine(engineType, libraryPath string) (bass.Engine, error)
	GetSupportedEngines() []string
	IsValidEngineType(engineType string) bool
}

// DefaultFactory implements Factory with native-library probing
type DefaultFactory struct {
	loadNative     func(libraryPath string) (bass.Engine, error)
	createPortable func() bass.Engine
}

// NewFactory creates a DefaultFactory wired to the real implementations
func NewFactory() *DefaultFactory {
	return &DefaultFactory{
		loadNative: func(libraryPath string) (bass.Engine, error) {
			eng, err := native.Load(libraryPath)
			if err != nil {
				return nil, err
			}
			// Default device at the engine's preferred mix rate
			if err := eng.Init(-1, 44100); err != nil {
				return nil, err
			}
			return eng, nil
		},
		createPortable: func() bass.Engine {
			return portable.New()
		},
	}
}

// NewFactoryWithDependencies creates a factory with injected constructors
// for testing
func NewFactoryWithDependencies(loadNative func(string) (bass.Engine, error), createPortable func() bass.Engine) *DefaultFactory {
	return &DefaultFactory{
		loadNative:     loadNative,
		createPortable: createPortable,
	}
}

// CreateEngine creates a bass.Engine of the specified type. Empty string
// defaults to "auto", which prefers the native library and falls back to
// the portable engine when it cannot be loaded.
func (f *DefaultFactory) CreateEngine(engineType, libraryPath string) (bass.Engine, error) {
	if engineType == "" {
		engineType = "auto"
	}

	slog.Debug("creating engine", "type", engineType, "library_path", libraryPath)

	switch engineType {
	case "auto":
		eng, err := f.loadNative(libraryPath)
		if err != nil {
			slog.Info("native engine unavailable, falling back to portable engine", "error", err)
			return f.createPortable(), nil
		}
		slog.Debug("auto-selection chose native engine")
		return eng, nil
	case "native":
		eng, err := f.loadNative(libraryPath)
		if err != nil {
			slog.Error("native engine requested but unavailable", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrEngineCreationFailed, err)
		}
		return eng, nil
	case "portable":
		return f.createPortable(), nil
	default:
		slog.Error("invalid engine type requested", "type", engineType)
		return nil, fmt.Errorf("%w: %s", ErrInvalidEngineType, engineType)
	}
}

// GetSupportedEngines returns a list of all supported engine types
func (f *DefaultFactory) GetSupportedEngines() []string {
	return []string{"auto", "native", "portable"}
}

// IsValidEngineType checks if an engine type is supported
func (f *DefaultFactory) IsValidEngineType(engineType string) bool {
	// Empty string is valid (defaults to auto)
	if engineType == "" {
		return true
	}

	for _, supported := range f.GetSupportedEngines() {
		if engineType == supported {
			return true
		}
	}
	return false
}
