package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// FileLoggingConfig represents file-based logging configuration
type FileLoggingConfig struct {
	Enabled    bool   `json:"enabled"`      // Whether file logging is enabled
	Filename   string `json:"filename"`     // Log file path (empty = XDG cache path)
	MaxSizeMB  int    `json:"max_size_mb"`  // Max file size in MB before rotation
	MaxBackups int    `json:"max_backups"`  // Max number of backup files to keep
	MaxAgeDays int    `json:"max_age_days"` // Max age in days before deletion
	Compress   bool   `json:"compress"`     // Whether to compress rotated files
}

// TrackingConfig represents playback history configuration
type TrackingConfig struct {
	Enabled      bool   `json:"enabled"`       // Whether playback tracking is enabled
	DatabasePath string `json:"database_path"` // SQLite path (empty = XDG data path)
}

// Config represents basso configuration
type Config struct {
	Volume      float64            `json:"volume"`                 // Playback volume (0.0 to 1.0)
	Pan         float64            `json:"pan"`                    // Panning position (-1.0 to 1.0)
	Engine      string             `json:"engine"`                 // Engine selection (auto, native, portable)
	LibraryPath string             `json:"library_path"`           // Native engine library path (empty = system default)
	LogLevel    string             `json:"log_level"`              // Log level (debug, info, warn, error)
	FileLogging *FileLoggingConfig `json:"file_logging,omitempty"` // File logging configuration
	Tracking    *TrackingConfig    `json:"tracking,omitempty"`     // Playback history configuration
}

// XDGInterface defines the interface for XDG directory operations
type XDGInterface interface {
	GetConfigPaths(filename string) []string
	GetCachePath(purpose string) string
	GetDataPath(purpose string) string
}

// ConfigManager handles loading, saving, and validating configuration
type ConfigManager struct {
	fs  afero.Fs
	xdg XDGInterface
}

// NewConfigManager creates a new configuration manager backed by the OS
// filesystem
func NewConfigManager() *ConfigManager {
	slog.Debug("creating new config manager")
	return &ConfigManager{
		fs:  afero.NewOsFs(),
		xdg: NewXDGDirs(),
	}
}

// NewConfigManagerWithFs creates a configuration manager on an injected
// filesystem for testing
func NewConfigManagerWithFs(fs afero.Fs, xdg XDGInterface) *ConfigManager {
	return &ConfigManager{fs: fs, xdg: xdg}
}

// GetDefaultConfig returns the default configuration
func (cm *ConfigManager) GetDefaultConfig() *Config {
	defaultConfig := &Config{
		Volume:      1.0,
		Pan:         0.0,
		Engine:      "auto",
		LibraryPath: "",
		LogLevel:    "warn",
		FileLogging: &FileLoggingConfig{
			Enabled:    false,
			Filename:   "",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Tracking: &TrackingConfig{
			Enabled:      true,
			DatabasePath: "",
		},
	}

	slog.Debug("generated default config",
		"volume", defaultConfig.Volume,
		"engine", defaultConfig.Engine,
		"log_level", defaultConfig.LogLevel)

	return defaultConfig
}

// LoadFromFile loads configuration from a specific file
func (cm *ConfigManager) LoadFromFile(filePath string) (*Config, error) {
	slog.Debug("loading config from file", "file_path", filePath)

	data, err := afero.ReadFile(cm.fs, filePath)
	if err != nil {
		slog.Error("failed to read config file", "file_path", filePath, "error", err)
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = json.Unmarshal(data, &config)
	if err != nil {
		slog.Error("failed to parse config JSON", "file_path", filePath, "error", err)
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	err = cm.ValidateConfig(&config)
	if err != nil {
		slog.Error("config validation failed", "file_path", filePath, "error", err)
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	slog.Debug("config loaded successfully",
		"file_path", filePath,
		"volume", config.Volume,
		"engine", config.Engine)

	return &config, nil
}

// SaveToFile saves configuration to a specific file
func (cm *ConfigManager) SaveToFile(config *Config, filePath string) error {
	slog.Debug("saving config to file", "file_path", filePath)

	err := cm.ValidateConfig(config)
	if err != nil {
		slog.Error("cannot save invalid config", "error", err)
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(filePath)
	err = cm.fs.MkdirAll(dir, 0755)
	if err != nil {
		slog.Error("failed to create config directory", "directory", dir, "error", err)
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal with indentation for readability
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		slog.Error("failed to marshal config", "error", err)
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = afero.WriteFile(cm.fs, filePath, data, 0644)
	if err != nil {
		slog.Error("failed to write config file", "file_path", filePath, "error", err)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	slog.Info("config saved successfully", "file_path", filePath)
	return nil
}

// LoadConfig loads configuration using XDG path discovery
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	slog.Debug("loading config using XDG path discovery")

	configPaths := cm.xdg.GetConfigPaths("config.json")

	// Try to load from each path in priority order
	for i, configPath := range configPaths {
		slog.Debug("checking config path", "path_index", i, "path", configPath)

		if exists, _ := afero.Exists(cm.fs, configPath); exists {
			slog.Debug("found config file", "path", configPath)
			return cm.LoadFromFile(configPath)
		}
	}

	slog.Debug("no config file found, using defaults")
	return cm.GetDefaultConfig(), nil
}

// ValidateConfig validates configuration values
func (cm *ConfigManager) ValidateConfig(config *Config) error {
	var problems []string

	if config.Volume < 0.0 || config.Volume > 1.0 {
		problems = append(problems, fmt.Sprintf("volume must be between 0.0 and 1.0, got %f", config.Volume))
	}

	if config.Pan < -1.0 || config.Pan > 1.0 {
		problems = append(problems, fmt.Sprintf("pan must be between -1.0 and 1.0, got %f", config.Pan))
	}

	validEngines := []string{"", "auto", "native", "portable"}
	engineValid := false
	for _, engine := range validEngines {
		if config.Engine == engine {
			engineValid = true
			break
		}
	}
	if !engineValid {
		problems = append(problems, fmt.Sprintf("invalid engine '%s', must be one of: auto, native, portable", config.Engine))
	}

	if config.LogLevel != "" {
		validLogLevels := []string{"debug", "info", "warn", "error"}
		valid := false
		for _, level := range validLogLevels {
			if config.LogLevel == level {
				valid = true
				break
			}
		}
		if !valid {
			problems = append(problems, fmt.Sprintf("invalid log level '%s', must be one of: %s",
				config.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}

	return nil
}

// ApplyEnvironmentOverrides applies BASSO_* environment variables on top
// of the loaded configuration
func (cm *ConfigManager) ApplyEnvironmentOverrides(config *Config) *Config {
	result := *config

	if volumeStr := os.Getenv("BASSO_VOLUME"); volumeStr != "" {
		if volume, err := strconv.ParseFloat(volumeStr, 64); err == nil && volume >= 0.0 && volume <= 1.0 {
			slog.Debug("applying volume override from environment", "volume", volume)
			result.Volume = volume
		} else {
			slog.Warn("ignoring invalid BASSO_VOLUME", "value", volumeStr)
		}
	}

	if panStr := os.Getenv("BASSO_PAN"); panStr != "" {
		if pan, err := strconv.ParseFloat(panStr, 64); err == nil && pan >= -1.0 && pan <= 1.0 {
			slog.Debug("applying pan override from environment", "pan", pan)
			result.Pan = pan
		} else {
			slog.Warn("ignoring invalid BASSO_PAN", "value", panStr)
		}
	}

	if engine := os.Getenv("BASSO_ENGINE"); engine != "" {
		slog.Debug("applying engine override from environment", "engine", engine)
		result.Engine = engine
	}

	if libraryPath := os.Getenv("BASSO_LIBRARY"); libraryPath != "" {
		slog.Debug("applying library path override from environment", "library_path", libraryPath)
		result.LibraryPath = libraryPath
	}

	if logLevel := os.Getenv("BASSO_LOG_LEVEL"); logLevel != "" {
		slog.Debug("applying log level override from environment", "log_level", logLevel)
		result.LogLevel = logLevel
	}

	return &result
}

// ResolveLogFilePath returns the log file path, defaulting to the XDG
// cache directory when filename is empty
func (cm *ConfigManager) ResolveLogFilePath(filename string) string {
	if filename != "" {
		return filename
	}
	return filepath.Join(cm.xdg.GetCachePath("logs"), "basso.log")
}

// ResolveTrackingDatabasePath returns the playback history database path,
// defaulting to the XDG data directory when databasePath is empty
func (cm *ConfigManager) ResolveTrackingDatabasePath(databasePath string) string {
	if databasePath != "" {
		return databasePath
	}
	return filepath.Join(cm.xdg.GetDataPath(""), "history.db")
}
