package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// fakeXDG provides deterministic paths for testing
type fakeXDG struct {
	configDir string
	cacheDir  string
	dataDir   string
}

func (f *fakeXDG) GetConfigPaths(filename string) []string {
	return []string{
		filepath.Join(f.configDir, "basso", filename),
		filepath.Join("/etc/xdg", "basso", filename),
	}
}

func (f *fakeXDG) GetCachePath(purpose string) string {
	if purpose == "" {
		return filepath.Join(f.cacheDir, "basso")
	}
	return filepath.Join(f.cacheDir, "basso", purpose)
}

func (f *fakeXDG) GetDataPath(purpose string) string {
	if purpose == "" {
		return filepath.Join(f.dataDir, "basso")
	}
	return filepath.Join(f.dataDir, "basso", purpose)
}

func testManager() (*ConfigManager, afero.Fs, *fakeXDG) {
	fs := afero.NewMemMapFs()
	xdg := &fakeXDG{
		configDir: "/home/user/.config",
		cacheDir:  "/home/user/.cache",
		dataDir:   "/home/user/.local/share",
	}
	return NewConfigManagerWithFs(fs, xdg), fs, xdg
}

func TestGetDefaultConfig(t *testing.T) {
	cm, _, _ := testManager()

	config := cm.GetDefaultConfig()

	if config.Volume != 1.0 {
		t.Errorf("expected default volume 1.0, got %f", config.Volume)
	}
	if config.Pan != 0.0 {
		t.Errorf("expected default pan 0.0, got %f", config.Pan)
	}
	if config.Engine != "auto" {
		t.Errorf("expected default engine auto, got %q", config.Engine)
	}
	if config.LogLevel != "warn" {
		t.Errorf("expected default log level warn, got %q", config.LogLevel)
	}
	if config.FileLogging == nil || config.FileLogging.Enabled {
		t.Error("expected file logging present but disabled by default")
	}
	if config.Tracking == nil || !config.Tracking.Enabled {
		t.Error("expected tracking enabled by default")
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	cm, _, _ := testManager()

	config := cm.GetDefaultConfig()
	config.Volume = 0.5
	config.Pan = -0.25
	config.Engine = "portable"
	config.LogLevel = "debug"

	path := "/home/user/.config/basso/config.json"
	if err := cm.SaveToFile(config, path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := cm.LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.Volume != 0.5 {
		t.Errorf("expected volume 0.5, got %f", loaded.Volume)
	}
	if loaded.Pan != -0.25 {
		t.Errorf("expected pan -0.25, got %f", loaded.Pan)
	}
	if loaded.Engine != "portable" {
		t.Errorf("expected engine portable, got %q", loaded.Engine)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", loaded.LogLevel)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cm, _, _ := testManager()

	_, err := cm.LoadFromFile("/nonexistent/config.json")
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	cm, fs, _ := testManager()

	path := "/home/user/.config/basso/config.json"
	afero.WriteFile(fs, path, []byte("{not json"), 0644)

	_, err := cm.LoadFromFile(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfigUsesXDGDiscovery(t *testing.T) {
	cm, fs, xdg := testManager()

	path := filepath.Join(xdg.configDir, "basso", "config.json")
	afero.WriteFile(fs, path, []byte(`{"volume": 0.75, "pan": 0, "engine": "native"}`), 0644)

	config, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Volume != 0.75 {
		t.Errorf("expected volume 0.75 from config file, got %f", config.Volume)
	}
	if config.Engine != "native" {
		t.Errorf("expected engine native, got %q", config.Engine)
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cm, _, _ := testManager()

	config, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Volume != 1.0 || config.Engine != "auto" {
		t.Error("expected default config when no file exists")
	}
}

func TestValidateConfig(t *testing.T) {
	cm, _, _ := testManager()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"volume too high", func(c *Config) { c.Volume = 1.5 }, true},
		{"volume negative", func(c *Config) { c.Volume = -0.1 }, true},
		{"pan too low", func(c *Config) { c.Pan = -2.0 }, true},
		{"pan too high", func(c *Config) { c.Pan = 1.1 }, true},
		{"unknown engine", func(c *Config) { c.Engine = "winmm" }, true},
		{"empty engine ok", func(c *Config) { c.Engine = "" }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"empty log level ok", func(c *Config) { c.LogLevel = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := cm.GetDefaultConfig()
			tt.mutate(config)

			err := cm.ValidateConfig(config)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestSaveToFileRejectsInvalidConfig(t *testing.T) {
	cm, fs, _ := testManager()

	config := cm.GetDefaultConfig()
	config.Volume = 5.0

	path := "/home/user/.config/basso/config.json"
	if err := cm.SaveToFile(config, path); err == nil {
		t.Error("expected error saving invalid config")
	}
	if exists, _ := afero.Exists(fs, path); exists {
		t.Error("invalid config should not be written")
	}
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	cm, _, _ := testManager()

	os.Setenv("BASSO_VOLUME", "0.3")
	os.Setenv("BASSO_PAN", "-0.5")
	os.Setenv("BASSO_ENGINE", "portable")
	os.Setenv("BASSO_LIBRARY", "/opt/bass/libbass.so")
	os.Setenv("BASSO_LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("BASSO_VOLUME")
		os.Unsetenv("BASSO_PAN")
		os.Unsetenv("BASSO_ENGINE")
		os.Unsetenv("BASSO_LIBRARY")
		os.Unsetenv("BASSO_LOG_LEVEL")
	}()

	result := cm.ApplyEnvironmentOverrides(cm.GetDefaultConfig())

	if result.Volume != 0.3 {
		t.Errorf("expected volume override 0.3, got %f", result.Volume)
	}
	if result.Pan != -0.5 {
		t.Errorf("expected pan override -0.5, got %f", result.Pan)
	}
	if result.Engine != "portable" {
		t.Errorf("expected engine override portable, got %q", result.Engine)
	}
	if result.LibraryPath != "/opt/bass/libbass.so" {
		t.Errorf("expected library path override, got %q", result.LibraryPath)
	}
	if result.LogLevel != "debug" {
		t.Errorf("expected log level override debug, got %q", result.LogLevel)
	}
}

func TestApplyEnvironmentOverridesIgnoresInvalid(t *testing.T) {
	cm, _, _ := testManager()

	os.Setenv("BASSO_VOLUME", "loud")
	os.Setenv("BASSO_PAN", "3.0")
	defer func() {
		os.Unsetenv("BASSO_VOLUME")
		os.Unsetenv("BASSO_PAN")
	}()

	result := cm.ApplyEnvironmentOverrides(cm.GetDefaultConfig())

	if result.Volume != 1.0 {
		t.Errorf("invalid BASSO_VOLUME should be ignored, got %f", result.Volume)
	}
	if result.Pan != 0.0 {
		t.Errorf("out-of-range BASSO_PAN should be ignored, got %f", result.Pan)
	}
}

func TestApplyEnvironmentOverridesDoesNotMutateInput(t *testing.T) {
	cm, _, _ := testManager()

	os.Setenv("BASSO_VOLUME", "0.1")
	defer os.Unsetenv("BASSO_VOLUME")

	original := cm.GetDefaultConfig()
	cm.ApplyEnvironmentOverrides(original)

	if original.Volume != 1.0 {
		t.Errorf("input config mutated: volume = %f", original.Volume)
	}
}

func TestResolveLogFilePath(t *testing.T) {
	cm, _, xdg := testManager()

	if got := cm.ResolveLogFilePath("/var/log/basso.log"); got != "/var/log/basso.log" {
		t.Errorf("explicit path should pass through, got %q", got)
	}

	want := filepath.Join(xdg.cacheDir, "basso", "logs", "basso.log")
	if got := cm.ResolveLogFilePath(""); got != want {
		t.Errorf("expected XDG default %q, got %q", want, got)
	}
}

func TestResolveTrackingDatabasePath(t *testing.T) {
	cm, _, xdg := testManager()

	if got := cm.ResolveTrackingDatabasePath("/tmp/history.db"); got != "/tmp/history.db" {
		t.Errorf("explicit path should pass through, got %q", got)
	}

	want := filepath.Join(xdg.dataDir, "basso", "history.db")
	if got := cm.ResolveTrackingDatabasePath(""); got != want {
		t.Errorf("expected XDG default %q, got %q", want, got)
	}
}
