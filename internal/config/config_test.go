package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	elixerrors "github.com/elix-dev/elix/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.State.MaxPasses != DefaultMaxPasses {
		t.Errorf("State.MaxPasses = %d, want %d", cfg.State.MaxPasses, DefaultMaxPasses)
	}
	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("Server.WriteTimeout = %v, want %v", cfg.Server.WriteTimeout, DefaultWriteTimeout)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Snapshot.S3.Enabled() {
		t.Error("S3 enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !elixerrors.HasCode(err, "E020") {
		t.Errorf("Load() of missing file error = %v, want E020", err)
	}

	configYAML := `
log:
  level: debug
  format: json
state:
  maxPasses: 20
server:
  address: "127.0.0.1:9000"
  writeTimeout: 2s
  allowedOrigins: [https://example.com]
metrics:
  enabled: false
snapshot:
  dir: out
  s3:
    bucket: renders
    region: eu-west-1
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.State.MaxPasses != 20 {
		t.Errorf("State.MaxPasses = %d, want 20", cfg.State.MaxPasses)
	}
	if cfg.Server.Address != "127.0.0.1:9000" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Server.WriteTimeout != 2*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want 2s", cfg.Server.WriteTimeout)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.MaxMessageSize != DefaultMaxMessageSize {
		t.Errorf("Server.MaxMessageSize = %d, want default", cfg.Server.MaxMessageSize)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if !cfg.Snapshot.S3.Enabled() || cfg.Snapshot.S3.Region != "eu-west-1" {
		t.Errorf("Snapshot.S3 = %+v", cfg.Snapshot.S3)
	}
	if got := cfg.SnapshotDir(); got != filepath.Join(tmpDir, "out") {
		t.Errorf("SnapshotDir() = %q", got)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", cfg.Log.SlogLevel())
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{"malformed", "log: [", "E020"},
		{"unknown key", "colour: red", "E020"},
		{"bad level", "log: {level: loud}", "E021"},
		{"bad format", "log: {format: xml}", "E021"},
		{"zero passes", "state: {maxPasses: -1}", "E021"},
		{"negative size", "server: {maxMessageSize: -5}", "E021"},
		{"metrics path", "metrics: {path: metrics}", "E021"},
		{"bad duration", "server: {writeTimeout: soon}", "E020"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !elixerrors.HasCode(err, tt.code) {
				t.Errorf("Parse(%q) error = %v, want %s", tt.yaml, err, tt.code)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if cfg.State.MaxPasses != DefaultMaxPasses {
		t.Errorf("State.MaxPasses = %d", cfg.State.MaxPasses)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.State.MaxPasses = 7
	cfg.Server.WriteTimeout = 3 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "writeTimeout: 3s") {
		t.Errorf("saved YAML does not contain the timeout as a duration:\n%s", data)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.State.MaxPasses != 7 || loaded.Server.WriteTimeout != 3*time.Second {
		t.Errorf("round trip lost values: %+v", loaded)
	}

	loaded.Log.Level = "warn"
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	again, _ := LoadFile(path)
	if again.Log.Level != "warn" {
		t.Errorf("Log.Level = %q after Save", again.Log.Level)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := LoadOrDefault(tmpDir)
	if err != nil || cfg.Path() != "" {
		t.Fatalf("LoadOrDefault() = %v, %v", cfg, err)
	}

	os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("state: {maxPasses: 3}\n"), 0644)
	cfg, err = LoadOrDefault(tmpDir)
	if err != nil || cfg.State.MaxPasses != 3 {
		t.Errorf("LoadOrDefault() = %+v, %v", cfg, err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}\n"), 0644)

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("FindProjectRoot = %q, want %q", root, tmpDir)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info logged at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected JSON log output: %s", out)
	}
}

func TestErrorsAreElixErrors(t *testing.T) {
	_, err := Parse([]byte("state: {maxPasses: -2}"))
	var ee *elixerrors.ElixError
	if !errors.As(err, &ee) || ee.Category != elixerrors.CategoryConfig {
		t.Errorf("error = %#v, want a config ElixError", err)
	}
}
