package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elix-dev/elix/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "elix.yaml"

	// DefaultAddress is the default server listen address.
	DefaultAddress = ":8080"

	// DefaultMaxPasses is the default change handler pass limit.
	DefaultMaxPasses = 100

	// DefaultQueueSize is the default loop task buffer.
	DefaultQueueSize = 256

	// DefaultMaxMessageSize is the default websocket read limit in bytes.
	DefaultMaxMessageSize = 64 * 1024

	// DefaultWriteTimeout is the default websocket write deadline.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultMetricsPath is where metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "elix"

	// DefaultSnapshotDir is the default snapshot directory.
	DefaultSnapshotDir = "snapshots"
)

// Config represents the complete elix.yaml configuration.
type Config struct {
	// Log configures the process logger.
	Log LogConfig `yaml:"log"`

	// State configures element state stores.
	State StateConfig `yaml:"state"`

	// Loop configures element event loops.
	Loop LoopConfig `yaml:"loop"`

	// Server configures the live element server.
	Server ServerConfig `yaml:"server"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`

	// Snapshot configures where rendered snapshots are stored.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format,omitempty"`
}

// StateConfig contains state store settings.
type StateConfig struct {
	// MaxPasses caps change handler passes per update.
	MaxPasses int `yaml:"maxPasses,omitempty"`
}

// LoopConfig contains event loop settings.
type LoopConfig struct {
	// QueueSize is the posted task buffer size.
	QueueSize int `yaml:"queueSize,omitempty"`
}

// ServerConfig contains server settings.
type ServerConfig struct {
	// Address is the listen address.
	Address string `yaml:"address,omitempty"`

	// ReadBufferSize is the websocket read buffer size.
	ReadBufferSize int `yaml:"readBufferSize,omitempty"`

	// WriteBufferSize is the websocket write buffer size.
	WriteBufferSize int `yaml:"writeBufferSize,omitempty"`

	// MaxMessageSize is the largest client message accepted, in bytes.
	MaxMessageSize int64 `yaml:"maxMessageSize,omitempty"`

	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration `yaml:"writeTimeout,omitempty"`

	// AllowedOrigins lists origins allowed to open websockets.
	// Empty means same-origin only.
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled serves metrics at Path.
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace,omitempty"`

	// Path is the metrics endpoint.
	Path string `yaml:"path,omitempty"`
}

// SnapshotConfig contains snapshot store settings.
type SnapshotConfig struct {
	// Dir is the directory used when S3 is not configured.
	Dir string `yaml:"dir,omitempty"`

	// S3 stores snapshots in a bucket instead of Dir.
	S3 S3Config `yaml:"s3,omitempty"`
}

// S3Config contains S3 snapshot settings.
type S3Config struct {
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"pathStyle,omitempty"`
}

// Enabled reports whether S3 storage is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for elix.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E020").
				WithDetail("No elix.yaml found in " + filepath.Dir(path)).
				WithSuggestion("Create elix.yaml or run without --config to use defaults")
		}
		return nil, errors.New("E020").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes configuration from YAML, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := New()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.New("E020").
			WithDetail("Failed to parse elix.yaml: " + err.Error()).
			WithSuggestion("Check that elix.yaml is valid YAML and uses known keys")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads elix.yaml from dir when it exists and returns the
// defaults otherwise.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.New("E020").Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return errors.New("E020").Wrap(err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.New("E020").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.State.MaxPasses == 0 {
		c.State.MaxPasses = DefaultMaxPasses
	}
	if c.Loop.QueueSize == 0 {
		c.Loop.QueueSize = DefaultQueueSize
	}

	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = 1024
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = 1024
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E021").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E021").
			WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	if c.State.MaxPasses < 1 {
		return errors.New("E021").
			WithDetail("state.maxPasses must be at least 1")
	}
	if c.Loop.QueueSize < 1 {
		return errors.New("E021").
			WithDetail("loop.queueSize must be at least 1")
	}
	if c.Server.MaxMessageSize < 0 || c.Server.WriteTimeout < 0 ||
		c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return errors.New("E021").
			WithDetail("server sizes and timeouts must not be negative")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E021").
			WithDetailf("metrics.path %q must start with /", c.Metrics.Path)
	}
	return nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// SlogLevel returns the configured level.
func (c LogConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Level)
	return level
}

// Logger builds a logger writing to w in the configured format and level.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SnapshotDir returns the snapshot directory, resolved against the config
// file's directory when relative.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory that holds
// elix.yaml.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E020").
				WithDetail("No elix.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
