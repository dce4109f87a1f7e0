package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/logging"
	"github.com/vango-dev/reactor/pkg/reactive"
)

const (
	// ConfigBaseName is the name of the configuration file without extension.
	ConfigBaseName = "reactor"

	// DefaultDevtoolsPort is the default devtools server port.
	DefaultDevtoolsPort = 7070

	// DefaultDevtoolsHost is the default devtools server host.
	DefaultDevtoolsHost = "localhost"

	// DefaultTimelineSize is the default number of events kept by devtools.
	DefaultTimelineSize = 1000

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "reactor"
)

// extensions lists supported config files in lookup order.
var extensions = []string{".json", ".yaml", ".yml", ".toml"}

// Config represents a reactor configuration file.
type Config struct {
	// Runtime configures the reactive runtime.
	Runtime RuntimeSection `json:"runtime" yaml:"runtime" toml:"runtime"`

	// Log configures logging.
	Log LogConfig `json:"log" yaml:"log" toml:"log"`

	// Metrics configures prometheus metrics.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" toml:"metrics"`

	// Devtools configures the inspector server.
	Devtools DevtoolsConfig `json:"devtools" yaml:"devtools" toml:"devtools"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RuntimeSection mirrors reactive.Config.
type RuntimeSection struct {
	// Async defers watcher runs to the next tick. Nil means true.
	Async *bool `json:"async,omitempty" yaml:"async,omitempty" toml:"async,omitempty"`

	// MaxUpdateCount bounds how often one watcher may re-queue in a flush.
	MaxUpdateCount int `json:"maxUpdateCount,omitempty" yaml:"maxUpdateCount,omitempty" toml:"max_update_count,omitempty"`

	// Silent suppresses warnings.
	Silent bool `json:"silent,omitempty" yaml:"silent,omitempty" toml:"silent,omitempty"`

	// Strict makes integrity violations panic.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty" toml:"strict,omitempty"`

	// Performance enables component init, render and patch spans.
	Performance bool `json:"performance,omitempty" yaml:"performance,omitempty" toml:"performance,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// MetricsConfig contains prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
}

// DevtoolsConfig contains inspector settings.
type DevtoolsConfig struct {
	Enabled      bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Host         string `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	Port         int    `json:"port,omitempty" yaml:"port,omitempty" toml:"port,omitempty"`
	TimelineSize int    `json:"timelineSize,omitempty" yaml:"timelineSize,omitempty" toml:"timeline_size,omitempty"`

	// Export uploads the timeline to S3 on shutdown when Bucket is set.
	Export ExportConfig `json:"export,omitempty" yaml:"export,omitempty" toml:"export,omitempty"`
}

// ExportConfig locates the S3 timeline export.
type ExportConfig struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty" toml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	async := true
	return &Config{
		Runtime: RuntimeSection{
			Async:          &async,
			MaxUpdateCount: reactive.DefaultMaxUpdateCount,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Devtools: DevtoolsConfig{
			Host:         DefaultDevtoolsHost,
			Port:         DefaultDevtoolsPort,
			TimelineSize: DefaultTimelineSize,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// reactor.json, reactor.yaml, reactor.yml and reactor.toml in that order.
func Load(dir string) (*Config, error) {
	for _, ext := range extensions {
		path := filepath.Join(dir, ConfigBaseName+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("R014").
		WithDetail("No reactor.json, reactor.yaml or reactor.toml found in " + dir).
		WithSuggestion("Run 'reactor config --init' to write a default configuration")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("R014").Wrap(err)
	}

	cfg := New()
	if err := decode(path, data, cfg); err != nil {
		return nil, errors.New("R014").
			WithDetail(fmt.Sprintf("Failed to parse %s: %v", filepath.Base(path), err)).
			WithSuggestion("Check the file syntax")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path in the format given
// by its extension.
func (c *Config) SaveTo(path string) error {
	data, err := c.Encode(filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R014").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Encode renders the configuration as JSON, YAML or TOML, selected by a file
// extension.
func (c *Config) Encode(ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json", "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, errors.New("R014").Wrap(err)
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml", "yaml", "yml":
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.New("R014").Wrap(err)
		}
		return data, nil
	case ".toml", "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, errors.New("R014").Wrap(err)
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New("R014").WithDetail(fmt.Sprintf("unsupported config format %q", ext))
	}
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Runtime.Async == nil {
		async := true
		c.Runtime.Async = &async
	}
	if c.Runtime.MaxUpdateCount == 0 {
		c.Runtime.MaxUpdateCount = reactive.DefaultMaxUpdateCount
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Devtools.Host == "" {
		c.Devtools.Host = DefaultDevtoolsHost
	}
	if c.Devtools.Port == 0 {
		c.Devtools.Port = DefaultDevtoolsPort
	}
	if c.Devtools.TimelineSize == 0 {
		c.Devtools.TimelineSize = DefaultTimelineSize
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Runtime.MaxUpdateCount < 0 {
		return errors.New("R014").WithDetail("runtime.maxUpdateCount must not be negative")
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return errors.New("R014").
			WithDetail(fmt.Sprintf("log.level %q is not a level", c.Log.Level)).
			WithSuggestion("Use debug, info, warn or error")
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return errors.New("R014").WithDetail(fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if c.Devtools.Port < 0 || c.Devtools.Port > 65535 {
		return errors.New("R014").WithDetail("devtools.port must be between 0 and 65535")
	}
	if c.Devtools.TimelineSize < 0 {
		return errors.New("R014").WithDetail("devtools.timelineSize must not be negative")
	}
	if c.Devtools.Export.Bucket != "" && c.Devtools.Export.Region == "" {
		return errors.New("R014").
			WithDetail("devtools.export.region is required with a bucket").
			WithSuggestion("Set devtools.export.region, for example us-east-1")
	}
	return nil
}

// Async reports whether watchers run on the next tick.
func (c *Config) Async() bool {
	return c.Runtime.Async == nil || *c.Runtime.Async
}

// RuntimeConfig returns the reactive runtime configuration.
func (c *Config) RuntimeConfig() reactive.Config {
	return reactive.Config{
		Sync:           !c.Async(),
		MaxUpdateCount: c.Runtime.MaxUpdateCount,
		Silent:         c.Runtime.Silent,
		Strict:         c.Runtime.Strict,
		Performance:    c.Runtime.Performance,
	}
}

// LogOptions returns logger options for the log section.
func (c *Config) LogOptions() logging.Options {
	opts := logging.Defaults(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(c.Log.Level); ok {
		opts.Level = lvl
	}
	opts.Format = strings.ToLower(c.Log.Format)
	return opts
}

// DevtoolsAddress returns the address string for the devtools server.
func (c *Config) DevtoolsAddress() string {
	return fmt.Sprintf("%s:%d", c.Devtools.Host, c.Devtools.Port)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, ext := range extensions {
		if _, err := os.Stat(filepath.Join(dir, ConfigBaseName+ext)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the directory holding a
// reactor config file.
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
			return "", errors.New("R014").
				WithDetail("No reactor config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
