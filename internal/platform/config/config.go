package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"

	ProbeAuto    = "auto"
	ProbeCommand = "command"
	ProbePlugin  = "plugin"
	ProbeNone    = "none"
)

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	// Driver is one of "bolt" (default), "sqlite" or "file".
	Driver string `yaml:"driver,omitempty" jsonschema:"enum=bolt,enum=sqlite,enum=file"`
	// Path overrides the backend file location. Relative paths resolve
	// against the data directory.
	Path string `yaml:"path,omitempty"`
}

// IdleConfig controls the idle monitor that auto-stops the running timer.
type IdleConfig struct {
	// Probe selects how idle time is read: "auto", "command", "plugin" or "none".
	Probe string `yaml:"probe,omitempty" jsonschema:"enum=auto,enum=command,enum=plugin,enum=none"`
	// Threshold is the input inactivity after which the user counts as idle.
	Threshold Duration `yaml:"threshold,omitempty"`
	// PollInterval is how often the probe is read.
	PollInterval Duration `yaml:"poll_interval,omitempty"`
	// PluginBinary is the idle probe plugin executable.
	PluginBinary string `yaml:"plugin_binary,omitempty"`
	// IgnoreSuspend disables auto-stop on SIGTERM/SIGHUP.
	IgnoreSuspend bool `yaml:"ignore_suspend,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `yaml:"format,omitempty" jsonschema:"enum=text,enum=json"`
}

type ExportConfig struct {
	// FileName is the default CSV export target.
	FileName string `yaml:"file_name,omitempty"`
}

// Config is the top-level configuration read from <data-dir>/config.yaml.
type Config struct {
	DataDir string `yaml:"-"`

	Store  StoreConfig  `yaml:"store,omitempty"`
	Idle   IdleConfig   `yaml:"idle,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// Defaults returns the configuration used when no file is present.
func Defaults(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Store:   StoreConfig{Driver: "bolt"},
		Idle: IdleConfig{
			Probe:        ProbeAuto,
			Threshold:    Duration{5 * time.Minute},
			PollInterval: Duration{15 * time.Second},
		},
		Log:    LogConfig{Level: "info", Format: "text"},
		Export: ExportConfig{FileName: "task_log.csv"},
	}
}

// DefaultDataDir is $XDG_CONFIG_HOME/tasktrack or its platform equivalent.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ".tasktrack"
	}
	return filepath.Join(base, "tasktrack")
}

// Load reads the config file at path, or <dataDir>/config.yaml when path is
// empty. A missing file yields Defaults.
func Load(dataDir, path string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Defaults(dataDir)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dataDir, FileName)
	}
	payload, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeInto(&cfg, payload); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Store.Path = cfg.resolveStorePath()
	return cfg, nil
}

func decodeInto(cfg *Config, payload []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(payload))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case "bolt", "sqlite", "file":
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	switch c.Idle.Probe {
	case ProbeAuto, ProbeCommand, ProbeNone:
	case ProbePlugin:
		if strings.TrimSpace(c.Idle.PluginBinary) == "" {
			return fmt.Errorf("idle.plugin_binary is required when idle.probe is %q", ProbePlugin)
		}
	default:
		return fmt.Errorf("unsupported idle probe %q", c.Idle.Probe)
	}
	if c.Idle.Threshold.Duration <= 0 {
		return fmt.Errorf("idle.threshold must be positive")
	}
	if c.Idle.PollInterval.Duration <= 0 {
		return fmt.Errorf("idle.poll_interval must be positive")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if strings.TrimSpace(c.Export.FileName) == "" {
		return fmt.Errorf("export.file_name must not be empty")
	}
	return nil
}

func (c Config) resolveStorePath() string {
	path := c.Store.Path
	if path == "" {
		switch c.Store.Driver {
		case "sqlite":
			path = "tasktrack.sqlite"
		case "file":
			path = "storage.json"
		default:
			path = "tasktrack.db"
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.DataDir, path)
	}
	return path
}

// Marshal renders the effective configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return raw, nil
}

// Schema describes config.yaml for editors and validation tooling.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Config{})
	schema.Title = "tasktrack configuration"
	schema.Description = "Schema for <data-dir>/config.yaml."
	return schema
}

// Duration is a time.Duration written as a Go duration string ("5m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Go duration string, for example 30s or 5m.",
		Examples:    []any{"30s", "5m"},
	}
}
