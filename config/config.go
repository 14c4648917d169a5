package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the environment variable consulted for a config file
// when none is given on the command line.
const EnvConfigFile = "NOTES_CONFIG"

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	// DefaultGzipLevel selects the compressor's default level.
	DefaultGzipLevel = -1
)

// Config contains the runtime settings of the notes command.
type Config struct {
	LogLevel  string // trace, debug, info, warn or error (Default warn)
	LogFormat string // text, json or color (Default text)

	CreateParents bool // copyin declares a missing parent directory (Default false)
	Overwrite     bool // copyin replaces an existing file (Default false)
	AutoBinary    bool // copyin base64 encodes host files that are not text (Default true)
	ShowDeleted   bool // list includes tombstones (Default false)

	GzipLevel int // Compression level for .notes.gz containers, -1 to 9 (Default -1)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Config] for field
// descriptions.
type ConfigOverride struct {
	LogLevel      *string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFormat     *string `yaml:"log_format,omitempty" json:"log_format,omitempty"`
	CreateParents *bool   `yaml:"create_parents,omitempty" json:"create_parents,omitempty"`
	Overwrite     *bool   `yaml:"overwrite,omitempty" json:"overwrite,omitempty"`
	AutoBinary    *bool   `yaml:"auto_binary,omitempty" json:"auto_binary,omitempty"`
	ShowDeleted   *bool   `yaml:"show_deleted,omitempty" json:"show_deleted,omitempty"`
	GzipLevel     *int    `yaml:"gzip_level,omitempty" json:"gzip_level,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
		AutoBinary: true,
		GzipLevel:  DefaultGzipLevel,
	}
}

// Merge applies non-nil values from override onto this Config.
func (c *Config) Merge(override *ConfigOverride) {
	if override == nil {
		return
	}
	if override.LogLevel != nil {
		c.LogLevel = *override.LogLevel
	}
	if override.LogFormat != nil {
		c.LogFormat = *override.LogFormat
	}
	if override.CreateParents != nil {
		c.CreateParents = *override.CreateParents
	}
	if override.Overwrite != nil {
		c.Overwrite = *override.Overwrite
	}
	if override.AutoBinary != nil {
		c.AutoBinary = *override.AutoBinary
	}
	if override.ShowDeleted != nil {
		c.ShowDeleted = *override.ShowDeleted
	}
	if override.GzipLevel != nil {
		c.GzipLevel = *override.GzipLevel
	}
}

// Validate rejects settings the command cannot act on.
func (c *Config) Validate() error {
	if c.GzipLevel < -1 || c.GzipLevel > 9 {
		return errors.Errorf("gzip level %d out of range -1..9", c.GzipLevel)
	}
	switch c.LogFormat {
	case "text", "json", "color":
	default:
		return errors.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without
// merging. Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(fsys afero.Fs, path string) (*ConfigOverride, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	var override ConfigOverride
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal config file")
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal config file")
		}
	default:
		return nil, errors.Errorf("unknown config file extension: %s", path)
	}
	return &override, nil
}

// Load builds the effective configuration: defaults, overridden by the file
// at path, or by the file named in $NOTES_CONFIG when path is empty.
func Load(fsys afero.Fs, path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		override, err := LoadConfigOverrideFile(fsys, path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(override)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}
