// Package config loads zigdoc's project configuration from .zigdoc/config.{json,toml,yaml}.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// Dir is the per-project directory holding config and the index.
	Dir = ".zigdoc"
	// FileName is the file `config init` writes.
	FileName = "config.toml"
	// EnvPrefix prefixes environment overrides, e.g. ZIGDOC_EXTRACT_EMISSION.
	EnvPrefix = "ZIGDOC"
	// CurrentVersion is the only schema version understood.
	CurrentVersion = 1
)

// Config represents the complete zigdoc configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version" toml:"version" yaml:"version"`

	Extract ExtractConfig `json:"extract" mapstructure:"extract" toml:"extract" yaml:"extract"`
	Collect CollectConfig `json:"collect" mapstructure:"collect" toml:"collect" yaml:"collect"`
	Output  OutputConfig  `json:"output" mapstructure:"output" toml:"output" yaml:"output"`
	Store   StoreConfig   `json:"store" mapstructure:"store" toml:"store" yaml:"store"`
	Serve   ServeConfig   `json:"serve" mapstructure:"serve" toml:"serve" yaml:"serve"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging" toml:"logging" yaml:"logging"`

	// File is the config file that was read, empty when defaults were used.
	File string `json:"-" mapstructure:"-" toml:"-" yaml:"-"`
}

// ExtractConfig controls what the extractor emits
type ExtractConfig struct {
	Emission      string `json:"emission" mapstructure:"emission" toml:"emission" yaml:"emission" validate:"oneof=documented all"`
	ImportBuiltin string `json:"importBuiltin" mapstructure:"importBuiltin" toml:"importBuiltin" yaml:"importBuiltin" validate:"required,startswith=@"`
}

// CollectConfig controls directory walking
type CollectConfig struct {
	Include []string `json:"include" mapstructure:"include" toml:"include" yaml:"include" validate:"required,min=1,dive,required"`
	Exclude []string `json:"exclude" mapstructure:"exclude" toml:"exclude" yaml:"exclude" validate:"dive,required"`
	// Workers bounds concurrent parses; 0 means GOMAXPROCS.
	Workers int `json:"workers" mapstructure:"workers" toml:"workers" yaml:"workers" validate:"gte=0,lte=256"`
}

// OutputConfig contains rendering defaults
type OutputConfig struct {
	Format       string `json:"format" mapstructure:"format" toml:"format" yaml:"format" validate:"oneof=json yaml toml markdown html scip"`
	HeadingLevel int    `json:"headingLevel" mapstructure:"headingLevel" toml:"headingLevel" yaml:"headingLevel" validate:"min=1,max=6"`
}

// StoreConfig locates the index database
type StoreConfig struct {
	Path string `json:"path" mapstructure:"path" toml:"path" yaml:"path" validate:"required"`
}

// ServeConfig contains HTTP server settings
type ServeConfig struct {
	Addr string `json:"addr" mapstructure:"addr" toml:"addr" yaml:"addr" validate:"required,hostname_port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format" toml:"format" yaml:"format" validate:"oneof=human json"`
	Level  string `json:"level" mapstructure:"level" toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Extract: ExtractConfig{
			Emission:      "documented",
			ImportBuiltin: "@import",
		},
		Collect: CollectConfig{
			Include: []string{"*.zig"},
			Exclude: []string{".zig-cache", "zig-cache", "zig-out", ".git"},
			Workers: 0,
		},
		Output: OutputConfig{
			Format:       "json",
			HeadingLevel: 1,
		},
		Store: StoreConfig{
			Path: filepath.Join(Dir, "zigdoc.db"),
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8765",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <projectRoot>/.zigdoc and applies
// ZIGDOC_* environment overrides. A missing file yields the defaults.
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(projectRoot, Dir))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.normalize()

	return &cfg, nil
}

// normalize folds enumerated values to their canonical spelling, accepting
// the same case and aliases the extractor, renderer and logger accept.
func (c *Config) normalize() {
	c.Extract.Emission = canonical(c.Extract.Emission, nil)
	c.Output.Format = canonical(c.Output.Format, map[string]string{"md": "markdown", "yml": "yaml"})
	c.Logging.Format = canonical(c.Logging.Format, nil)
	c.Logging.Level = canonical(c.Logging.Level, map[string]string{"warning": "warn"})
}

func canonical(s string, aliases map[string]string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if alias, ok := aliases[s]; ok {
		return alias
	}
	return s
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("extract.emission", d.Extract.Emission)
	v.SetDefault("extract.importBuiltin", d.Extract.ImportBuiltin)
	v.SetDefault("collect.include", d.Collect.Include)
	v.SetDefault("collect.exclude", d.Collect.Exclude)
	v.SetDefault("collect.workers", d.Collect.Workers)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.headingLevel", d.Output.HeadingLevel)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Path returns the file `config init` writes for projectRoot.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, FileName)
}

// Save writes the configuration as TOML to .zigdoc/config.toml.
// An existing file is only replaced when overwrite is set.
func (c *Config) Save(projectRoot string, overwrite bool) (string, error) {
	path := Path(projectRoot)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, &ConfigError{Field: "file", Message: path + " already exists"}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, err
	}

	f, err := os.Create(path)
	if err != nil {
		return path, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return path, fmt.Errorf("encode config: %w", err)
	}
	return path, f.Close()
}

// StorePath resolves the store path against projectRoot unless it is absolute.
func (c *Config) StorePath(projectRoot string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(projectRoot, c.Store.Path)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid
// Enumerated values are normalized in place first.
func (c *Config) Validate() error {
	c.normalize()
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	ve := verrs[0]
	field := strings.TrimPrefix(ve.Namespace(), "Config.")
	msg := fmt.Sprintf("failed %q check", ve.Tag())
	if ve.Param() != "" {
		msg = fmt.Sprintf("failed %q check (%s)", ve.Tag(), ve.Param())
	}
	return &ConfigError{Field: field, Message: fmt.Sprintf("%s, got %v", msg, ve.Value())}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
