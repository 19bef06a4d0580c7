package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"monosig/internal/domain"
)

// Config holds all configuration for the signature generator.
type Config struct {
	Headers  HeadersConfig  `yaml:"headers"`
	Parse    ParseConfig    `yaml:"parse"`
	Classify ClassifyConfig `yaml:"classify"`
	Output   OutputConfig   `yaml:"output"`
	Cache    CacheConfig    `yaml:"cache"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HeadersConfig selects the input headers.
type HeadersConfig struct {
	Dir      string   `yaml:"dir"`      // relative to the root directory
	Includes []string `yaml:"includes"` // doublestar patterns, relative to Dir
	Excludes []string `yaml:"excludes"`
}

// ParseConfig describes the library's export conventions.
type ParseConfig struct {
	ExportMarker string   `yaml:"export_marker"`
	NamePrefixes []string `yaml:"name_prefixes"`
	MacroPrefix  string   `yaml:"macro_prefix"`
}

// ClassifyConfig extends the built-in type tables.
type ClassifyConfig struct {
	Aliases map[string]string `yaml:"aliases"` // type spelling -> category
}

// OutputConfig controls the generated artifact.
type OutputConfig struct {
	Path       string `yaml:"path"`   // relative to the root directory
	Format     string `yaml:"format"` // "typescript", "json", "go"
	TypeName   string `yaml:"type_name"`
	TypeImport string `yaml:"type_import"`
	ConstName  string `yaml:"const_name"`
	GoPackage  string `yaml:"go_package"`
}

type CacheConfig struct {
	Enabled  bool `yaml:"enabled"`
	MaxTypes int  `yaml:"max_types"`
}

type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "quiet"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Headers: HeadersConfig{
			Dir:      "data/include",
			Includes: []string{"*.h"},
			Excludes: []string{},
		},
		Parse: ParseConfig{
			ExportMarker: "MONO_API",
			NamePrefixes: []string{"mono", "monoeg"},
			MacroPrefix:  "MONO_",
		},
		Classify: ClassifyConfig{
			Aliases: map[string]string{},
		},
		Output: OutputConfig{
			Path:       "src/runtime/signatures/generated.ts",
			Format:     "typescript",
			TypeName:   "MonoExportSignature",
			TypeImport: "./types.js",
			ConstName:  "GENERATED_SIGNATURES",
			GoPackage:  "signatures",
		},
		Cache: CacheConfig{
			Enabled:  true,
			MaxTypes: 1024,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var (
	outputFormats = map[string]bool{"typescript": true, "json": true, "go": true}
	logLevels     = map[string]bool{"debug": true, "info": true, "quiet": true}
)

// Validate checks settings that would otherwise fail late in a run.
func (c *Config) Validate() error {
	if c.Parse.ExportMarker == "" {
		return fmt.Errorf("parse.export_marker must be set")
	}
	if c.Parse.MacroPrefix == "" {
		return fmt.Errorf("parse.macro_prefix must be set")
	}
	if len(c.Parse.NamePrefixes) == 0 {
		return fmt.Errorf("parse.name_prefixes must list at least one prefix")
	}
	if !outputFormats[c.Output.Format] {
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must be set")
	}
	if c.Logging.Level != "" && !logLevels[c.Logging.Level] {
		return fmt.Errorf("unsupported logging level: %s", c.Logging.Level)
	}
	if _, err := c.Classify.Categories(); err != nil {
		return err
	}
	return nil
}

// Categories resolves the alias table into marshal categories.
func (c ClassifyConfig) Categories() (map[string]domain.Category, error) {
	out := make(map[string]domain.Category, len(c.Aliases))
	for typeName, name := range c.Aliases {
		cat, ok := domain.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("classify.aliases: unknown category %q for type %q", name, typeName)
		}
		out[typeName] = cat
	}
	return out, nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for monosig.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, StateDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

const (
	FileName = "monosig.yaml"
	StateDir = ".monosig"
)

// CacheDBPath returns the path to the extraction cache database.
func CacheDBPath(dir string) string {
	return filepath.Join(dir, StateDir, "cache.db")
}

// EnsureStateDir ensures the .monosig directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, StateDir), 0755)
}

// Resolve joins p onto root unless p is already absolute.
func Resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
