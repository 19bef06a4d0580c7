package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Parse.ExportMarker != "MONO_API" {
		t.Errorf("expected ExportMarker=MONO_API, got %s", cfg.Parse.ExportMarker)
	}
	if len(cfg.Parse.NamePrefixes) != 2 {
		t.Errorf("expected 2 name prefixes, got %v", cfg.Parse.NamePrefixes)
	}
	if cfg.Output.Format != "typescript" {
		t.Errorf("expected Format=typescript, got %s", cfg.Output.Format)
	}
	if cfg.Headers.Dir != "data/include" {
		t.Errorf("expected Dir=data/include, got %s", cfg.Headers.Dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/monosig.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	content := `
headers:
  dir: include
  includes: ["**/*.h"]
output:
  format: json
  path: out/signatures.json
classify:
  aliases:
    MonoHandle32: uint
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Headers.Dir != "include" {
		t.Errorf("expected Dir=include, got %s", cfg.Headers.Dir)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected Format=json, got %s", cfg.Output.Format)
	}
	if cfg.Classify.Aliases["MonoHandle32"] != "uint" {
		t.Errorf("expected alias MonoHandle32=uint, got %v", cfg.Classify.Aliases)
	}
	// Unset sections keep their defaults.
	if cfg.Parse.ExportMarker != "MONO_API" {
		t.Errorf("expected default ExportMarker, got %s", cfg.Parse.ExportMarker)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("output: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, StateDir), 0755); err != nil {
		t.Fatal(err)
	}

	content := `
parse:
  export_marker: MY_API
`
	if err := os.WriteFile(filepath.Join(tmpDir, StateDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Parse.ExportMarker != "MY_API" {
		t.Errorf("expected ExportMarker=MY_API, got %s", cfg.Parse.ExportMarker)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg := DefaultConfig()
	cfg.Output.Format = "go"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Output.Format != "go" {
		t.Errorf("expected Format=go, got %s", loaded.Output.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"format", func(c *Config) { c.Output.Format = "xml" }},
		{"marker", func(c *Config) { c.Parse.ExportMarker = "" }},
		{"macro", func(c *Config) { c.Parse.MacroPrefix = "" }},
		{"prefixes", func(c *Config) { c.Parse.NamePrefixes = nil }},
		{"path", func(c *Config) { c.Output.Path = "" }},
		{"logging", func(c *Config) { c.Logging.Level = "verbose" }},
		{"alias", func(c *Config) { c.Classify.Aliases = map[string]string{"MonoFoo": "handle"} }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestClassifyConfig_Categories(t *testing.T) {
	cfg := ClassifyConfig{Aliases: map[string]string{"MonoBoolean": "bool", "gunichar2": "uint"}}

	cats, err := cfg.Categories()
	if err != nil {
		t.Fatal(err)
	}
	if cats["MonoBoolean"] != "bool" || cats["gunichar2"] != "uint" {
		t.Errorf("unexpected categories: %v", cats)
	}
}

func TestCacheDBPath(t *testing.T) {
	path := CacheDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".monosig", "cache.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
