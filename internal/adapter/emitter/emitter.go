package emitter

import (
	"fmt"
	"os"
	"path/filepath"

	"monosig/config"
	"monosig/internal/port"
)

// GeneratedBy names the tool in generated-file headers.
const GeneratedBy = "monosig"

// New returns the emitter for cfg.Format.
func New(cfg config.OutputConfig) (port.Emitter, error) {
	switch cfg.Format {
	case "typescript", "":
		return NewTypeScriptEmitter(cfg.TypeName, cfg.TypeImport, cfg.ConstName), nil
	case "json":
		return NewJSONEmitter(), nil
	case "go":
		return NewGoEmitter(cfg.GoPackage, cfg.TypeName, cfg.ConstName), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}

// WriteFile publishes data at path, creating parent directories. The bytes
// go to a temporary file in the same directory that is then renamed over
// path, so readers never observe a partial artifact.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	// Rename to final location (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
