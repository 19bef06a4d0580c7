package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"monosig/internal/domain"
)

// Options selects the library namespace the analyzer extracts.
type Options struct {
	// ExportMarker is the annotation that precedes every exported declaration.
	ExportMarker string
	// NamePrefixes filters declarations to the library's own symbols.
	NamePrefixes []string
	// MacroPrefix identifies all-caps annotation macros to drop, e.g. "MONO_".
	MacroPrefix string
}

func DefaultOptions() Options {
	return Options{
		ExportMarker: "MONO_API",
		NamePrefixes: []string{"mono", "monoeg"},
		MacroPrefix:  "MONO_",
	}
}

// Analyzer extracts enum names and exported declarations from header text.
type Analyzer struct {
	declRe   *regexp.Regexp
	macroRe  *regexp.Regexp
	prefixes []string
}

func New(opts Options) (*Analyzer, error) {
	if strings.TrimSpace(opts.ExportMarker) == "" {
		return nil, errors.New("export marker must not be empty")
	}
	if strings.TrimSpace(opts.MacroPrefix) == "" {
		return nil, errors.New("macro prefix must not be empty")
	}

	declRe, err := regexp.Compile(`\b` + regexp.QuoteMeta(opts.ExportMarker) + `\s+([\s\S]*?);`)
	if err != nil {
		return nil, fmt.Errorf("invalid export marker %q: %w", opts.ExportMarker, err)
	}
	macroRe, err := regexp.Compile(`\b` + regexp.QuoteMeta(opts.MacroPrefix) + `[A-Z0-9_]+\b`)
	if err != nil {
		return nil, fmt.Errorf("invalid macro prefix %q: %w", opts.MacroPrefix, err)
	}

	return &Analyzer{
		declRe:   declRe,
		macroRe:  macroRe,
		prefixes: append([]string(nil), opts.NamePrefixes...),
	}, nil
}

// Extract strips comments from content, then collects its enum typedef names
// and the exported declarations whose names carry a recognised prefix.
// Declarations that cannot be parsed are counted in Dropped.
func (a *Analyzer) Extract(path, content string) domain.FileExtraction {
	sanitized := StripComments(content)

	result := domain.FileExtraction{
		Path:  path,
		Hash:  ContentHash(content),
		Enums: CollectEnumTypes(sanitized),
	}

	for _, body := range a.ScanDeclarations(sanitized) {
		decl, ok := a.ParseDeclaration(body)
		if !ok {
			result.Dropped++
			continue
		}
		if !a.hasPrefix(decl.Name) {
			continue
		}
		result.Decls = append(result.Decls, decl)
	}

	return result
}

// ScanDeclarations returns the text between each export marker and the next ';'.
func (a *Analyzer) ScanDeclarations(source string) []string {
	matches := a.declRe.FindAllStringSubmatch(source, -1)
	bodies := make([]string, 0, len(matches))
	for _, m := range matches {
		bodies = append(bodies, m[1])
	}
	return bodies
}

func (a *Analyzer) hasPrefix(name string) bool {
	for _, p := range a.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ContentHash identifies header content in the extraction cache.
func ContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:8])
}
