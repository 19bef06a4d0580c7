package usecase

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"monosig/internal/adapter/analyzer"
	"monosig/internal/adapter/cache"
	"monosig/internal/domain"
	"monosig/internal/port"
)

// GenerateUseCase turns a header directory into a signature registry.
type GenerateUseCase struct {
	source   port.HeaderSource
	analyzer *analyzer.Analyzer
	store    port.ExtractionStore
	cache    *cache.CategoryCache
	aliases  map[string]domain.Category
	logger   *log.Logger
	progress func(done, total int)

	// enumKey identifies the enum set the category cache was filled under.
	enumKey string
}

// NewGenerateUseCase creates a new generate use case. store may be nil to
// disable the extraction cache.
func NewGenerateUseCase(
	source port.HeaderSource,
	analyzer *analyzer.Analyzer,
	store port.ExtractionStore,
	categories *cache.CategoryCache,
	aliases map[string]domain.Category,
) *GenerateUseCase {
	if categories == nil {
		categories = cache.NewCategoryCache(0)
	}
	return &GenerateUseCase{
		source:   source,
		analyzer: analyzer,
		store:    store,
		cache:    categories,
		aliases:  aliases,
		logger:   log.New(io.Discard, "", 0),
	}
}

// SetLogger routes per-file debug lines to logger.
func (u *GenerateUseCase) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	u.logger = logger
}

// SetProgress registers a callback invoked after each header is extracted.
func (u *GenerateUseCase) SetProgress(fn func(done, total int)) {
	u.progress = fn
}

// GenerateResult contains the results of a generate run.
type GenerateResult struct {
	Registry     *domain.Registry
	Enums        domain.EnumSet
	FilesScanned int
	FilesCached  int
	Dropped      int
	Duplicates   int
	Errors       []string
}

// Run extracts every header under root and builds the registry. Extraction
// finishes for all files before any type is classified, so an enum declared
// in a later file still resolves in an earlier one.
func (u *GenerateUseCase) Run(root string) (*GenerateResult, error) {
	files, err := u.source.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	result := &GenerateResult{Registry: domain.NewRegistry()}
	extractions := make([]domain.FileExtraction, 0, len(files))

	for i, file := range files {
		ext, cached, err := u.extract(file)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to read %s: %v", file.RelPath, err))
		} else {
			if cached {
				result.FilesCached++
			}
			result.FilesScanned++
			result.Dropped += ext.Dropped
			extractions = append(extractions, ext)
			u.logger.Printf("%s: %d declarations, %d enums, %d dropped (cached=%t)",
				file.RelPath, len(ext.Decls), len(ext.Enums), ext.Dropped, cached)
		}
		if u.progress != nil {
			u.progress(i+1, len(files))
		}
	}

	if u.store != nil {
		pruned, err := u.store.Prune(files)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to prune cache: %v", err))
		} else if pruned > 0 {
			u.logger.Printf("pruned %d stale cache entries", pruned)
		}
	}

	var enumNames []string
	for _, ext := range extractions {
		enumNames = append(enumNames, ext.Enums...)
	}
	result.Enums = domain.NewEnumSet(enumNames...)
	u.resetCacheFor(result.Enums)

	classifier := cache.NewCachedClassifier(analyzer.NewClassifier(result.Enums, u.aliases), u.cache)
	for _, ext := range extractions {
		for _, decl := range ext.Decls {
			if !result.Registry.Add(analyzer.Signature(classifier.Classify, decl)) {
				result.Duplicates++
				u.logger.Printf("%s: duplicate declaration of %s ignored", ext.Path, decl.Name)
			}
		}
	}

	return result, nil
}

// extract returns the cached extraction for file when it is still fresh,
// and parses the header otherwise.
func (u *GenerateUseCase) extract(file domain.HeaderFile) (domain.FileExtraction, bool, error) {
	if u.store != nil {
		ext, fresh, err := u.store.GetExtraction(file)
		if err != nil {
			u.logger.Printf("%s: cache lookup failed: %v", file.RelPath, err)
		} else if fresh {
			return ext, true, nil
		}
	}

	content, err := u.source.ReadFile(file.Path)
	if err != nil {
		return domain.FileExtraction{}, false, err
	}

	ext := u.analyzer.Extract(filepath.ToSlash(file.RelPath), content)
	if u.store != nil {
		if err := u.store.PutExtraction(file, ext); err != nil {
			u.logger.Printf("%s: cache write failed: %v", file.RelPath, err)
		}
	}
	return ext, false, nil
}

func (u *GenerateUseCase) resetCacheFor(enums domain.EnumSet) {
	key := strings.Join(enums.Names(), ",")
	if key != u.enumKey {
		u.cache.Invalidate()
		u.enumKey = key
	}
}
