package memstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"monosig/internal/domain"
)

// MemoryStore holds headers and their cached extractions in memory. It
// serves as both the header source and the extraction store where no
// filesystem is available.
type MemoryStore struct {
	mu          sync.RWMutex
	headers     map[string]memHeader
	extractions map[string]cachedExtraction
}

type memHeader struct {
	content string
	modTime time.Time
}

type cachedExtraction struct {
	modTime time.Time
	size    int64
	ext     domain.FileExtraction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		headers:     make(map[string]memHeader),
		extractions: make(map[string]cachedExtraction),
	}
}

// PutHeader adds or replaces the header stored under name.
func (s *MemoryStore) PutHeader(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers[name] = memHeader{content: content, modTime: time.Now()}
}

func (s *MemoryStore) DeleteHeader(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.headers, name)
}

// Clear drops every header and cached extraction.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers = make(map[string]memHeader)
	s.extractions = make(map[string]cachedExtraction)
}

// Walk returns the headers whose names start with root, ordered by name.
// An empty root selects every header.
func (s *MemoryStore) Walk(root string) ([]domain.HeaderFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := strings.TrimSuffix(root, "/")
	if prefix != "" {
		prefix += "/"
	}

	files := make([]domain.HeaderFile, 0, len(s.headers))
	for name, h := range s.headers {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		files = append(files, domain.HeaderFile{
			Path:    name,
			RelPath: strings.TrimPrefix(name, prefix),
			ModTime: h.modTime,
			Size:    int64(len(h.content)),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	return files, nil
}

func (s *MemoryStore) ReadFile(path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.headers[path]
	if !ok {
		return "", fmt.Errorf("header not found: %s", path)
	}
	return strings.ToValidUTF8(h.content, ""), nil
}

func (s *MemoryStore) GetExtraction(file domain.HeaderFile) (domain.FileExtraction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.extractions[file.Path]
	if !ok || !c.modTime.Equal(file.ModTime) || c.size != file.Size {
		return domain.FileExtraction{}, false, nil
	}
	return c.ext, true, nil
}

func (s *MemoryStore) PutExtraction(file domain.HeaderFile, ext domain.FileExtraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractions[file.Path] = cachedExtraction{
		modTime: file.ModTime,
		size:    file.Size,
		ext:     ext,
	}
	return nil
}

// Prune drops cached extractions for headers not in keep.
func (s *MemoryStore) Prune(keep []domain.HeaderFile) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]bool, len(keep))
	for _, f := range keep {
		live[f.Path] = true
	}
	removed := 0
	for path := range s.extractions {
		if !live[path] {
			delete(s.extractions, path)
			removed++
		}
	}
	return removed, nil
}

// Stats returns the number of stored headers and cached extractions.
func (s *MemoryStore) Stats() (headers, cached int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.headers), len(s.extractions)
}
