package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"monosig/internal/domain"
)

var (
	bucketFiles = []byte("files")
	bucketStats = []byte("stats")
)

// BoltStore caches per-header extraction results between runs, keyed by
// the header's relative path.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketFiles, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type fileMeta struct {
	ModTime int64                 `json:"mod_time"`
	Size    int64                 `json:"size"`
	Hash    string                `json:"hash"`
	Enums   []string              `json:"enums"`
	Decls   []domain.FunctionDecl `json:"decls"`
	Dropped int                   `json:"dropped"`
}

// GetExtraction returns the cached extraction for file when its size and
// modification time are unchanged since it was stored.
func (s *BoltStore) GetExtraction(file domain.HeaderFile) (domain.FileExtraction, bool, error) {
	var (
		ext   domain.FileExtraction
		fresh bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(file.RelPath))
		if data == nil {
			return nil
		}
		var meta fileMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("corrupt cache entry for %s: %w", file.RelPath, err)
		}
		if meta.ModTime != file.ModTime.UnixNano() || meta.Size != file.Size {
			return nil
		}
		fresh = true
		ext = domain.FileExtraction{
			Path:    file.RelPath,
			Hash:    meta.Hash,
			Enums:   meta.Enums,
			Decls:   meta.Decls,
			Dropped: meta.Dropped,
		}
		return nil
	})
	return ext, fresh, err
}

func (s *BoltStore) PutExtraction(file domain.HeaderFile, ext domain.FileExtraction) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := fileMeta{
			ModTime: file.ModTime.UnixNano(),
			Size:    file.Size,
			Hash:    ext.Hash,
			Enums:   ext.Enums,
			Decls:   ext.Decls,
			Dropped: ext.Dropped,
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketFiles).Put([]byte(file.RelPath), data)
	})
}

// Prune deletes cache entries for headers that are no longer present and
// returns how many were removed.
func (s *BoltStore) Prune(keep []domain.HeaderFile) (int, error) {
	present := make(map[string]bool, len(keep))
	for _, f := range keep {
		present[f.RelPath] = true
	}

	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		var stale [][]byte
		if err := b.ForEach(func(k, _ []byte) error {
			if !present[string(k)] {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// ListPaths returns the relative paths that have cache entries.
func (s *BoltStore) ListPaths() ([]string, error) {
	var paths []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).ForEach(func(k, _ []byte) error {
			paths = append(paths, string(k))
			return nil
		})
	})
	return paths, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
