package port

import "monosig/internal/domain"

// ExtractionStore caches per-header extraction results between runs.
type ExtractionStore interface {
	GetExtraction(file domain.HeaderFile) (domain.FileExtraction, bool, error)

	PutExtraction(file domain.HeaderFile, ext domain.FileExtraction) error

	Prune(keep []domain.HeaderFile) (int, error)
}
