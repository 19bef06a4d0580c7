package port

import "monosig/internal/domain"

// HeaderSource lists the headers under a root and reads their contents.
// Walk must return headers ordered by RelPath.
type HeaderSource interface {
	Walk(root string) ([]domain.HeaderFile, error)

	ReadFile(path string) (string, error)
}
