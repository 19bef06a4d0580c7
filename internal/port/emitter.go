package port

import "monosig/internal/domain"

// Emitter renders a registry into the bytes of a generated source file.
// Output must depend only on the registry contents.
type Emitter interface {
	Emit(reg *domain.Registry) ([]byte, error)

	// Format names the artifact format, e.g. "typescript".
	Format() string
}

// Classifier maps a normalized type spelling to its marshal category.
type Classifier interface {
	Classify(typeName string) domain.Category
}
