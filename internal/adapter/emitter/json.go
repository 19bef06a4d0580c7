package emitter

import (
	"encoding/json"

	"monosig/internal/domain"
)

type JSONEmitter struct{}

func NewJSONEmitter() *JSONEmitter {
	return &JSONEmitter{}
}

func (e *JSONEmitter) Format() string {
	return "json"
}

type jsonDocument struct {
	GeneratedBy string                      `json:"generated_by"`
	Count       int                         `json:"count"`
	Signatures  map[string]domain.Signature `json:"signatures"`
}

// Emit writes an indented JSON document. encoding/json sorts map keys, so
// the signatures object is ordered by name.
func (e *JSONEmitter) Emit(reg *domain.Registry) ([]byte, error) {
	doc := jsonDocument{
		GeneratedBy: GeneratedBy,
		Count:       reg.Len(),
		Signatures:  make(map[string]domain.Signature, reg.Len()),
	}
	for _, sig := range reg.Entries() {
		if sig.ArgTypes == nil {
			sig.ArgTypes = []domain.Category{}
		}
		doc.Signatures[sig.Name] = sig
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
