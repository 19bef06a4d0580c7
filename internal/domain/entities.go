package domain

import "time"

// Category is the marshaling class a native value is boxed into when it
// crosses the language boundary.
type Category string

const (
	CategoryVoid    Category = "void"
	CategoryBool    Category = "bool"
	CategoryChar    Category = "char"
	CategoryUChar   Category = "uchar"
	CategoryInt     Category = "int"
	CategoryUInt    Category = "uint"
	CategoryLong    Category = "long"
	CategoryULong   Category = "ulong"
	CategoryInt64   Category = "int64"
	CategoryUInt64  Category = "uint64"
	CategoryFloat   Category = "float"
	CategoryDouble  Category = "double"
	CategorySizeT   Category = "size_t"
	CategoryPointer Category = "pointer"
)

var categories = []Category{
	CategoryVoid, CategoryBool, CategoryChar, CategoryUChar,
	CategoryInt, CategoryUInt, CategoryLong, CategoryULong,
	CategoryInt64, CategoryUInt64, CategoryFloat, CategoryDouble,
	CategorySizeT, CategoryPointer,
}

// Categories returns the closed set of marshal categories.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory returns the category spelled s, or false if s names none.
func ParseCategory(s string) (Category, bool) {
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type HeaderFile struct {
	Path    string
	RelPath string
	ModTime time.Time
	Size    int64
}

// FunctionDecl is a parsed declaration before its types are classified.
type FunctionDecl struct {
	Name       string   `json:"name"`
	ReturnType string   `json:"return_type"`
	Parameters []string `json:"parameters"`
}

// FileExtraction is everything the classifier needs from one header.
type FileExtraction struct {
	Path    string         `json:"path"`
	Hash    string         `json:"hash"`
	Enums   []string       `json:"enums"`
	Decls   []FunctionDecl `json:"decls"`
	Dropped int            `json:"dropped"`
}

type Signature struct {
	Name     string     `json:"name"`
	RetType  Category   `json:"retType"`
	ArgTypes []Category `json:"argTypes"`
}
