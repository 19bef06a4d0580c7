package analyzer

import (
	"strconv"
	"strings"

	"monosig/internal/domain"
)

// numberTypes maps canonical (space-free, lower-case) C spellings.
var numberTypes = map[string]domain.Category{
	"void":             domain.CategoryVoid,
	"bool":             domain.CategoryBool,
	"_bool":            domain.CategoryBool,
	"boolean":          domain.CategoryBool,
	"char":             domain.CategoryChar,
	"signedchar":       domain.CategoryInt,
	"unsignedchar":     domain.CategoryUChar,
	"short":            domain.CategoryInt,
	"shortint":         domain.CategoryInt,
	"unsignedshort":    domain.CategoryUInt,
	"unsignedshortint": domain.CategoryUInt,
	"int":              domain.CategoryInt,
	"int32":            domain.CategoryInt,
	"long":             domain.CategoryLong,
	"longint":          domain.CategoryLong,
	"unsignedlong":     domain.CategoryULong,
	"unsignedlongint":  domain.CategoryULong,
	"unsignedint":      domain.CategoryUInt,
	"uint":             domain.CategoryUInt,
	"uint32":           domain.CategoryUInt,
	"int64":            domain.CategoryInt64,
	"unsignedint64":    domain.CategoryUInt64,
	"double":           domain.CategoryDouble,
	"float":            domain.CategoryFloat,
	"size_t":           domain.CategorySizeT,
	"time_t":           domain.CategoryLong,
}

// genericAliases covers the fixed-width and boolean aliases of mono and glib.
var genericAliases = map[string]domain.Category{
	"mono_bool":        domain.CategoryInt,
	"mono_boolean":     domain.CategoryInt,
	"mono_unichar2":    domain.CategoryUInt,
	"gunichar2":        domain.CategoryUInt,
	"gboolean":         domain.CategoryInt,
	"gint":             domain.CategoryInt,
	"guint":            domain.CategoryUInt,
	"gint32":           domain.CategoryInt,
	"guint32":          domain.CategoryUInt,
	"gint16":           domain.CategoryInt,
	"guint16":          domain.CategoryUInt,
	"gint8":            domain.CategoryInt,
	"guint8":           domain.CategoryUInt,
	"mono_string_hash": domain.CategoryUInt,
	"mono_marshaltype": domain.CategoryInt,
}

var pointerSizedInts = map[string]struct{}{
	"intptr_t":  {},
	"uintptr_t": {},
	"ssize_t":   {},
	"gssize":    {},
	"gsize":     {},
	"ptrdiff_t": {},
}

// Classifier maps normalized type spellings to marshal categories. The enum
// set is fixed at construction and must already hold every header's enums.
type Classifier struct {
	enums   domain.EnumSet
	aliases map[string]domain.Category
}

// NewClassifier builds a classifier. extra entries are merged over the
// built-in alias table; their keys are canonicalized the same way lookups are.
func NewClassifier(enums domain.EnumSet, extra map[string]domain.Category) *Classifier {
	aliases := make(map[string]domain.Category, len(genericAliases)+len(extra))
	for k, v := range genericAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		aliases[canonicalize(k)] = v
	}
	return &Classifier{enums: enums, aliases: aliases}
}

func (c *Classifier) Enums() domain.EnumSet {
	return c.enums
}

// Classify returns the category for a normalized type. Unknown types are
// treated as opaque handles and map to pointer.
func (c *Classifier) Classify(typeName string) domain.Category {
	if typeName == "" {
		return domain.CategoryVoid
	}
	// Pointer and array spellings win over every table below.
	if strings.Contains(typeName, "*") || strings.HasSuffix(typeName, "]") {
		return domain.CategoryPointer
	}
	if c.enums.Contains(typeName) {
		return domain.CategoryInt
	}

	canonical := canonicalize(typeName)
	if cat, ok := numberTypes[canonical]; ok {
		return cat
	}
	if cat, ok := c.aliases[canonical]; ok {
		return cat
	}
	if _, ok := pointerSizedInts[canonical]; ok {
		if strings.HasPrefix(canonical, "u") || strings.HasPrefix(canonical, "gsize") {
			return domain.CategorySizeT
		}
		return domain.CategoryLong
	}
	if strings.HasSuffix(canonical, "_t") {
		wide := bitWidth(canonical) > 32
		if strings.HasPrefix(canonical, "u") {
			if wide {
				return domain.CategoryUInt64
			}
			return domain.CategoryUInt
		}
		if wide {
			return domain.CategoryInt64
		}
		return domain.CategoryInt
	}
	return domain.CategoryPointer
}

// Signature normalizes and classifies every type of decl.
func Signature(classify func(string) domain.Category, decl domain.FunctionDecl) domain.Signature {
	args := make([]domain.Category, 0, len(decl.Parameters))
	for _, p := range decl.Parameters {
		args = append(args, classify(NormalizeType(p)))
	}
	return domain.Signature{
		Name:     decl.Name,
		RetType:  classify(NormalizeType(decl.ReturnType)),
		ArgTypes: args,
	}
}

func canonicalize(typeName string) string {
	return strings.ToLower(strings.ReplaceAll(typeName, " ", ""))
}

// bitWidth reads the digits embedded in a type name, e.g. 64 for uint64_t.
// A name without digits has width 0.
func bitWidth(canonical string) int {
	var digits strings.Builder
	for _, ch := range canonical {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		// Only overflow reaches here; that many digits is certainly wide.
		return 64
	}
	return n
}
