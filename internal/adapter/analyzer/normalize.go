package analyzer

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe     = regexp.MustCompile(`\s+`)
	structEnumRe     = regexp.MustCompile(`\b(struct|enum)\b\s*`)
	qualifierRe      = regexp.MustCompile(`\b(const|volatile|restrict)\b`)
	pointerSpacingRe = regexp.MustCompile(`\s*\*\s*`)
	arrayRe          = regexp.MustCompile(`\[[^\]]*\]`)
	defaultValueRe   = regexp.MustCompile(`\s*=\s*[^,]+$`)
)

// NormalizeType canonicalizes a type spelling: qualifiers and struct/enum
// keywords are dropped and pointer stars are glued to the preceding token.
// Token order is preserved.
func NormalizeType(typeName string) string {
	value := strings.TrimSpace(typeName)
	value = qualifierRe.ReplaceAllString(value, " ")
	value = structEnumRe.ReplaceAllString(value, "")
	value = collapsePointers(value)
	return collapseSpace(value)
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func collapsePointers(s string) string {
	return pointerSpacingRe.ReplaceAllString(s, "*")
}
