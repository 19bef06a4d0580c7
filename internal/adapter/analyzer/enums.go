package analyzer

import "regexp"

var enumTypedefRe = regexp.MustCompile(`typedef\s+enum\b[^{}]*\{[\s\S]*?\}\s*(\w+)\s*;`)

// CollectEnumTypes returns the names introduced by `typedef enum {...} Name;`
// constructs, in source order. Duplicates are kept; callers fold them into a
// domain.EnumSet.
func CollectEnumTypes(source string) []string {
	var names []string
	for _, m := range enumTypedefRe.FindAllStringSubmatch(source, -1) {
		names = append(names, m[1])
	}
	return names
}
