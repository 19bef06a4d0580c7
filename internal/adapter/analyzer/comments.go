package analyzer

import "regexp"

var (
	blockCommentRe = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	// A "//" directly after ':' is left alone so scope-qualified tokens survive.
	lineCommentRe = regexp.MustCompile(`(?m)([^:]|^)//.*$`)
)

// StripComments replaces block comments with a single space and removes
// line comments up to the end of the line.
func StripComments(source string) string {
	withoutBlock := blockCommentRe.ReplaceAllString(source, " ")
	return lineCommentRe.ReplaceAllString(withoutBlock, "${1}")
}
