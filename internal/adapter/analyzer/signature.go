package analyzer

import (
	"regexp"
	"strings"

	"monosig/internal/domain"
)

var trailingIdentRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*$`)

// ParseDeclaration splits one exported declaration body into its name,
// return type and raw parameter types. It reports false when the body has no
// parameter list, no trailing identifier before it, or no return type.
func (a *Analyzer) ParseDeclaration(declaration string) (domain.FunctionDecl, bool) {
	text := collapseSpace(declaration)
	text = a.macroRe.ReplaceAllString(text, " ")
	text = structEnumRe.ReplaceAllString(text, "")
	text = collapsePointers(text)
	text = collapseSpace(text)

	open := strings.Index(text, "(")
	if open < 0 || !strings.Contains(text, ")") {
		return domain.FunctionDecl{}, false
	}

	beforeParams := strings.TrimSpace(text[:open])
	tail := text[open+1:]
	if end := strings.LastIndex(tail, ")"); end >= 0 {
		tail = tail[:end]
	}
	paramsRaw := strings.TrimSpace(tail)

	loc := trailingIdentRe.FindStringIndex(beforeParams)
	if loc == nil {
		return domain.FunctionDecl{}, false
	}
	name := beforeParams[loc[0]:loc[1]]
	returnType := strings.TrimSpace(beforeParams[:loc[0]])
	if returnType == "" {
		return domain.FunctionDecl{}, false
	}

	return domain.FunctionDecl{
		Name:       name,
		ReturnType: returnType,
		Parameters: a.parseParameters(paramsRaw),
	}, true
}

func (a *Analyzer) parseParameters(paramText string) []string {
	if paramText == "" || paramText == "void" {
		return nil
	}

	var params []string
	for _, fragment := range SplitParameters(paramText) {
		p := strings.TrimSpace(fragment)
		if p == "" || p == "void" {
			continue
		}
		p = a.macroRe.ReplaceAllString(p, " ")
		p = arrayRe.ReplaceAllString(p, "*")
		p = defaultValueRe.ReplaceAllString(p, "")
		p = qualifierRe.ReplaceAllString(p, " ")
		p = collapsePointers(p)
		p = collapseSpace(p)
		if p == "..." {
			continue
		}

		if typePart := dropParamName(p); typePart != "" {
			params = append(params, typePart)
		}
	}
	return params
}

// dropParamName removes the last token, assumed to be the parameter name,
// unless it is the only token. Stars left on the name by array decay move
// to the type.
func dropParamName(p string) string {
	tokens := strings.Split(p, " ")
	if len(tokens) == 1 {
		return collapsePointers(p)
	}

	last := tokens[len(tokens)-1]
	stars := len(last) - len(strings.TrimRight(last, "*"))
	typePart := strings.Join(tokens[:len(tokens)-1], " ") + strings.Repeat("*", stars)
	return collapsePointers(strings.TrimSpace(typePart))
}

// SplitParameters splits a parameter list on commas that are not nested
// inside parentheses, so function-pointer parameters stay whole.
func SplitParameters(paramText string) []string {
	var (
		params  []string
		current strings.Builder
		depth   int
	)
	for _, ch := range paramText {
		switch {
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			params = append(params, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(ch)
	}
	if current.Len() > 0 {
		params = append(params, current.String())
	}
	return params
}
