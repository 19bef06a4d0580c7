// Package crosscheck re-reads headers with the tree-sitter C grammar and
// compares the parameter counts it finds against a signature registry.
package crosscheck

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"monosig/internal/domain"
)

// Prototype is a function declaration recognised by the C grammar.
type Prototype struct {
	Name     string
	Arity    int
	Variadic bool
	Line     int
}

// Source is one header's path and contents.
type Source struct {
	Path    string
	Content []byte
}

// Mismatch records a function whose grammar arity differs from the registry.
type Mismatch struct {
	Name     string
	File     string
	Line     int
	Registry int
	Grammar  int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s:%d: %s has %d parameters, registry has %d", m.File, m.Line, m.Name, m.Grammar, m.Registry)
}

// Report summarises a cross-check run.
type Report struct {
	Checked    int
	Mismatches []Mismatch
	// Missing lists registry names the grammar never saw declared.
	Missing []string
}

// OK reports whether every registry entry was found with a matching arity.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0 && len(r.Missing) == 0
}

type Checker struct {
	language *sitter.Language
	macroRe  *regexp.Regexp
}

// NewChecker creates a checker that blanks out identifiers starting with
// macroPrefix before parsing, since the grammar cannot expand them.
func NewChecker(macroPrefix string) (*Checker, error) {
	if strings.TrimSpace(macroPrefix) == "" {
		return nil, fmt.Errorf("macro prefix must not be empty")
	}
	macroRe, err := regexp.Compile(`\b` + regexp.QuoteMeta(macroPrefix) + `[A-Z0-9_]+\b`)
	if err != nil {
		return nil, fmt.Errorf("invalid macro prefix %q: %w", macroPrefix, err)
	}
	return &Checker{
		language: sitter.NewLanguage(c.Language()),
		macroRe:  macroRe,
	}, nil
}

// Prototypes returns the function prototypes declared in source, in order.
func (ch *Checker) Prototypes(source []byte) []Prototype {
	// Same-length blanking keeps byte offsets and line numbers intact.
	blanked := ch.macroRe.ReplaceAllFunc(source, func(m []byte) []byte {
		return []byte(strings.Repeat(" ", len(m)))
	})

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(ch.language)

	tree := parser.Parse(blanked, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var protos []Prototype
	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_definition", "compound_statement":
			return false
		case "declaration":
			if p, ok := prototype(n, blanked); ok {
				protos = append(protos, p)
			}
			return false
		}
		return true
	})
	return protos
}

// Check compares reg against the prototypes found in sources. Sources are
// visited in the order given; the first prototype seen for a name is the
// one compared, matching how the registry was merged.
func (ch *Checker) Check(reg *domain.Registry, sources []Source) *Report {
	type located struct {
		Prototype
		file string
	}
	seen := make(map[string]located)
	for _, src := range sources {
		for _, p := range ch.Prototypes(src.Content) {
			if _, exists := seen[p.Name]; !exists {
				seen[p.Name] = located{Prototype: p, file: src.Path}
			}
		}
	}

	report := &Report{}
	for _, sig := range reg.Entries() {
		p, ok := seen[sig.Name]
		if !ok {
			report.Missing = append(report.Missing, sig.Name)
			continue
		}
		report.Checked++
		if p.Arity != len(sig.ArgTypes) {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Name:     sig.Name,
				File:     p.file,
				Line:     p.Line,
				Registry: len(sig.ArgTypes),
				Grammar:  p.Arity,
			})
		}
	}
	sort.Strings(report.Missing)
	return report
}

// prototype extracts the function declarator of a declaration node, looking
// through pointer declarators for functions returning pointers.
func prototype(node *sitter.Node, source []byte) (Prototype, bool) {
	decl := node.ChildByFieldName("declarator")
	for decl != nil && decl.Kind() == "pointer_declarator" {
		decl = decl.ChildByFieldName("declarator")
	}
	if decl == nil || decl.Kind() != "function_declarator" {
		return Prototype{}, false
	}

	nameNode := decl.ChildByFieldName("declarator")
	if nameNode == nil || nameNode.Kind() != "identifier" {
		return Prototype{}, false
	}
	params := decl.ChildByFieldName("parameters")
	if params == nil {
		return Prototype{}, false
	}

	p := Prototype{
		Name: nodeText(nameNode, source),
		Line: int(node.StartPosition().Row) + 1,
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(uint(i))
		switch child.Kind() {
		case "parameter_declaration":
			if strings.TrimSpace(nodeText(child, source)) == "void" {
				continue
			}
			p.Arity++
		case "variadic_parameter":
			p.Variadic = true
		}
	}
	return p, true
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}
