package emitter

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
	"unicode"

	"monosig/internal/domain"
)

const goTemplate = `// Code generated by {{.GeneratedBy}}. DO NOT EDIT.

package {{.Package}}

// {{.TypeName}} describes how to marshal a native export's return value
// and arguments.
type {{.TypeName}} struct {
	Name     string
	RetType  string
	ArgTypes []string
}

var {{.VarName}} = map[string]{{.TypeName}}{
{{- range .Entries}}
	{{printf "%q" .Name}}: {Name: {{printf "%q" .Name}}, RetType: {{printf "%q" .RetType}}, ArgTypes: []string{ {{- argList .ArgTypes -}} }},
{{- end}}
}
`

var goTmpl = template.Must(template.New("signatures").Funcs(template.FuncMap{
	"argList": func(args []domain.Category) string {
		quoted := make([]string, len(args))
		for i, a := range args {
			quoted[i] = fmt.Sprintf("%q", string(a))
		}
		return strings.Join(quoted, ", ")
	},
}).Parse(goTemplate))

// GoEmitter writes the registry as a gofmt'd Go source file.
type GoEmitter struct {
	pkg      string
	typeName string
	varName  string
}

func NewGoEmitter(pkg, typeName, constName string) *GoEmitter {
	if pkg == "" {
		pkg = "signatures"
	}
	return &GoEmitter{
		pkg:      pkg,
		typeName: goIdent(typeName, "ExportSignature"),
		varName:  goIdent(constName, "GeneratedSignatures"),
	}
}

func (e *GoEmitter) Format() string {
	return "go"
}

func (e *GoEmitter) Emit(reg *domain.Registry) ([]byte, error) {
	data := struct {
		GeneratedBy string
		Package     string
		TypeName    string
		VarName     string
		Entries     []domain.Signature
	}{
		GeneratedBy: GeneratedBy,
		Package:     e.pkg,
		TypeName:    e.typeName,
		VarName:     e.varName,
		Entries:     reg.Entries(),
	}

	var buf bytes.Buffer
	if err := goTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return formatted, nil
}

// goIdent turns SCREAMING_SNAKE or snake_case into an exported Go name:
// GENERATED_SIGNATURES becomes GeneratedSignatures. Names already in
// mixed case keep their casing.
func goIdent(name, fallback string) string {
	if name == "" {
		return fallback
	}
	if !strings.Contains(name, "_") && name != strings.ToUpper(name) {
		r := []rune(name)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}

	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r := []rune(strings.ToLower(part))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
