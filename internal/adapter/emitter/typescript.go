package emitter

import (
	"fmt"
	"strings"

	"monosig/internal/domain"
)

// TypeScriptEmitter writes the registry as a Record literal keyed by
// function name, importing the record type from a sibling module.
type TypeScriptEmitter struct {
	typeName   string
	typeImport string
	constName  string
}

func NewTypeScriptEmitter(typeName, typeImport, constName string) *TypeScriptEmitter {
	return &TypeScriptEmitter{
		typeName:   typeName,
		typeImport: typeImport,
		constName:  constName,
	}
}

func (e *TypeScriptEmitter) Format() string {
	return "typescript"
}

func (e *TypeScriptEmitter) Emit(reg *domain.Registry) ([]byte, error) {
	entries := reg.Entries()
	formatted := make([]string, len(entries))
	for i, sig := range entries {
		formatted[i] = formatTSEntry(sig)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Auto-generated by %s; do not edit by hand.\n\n", GeneratedBy)
	fmt.Fprintf(&b, "import type { %s } from '%s';\n\n", e.typeName, e.typeImport)
	fmt.Fprintf(&b, "export const %s: Record<string, %s> = {\n", e.constName, e.typeName)
	b.WriteString(strings.Join(formatted, ",\n"))
	b.WriteString("\n};\n")

	return []byte(b.String()), nil
}

func formatTSEntry(sig domain.Signature) string {
	args := make([]string, len(sig.ArgTypes))
	for i, a := range sig.ArgTypes {
		args[i] = "'" + string(a) + "'"
	}
	return fmt.Sprintf("  '%s': {\n    name: '%s',\n    retType: '%s',\n    argTypes: [%s],\n  }",
		sig.Name, sig.Name, sig.RetType, strings.Join(args, ", "))
}
