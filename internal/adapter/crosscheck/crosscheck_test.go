package crosscheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monosig/internal/domain"
)

const header = `#ifndef _MONO_OBJECT_H
#define _MONO_OBJECT_H

MONO_API int mono_foo (void* obj, const char* name);
MONO_API MONO_RT_EXTERNAL_ONLY char* mono_name (MonoObject *obj);
MONO_API void mono_none (void);
MONO_API int mono_printf (const char *fmt, ...);

#endif
`

func newTestChecker(t *testing.T) *Checker {
	t.Helper()
	ch, err := NewChecker("MONO_")
	require.NoError(t, err)
	return ch
}

func TestNewChecker_RejectsEmptyPrefix(t *testing.T) {
	_, err := NewChecker(" ")
	assert.Error(t, err)
}

func TestPrototypes(t *testing.T) {
	protos := newTestChecker(t).Prototypes([]byte(header))

	byName := make(map[string]Prototype)
	for _, p := range protos {
		byName[p.Name] = p
	}

	require.Len(t, byName, 4)
	assert.Equal(t, 2, byName["mono_foo"].Arity)
	assert.Equal(t, 4, byName["mono_foo"].Line)
	assert.Equal(t, 1, byName["mono_name"].Arity)
	assert.Equal(t, 0, byName["mono_none"].Arity)
	assert.Equal(t, 1, byName["mono_printf"].Arity)
	assert.True(t, byName["mono_printf"].Variadic)
}

func TestCheck(t *testing.T) {
	reg := domain.NewRegistry()
	reg.Add(domain.Signature{Name: "mono_foo", RetType: domain.CategoryInt,
		ArgTypes: []domain.Category{domain.CategoryPointer, domain.CategoryPointer}})
	reg.Add(domain.Signature{Name: "mono_none", RetType: domain.CategoryVoid, ArgTypes: []domain.Category{}})
	reg.Add(domain.Signature{Name: "mono_name", RetType: domain.CategoryPointer,
		ArgTypes: []domain.Category{domain.CategoryPointer, domain.CategoryInt}})
	reg.Add(domain.Signature{Name: "mono_ghost", RetType: domain.CategoryVoid, ArgTypes: []domain.Category{}})

	report := newTestChecker(t).Check(reg, []Source{{Path: "object.h", Content: []byte(header)}})

	assert.False(t, report.OK())
	assert.Equal(t, 3, report.Checked)
	assert.Equal(t, []string{"mono_ghost"}, report.Missing)
	require.Len(t, report.Mismatches, 1)

	m := report.Mismatches[0]
	assert.Equal(t, "mono_name", m.Name)
	assert.Equal(t, "object.h", m.File)
	assert.Equal(t, 2, m.Registry)
	assert.Equal(t, 1, m.Grammar)
	assert.Contains(t, m.String(), "object.h:5: mono_name")
}

func TestCheck_FirstSourceWins(t *testing.T) {
	reg := domain.NewRegistry()
	reg.Add(domain.Signature{Name: "mono_dup", RetType: domain.CategoryInt, ArgTypes: []domain.Category{}})

	report := newTestChecker(t).Check(reg, []Source{
		{Path: "a.h", Content: []byte("MONO_API int mono_dup (void);\n")},
		{Path: "b.h", Content: []byte("MONO_API void mono_dup (int x);\n")},
	})

	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Checked)
}
