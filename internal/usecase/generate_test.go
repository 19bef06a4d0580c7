package usecase

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"monosig/config"
	"monosig/internal/adapter/analyzer"
	"monosig/internal/adapter/emitter"
	"monosig/internal/adapter/fs"
	"monosig/internal/adapter/memstore"
	"monosig/internal/adapter/store"
	"monosig/internal/domain"
	"monosig/internal/port"
)

func writeHeader(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestUseCase(t *testing.T, st *store.BoltStore) *GenerateUseCase {
	t.Helper()
	a, err := analyzer.New(analyzer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var es port.ExtractionStore
	if st != nil {
		es = st
	}
	return NewGenerateUseCase(fs.NewWalker(nil, nil), a, es, nil, nil)
}

func TestGenerate_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, dir, "object.h", `
/* Object API */
MONO_API int mono_foo (void* obj, const char* name);
MONO_API MONO_RT_EXTERNAL_ONLY void mono_bar (void);
`)

	result, err := newTestUseCase(t, nil).Run(dir)
	if err != nil {
		t.Fatal(err)
	}

	if result.FilesScanned != 1 {
		t.Errorf("expected 1 file scanned, got %d", result.FilesScanned)
	}
	if result.Registry.Len() != 2 {
		t.Fatalf("expected 2 signatures, got %d", result.Registry.Len())
	}

	foo, ok := result.Registry.Get("mono_foo")
	if !ok {
		t.Fatal("mono_foo missing")
	}
	want := domain.Signature{
		Name:     "mono_foo",
		RetType:  domain.CategoryInt,
		ArgTypes: []domain.Category{domain.CategoryPointer, domain.CategoryPointer},
	}
	if !reflect.DeepEqual(foo, want) {
		t.Errorf("got %+v, want %+v", foo, want)
	}

	bar, _ := result.Registry.Get("mono_bar")
	if bar.RetType != domain.CategoryVoid || len(bar.ArgTypes) != 0 {
		t.Errorf("unexpected mono_bar: %+v", bar)
	}
}

func TestGenerate_FirstOccurrenceWins(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, dir, "b.h", "MONO_API void mono_dup (int x);\n")
	writeHeader(t, dir, "a.h", "MONO_API int mono_dup (void);\n")

	result, err := newTestUseCase(t, nil).Run(dir)
	if err != nil {
		t.Fatal(err)
	}

	sig, _ := result.Registry.Get("mono_dup")
	if sig.RetType != domain.CategoryInt || len(sig.ArgTypes) != 0 {
		t.Errorf("expected a.h declaration to win, got %+v", sig)
	}
	if result.Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", result.Duplicates)
	}
}

func TestGenerate_EnumFromLaterFile(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, dir, "a.h", "MONO_API MonoKind mono_kind (MonoKind* out, MonoKind k);\n")
	writeHeader(t, dir, "b.h", "typedef enum {\n\tMONO_KIND_A,\n\tMONO_KIND_B\n} MonoKind;\n")

	result, err := newTestUseCase(t, nil).Run(dir)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Enums.Contains("MonoKind") {
		t.Fatalf("expected MonoKind in enum set, got %v", result.Enums.Names())
	}
	sig, _ := result.Registry.Get("mono_kind")
	want := []domain.Category{domain.CategoryPointer, domain.CategoryInt}
	if sig.RetType != domain.CategoryInt || !reflect.DeepEqual(sig.ArgTypes, want) {
		t.Errorf("unexpected signature: %+v", sig)
	}
}

func TestGenerate_DropsAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, dir, "misc.h", `
MONO_API int (void);
MONO_API int other_fn (void);
MONO_API gboolean monoeg_g_hash_table_remove (GHashTable *hash, gconstpointer key);
`)

	result, err := newTestUseCase(t, nil).Run(dir)
	if err != nil {
		t.Fatal(err)
	}

	if result.Dropped != 1 {
		t.Errorf("expected 1 dropped declaration, got %d", result.Dropped)
	}
	if _, ok := result.Registry.Get("other_fn"); ok {
		t.Error("expected other_fn to be filtered by prefix")
	}
	sig, ok := result.Registry.Get("monoeg_g_hash_table_remove")
	if !ok {
		t.Fatal("monoeg_g_hash_table_remove missing")
	}
	if sig.RetType != domain.CategoryInt {
		t.Errorf("expected gboolean -> int, got %s", sig.RetType)
	}
}

func TestGenerate_MissingDirectory(t *testing.T) {
	if _, err := newTestUseCase(t, nil).Run(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing header directory")
	}
}

func TestGenerate_ExtractionCache(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, dir, "a.h", "MONO_API MonoKind mono_kind (void);\n")
	writeHeader(t, dir, "b.h", "typedef enum { A } MonoKind;\n")

	st, err := store.NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	uc := newTestUseCase(t, st)

	first, err := uc.Run(dir)
	if err != nil {
		t.Fatal(err)
	}
	if first.FilesCached != 0 {
		t.Errorf("expected cold cache, got %d cached", first.FilesCached)
	}

	second, err := uc.Run(dir)
	if err != nil {
		t.Fatal(err)
	}
	if second.FilesCached != 2 {
		t.Errorf("expected 2 cached files, got %d", second.FilesCached)
	}
	if !reflect.DeepEqual(first.Registry.Entries(), second.Registry.Entries()) {
		t.Error("cached run produced a different registry")
	}

	// The enum set is rebuilt from cached entries too.
	sig, _ := second.Registry.Get("mono_kind")
	if sig.RetType != domain.CategoryInt {
		t.Errorf("expected enum return to classify as int, got %s", sig.RetType)
	}

	if err := os.Remove(filepath.Join(dir, "b.h")); err != nil {
		t.Fatal(err)
	}
	third, err := uc.Run(dir)
	if err != nil {
		t.Fatal(err)
	}
	sig, _ = third.Registry.Get("mono_kind")
	if sig.RetType != domain.CategoryPointer {
		t.Errorf("expected unknown type after enum removal, got %s", sig.RetType)
	}
}

func TestGenerate_IdempotentOutput(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, dir, "a.h", "MONO_API int mono_foo (void* obj, const char* name);\n")
	writeHeader(t, dir, "b.h", "MONO_API guint64 mono_bar (size_t n, double d);\n")

	e, err := emitter.New(config.DefaultConfig().Output)
	if err != nil {
		t.Fatal(err)
	}

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		result, err := newTestUseCase(t, nil).Run(dir)
		if err != nil {
			t.Fatal(err)
		}
		out, err := e.Emit(result.Registry)
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, out)
	}

	if string(outputs[0]) != string(outputs[1]) {
		t.Error("expected byte-identical output across runs")
	}
}

func TestGenerate_Progress(t *testing.T) {
	dir := t.TempDir()
	writeHeader(t, dir, "a.h", "MONO_API void mono_a (void);\n")
	writeHeader(t, dir, "b.h", "MONO_API void mono_b (void);\n")

	uc := newTestUseCase(t, nil)
	var calls []int
	uc.SetProgress(func(done, total int) {
		if total != 2 {
			t.Errorf("expected total=2, got %d", total)
		}
		calls = append(calls, done)
	})

	if _, err := uc.Run(dir); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(calls, []int{1, 2}) {
		t.Errorf("unexpected progress calls: %v", calls)
	}
}

func TestGenerate_InMemoryHeaders(t *testing.T) {
	mem := memstore.NewMemoryStore()
	mem.PutHeader("include/metadata.h", "typedef enum { MONO_TABLE_MODULE } MonoMetaTableEnum;\n")
	mem.PutHeader("include/image.h", "MONO_API const char* mono_meta_table_name (MonoMetaTableEnum table, gint32 idx);\n")

	a, err := analyzer.New(analyzer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	uc := NewGenerateUseCase(mem, a, mem, nil, nil)

	result, err := uc.Run("include")
	if err != nil {
		t.Fatal(err)
	}

	sig, ok := result.Registry.Get("mono_meta_table_name")
	if !ok {
		t.Fatal("mono_meta_table_name missing")
	}
	want := []domain.Category{domain.CategoryInt, domain.CategoryInt}
	if sig.RetType != domain.CategoryPointer || !reflect.DeepEqual(sig.ArgTypes, want) {
		t.Errorf("unexpected signature: %+v", sig)
	}

	again, err := uc.Run("include")
	if err != nil {
		t.Fatal(err)
	}
	if again.FilesCached != 2 {
		t.Errorf("expected 2 cached extractions, got %d", again.FilesCached)
	}
}
