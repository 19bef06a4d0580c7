//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"monosig/config"
	"monosig/internal/adapter/analyzer"
	"monosig/internal/adapter/cache"
	"monosig/internal/adapter/emitter"
	"monosig/internal/adapter/memstore"
	"monosig/internal/usecase"
)

var (
	store    *memstore.MemoryStore
	generate *usecase.GenerateUseCase
)

func init() {
	a, err := analyzer.New(analyzer.DefaultOptions())
	if err != nil {
		panic(err)
	}
	store = memstore.NewMemoryStore()
	generate = usecase.NewGenerateUseCase(store, a, store, cache.NewCategoryCache(0), nil)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("monosigAddHeader", js.FuncOf(addHeader))
	js.Global().Set("monosigGenerate", js.FuncOf(generateSignatures))
	js.Global().Set("monosigClassify", js.FuncOf(classifyTypes))
	js.Global().Set("monosigClear", js.FuncOf(clearHeaders))
	js.Global().Set("monosigStats", js.FuncOf(getStats))

	<-c
}

func addHeader(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: monosigAddHeader(filename, content)")
	}

	filename := args[0].String()
	store.PutHeader(filename, args[1].String())

	return makeResult(map[string]interface{}{
		"success":  true,
		"filename": filename,
	})
}

func generateSignatures(this js.Value, args []js.Value) interface{} {
	out := config.DefaultConfig().Output
	if len(args) > 0 {
		out.Format = args[0].String()
	}

	e, err := emitter.New(out)
	if err != nil {
		return makeError(err.Error())
	}

	result, err := generate.Run("")
	if err != nil {
		return makeError("generation failed: " + err.Error())
	}

	data, err := e.Emit(result.Registry)
	if err != nil {
		return makeError("emit failed: " + err.Error())
	}

	return makeResult(map[string]interface{}{
		"count":      result.Registry.Len(),
		"dropped":    result.Dropped,
		"duplicates": result.Duplicates,
		"output":     string(data),
	})
}

func classifyTypes(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: monosigClassify(type, ...)")
	}

	result, err := generate.Run("")
	if err != nil {
		return makeError("generation failed: " + err.Error())
	}
	classifier := analyzer.NewClassifier(result.Enums, nil)

	categories := make(map[string]string, len(args))
	for _, arg := range args {
		normalized := analyzer.NormalizeType(arg.String())
		categories[arg.String()] = string(classifier.Classify(normalized))
	}

	return makeResult(map[string]interface{}{
		"categories": categories,
	})
}

func clearHeaders(this js.Value, args []js.Value) interface{} {
	store.Clear()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	headers, cached := store.Stats()
	files, _ := store.Walk("")

	filenames := make([]string, len(files))
	for i, f := range files {
		filenames[i] = f.RelPath
	}

	return makeResult(map[string]interface{}{
		"headers": headers,
		"cached":  cached,
		"files":   filenames,
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
