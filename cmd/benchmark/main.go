package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"monosig/config"
	"monosig/internal/adapter/analyzer"
	"monosig/internal/adapter/cache"
	"monosig/internal/adapter/fs"
	"monosig/internal/adapter/memstore"
	"monosig/internal/domain"
	"monosig/internal/usecase"
)

func main() {
	rootPath := flag.String("dir", ".", "Project root containing monosig.yaml")
	runs := flag.Int("n", 5, "Number of warm runs")
	flag.Parse()

	if *runs < 1 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -n 5")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*rootPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	a, err := analyzer.New(analyzer.Options{
		ExportMarker: cfg.Parse.ExportMarker,
		NamePrefixes: cfg.Parse.NamePrefixes,
		MacroPrefix:  cfg.Parse.MacroPrefix,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	aliases, err := cfg.Classify.Categories()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	headerDir := config.Resolve(*rootPath, cfg.Headers.Dir)
	walker := fs.NewWalker(cfg.Headers.Includes, cfg.Headers.Excludes)
	categories := cache.NewCategoryCache(cfg.Cache.MaxTypes)
	uc := usecase.NewGenerateUseCase(walker, a, memstore.NewMemoryStore(), categories, aliases)

	fmt.Println("SIGNATURE GENERATION BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Headers: %s\n\n", headerDir)

	start := time.Now()
	result, err := uc.Run(headerDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation error: %v\n", err)
		os.Exit(1)
	}
	cold := time.Since(start)

	var warm time.Duration
	for i := 0; i < *runs; i++ {
		start = time.Now()
		if _, err := uc.Run(headerDir); err != nil {
			fmt.Fprintf(os.Stderr, "Generation error: %v\n", err)
			os.Exit(1)
		}
		warm += time.Since(start)
	}

	fmt.Printf("Headers scanned:  %d\n", result.FilesScanned)
	fmt.Printf("Signatures:       %d\n", result.Registry.Len())
	fmt.Printf("Enum types:       %d\n", result.Enums.Len())
	fmt.Printf("Dropped:          %d\n", result.Dropped)
	fmt.Printf("Duplicates:       %d\n", result.Duplicates)
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Cold run:         %s\n", cold)
	fmt.Printf("Warm run (avg):   %s over %d runs\n", warm/time.Duration(*runs), *runs)

	hits, misses := categories.Stats()
	if total := hits + misses; total > 0 {
		fmt.Printf("Category cache:   %.1f%% hits (%d/%d)\n", 100*float64(hits)/float64(total), hits, total)
	}

	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("CATEGORY DISTRIBUTION:")
	for _, line := range distribution(result.Registry) {
		fmt.Println("  " + line)
	}
}

// distribution counts how often each category appears across return and
// argument positions, most frequent first.
func distribution(reg *domain.Registry) []string {
	counts := make(map[domain.Category]int)
	for _, sig := range reg.Entries() {
		counts[sig.RetType]++
		for _, a := range sig.ArgTypes {
			counts[a]++
		}
	}

	cats := domain.Categories()
	sort.SliceStable(cats, func(i, j int) bool {
		return counts[cats[i]] > counts[cats[j]]
	})

	lines := make([]string, 0, len(cats))
	for _, c := range cats {
		if counts[c] == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-8s %d", c, counts[c]))
	}
	return lines
}
