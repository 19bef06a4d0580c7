package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"monosig/config"
	"monosig/internal/adapter/analyzer"
	"monosig/internal/adapter/cache"
	"monosig/internal/adapter/emitter"
	"monosig/internal/adapter/fs"
	"monosig/internal/adapter/store"
	"monosig/internal/port"
	"monosig/internal/usecase"
)

var (
	watchMode bool
	dryRun    bool
	noCache   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the signature table from the headers",
	Long: `Scan every header under headers.dir, build the signature registry and
write it to output.path. Unchanged headers are served from the extraction
cache in .monosig/cache.db.

Examples:
  monosig generate                # Write the artifact
  monosig generate --dry-run      # Print the artifact instead
  monosig generate --watch        # Keep regenerating on header changes`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "regenerate whenever a header changes")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the artifact to stdout instead of writing it")
	generateCmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore the extraction cache")
	rootCmd.AddCommand(generateCmd)
}

// pipeline wires the generate use case for one root directory.
type pipeline struct {
	headerDir string
	walker    *fs.Walker
	generate  *usecase.GenerateUseCase
	store     *store.BoltStore
}

func newPipeline(root string, cfg *config.Config, useCache bool) (*pipeline, error) {
	headerDir := config.Resolve(root, cfg.Headers.Dir)
	info, err := os.Stat(headerDir)
	if err != nil {
		return nil, fmt.Errorf("header directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("header path is not a directory: %s", headerDir)
	}

	a, err := analyzer.New(analyzer.Options{
		ExportMarker: cfg.Parse.ExportMarker,
		NamePrefixes: cfg.Parse.NamePrefixes,
		MacroPrefix:  cfg.Parse.MacroPrefix,
	})
	if err != nil {
		return nil, err
	}
	aliases, err := cfg.Classify.Categories()
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		headerDir: headerDir,
		walker:    fs.NewWalker(cfg.Headers.Includes, cfg.Headers.Excludes),
	}

	var es port.ExtractionStore
	if useCache && cfg.Cache.Enabled {
		if err := config.EnsureStateDir(root); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", config.StateDir, err)
		}
		st, err := store.NewBoltStore(config.CacheDBPath(root))
		if err != nil {
			return nil, fmt.Errorf("failed to open extraction cache: %w", err)
		}
		migration, err := st.Prepare(cfg)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to prepare extraction cache: %w", err)
		}
		if migration.NeedsRebuild {
			fmt.Fprintf(os.Stderr, "Cache rebuilt: %s\n", migration.Reason)
		}
		p.store = st
		es = st
	}

	p.generate = usecase.NewGenerateUseCase(p.walker, a, es, cache.NewCategoryCache(cfg.Cache.MaxTypes), aliases)
	p.generate.SetLogger(debugLogger())
	return p, nil
}

func (p *pipeline) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root := GetRootDir()

	p, err := newPipeline(root, cfg, !noCache)
	if err != nil {
		return err
	}
	defer p.Close()

	e, err := emitter.New(cfg.Output)
	if err != nil {
		return err
	}
	outPath := config.Resolve(root, cfg.Output.Path)

	if err := generateOnce(cmd, p, e, outPath); err != nil {
		return err
	}
	if !watchMode {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fs.NewWatcher(p.headerDir, p.walker, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", p.headerDir)

	var mu sync.Mutex
	return watcher.Run(ctx, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("\n%d header(s) changed, regenerating...\n", len(paths))
		if err := generateOnce(cmd, p, e, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
}

func generateOnce(cmd *cobra.Command, p *pipeline, e port.Emitter, outPath string) error {
	var bar *progressbar.ProgressBar
	if !quiet() && !dryRun {
		p.generate.SetProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionShowBytes(false),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription("[cyan]Scanning headers[reset]"),
					progressbar.OptionOnCompletion(func() {
						fmt.Println()
					}),
				)
			}
			bar.Set(done)
		})
	} else {
		p.generate.SetProgress(nil)
	}

	result, err := p.generate.Run(p.headerDir)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	data, err := e.Emit(result.Registry)
	if err != nil {
		return fmt.Errorf("failed to render %s output: %w", e.Format(), err)
	}

	if dryRun {
		printWarnings(result.Errors)
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := emitter.WriteFile(outPath, data); err != nil {
		return err
	}

	fmt.Printf("Generated %d signatures -> %s\n", result.Registry.Len(), outPath)
	if !quiet() {
		fmt.Printf("  Headers scanned:      %d (%d cached)\n", result.FilesScanned, result.FilesCached)
		fmt.Printf("  Enum types:           %d\n", result.Enums.Len())
		fmt.Printf("  Declarations dropped: %d\n", result.Dropped)
		fmt.Printf("  Duplicates ignored:   %d\n", result.Duplicates)
	}

	printWarnings(result.Errors)
	return nil
}

func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\nWarnings:\n")
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  - %s\n", w)
	}
}
