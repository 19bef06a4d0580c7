package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"monosig/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "monosig",
	Short: "Generate marshaling signatures for the Mono embedding API",
	Long: `monosig scans the runtime's public C headers for MONO_API declarations,
classifies every return and parameter type into a marshal category, and
writes the resulting signature table as a generated source file.

Example usage:
  monosig generate               # Write src/runtime/signatures/generated.ts
  monosig generate --watch       # Regenerate whenever a header changes
  monosig verify                 # Cross-check arity with the C grammar
  monosig classify "MonoObject*" # Show the category of a type spelling`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return cfg.Validate()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./monosig.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

// debugLogger returns a stderr logger when logging.level is debug, and a
// discarding one otherwise.
func debugLogger() *log.Logger {
	if cfg.Logging.Level == "debug" {
		return log.New(os.Stderr, "monosig: ", log.Ltime)
	}
	return log.New(io.Discard, "", 0)
}

func quiet() bool {
	return cfg.Logging.Level == "quiet"
}
