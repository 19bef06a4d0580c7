package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"monosig/internal/adapter/analyzer"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <type>...",
	Short: "Show the marshal category of type spellings",
	Long: `Normalize and classify each argument the way generate classifies
declaration types. Enum typedefs are collected from the header directory
first, so library enum names resolve to int.

Examples:
  monosig classify "const char *" MonoImageOpenStatus guint64`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := newPipeline(GetRootDir(), cfg, true)
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.generate.Run(p.headerDir)
	if err != nil {
		return fmt.Errorf("failed to collect enum types: %w", err)
	}

	aliases, err := cfg.Classify.Categories()
	if err != nil {
		return err
	}
	classifier := analyzer.NewClassifier(result.Enums, aliases)

	for _, raw := range args {
		normalized := analyzer.NormalizeType(raw)
		fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", normalized, classifier.Classify(normalized))
	}
	return nil
}
