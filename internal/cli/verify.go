package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"monosig/internal/adapter/crosscheck"
	"monosig/internal/adapter/fs"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check extracted arities against the C grammar",
	Long: `Build the signature registry, then re-parse every header with the
tree-sitter C grammar and report functions whose parameter count differs,
or which the grammar did not find at all. Exits non-zero on any finding.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := newPipeline(GetRootDir(), cfg, true)
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.generate.Run(p.headerDir)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	checker, err := crosscheck.NewChecker(cfg.Parse.MacroPrefix)
	if err != nil {
		return err
	}

	files, err := p.walker.Walk(p.headerDir)
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}
	sources := make([]crosscheck.Source, 0, len(files))
	for _, f := range files {
		content, err := fs.ReadFile(f.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", f.RelPath, err)
			continue
		}
		sources = append(sources, crosscheck.Source{Path: f.RelPath, Content: []byte(content)})
	}

	report := checker.Check(result.Registry, sources)

	for _, m := range report.Mismatches {
		fmt.Println(m.String())
	}
	for _, name := range report.Missing {
		fmt.Printf("not found by grammar: %s\n", name)
	}

	fmt.Printf("\nChecked %d of %d signatures: %d mismatched, %d not found\n",
		report.Checked, result.Registry.Len(), len(report.Mismatches), len(report.Missing))

	if !report.OK() {
		return fmt.Errorf("verification failed")
	}
	return nil
}
