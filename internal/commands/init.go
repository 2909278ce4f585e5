package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/quill/generator"
	"github.com/simonhull/firebird-suite/quill/input"
	"github.com/simonhull/firebird-suite/quill/internal/config"
	"github.com/simonhull/firebird-suite/quill/output"
)

// InitCmd writes a sample manifest with one working target.
func InitCmd() *cobra.Command {
	var (
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a sample quill.yml",
		Long: `Write quill.yml, an example template with its data, and the marked file
they regenerate. Run 'quill regen' afterwards to fill the block.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			ops := []generator.Operation{
				&generator.WriteFileOp{Path: filepath.Join(dir, config.DefaultFile), Content: []byte(config.SampleManifest), Mode: 0o644},
				&generator.WriteFileOp{Path: filepath.Join(dir, "templates", "example.tmpl"), Content: []byte(config.SampleTemplate), Mode: 0o644},
				&generator.WriteFileOp{Path: filepath.Join(dir, "templates", "example.yml"), Content: []byte(config.SampleData), Mode: 0o644},
				&generator.WriteFileOp{Path: filepath.Join(dir, "src", "example.h"), Content: []byte(config.SampleTarget), Mode: 0o644},
			}

			if !force && !dryRun && isTerminal(os.Stdin) {
				if n := existing(ops); n > 0 {
					if !input.Confirm(fmt.Sprintf("Overwrite %d existing file(s)?", n), false) {
						output.Info("Nothing written")
						return nil
					}
					force = true
				}
			}

			if _, err := generator.Execute(cmd.Context(), ops, generator.ExecuteOptions{
				DryRun: dryRun,
				Force:  force,
				Writer: cmd.OutOrStdout(),
			}); err != nil {
				return err
			}

			if !dryRun {
				output.Success(fmt.Sprintf("Initialized quill in %s", dir))
				output.Step("Next: quill regen")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be created")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}

// existing counts the files ops would overwrite.
func existing(ops []generator.Operation) int {
	n := 0
	for _, op := range ops {
		w, ok := op.(*generator.WriteFileOp)
		if !ok {
			continue
		}
		if _, err := os.Stat(w.Path); !errors.Is(err, os.ErrNotExist) {
			n++
		}
	}
	return n
}
