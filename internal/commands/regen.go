package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/quill/generator"
	"github.com/simonhull/firebird-suite/quill/logger"
	"github.com/simonhull/firebird-suite/quill/output"
)

// RegenCmd rewrites the generated blocks of the selected targets.
func RegenCmd() *cobra.Command {
	var (
		dryRun bool
		force  bool
		skip   bool
		diff   bool
	)

	cmd := &cobra.Command{
		Use:   "regen [target...]",
		Short: "Regenerate the blocks of the selected targets",
		Long: `Render each target's template and replace the block between its markers.

Targets are selected by name or path; with none given every target in the
manifest is regenerated. Blocks that would not change are left alone.

When a block would change you are asked what to do. --force applies every
change, --skip keeps every file, and --diff prints the diff before asking.
Without a terminal, changes are applied as with --force and --diff is
refused.

Examples:
  quill regen
  quill regen locales --dry-run
  quill regen src/qlocale_data_p.h --diff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			targets, err := cfg.Select(args)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				output.Info("No targets in manifest")
				return nil
			}

			if !isTerminal(os.Stdin) {
				if diff {
					return errors.New("--diff asks before each change and needs a terminal; use --dry-run to print the diffs")
				}
				if !force && !skip {
					log.Debug("stdin is not a terminal, applying changes without asking")
					force = true
				}
			}
			diffOpts := &generator.DiffOptions{Plain: !isTerminal(os.Stdout)}
			resolver, err := generator.NewResolver(force, skip, diff, cmd.OutOrStdout(), diffOpts)
			if err != nil {
				return err
			}

			ops, err := planAll(cfg, targets)
			if err != nil {
				return err
			}

			if cfg.ScratchDir != "" && !dryRun {
				if err := os.MkdirAll(cfg.ScratchDir, 0o755); err != nil {
					return fmt.Errorf("creating scratch directory: %w", err)
				}
			}

			output.Verbose(fmt.Sprintf("Regenerating %d target(s) (dry-run=%v, force=%v, strict=%v)", len(ops), dryRun, force, cfg.Strict))

			sum, err := generator.Execute(cmd.Context(), ops, generator.ExecuteOptions{
				DryRun:   dryRun,
				Force:    force,
				Writer:   cmd.OutOrStdout(),
				Resolver: resolver,
				Diff:     diffOpts,
				Logger:   log.WithFields(logger.F("cmd", "regen")),
			})
			if errors.Is(err, generator.ErrCancelled) {
				output.Warn(fmt.Sprintf("Cancelled after %d regenerated", sum.Applied))
				return nil
			}
			if err != nil {
				return err
			}

			switch {
			case dryRun:
				output.Info(fmt.Sprintf("Dry run: %d would change, %d up to date", sum.Applied, sum.Unchanged))
			case sum.Applied == 0 && sum.Skipped == 0:
				output.Success("Everything is up to date")
			default:
				output.Success(fmt.Sprintf("%d regenerated, %d skipped, %d up to date", sum.Applied, sum.Skipped, sum.Unchanged))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	cmd.Flags().BoolVar(&force, "force", false, "Apply every change without asking")
	cmd.Flags().BoolVar(&skip, "skip", false, "Never change a file that differs")
	cmd.Flags().BoolVar(&diff, "diff", false, "Print the diff of each change before asking")
	cmd.MarkFlagsMutuallyExclusive("force", "skip", "diff")

	return cmd
}
