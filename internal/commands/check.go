package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/firebird-suite/quill/generator"
	"github.com/simonhull/firebird-suite/quill/logger"
	"github.com/simonhull/firebird-suite/quill/output"
)

// CheckCmd fails when any selected block differs from a fresh rendering.
func CheckCmd() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "check [target...]",
		Short: "Verify generated blocks are up to date",
		Long: `Render every selected target and compare it with the block on disk.
Nothing is written. Exits non-zero when a block is stale, has no markers,
or cannot be rendered, so it can gate CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			targets, err := cfg.Select(args)
			if err != nil {
				return err
			}

			reports := make([]targetReport, len(targets))
			r := generator.NewRenderer()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))
			for i, t := range targets {
				i, t := i, t
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					reports[i] = evaluate(cfg, t, r)
					log.Debug("checked", logger.F("target", t.Name), logger.F("state", reports[i].state))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			problems := 0
			for _, rep := range reports {
				name := rep.target.Name
				switch rep.state {
				case stateUpToDate:
					output.Verbose(name + " is up to date")
				case stateStale:
					problems++
					output.Warn(fmt.Sprintf("%s is stale (%d line(s) added, %d removed)", name, rep.diff.Added, rep.diff.Removed))
				case stateNoMarkers:
					problems++
					output.Warn(fmt.Sprintf("%s has no complete generated block", name))
				default:
					problems++
					output.Error(fmt.Sprintf("%s: %v", name, rep.err))
				}
			}

			if problems > 0 {
				return fmt.Errorf("%d of %d target(s) need attention; run 'quill regen'", problems, len(reports))
			}
			output.Success(fmt.Sprintf("All %d target(s) up to date", len(reports)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Targets to check in parallel")
	return cmd
}
