package commands

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/quill/generator"
)

// StatusCmd prints a table of every target and the state of its block.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of every target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}

			r := generator.NewRenderer()
			counts := make(map[targetState]int)

			var buf bytes.Buffer
			table := tablewriter.NewWriter(&buf)
			table.SetHeader([]string{"Target", "Path", "Block", "State"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetAutoWrapText(false)
			table.SetColumnAlignment([]int{
				tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
			})

			for _, t := range cfg.Targets {
				rep := evaluate(cfg, t, r)
				counts[rep.state]++

				path := t.Path
				if rel, err := filepath.Rel(cfg.Dir, t.Path); err == nil {
					path = rel
				}
				table.Append([]string{t.Name, path, blockRange(rep), describe(rep)})
			}

			table.SetFooter([]string{
				fmt.Sprintf("%d target(s)", len(cfg.Targets)), "",
				"", fmt.Sprintf("%d stale", counts[stateStale]),
			})
			table.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "\n%s", buf.String())
			return nil
		},
	}
}

func blockRange(rep targetReport) string {
	switch {
	case rep.block.Complete():
		return fmt.Sprintf("%d-%d", rep.block.StartLine, rep.block.EndLine)
	case rep.block.HasStart:
		return fmt.Sprintf("%d-?", rep.block.StartLine)
	default:
		return "-"
	}
}

func describe(rep targetReport) string {
	switch rep.state {
	case stateStale:
		return fmt.Sprintf("stale (+%d -%d)", rep.diff.Added, rep.diff.Removed)
	case stateError:
		return fmt.Sprintf("error: %v", rep.err)
	default:
		return rep.state.String()
	}
}
