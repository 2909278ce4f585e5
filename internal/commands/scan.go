package commands

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/quill/filesystem"
	"github.com/simonhull/firebird-suite/quill/output"
	"github.com/simonhull/firebird-suite/quill/transcribe"
)

// scanMaxSize skips files too large to be hand-maintained sources.
const scanMaxSize = 16 << 20

// ScanCmd lists the files under a directory that carry a generated block.
func ScanCmd() *cobra.Command {
	var (
		markers transcribe.Markers
		include []string
		hidden  bool
	)

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Find files that contain generated blocks",
		Long: `Walk a directory and list every file with a start marker, along with the
line range of its block. Useful for finding blocks the manifest does not
know about. Does not need a manifest.

Examples:
  quill scan
  quill scan src --include '*.h' --include '*.cpp'
  quill scan --start '# BEGIN GENERATED' --end '# END GENERATED'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if err := markers.Validate(); err != nil {
				return err
			}

			opts := filesystem.WalkOptions{Include: include, IncludeHidden: hidden, MaxSize: scanMaxSize}
			found, incomplete := 0, 0

			err := filesystem.Walk(root, opts, func(path string, d fs.DirEntry) error {
				info, err := transcribe.InspectFile(path, markers)
				if err != nil {
					output.Verbose(fmt.Sprintf("skipping %s: %v", path, err))
					return nil
				}
				if !info.HasStart {
					return nil
				}

				rel := path
				if r, err := filepath.Rel(root, path); err == nil {
					rel = r
				}

				found++
				if !info.HasEnd {
					incomplete++
					output.Warn(fmt.Sprintf("%s: start marker at line %d, no end marker", rel, info.StartLine))
					return nil
				}
				output.Step(fmt.Sprintf("%s: lines %d-%d (%d line block)", rel, info.StartLine, info.EndLine, len(info.Body)))
				return nil
			})
			if err != nil {
				return fmt.Errorf("scanning %s: %w", root, err)
			}

			switch {
			case found == 0:
				output.Info("No generated blocks found")
			case incomplete > 0:
				output.Warn(fmt.Sprintf("Found %d file(s) with generated blocks, %d without an end marker", found, incomplete))
			default:
				output.Success(fmt.Sprintf("Found %d file(s) with generated blocks", found))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&markers.Start, "start", transcribe.DefaultMarkers.Start, "Start marker line")
	cmd.Flags().StringVar(&markers.End, "end", transcribe.DefaultMarkers.End, "End marker line")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Only scan files matching these globs")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Also scan dotfiles and dot-directories")
	return cmd
}
