package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/simonhull/firebird-suite/quill/logger"
)

// ErrCancelled is returned when a Resolver answers Cancel.
var ErrCancelled = errors.New("generation cancelled")

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	Writer io.Writer // Where to write output (defaults to os.Stdout)

	// Resolver is asked before a Previewer changes a file. nil applies
	// every change, as does Force.
	Resolver *Resolver

	// Diff styles the diffs printed for dry runs.
	Diff *DiffOptions

	Logger logger.Logger // defaults to a silent logger
}

// Summary counts what Execute did. In a dry run Applied counts the
// operations that would have been executed.
type Summary struct {
	Applied   int
	Skipped   int
	Unchanged int
}

// Execute validates every operation, then executes or reports them in order.
// Nothing is executed when any validation fails. Operations that implement
// Previewer are skipped when they would not change their file.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) (Summary, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewSilent()
	}

	var sum Summary

	// Phase 1: Validate all operations
	for _, op := range ops {
		log.Debug("validating", logger.F("op", op.Description()))
		if err := op.Validate(ctx, opts.Force); err != nil {
			return sum, fmt.Errorf("validation failed: %w", err)
		}
	}

	// Phase 2: Execute or report
	diffGen := NewDiffGenerator()
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if p, ok := op.(Previewer); ok {
			before, after, err := p.Preview()
			if err != nil {
				return sum, fmt.Errorf("preview failed: %w", err)
			}
			if bytes.Equal(before, after) {
				fmt.Fprintf(opts.Writer, "• %s is up to date\n", p.Target())
				log.Debug("unchanged", logger.F("path", p.Target()))
				sum.Unchanged++
				continue
			}

			if opts.DryRun {
				fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
				fmt.Fprint(opts.Writer, diffGen.GenerateDiff(p.Target(), p.Target(), before, after, opts.Diff))
				sum.Applied++
				continue
			}

			if opts.Resolver != nil && !opts.Force {
				res, err := resolve(opts, diffGen, p.Target(), before, after)
				if err != nil {
					return sum, err
				}
				log.Debug("resolved", logger.F("path", p.Target()), logger.F("resolution", res))
				switch res {
				case Skip:
					fmt.Fprintf(opts.Writer, "- Skipped %s\n", p.Target())
					sum.Skipped++
					continue
				case Cancel:
					return sum, ErrCancelled
				}
			}
		} else if opts.DryRun {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
			sum.Applied++
			continue
		}

		if err := op.Execute(ctx); err != nil {
			return sum, fmt.Errorf("execution failed: %w", err)
		}
		log.Info("applied", logger.F("op", op.Description()))
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
		sum.Applied++
	}

	return sum, nil
}

// resolve asks the resolver until it answers something other than ShowDiff,
// printing the diff each time it is asked for.
func resolve(opts ExecuteOptions, diffGen *DiffGenerator, path string, before, after []byte) (Resolution, error) {
	for {
		res, err := opts.Resolver.Resolve(path, before, after)
		if err != nil {
			return Cancel, fmt.Errorf("resolving %s: %w", path, err)
		}
		if res != ShowDiff {
			return res, nil
		}
		fmt.Fprint(opts.Writer, diffGen.GenerateDiff(path, path, before, after, opts.Diff))
	}
}
