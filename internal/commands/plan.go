package commands

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/simonhull/firebird-suite/quill/generator"
	"github.com/simonhull/firebird-suite/quill/internal/config"
	"github.com/simonhull/firebird-suite/quill/transcribe"
)

// isTerminal reports whether f is attached to a terminal. Tests replace it.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// plan renders t's block and returns the operation that writes it.
func plan(cfg *config.Config, t config.Target, r *generator.Renderer) (*generator.BlockOp, error) {
	data, err := t.LoadData()
	if err != nil {
		return nil, err
	}

	var body []byte
	if t.Template != "" {
		body, err = r.RenderFile(t.Template, data)
	} else {
		body, err = r.RenderString(t.Name, t.Inline, data)
	}
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", t.Name, err)
	}

	// The end marker must start its own line.
	if len(body) > 0 && body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}

	return &generator.BlockOp{
		Path:       t.Path,
		ScratchDir: cfg.ScratchDir,
		Markers:    cfg.MarkersFor(t),
		Strict:     cfg.Strict,
		Content:    body,
	}, nil
}

func planAll(cfg *config.Config, targets []config.Target) ([]generator.Operation, error) {
	r := generator.NewRenderer()
	ops := make([]generator.Operation, 0, len(targets))
	for _, t := range targets {
		op, err := plan(cfg, t, r)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

type targetState int

const (
	stateUpToDate targetState = iota
	stateStale
	stateNoMarkers
	stateError
)

func (s targetState) String() string {
	switch s {
	case stateUpToDate:
		return "up to date"
	case stateStale:
		return "stale"
	case stateNoMarkers:
		return "no markers"
	default:
		return "error"
	}
}

type targetReport struct {
	target config.Target
	state  targetState
	block  transcribe.BlockInfo
	diff   generator.DiffStats
	err    error
}

// evaluate compares t's block on disk with a fresh rendering. It reads but
// never writes.
func evaluate(cfg *config.Config, t config.Target, r *generator.Renderer) targetReport {
	rep := targetReport{target: t}
	fail := func(err error) targetReport {
		rep.state = stateError
		rep.err = err
		return rep
	}

	info, err := transcribe.InspectFile(t.Path, cfg.MarkersFor(t))
	if err != nil {
		return fail(err)
	}
	rep.block = info
	if !info.Complete() {
		rep.state = stateNoMarkers
		return rep
	}

	op, err := plan(cfg, t, r)
	if err != nil {
		return fail(err)
	}
	before, after, err := op.Preview()
	if err != nil {
		return fail(err)
	}

	if bytes.Equal(before, after) {
		rep.state = stateUpToDate
	} else {
		rep.state = stateStale
		rep.diff = generator.NewDiffGenerator().Stats(before, after)
	}
	return rep
}
