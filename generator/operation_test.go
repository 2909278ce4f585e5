package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/quill/transcribe"
)

const markedFile = "A\n" +
	"// GENERATED PART STARTS HERE\n" +
	"old1\n" +
	"// GENERATED PART ENDS HERE\n" +
	"B\n"

func writeTarget(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.h")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBlockOp_Execute(t *testing.T) {
	path := writeTarget(t, markedFile)
	op := &BlockOp{Path: path, Content: []byte("new1\nnew2\n")}

	ctx := context.Background()
	require.NoError(t, op.Validate(ctx, false))
	require.NoError(t, op.Execute(ctx))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A\n// GENERATED PART STARTS HERE\nnew1\nnew2\n// GENERATED PART ENDS HERE\nB\n", string(got))
	assert.Equal(t, "Regenerate block in "+path+" (2 lines)", op.Description())
}

func TestBlockOp_EmptyContentEmptiesBlock(t *testing.T) {
	path := writeTarget(t, markedFile)
	op := &BlockOp{Path: path, Content: []byte{}}

	require.NoError(t, op.Validate(context.Background(), false))
	require.NoError(t, op.Execute(context.Background()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A\n// GENERATED PART STARTS HERE\n// GENERATED PART ENDS HERE\nB\n", string(got))
}

func TestBlockOp_CustomMarkers(t *testing.T) {
	path := writeTarget(t, "x\n# BEGIN\nold\n# END\ny\n")
	op := &BlockOp{
		Path:    path,
		Markers: transcribe.Markers{Start: "# BEGIN", End: "# END"},
		Strict:  true,
		Content: []byte("new\n"),
	}

	before, after, err := op.Preview()
	require.NoError(t, err)
	assert.Equal(t, "x\n# BEGIN\nold\n# END\ny\n", string(before))
	assert.Equal(t, "x\n# BEGIN\nnew\n# END\ny\n", string(after))
	assert.Equal(t, path, op.Target())
}

func TestBlockOp_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		op := &BlockOp{Path: filepath.Join(t.TempDir(), "nope.h"), Content: []byte("x\n")}
		err := op.Validate(ctx, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("directory", func(t *testing.T) {
		op := &BlockOp{Path: t.TempDir(), Content: []byte("x\n")}
		assert.ErrorIs(t, op.Validate(ctx, false), transcribe.ErrNotRegular)
	})

	t.Run("nil content", func(t *testing.T) {
		op := &BlockOp{Path: writeTarget(t, markedFile)}
		assert.ErrorContains(t, op.Validate(ctx, false), "content is nil")
	})

	t.Run("strict without start marker", func(t *testing.T) {
		op := &BlockOp{Path: writeTarget(t, "plain\n"), Strict: true, Content: []byte("x\n")}
		assert.ErrorIs(t, op.Validate(ctx, false), transcribe.ErrStartMarkerNotFound)
	})

	t.Run("strict without end marker", func(t *testing.T) {
		path := writeTarget(t, "A\n// GENERATED PART STARTS HERE\nold\n")
		op := &BlockOp{Path: path, Strict: true, Content: []byte("x\n")}
		assert.ErrorIs(t, op.Validate(ctx, false), transcribe.ErrEndMarkerNotFound)
	})

	t.Run("lenient without markers", func(t *testing.T) {
		op := &BlockOp{Path: writeTarget(t, "plain\n"), Content: []byte("x\n")}
		assert.NoError(t, op.Validate(ctx, false))
	})
}

func TestBlockOp_ExecuteCancelledContext(t *testing.T) {
	path := writeTarget(t, markedFile)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := &BlockOp{Path: path, Content: []byte("new\n")}
	assert.ErrorIs(t, op.Execute(ctx), context.Canceled)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, markedFile, string(got))
}

func TestWriteFileOp(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "quill.yml")
	op := &WriteFileOp{Path: path, Content: []byte("targets: []\n")}

	require.NoError(t, op.Validate(ctx, false))
	_, err := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(err), "Validate created the parent directory")

	require.NoError(t, op.Execute(ctx))
	assert.Equal(t, "Create "+path+" (12 bytes)", op.Description())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm()&0o644)

	assert.ErrorContains(t, op.Validate(ctx, false), "file already exists")
	assert.NoError(t, op.Validate(ctx, true))

	nilOp := &WriteFileOp{Path: filepath.Join(t.TempDir(), "x")}
	assert.ErrorContains(t, nilOp.Validate(ctx, false), "content is nil")
}

func TestWriteFileOp_ParentIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	op := &WriteFileOp{Path: filepath.Join(file, "nested", "a.h"), Content: []byte("x")}
	assert.ErrorContains(t, op.Validate(context.Background(), false), "not a directory")
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(nil))
	assert.Equal(t, 1, countLines([]byte("a")))
	assert.Equal(t, 1, countLines([]byte("a\n")))
	assert.Equal(t, 2, countLines([]byte("a\nb")))
}
