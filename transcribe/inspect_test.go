package transcribe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		start    int
		end      int
		body     []string
		complete bool
	}{
		{
			name:     "well formed",
			input:    marked,
			start:    2,
			end:      4,
			body:     []string{"old1\n"},
			complete: true,
		},
		{
			name:  "no markers",
			input: "a\nb\n",
		},
		{
			name:  "start only",
			input: "a\n// GENERATED PART STARTS HERE\nb\nc",
			start: 2,
			body:  []string{"b\n", "c"},
		},
		{
			name:     "empty block",
			input:    "// GENERATED PART STARTS HERE\n// GENERATED PART ENDS HERE\n",
			start:    1,
			end:      2,
			complete: true,
		},
		{
			name:  "end before start is ignored",
			input: "// GENERATED PART ENDS HERE\nx\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Inspect(strings.NewReader(tt.input), DefaultMarkers)
			require.NoError(t, err)

			assert.Equal(t, tt.start, info.StartLine)
			assert.Equal(t, tt.end, info.EndLine)
			assert.Equal(t, tt.body, info.Body)
			assert.Equal(t, tt.complete, info.Complete())
			assert.Equal(t, strings.Join(tt.body, ""), info.Content())
		})
	}
}

func TestInspectFile(t *testing.T) {
	path := writeFixture(t, "inspect.h", marked)

	info, err := InspectFile(path, DefaultMarkers)
	require.NoError(t, err)
	assert.True(t, info.Complete())
	assert.Equal(t, "old1\n", info.Content())

	_, err = InspectFile(path+".missing", DefaultMarkers)
	assert.Error(t, err)

	_, err = InspectFile(path, Markers{})
	assert.ErrorIs(t, err, ErrInvalidMarkers)
}
