package transcribe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// BlockInfo locates a generated block. Line numbers are 1-based and refer to
// the marker lines; Body holds the raw lines between them.
type BlockInfo struct {
	StartLine int
	EndLine   int
	Body      []string
	HasStart  bool
	HasEnd    bool
}

// Complete reports whether both markers were found in order.
func (b BlockInfo) Complete() bool {
	return b.HasStart && b.HasEnd
}

// Content joins Body back into the block's original bytes.
func (b BlockInfo) Content() string {
	return strings.Join(b.Body, "")
}

// Inspect scans r for the first block delimited by markers.
func Inspect(r io.Reader, markers Markers) (BlockInfo, error) {
	if err := markers.Validate(); err != nil {
		return BlockInfo{}, err
	}
	markers = markers.trimmed()

	var info BlockInfo
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, ok, err := readLine(br)
		if err != nil {
			return info, err
		}
		if !ok {
			return info, nil
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case !info.HasStart:
			if trimmed == markers.Start {
				info.HasStart = true
				info.StartLine = n
			}
		case trimmed == markers.End:
			info.HasEnd = true
			info.EndLine = n
			return info, nil
		default:
			info.Body = append(info.Body, line)
		}
	}
}

// InspectFile is Inspect on the file at path.
func InspectFile(path string, markers Markers) (BlockInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return BlockInfo{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := Inspect(f, markers)
	if err != nil {
		return info, fmt.Errorf("reading %s: %w", path, err)
	}
	return info, nil
}
