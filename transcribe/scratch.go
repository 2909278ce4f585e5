package transcribe

import "io"

// scratchFile stages the rewritten content next to the target.
//
// replace closes the file and moves it over the target path. discard closes
// it if still open and removes it; a file that is already gone is not an
// error.
type scratchFile interface {
	io.Writer
	Name() string
	replace() error
	discard() error
}
