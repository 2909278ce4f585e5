// Package transcribe rewrites a file through a scratch copy and swaps the
// copy into place only when the rewrite succeeds.
//
// # Transcriber
//
// A Transcriber streams the original file line by line while new content is
// written to a scratch file in a caller-chosen directory. Commit closes both
// streams and replaces the original; Cleanup abandons the edit and removes
// the scratch file. Exactly one of the two must run for every Begin:
//
//	t, err := transcribe.Begin("config.h", "")
//	if err != nil {
//	    return err
//	}
//	defer t.Cleanup() // no-op after a successful Commit
//
//	for {
//	    line, ok, err := t.ReadLine()
//	    if err != nil {
//	        return err
//	    }
//	    if !ok {
//	        break
//	    }
//	    if err := t.WriteLine(strings.ToUpper(line)); err != nil {
//	        return err
//	    }
//	}
//	return t.Commit()
//
// # Marked blocks
//
// Editor specializes Transcriber for files with a generated region between
// a start-marker line and an end-marker line. Open copies everything up to
// and including the start marker, the caller writes the new region, and
// Close skips the old region, keeps the end marker and copies the rest:
//
//	err := transcribe.Edit("qlocale_data_p.h", "", func(e *transcribe.Editor) error {
//	    return tmpl.Execute(e, data)
//	}, transcribe.WithStrict(true))
//
// By default a missing marker is tolerated: a missing start marker copies
// the whole file before the new content, and a missing end marker drops
// everything after the new content. WithStrict turns both cases into
// ErrStartMarkerNotFound and ErrEndMarkerNotFound and leaves the original
// file untouched.
//
// # Replacement
//
// On Unix the scratch file is renamed over the original, so readers see
// either the old or the new file. On Windows the original is removed first
// and the scratch file renamed into its place, which leaves a short window
// in which the path does not exist.
package transcribe
