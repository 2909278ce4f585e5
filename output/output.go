// Package output prints styled status lines for the quill CLI.
//
// It follows the Firebird suite conventions (🔥 success, ❌ error, ℹ️ info)
// and adds a warning style for blocks that need attention. Output goes to
// stdout unless redirected with SetWriter.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	verbose bool
)

// SetWriter redirects all output. Passing nil restores stdout.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// SetVerbose enables Verbose lines. The CLI calls this for --verbose.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Success reports a completed operation.
//
//	output.Success("Regenerated src/qlocale_data_p.h")
func Success(msg string) {
	emit(successStyle.Render("🔥 " + msg))
}

// Error reports a failure that needs attention.
func Error(msg string) {
	emit(errorStyle.Render("❌ " + msg))
}

// Warn reports something that did not fail but is probably wrong, such as
// a stale block.
func Warn(msg string) {
	emit(warnStyle.Render("⚠️  " + msg))
}

// Info prints a status update.
func Info(msg string) {
	emit(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented sub-item.
func Step(msg string) {
	emit(stepStyle.Render("   " + msg))
}

// Verbose prints debugging detail when verbose mode is on.
func Verbose(msg string) {
	mu.Lock()
	on := verbose
	mu.Unlock()
	if on {
		emit(stepStyle.Render("🔍 " + msg))
	}
}

func emit(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, s)
}
