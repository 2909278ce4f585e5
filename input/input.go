// Package input asks yes/no questions on the terminal.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Confirm asks message on stdout and reads the answer from stdin.
//
//	if input.Confirm("Overwrite 2 existing file(s)?", false) {
//	    // User said yes
//	}
//	// Displays: Overwrite 2 existing file(s)? [y/N]: _
func Confirm(message string, defaultYes bool) bool {
	return ConfirmFrom(os.Stdin, os.Stdout, message, defaultYes)
}

// ConfirmFrom is Confirm on explicit streams. y and yes (any case) mean yes;
// an empty answer or a read error gives defaultYes.
func ConfirmFrom(in io.Reader, out io.Writer, message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	// An answer cut short by EOF still counts.
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}
