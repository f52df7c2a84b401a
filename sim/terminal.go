// Styles log output for terminal delivery. Styling is applied only at
// render time so the plain-text lines stored in LogSink stay byte-identical
// to what a file destination receives.

package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleOS       = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	styleProcess  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleDefault  = lipgloss.NewStyle()
)

// RenderToTerminal writes each line to w with a color chosen by its
// content: OS-emitted lines (process completion, simulator start/end) in
// one accent color, per-process activity lines in another.
func RenderToTerminal(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, styleFor(line).Render(line))
	}
}

func styleFor(line string) lipgloss.Style {
	msg := line
	if idx := strings.Index(line, " - "); idx >= 0 {
		msg = line[idx+3:]
	}
	switch {
	case strings.HasPrefix(msg, "OS:"), strings.HasPrefix(msg, "Simulator program"):
		return styleOS
	case strings.HasPrefix(msg, "Process"):
		return styleProcess
	default:
		return styleDefault
	}
}
