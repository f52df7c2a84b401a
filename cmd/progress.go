// Implements barProgress, the progressbar/v3-backed sim.ProgressReporter
// wired in behind the --progress flag.

package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

type barProgress struct {
	bar *progressbar.ProgressBar
}

func newBarProgress(total int, colorMode string) *barProgress {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(describeStyle(colorMode).Render("scheduling")),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() { os.Stderr.Write([]byte("\n")) }),
	}
	return &barProgress{bar: progressbar.NewOptions(total, opts...)}
}

func (b *barProgress) Add(n int) {
	_ = b.bar.Add(n)
}

func (b *barProgress) Finish() {
	_ = b.bar.Finish()
}

func describeStyle(colorMode string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if colorMode == "never" {
		return lipgloss.NewStyle()
	}
	return style
}
