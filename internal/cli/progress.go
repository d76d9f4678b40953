package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// NewProgress creates a bar for steps pieces of work. It writes to w and clears
// itself when finished, so the output that follows starts on a clean line.
func NewProgress(w io.Writer, steps int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[blue]█[reset]",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionClearOnFinish(),
	)
}
