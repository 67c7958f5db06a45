package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"trafficctl/internal/jobs"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiBold   = "\x1b[1m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// statusCell renders a status badge for table output.
func statusCell(status jobs.Status, colorize bool) string {
	badge := status.Badge()
	label := badge.Label
	if badge.Spinner {
		label = "⠿ " + label
	}
	if !colorize {
		return label
	}
	switch status {
	case jobs.StatusPending:
		return ansiYellow + label + ansiReset
	case jobs.StatusAnalyzing:
		return ansiBlue + label + ansiReset
	case jobs.StatusComplete:
		return ansiGreen + label + ansiReset
	default:
		return label
	}
}

// highlightCell wraps the job number of the highlight target so the row
// stands out on every render until a new highlight is armed.
func highlightCell(value string, colorize bool) string {
	if !colorize {
		return "* " + value
	}
	return ansiBold + value + ansiReset
}
