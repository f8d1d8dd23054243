// Package output formats terminal output: color handling, CI detection,
// and task progress reporting.
package output

import (
	"os"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// IsCI reports whether we are running under a CI system.
func IsCI() bool {
	return os.Getenv("CI") == "true"
}

// UseColor reports whether ANSI colors should be emitted.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if IsCI() {
		return true
	}
	return isTerminal()
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
