package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sailkite/dockyard/src/sched"
)

// Printer writes per-task progress lines. It implements sched.Reporter.
type Printer struct {
	Writer io.Writer
	Color  bool
}

// NewPrinter creates a printer writing to stdout with color auto-detection.
func NewPrinter() *Printer {
	return &Printer{
		Writer: os.Stdout,
		Color:  UseColor(),
	}
}

// TaskFinished prints one status line per completed task.
func (p *Printer) TaskFinished(ev sched.Event) {
	mark, color := p.decorate(ev.Status)
	line := fmt.Sprintf("%s %s", mark, ev.Task)
	if ev.Duration > 0 {
		line += fmt.Sprintf(" (%s)", roundDuration(ev.Duration))
	}
	if ev.Err != nil {
		line += fmt.Sprintf(": %v", ev.Err)
	}
	if p.Color && color != "" {
		fmt.Fprintf(p.Writer, "%s%s%s\n", color, line, colorReset)
		return
	}
	fmt.Fprintln(p.Writer, line)
}

func (p *Printer) decorate(status sched.Status) (mark, color string) {
	switch status {
	case sched.StatusDone:
		return "✓", colorGreen
	case sched.StatusSkipped:
		return "-", colorGray
	case sched.StatusBlocked:
		return "↷", colorYellow
	case sched.StatusFailed:
		return "✗", colorRed
	default:
		return "?", ""
	}
}

func roundDuration(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		return d.Round(100 * time.Millisecond)
	case d > time.Millisecond:
		return d.Round(time.Millisecond)
	default:
		return d
	}
}
