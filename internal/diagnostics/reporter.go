package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	headingColor = color.New(color.FgRed, color.Bold)
	regionColor  = color.New(color.FgCyan)
)

// Reporter writes diagnostics to a stream, colorized when the stream
// is a terminal (or forced through the color mode).
type Reporter struct {
	out      io.Writer
	colorize bool
}

// NewReporter builds a reporter for out. mode is "auto", "always" or
// "never"; auto enables color only when out is a terminal.
func NewReporter(out io.Writer, mode string) *Reporter {
	colorize := false
	switch mode {
	case "always":
		colorize = true
	case "never":
		colorize = false
	default:
		if f, ok := out.(*os.File); ok {
			colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Reporter{out: out, colorize: colorize}
}

// Report writes one diagnostic.
func (r *Reporter) Report(d Diagnostic) {
	heading := fmt.Sprintf("-- %s ", d.Title())
	location := fmt.Sprintf("at %s", d.Region)
	if r.colorize {
		heading = headingColor.Sprint(heading)
		location = regionColor.Sprint(location)
	}
	fmt.Fprintf(r.out, "%s%s\n\n%s\n", heading, location, d.Message())
}

// ReportAll writes every diagnostic and returns how many there were.
func (r *Reporter) ReportAll(ds []Diagnostic) int {
	for _, d := range ds {
		r.Report(d)
	}
	return len(ds)
}
