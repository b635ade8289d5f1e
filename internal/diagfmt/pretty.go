package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"sysmlkit/internal/diag"
	"sysmlkit/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.FgBlue)
	pathColor    = color.New(color.Bold)
)

// Pretty renders diagnostics in a human-readable form. It walks bag.Items()
// in order, so callers sort the bag first. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// optionally followed by the source line with an underline, then the notes
// in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writePrimary(w, d, fs, opts)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				writeNote(w, n, fs, opts)
			}
		}
	}
	writeSummary(w, bag, opts)
}

func writePrimary(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sevColor := severityColor(d.Severity)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		paint(pathColor, formatLocation(d.Primary, fs, opts.PathMode), opts.Color),
		paint(sevColor, d.Severity.String(), opts.Color),
		paint(sevColor, d.Code.String(), opts.Color),
		d.Message)
	if opts.ShowContext {
		writeContext(w, d.Primary, fs, sevColor, opts.Color)
	}
}

func writeNote(w io.Writer, n diag.Note, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "  %s: %s: %s\n",
		formatLocation(n.Span, fs, opts.PathMode),
		paint(noteColor, "note", opts.Color),
		n.Msg)
}

// writeContext prints the first line the span covers with a caret underline.
// Spans reaching past the line underline to the line's end.
func writeContext(w io.Writer, sp source.Span, fs *source.FileSet, c *color.Color, colored bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	line := f.GetLine(sp.Start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	width := uint32(len([]rune(line)))
	start := sp.Start.Col
	if start > width {
		start = width
	}
	end := width
	if sp.End.Line == sp.Start.Line && sp.End.Col < end {
		end = sp.End.Col
	}
	if end <= start {
		end = start + 1
	}
	underline := "^" + strings.Repeat("~", int(end-start-1))
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", int(start)), paint(c, underline, colored))
}

func writeSummary(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	var errs, warns int
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		return
	}
	parts := make([]string, 0, 2)
	if errs > 0 {
		parts = append(parts, paint(errorColor, fmt.Sprintf("%d error(s)", errs), opts.Color))
	}
	if warns > 0 {
		parts = append(parts, paint(warningColor, fmt.Sprintf("%d warning(s)", warns), opts.Color))
	}
	fmt.Fprintf(w, "%s\n", strings.Join(parts, ", "))
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func paint(c *color.Color, s string, enabled bool) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

// formatLocation renders "path:line:col" with 1-based positions.
func formatLocation(sp source.Span, fs *source.FileSet, mode PathMode) string {
	return fmt.Sprintf("%s:%d:%d", displayPath(sp.File, fs, mode), sp.Start.Line+1, sp.Start.Col+1)
}

func displayPath(id source.FileID, fs *source.FileSet, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return fmt.Sprintf("<file %d>", id)
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
	case PathModeRelative:
		if rel, err := filepath.Rel(fs.BaseDir(), f.Path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	return f.Path
}
