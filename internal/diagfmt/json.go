package diagfmt

import (
	"encoding/json"
	"io"

	"sysmlkit/internal/diag"
	"sysmlkit/internal/source"
)

// LocationJSON is a span rendered with 1-based positions.
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root structure of the JSON rendering.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(sp source.Span, fs *source.FileSet, mode PathMode) LocationJSON {
	return LocationJSON{
		File:      displayPath(sp.File, fs, mode),
		StartLine: sp.Start.Line + 1,
		StartCol:  sp.Start.Col + 1,
		EndLine:   sp.End.Line + 1,
		EndCol:    sp.End.Col + 1,
	}
}

// BuildDiagnosticsOutput assembles the JSON structure without serializing it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode),
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, n := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message:  n.Msg,
					Location: makeLocation(n.Span, fs, opts.PathMode),
				}
			}
		}
		diagnostics = append(diagnostics, dj)
	}
	return DiagnosticsOutput{Diagnostics: diagnostics, Count: len(diagnostics)}
}

// JSON renders the bag as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(bag, fs, opts)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
