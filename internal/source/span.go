package source

import (
	"fmt"
)

// Span marks a region of a source file using 0-indexed line/column positions.
// End is exclusive.
type Span struct {
	File  FileID
	Start LineCol
	End   LineCol
}

// NewSpan builds a span from raw line/column values.
func NewSpan(file FileID, startLine, startCol, endLine, endCol uint32) Span {
	return Span{
		File:  file,
		Start: LineCol{Line: startLine, Col: startCol},
		End:   LineCol{Line: endLine, Col: endCol},
	}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

// String renders the span with 1-based positions for human output.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d:%d-%d:%d", s.File, s.Start.Line+1, s.Start.Col+1, s.End.Line+1, s.End.Col+1)
}

// Cover widens s to include other. Spans from different files are left alone.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}
