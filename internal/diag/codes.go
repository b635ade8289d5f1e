package diag

import "fmt"

// Code identifies a diagnostic class. Errors render as E####, warnings as
// W####.
type Code uint16

const (
	UnknownCode Code = 0

	// Semantic errors.
	UndefinedReference    Code = 1 // name did not resolve
	AmbiguousReference    Code = 2 // name resolved to multiple candidates
	TypeMismatch          Code = 3
	DuplicateDefinition   Code = 4
	MissingRequired       Code = 5
	InvalidSpecialization Code = 6
	CircularDependency    Code = 7

	// Lexical and I/O errors.
	InvalidSyntax   Code = 100
	IOLoadFileError Code = 101

	warningBase Code = 1000

	// Warnings.
	UnusedSymbol     Code = warningBase + 1
	Deprecated       Code = warningBase + 2
	NamingConvention Code = warningBase + 3
)

func (c Code) String() string {
	switch {
	case c == UnknownCode:
		return "E0000"
	case c > warningBase:
		return fmt.Sprintf("W%04d", c-warningBase)
	default:
		return fmt.Sprintf("E%04d", c)
	}
}

// DefaultSeverity returns the severity a code is reported with unless a phase
// overrides it.
func (c Code) DefaultSeverity() Severity {
	if c > warningBase {
		return SevWarning
	}
	return SevError
}
