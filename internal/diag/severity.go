package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevHint is for editor-grade hints.
	SevHint Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "HINT"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
