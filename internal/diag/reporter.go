package diag

import "sysmlkit/internal/source"

// Reporter is the minimal sink contract phases report diagnostics through.
// Implementations: BagReporter (collects into a Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter stores reported diagnostics in a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r *BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil || r.Bag == nil {
		return
	}
	d := New(sev, code, primary, msg)
	d.Notes = notes
	r.Bag.Add(d)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// ReportBuilder accumulates diagnostic details before emitting to a Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// ReportError starts a SevError diagnostic bound to r.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: NewError(code, primary, msg)}
}

// ReportWarning starts a SevWarning diagnostic bound to r.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: NewWarning(code, primary, msg)}
}

// WithNote appends a note.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Span: sp, Msg: msg})
	return b
}

// Emit sends the diagnostic to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.reporter != nil {
		b.reporter.Report(b.diag.Code, b.diag.Severity, b.diag.Primary, b.diag.Message, b.diag.Notes)
	}
}
