package sourcecode

import (
	"fmt"
	"strings"
)

type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// A Diagnostic is a located error (or warning) produced by the scanner, the parser, the analyzer or the
// interpreter. Line is 1-based, Start and End are 0-based columns and End is exclusive.
// A Diagnostic is never modified after its creation.
type Diagnostic struct {
	Message  string             `json:"message"`
	Line     int32              `json:"line"`
	Start    int32              `json:"start"`
	End      int32              `json:"end"`
	Severity DiagnosticSeverity `json:"severity"`
}

func NewDiagnostic(msg string, line, start, end int32) *Diagnostic {
	return &Diagnostic{
		Message:  msg,
		Line:     line,
		Start:    start,
		End:      end,
		Severity: SeverityError,
	}
}

func NewWarning(msg string, line, start, end int32) *Diagnostic {
	d := NewDiagnostic(msg, line, start, end)
	d.Severity = SeverityWarning
	return d
}

func (d *Diagnostic) Error() string {
	return d.Message
}

func (d *Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// Location returns line:start.
func (d *Diagnostic) Location() string {
	return fmt.Sprintf("%d:%d", d.Line, d.Start)
}

// DiagnosticAggregation is returned by operations that report several diagnostics at once.
type DiagnosticAggregation struct {
	Message     string        `json:"completeMessage"`
	Diagnostics []*Diagnostic `json:"diagnostics"`
}

func (err DiagnosticAggregation) Error() string {
	return err.Message
}

// AggregateDiagnostics returns nil if diagnostics is empty.
func AggregateDiagnostics(sourceName string, diagnostics []*Diagnostic) error {
	if len(diagnostics) == 0 {
		return nil
	}

	var b strings.Builder
	for i, d := range diagnostics {
		if i != 0 {
			b.WriteByte('\n')
		}
		if sourceName != "" {
			b.WriteString(sourceName)
			b.WriteByte(':')
		}
		b.WriteString(d.Location())
		b.WriteString(": ")
		b.WriteString(d.Message)
	}

	return &DiagnosticAggregation{
		Message:     b.String(),
		Diagnostics: diagnostics,
	}
}
