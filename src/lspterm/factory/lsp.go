package factory

import (
	"go.lsp.dev/protocol"
)

// LineRange returns a range covering columns [start, end) of a single line.
func LineRange(line, start, end uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: start},
		End:   protocol.Position{Line: line, Character: end},
	}
}

// Diagnostic returns an error diagnostic over the given range.
func Diagnostic(r protocol.Range, message string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    r,
		Severity: protocol.DiagnosticSeverityError,
		Source:   "factory",
		Message:  message,
	}
}
