package server

import "jetlint.dev/pkg/lint"

// toLSPDiagnostics converts linter diagnostics to LSP diagnostics.
// The linter reports 1-based lines and columns; LSP wants 0-based.
func toLSPDiagnostics(diags []lint.Diagnostic) []Diagnostic {
	// Always non-nil: publishDiagnostics must send [], not null, to clear
	// stale diagnostics on the client.
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, Diagnostic{
			Range: Range{
				Start: toLSPPosition(d.Start),
				End:   toLSPPosition(d.End),
			},
			Severity: toLSPSeverity(d.Severity),
			Code:     d.Rule,
			Source:   "jetlint",
			Message:  d.Message,
		})
	}
	return out
}

func toLSPPosition(p lint.Pos) Position {
	return Position{
		Line:      max(0, p.Line-1),
		Character: max(0, p.Col-1),
	}
}

func toLSPSeverity(s lint.Severity) DiagnosticSeverity {
	switch s {
	case lint.SeverityWarning:
		return SeverityWarning
	default:
		return SeverityError
	}
}
