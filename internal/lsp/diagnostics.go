package lsp

import (
	"github.com/sparvlang/sparv/internal/core"
	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/sparvlang/sparv/internal/sourcecode"
)

const (
	DIAGNOSTICS_SOURCE         = "sparv"
	PUBLISH_DIAGNOSTICS_METHOD = "textDocument/publishDiagnostics"
)

// computeDiagnostics converts the errors and warnings of a parse result, the result is never nil because the
// diagnostic list should be present in notifications.
func computeDiagnostics(result *core.ParseResult) []defines.Diagnostic {
	diagnostics := make([]defines.Diagnostic, 0, len(result.Errors))

	for _, err := range result.Errors {
		diagnostics = append(diagnostics, toLspDiagnostic(err))
	}

	if result.Analysis != nil {
		for _, warning := range result.Analysis.Warnings {
			diagnostics = append(diagnostics, toLspDiagnostic(warning))
		}
	}

	return diagnostics
}

func toLspDiagnostic(d *sourcecode.Diagnostic) defines.Diagnostic {
	severity := defines.DiagnosticSeverityError
	if d.IsWarning() {
		severity = defines.DiagnosticSeverityWarning
	}

	return defines.Diagnostic{
		Range:    spanToLspRange(d.Line, d.Start, d.End),
		Severity: severity,
		Source:   DIAGNOSTICS_SOURCE,
		Message:  d.Message,
	}
}

func spanToLspRange(line, start, end int32) defines.Range {
	if end < start {
		end = start
	}
	lspLine := uint(max(line-1, 0))
	return defines.Range{
		Start: defines.Position{Line: lspLine, Character: uint(max(start, 0))},
		End:   defines.Position{Line: lspLine, Character: uint(max(end, 0))},
	}
}

func (s *Server) publishDiagnostics(state *sessionState, uri defines.DocumentUri) {
	logger := state.rpcSession.Logger()

	result, _, version, err := state.parse(uri)
	if err != nil {
		logger.Debug().Err(err).Str("uri", string(uri)).Msg("no diagnostics")
		return
	}

	err = state.rpcSession.Notify(PUBLISH_DIAGNOSTICS_METHOD, defines.PublishDiagnosticsParams{
		Uri:         uri,
		Version:     &version,
		Diagnostics: computeDiagnostics(result),
	})
	if err != nil {
		logger.Err(err).Msg("failed to publish diagnostics")
	}
}

// scheduleDiagnostics publishes the diagnostics of a document once it has not changed for the debounce duration,
// they are published immediately if the duration is zero.
func (s *Server) scheduleDiagnostics(state *sessionState, uri defines.DocumentUri) {
	if s.opts.Debounce <= 0 {
		s.publishDiagnostics(state, uri)
		return
	}

	debounced := state.debouncer(uri, newDebouncer(s.opts))
	debounced(func() {
		if state.rpcSession.IsClosed() {
			return
		}
		s.publishDiagnostics(state, uri)
	})
}
