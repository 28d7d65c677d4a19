package core

import (
	"errors"
	"fmt"

	"github.com/sparvlang/sparv/internal/parse"
	"github.com/sparvlang/sparv/internal/sourcecode"
)

// ParseResult is the result of Parse, Chunk is nil if the source could not be parsed.
type ParseResult struct {
	Chunk    *parse.Chunk
	Tokens   []parse.Token
	Errors   []*sourcecode.Diagnostic
	Analysis *AnalysisData //nil if Chunk is nil
}

func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) != 0
}

// Parse scans, parses and analyzes the source. The lexical or syntax error comes first in Errors, followed by the
// errors of the analysis. Parse does not return an error because all errors are located.
func Parse(src string, opts ...AnalysisOption) *ParseResult {
	chunk, tokens, err := parse.ParseChunk(src)

	result := &ParseResult{
		Tokens: tokens,
	}

	if err != nil {
		var diagnostic *sourcecode.Diagnostic
		if !errors.As(err, &diagnostic) {
			diagnostic = sourcecode.NewDiagnostic(err.Error(), 1, 0, 0)
		}
		result.Errors = append(result.Errors, diagnostic)
		return result
	}

	result.Chunk = chunk
	result.Analysis = Analyze(chunk, opts...)
	result.Errors = append(result.Errors, result.Analysis.Errors...)
	return result
}

// Interpret executes the statements of the chunk in the module frame of the state. A return statement at the
// top level stops the execution, its value is returned. The execution stops at the first runtime error, the
// error is an *EvalError unless the error is internal.
func Interpret(chunk *parse.Chunk, state *TreeWalkState) (Value, error) {
	if chunk == nil {
		return nil, fmt.Errorf("%w: nil chunk", ErrUnreachable)
	}

	state.logger.Debug().Int("statements", len(chunk.Statements)).Msg("interpretation start")

	result, err := TreeWalkEval(chunk, state)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Run parses, analyzes and executes the source, analysis errors prevent the execution.
func Run(src string, state *TreeWalkState) (Value, error) {
	result := Parse(src)
	if result.HasErrors() {
		return nil, sourcecode.AggregateDiagnostics("", result.Errors)
	}
	return Interpret(result.Chunk, state)
}
