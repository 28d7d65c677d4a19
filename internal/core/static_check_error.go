package core

import (
	"fmt"

	"github.com/sparvlang/sparv/internal/parse"
	"github.com/sparvlang/sparv/internal/sourcecode"
)

func fmtVariableAlreadyDeclared(name string) string {
	return fmt.Sprintf("variable '%s' is already declared in this scope", name)
}

func fmtVariableNotDeclaredDidYouMean(name string, suggestion string) string {
	return fmt.Sprintf("variable '%s' is not declared, did you mean '%s'?", name, suggestion)
}

func fmtNativeFunctionCanOnlyBeCalled(name string) string {
	return fmt.Sprintf("native function '%s' can only be called", name)
}

func fmtVariableDeclaredButNotUsed(name string) string {
	return fmt.Sprintf("variable '%s' is declared but never used", name)
}

func makeCheckError(node parse.Node, msg string) *sourcecode.Diagnostic {
	span := node.Base().Span
	return sourcecode.NewDiagnostic(msg, span.Line, span.Start, span.End)
}

func makeCheckWarning(node parse.Node, msg string) *sourcecode.Diagnostic {
	span := node.Base().Span
	return sourcecode.NewWarning(msg, span.Line, span.Start, span.End)
}
