package parse

import (
	"fmt"
	"strings"
)

const (
	UNTERMINATED_STRING        = "unterminated string"
	INVALID_NUMBER_LITERAL     = "invalid number literal"
	UNEXPECTED_END_OF_INPUT    = "unexpected end of input"
	INVALID_ASSIGNMENT_TARGET  = "invalid assignment target: only variables, list elements and object fields can be assigned"
	FN_DECL_NAME_EXPECTED      = "a function declaration should have a name"
	PARAM_NAME_EXPECTED        = "a parameter name was expected"
	DUPLICATE_PARAM_NAME       = "duplicate parameter name"
	OBJECT_KEY_EXPECTED        = "an object key (identifier or string) was expected"
	PROPERTY_NAME_EXPECTED     = "a property name or '[' was expected after '.'"
	FOR_VARIABLE_NAME_EXPECTED = "a variable name was expected after 'for'"
	VAR_NAME_EXPECTED          = "a variable name was expected after 'var'"
	IMPORT_SOURCE_EXPECTED     = "a string was expected after 'import'"
	ARROW_TARGET_EXPECTED      = "a function was expected after '->'"
)

func fmtUnexpectedChar(r rune) string {
	return fmt.Sprintf("unexpected char '%c'", r)
}

func fmtUnexpectedToken(t Token) string {
	if t.Type == EOF {
		return UNEXPECTED_END_OF_INPUT
	}
	return fmt.Sprintf("unexpected token '%s'", t.Str())
}

func fmtExpectedAfterThis(expected TokenType) string {
	return fmt.Sprintf("expected '%s' after this", tokenStrings[expected])
}

func fmtNativeArity(name string, arity int) string {
	switch arity {
	case 0:
		return fmt.Sprintf("%s() takes no arguments", name)
	case 1:
		return fmt.Sprintf("%s() takes 1 argument", name)
	default:
		return fmt.Sprintf("%s() takes %d arguments", name, arity)
	}
}

func fmtCannotUseKeywordAsName(keyword string) string {
	return fmt.Sprintf("'%s' is a keyword and cannot be used as a name", keyword)
}

func fmtDuplicateKey(key string) string {
	return fmt.Sprintf("duplicate key '%s' in object literal", strings.TrimSpace(key))
}
