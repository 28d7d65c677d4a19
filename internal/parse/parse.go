package parse

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/sparvlang/sparv/internal/sourcecode"
)

const (
	ASSIGNMENT_PRECEDENCE = 1
	PIPE_PRECEDENCE       = 2
	OR_PRECEDENCE         = 3
	AND_PRECEDENCE        = 4
	EQUALITY_PRECEDENCE   = 5
	RELATIONAL_PRECEDENCE = 6
	ADDITIVE_PRECEDENCE   = 7
	PRODUCT_PRECEDENCE    = 8
	RANGE_PRECEDENCE      = 8
	PREFIX_PRECEDENCE     = 9
	POSTFIX_PRECEDENCE    = 10
)

var (
	ErrUnreachable = errors.New("unreachable")

	binaryOperators = map[TokenType]BinaryOperator{
		PLUS:                   Add,
		MINUS:                  Sub,
		ASTERISK:               Mul,
		SLASH:                  Div,
		PERCENT:                Mod,
		EQUAL_EQUAL:            Equal,
		EXCLAMATION_MARK_EQUAL: NotEqual,
		LESS_THAN:              LessThan,
		LESS_OR_EQUAL:          LessOrEqual,
		GREATER_THAN:           GreaterThan,
		GREATER_OR_EQUAL:       GreaterOrEqual,
		AND_KEYWORD:            And,
		OR_KEYWORD:             Or,
	}

	assignmentOperators = map[TokenType]AssignmentOperator{
		EQUAL:       Assign,
		PLUS_EQUAL:  PlusAssign,
		MINUS_EQUAL: MinusAssign,
	}
)

// InfixPrecedence returns the binding power of a token in infix position, 0 means that the token cannot
// continue an expression.
func InfixPrecedence(tokenType TokenType) int {
	switch tokenType {
	case EQUAL, PLUS_EQUAL, MINUS_EQUAL:
		return ASSIGNMENT_PRECEDENCE
	case ARROW:
		return PIPE_PRECEDENCE
	case OR_KEYWORD:
		return OR_PRECEDENCE
	case AND_KEYWORD:
		return AND_PRECEDENCE
	case EQUAL_EQUAL, EXCLAMATION_MARK_EQUAL:
		return EQUALITY_PRECEDENCE
	case LESS_THAN, LESS_OR_EQUAL, GREATER_THAN, GREATER_OR_EQUAL:
		return RELATIONAL_PRECEDENCE
	case PLUS, MINUS:
		return ADDITIVE_PRECEDENCE
	case ASTERISK, SLASH, PERCENT:
		return PRODUCT_PRECEDENCE
	case COLON:
		return RANGE_PRECEDENCE
	case OPENING_PARENTHESIS, OPENING_BRACKET, DOT:
		return POSTFIX_PRECEDENCE
	}
	return 0
}

// ParseChunk scans and parses src. Comments are ignored. Parsing stops at the first error, the returned error
// is then a *sourcecode.Diagnostic and the chunk is nil. The tokens are returned even if an error occurs
// (all the tokens scanned before a lexical error).
func ParseChunk(src string) (chunk *Chunk, tokens []Token, resultErr error) {
	tokens, err := Scan(src)
	if err != nil {
		return nil, tokens, err
	}

	p := newParser(tokens)

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		chunk = nil

		switch val := v.(type) {
		case *sourcecode.Diagnostic:
			resultErr = val
		case error:
			resultErr = fmt.Errorf("internal parsing error: %w: %s", val, debug.Stack())
		default:
			resultErr = fmt.Errorf("internal parsing error: %v: %s", v, debug.Stack())
		}
	}()

	chunk = p.parseChunk()
	return chunk, tokens, nil
}

// MustParseChunk parses src and panics if an error occurs.
func MustParseChunk(src string) *Chunk {
	chunk, _, err := ParseChunk(src)
	if err != nil {
		panic(err)
	}
	return chunk
}

// ParseExpression parses a single expression, the whole input should be consumed.
func ParseExpression(src string) (expr Node, resultErr error) {
	tokens, err := Scan(src)
	if err != nil {
		return nil, err
	}

	p := newParser(tokens)

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		expr = nil
		if d, ok := v.(*sourcecode.Diagnostic); ok {
			resultErr = d
			return
		}
		panic(v)
	}()

	expr = p.parseExpression(0)
	if p.currentType() != EOF {
		panic(newParsingError(fmtUnexpectedToken(p.current()), TokenSpan(p.current())))
	}
	return expr, nil
}

func newParsingError(msg string, span NodeSpan) *sourcecode.Diagnostic {
	return sourcecode.NewDiagnostic(msg, span.Line, span.Start, span.End)
}

// parser is a recursive descent parser for statements and a precedence climbing parser for expressions,
// the first error is panicked as a *sourcecode.Diagnostic.
type parser struct {
	tokens []Token
	i      int
}

func newParser(tokens []Token) *parser {
	filtered := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != COMMENT {
			filtered = append(filtered, t)
		}
	}

	if len(filtered) == 0 || filtered[len(filtered)-1].Type != EOF {
		filtered = append(filtered, Token{Type: EOF})
	}

	return &parser{tokens: filtered}
}

func (p *parser) current() Token {
	return p.tokens[p.i]
}

func (p *parser) currentType() TokenType {
	return p.tokens[p.i].Type
}

func (p *parser) peekType() TokenType {
	if p.i+1 >= len(p.tokens) {
		return EOF
	}
	return p.tokens[p.i+1].Type
}

func (p *parser) advance() Token {
	t := p.tokens[p.i]
	if t.Type != EOF {
		p.i++
	}
	return t
}

// previous returns the last consumed token, or the current one at the start of input.
func (p *parser) previous() Token {
	if p.i == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.i-1]
}

// expect consumes a token of the given type, the reported location is the one of the previous token.
func (p *parser) expect(tokenType TokenType) Token {
	if p.currentType() != tokenType {
		panic(newParsingError(fmtExpectedAfterThis(tokenType), TokenSpan(p.previous())))
	}
	return p.advance()
}

func (p *parser) parseChunk() *Chunk {
	chunk := &Chunk{}
	if len(p.tokens) > 0 {
		chunk.Span = TokenSpan(p.tokens[0])
	}

	for p.currentType() != EOF {
		chunk.Statements = append(chunk.Statements, p.parseDeclaration())
	}
	return chunk
}

func (p *parser) parseDeclaration() Node {
	switch p.currentType() {
	case IMPORT_KEYWORD:
		return p.parseImportStatement()
	default:
		return p.parseStatement()
	}
}

func (p *parser) parseStatement() Node {
	switch p.currentType() {
	case FUN_KEYWORD:
		if p.peekType() == IDENTIFIER {
			return p.parseFunctionDeclaration()
		}
	case VAR_KEYWORD:
		return p.parseVariableDeclaration()
	case IF_KEYWORD:
		return p.parseIfStatement()
	case WHILE_KEYWORD:
		return p.parseWhileStatement()
	case FOR_KEYWORD:
		return p.parseForStatement()
	case LOOP_KEYWORD:
		return p.parseLoopStatement()
	case RETURN_KEYWORD:
		return p.parseReturnStatement()
	case OPENING_CURLY_BRACKET:
		//a statement starting with '{' is an object literal, blocks only follow control flow keywords.
	}

	expr := p.parseExpression(0)
	p.expect(SEMICOLON)

	return &ExpressionStatement{
		NodeBase: NodeBase{Span: expr.Base().Span},
		Expr:     expr,
	}
}

func (p *parser) parseImportStatement() Node {
	keyword := p.expect(IMPORT_KEYWORD)

	if p.currentType() != STRING_LITERAL {
		panic(newParsingError(IMPORT_SOURCE_EXPECTED, TokenSpan(keyword)))
	}
	source := p.parseStringLiteral(p.advance())
	p.expect(SEMICOLON)

	return &ImportStatement{
		NodeBase: NodeBase{Span: TokenSpan(keyword)},
		Source:   source,
	}
}

func (p *parser) parseFunctionDeclaration() Node {
	keyword := p.expect(FUN_KEYWORD)
	name := p.parseDeclaredName(FN_DECL_NAME_EXPECTED)
	fn := p.parseFunctionRest(keyword)

	//optional
	if p.currentType() == SEMICOLON {
		p.advance()
	}

	return &VariableDeclaration{
		NodeBase:              NodeBase{Span: name.Span},
		Name:                  name,
		Init:                  fn,
		IsFunctionDeclaration: true,
	}
}

func (p *parser) parseVariableDeclaration() Node {
	p.expect(VAR_KEYWORD)
	name := p.parseDeclaredName(VAR_NAME_EXPECTED)

	decl := &VariableDeclaration{
		NodeBase: NodeBase{Span: name.Span},
		Name:     name,
	}

	if p.currentType() == EQUAL {
		p.advance()
		decl.Init = p.parseExpression(0)
	}
	p.expect(SEMICOLON)
	return decl
}

func (p *parser) parseDeclaredName(msg string) *IdentifierLiteral {
	t := p.current()
	switch {
	case t.Type == IDENTIFIER:
		p.advance()
		return &IdentifierLiteral{NodeBase: NodeBase{Span: TokenSpan(t)}, Name: t.Raw}
	case t.Type.IsKeyword():
		panic(newParsingError(fmtCannotUseKeywordAsName(t.Raw), TokenSpan(t)))
	default:
		panic(newParsingError(msg, TokenSpan(p.previous())))
	}
}

func (p *parser) parseBlock() *Block {
	openingBrace := p.expect(OPENING_CURLY_BRACKET)
	block := &Block{NodeBase: NodeBase{Span: TokenSpan(openingBrace)}}

	for p.currentType() != CLOSING_CURLY_BRACKET {
		if p.currentType() == EOF {
			p.expect(CLOSING_CURLY_BRACKET)
		}
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.advance()
	return block
}

func (p *parser) parseIfStatement() Node {
	keyword := p.expect(IF_KEYWORD)
	test := p.parseExpression(0)
	consequent := p.parseBlock()

	stmt := &IfStatement{
		NodeBase:   NodeBase{Span: TokenSpan(keyword)},
		Test:       test,
		Consequent: consequent,
	}

	if p.currentType() == ELSE_KEYWORD {
		p.advance()
		if p.currentType() == IF_KEYWORD {
			stmt.Alternate = p.parseIfStatement()
		} else {
			stmt.Alternate = p.parseBlock()
		}
	}
	return stmt
}

func (p *parser) parseWhileStatement() Node {
	keyword := p.expect(WHILE_KEYWORD)
	test := p.parseExpression(0)

	return &WhileStatement{
		NodeBase: NodeBase{Span: TokenSpan(keyword)},
		Test:     test,
		Body:     p.parseBlock(),
	}
}

func (p *parser) parseForStatement() Node {
	keyword := p.expect(FOR_KEYWORD)
	variable := p.parseDeclaredName(FOR_VARIABLE_NAME_EXPECTED)
	p.expect(IN_KEYWORD)
	iterated := p.parseExpression(0)

	return &ForStatement{
		NodeBase: NodeBase{Span: TokenSpan(keyword)},
		Variable: variable,
		Iterated: iterated,
		Body:     p.parseBlock(),
	}
}

func (p *parser) parseLoopStatement() Node {
	keyword := p.expect(LOOP_KEYWORD)
	count := p.parseExpression(0)

	return &LoopStatement{
		NodeBase: NodeBase{Span: TokenSpan(keyword)},
		Count:    count,
		Body:     p.parseBlock(),
	}
}

func (p *parser) parseReturnStatement() Node {
	keyword := p.expect(RETURN_KEYWORD)
	stmt := &ReturnStatement{NodeBase: NodeBase{Span: TokenSpan(keyword)}}

	if p.currentType() != SEMICOLON {
		stmt.Expr = p.parseExpression(0)
	}
	p.expect(SEMICOLON)
	return stmt
}

// parseFunctionRest parses the parameters and the body of a function, the 'fun' keyword and the optional
// name have already been consumed.
func (p *parser) parseFunctionRest(keyword Token) *FunctionExpression {
	p.expect(OPENING_PARENTHESIS)

	fn := &FunctionExpression{NodeBase: NodeBase{Span: TokenSpan(keyword)}}
	seen := map[string]struct{}{}

	for p.currentType() != CLOSING_PARENTHESIS {
		if len(fn.Parameters) > 0 {
			p.expect(COMMA)
		}
		param := p.parseDeclaredName(PARAM_NAME_EXPECTED)
		if _, ok := seen[param.Name]; ok {
			panic(newParsingError(DUPLICATE_PARAM_NAME, param.Span))
		}
		seen[param.Name] = struct{}{}
		fn.Parameters = append(fn.Parameters, param)
	}
	p.advance()

	if p.currentType() == OPENING_CURLY_BRACKET {
		fn.Body = p.parseBlock()
		return fn
	}

	//a single expression is the returned value.
	start := p.current()
	expr := p.parseExpression(0)
	fn.Body = &Block{
		NodeBase: NodeBase{Span: TokenSpan(start)},
		Statements: []Node{
			&ReturnStatement{NodeBase: NodeBase{Span: expr.Base().Span}, Expr: expr},
		},
	}
	return fn
}

func (p *parser) parseExpression(minPrecedence int) Node {
	left := p.parsePrefixExpression()

	for {
		precedence := InfixPrecedence(p.currentType())
		if precedence <= minPrecedence {
			return left
		}
		left = p.parseInfixExpression(left, p.advance(), precedence)
	}
}

func (p *parser) parsePrefixExpression() Node {
	t := p.advance()
	span := TokenSpan(t)

	switch t.Type {
	case NUMBER_LITERAL:
		return p.parseNumberLiteral(t)
	case STRING_LITERAL:
		return p.parseStringLiteral(t)
	case TRUE_KEYWORD, FALSE_KEYWORD:
		return &BooleanLiteral{NodeBase: NodeBase{Span: span}, Value: t.Type == TRUE_KEYWORD}
	case NIL_KEYWORD:
		return &NilLiteral{NodeBase: NodeBase{Span: span}}
	case IDENTIFIER:
		return &IdentifierLiteral{NodeBase: NodeBase{Span: span}, Name: t.Raw}
	case MINUS, EXCLAMATION_MARK:
		operator := NumberNegate
		if t.Type == EXCLAMATION_MARK {
			operator = BoolNegate
		}
		return &UnaryExpression{
			NodeBase: NodeBase{Span: span},
			Operator: operator,
			Operand:  p.parseExpression(PREFIX_PRECEDENCE),
		}
	case OPENING_PARENTHESIS:
		expr := p.parseExpression(0)
		p.expect(CLOSING_PARENTHESIS)
		return expr
	case OPENING_BRACKET:
		return p.parseListLiteral(t)
	case OPENING_CURLY_BRACKET:
		return p.parseObjectLiteral(t)
	case FUN_KEYWORD:
		return p.parseFunctionRest(t)
	case MATCH_KEYWORD:
		return p.parseMatchExpression(t)
	}

	panic(newParsingError(fmtUnexpectedToken(t), span))
}

func (p *parser) parseInfixExpression(left Node, operator Token, precedence int) Node {
	span := TokenSpan(operator)

	switch operator.Type {
	case OPENING_PARENTHESIS:
		var args []Node
		for p.currentType() != CLOSING_PARENTHESIS {
			args = append(args, p.parseExpression(0))
			if p.currentType() != CLOSING_PARENTHESIS {
				p.expect(COMMA)
			}
		}
		p.advance()
		return makeCall(left.Base().Span, left, args, false)
	case OPENING_BRACKET:
		index := p.parseExpression(0)
		p.expect(CLOSING_BRACKET)
		return &IndexExpression{
			NodeBase: NodeBase{Span: left.Base().Span.Join(span)},
			Indexed:  left,
			Index:    index,
		}
	case DOT:
		return p.parseMemberExpression(left, operator)
	case ARROW:
		right := p.parseExpression(precedence)
		switch right.(type) {
		case *IdentifierLiteral, *MemberExpression, *ComputedMemberExpression, *IndexExpression,
			*FunctionExpression, *CallExpression, *NativeCallExpression:
		default:
			panic(newParsingError(ARROW_TARGET_EXPECTED, span))
		}
		return makeCall(right.Base().Span, right, []Node{left}, true)
	case COLON:
		return &RangeExpression{
			NodeBase: NodeBase{Span: span},
			Lower:    left,
			Upper:    p.parseExpression(precedence),
		}
	case EQUAL, PLUS_EQUAL, MINUS_EQUAL:
		if !IsAssignable(left) {
			panic(newParsingError(INVALID_ASSIGNMENT_TARGET, span))
		}
		return &AssignmentExpression{
			NodeBase: NodeBase{Span: span},
			Operator: assignmentOperators[operator.Type],
			Left:     left,
			//right associative
			Right: p.parseExpression(precedence - 1),
		}
	}

	binaryOperator, ok := binaryOperators[operator.Type]
	if !ok {
		panic(fmt.Errorf("%w: %s is not an infix operator", ErrUnreachable, operator.Type))
	}

	return &BinaryExpression{
		NodeBase: NodeBase{Span: span},
		Operator: binaryOperator,
		Left:     left,
		Right:    p.parseExpression(precedence),
	}
}

// parseMemberExpression parses a.b, a.[expr] and the assignments a.b = v, a.[expr] = v.
func (p *parser) parseMemberExpression(left Node, dot Token) Node {
	var member Node

	switch p.currentType() {
	case IDENTIFIER:
		t := p.advance()
		member = &MemberExpression{
			NodeBase:     NodeBase{Span: TokenSpan(t)},
			Left:         left,
			PropertyName: &IdentifierLiteral{NodeBase: NodeBase{Span: TokenSpan(t)}, Name: t.Raw},
		}
	case OPENING_BRACKET:
		p.advance()
		name := p.parseExpression(0)
		p.expect(CLOSING_BRACKET)
		member = &ComputedMemberExpression{
			NodeBase:     NodeBase{Span: TokenSpan(dot)},
			Left:         left,
			PropertyName: name,
		}
	default:
		panic(newParsingError(PROPERTY_NAME_EXPECTED, TokenSpan(dot)))
	}

	if p.currentType() == EQUAL {
		equal := p.advance()
		return &AssignmentExpression{
			NodeBase: NodeBase{Span: TokenSpan(equal)},
			Operator: Assign,
			Left:     member,
			Right:    p.parseExpression(0),
		}
	}
	return member
}

func (p *parser) parseNumberLiteral(t Token) *NumberLiteral {
	text := strings.ReplaceAll(t.Raw, "_", "")
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || text == "" {
		panic(newParsingError(INVALID_NUMBER_LITERAL, TokenSpan(t)))
	}

	return &NumberLiteral{
		NodeBase: NodeBase{Span: TokenSpan(t)},
		Raw:      t.Raw,
		Value:    value,
	}
}

func (p *parser) parseStringLiteral(t Token) *StringLiteral {
	return &StringLiteral{
		NodeBase: NodeBase{Span: TokenSpan(t)},
		Raw:      t.Raw,
		Value:    t.Raw[1 : len(t.Raw)-1],
	}
}

func (p *parser) parseListLiteral(openingBracket Token) Node {
	list := &ListLiteral{NodeBase: NodeBase{Span: TokenSpan(openingBracket)}}

	for p.currentType() != CLOSING_BRACKET {
		list.Elements = append(list.Elements, p.parseExpression(0))
		if p.currentType() != CLOSING_BRACKET {
			p.expect(COMMA)
		}
	}
	p.advance()
	return list
}

func (p *parser) parseObjectLiteral(openingBrace Token) Node {
	obj := &ObjectLiteral{NodeBase: NodeBase{Span: TokenSpan(openingBrace)}}
	keys := map[string]struct{}{}

	for p.currentType() != CLOSING_CURLY_BRACKET {
		keyToken := p.current()
		var key string

		switch keyToken.Type {
		case IDENTIFIER:
			key = keyToken.Raw
		case STRING_LITERAL:
			key = p.parseStringLiteral(keyToken).Value
		default:
			if keyToken.Type.IsKeyword() {
				key = keyToken.Raw
			} else {
				panic(newParsingError(OBJECT_KEY_EXPECTED, TokenSpan(keyToken)))
			}
		}
		p.advance()

		if _, ok := keys[key]; ok {
			panic(newParsingError(fmtDuplicateKey(key), TokenSpan(keyToken)))
		}
		keys[key] = struct{}{}

		p.expect(COLON)
		obj.Properties = append(obj.Properties, &ObjectProperty{
			NodeBase: NodeBase{Span: TokenSpan(keyToken)},
			Key:      key,
			Value:    p.parseExpression(0),
		})

		if p.currentType() != CLOSING_CURLY_BRACKET {
			p.expect(COMMA)
		}
	}
	p.advance()
	return obj
}

// parseMatchExpression parses match <expr> { <value> | <result>, ... }, a trailing comma is allowed.
func (p *parser) parseMatchExpression(keyword Token) Node {
	expr := &MatchExpression{
		NodeBase:     NodeBase{Span: TokenSpan(keyword)},
		Discriminant: p.parseExpression(0),
	}
	p.expect(OPENING_CURLY_BRACKET)

	for p.currentType() != CLOSING_CURLY_BRACKET {
		start := p.current()
		value := p.parseExpression(0)
		p.expect(PIPE)
		result := p.parseExpression(0)

		expr.Cases = append(expr.Cases, &MatchCase{
			NodeBase: NodeBase{Span: TokenSpan(start)},
			Value:    value,
			Result:   result,
		})

		if p.currentType() != CLOSING_CURLY_BRACKET {
			p.expect(COMMA)
		}
	}
	p.advance()
	return expr
}
