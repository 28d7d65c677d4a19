package parse

// A Node is one of the node types declared in this file, the set is closed: code switching over nodes
// (analysis, evaluation, walking) handles every type.
type Node interface {
	Base() NodeBase
	BasePtr() *NodeBase
	Kind() NodeKind
}

// NodeSpan is the location used when reporting an error about a node, it always covers a single line.
// Line is 1-based, Start and End are 0-based columns and End is exclusive.
type NodeSpan struct {
	Line  int32 `json:"line"`
	Start int32 `json:"start"`
	End   int32 `json:"end"`
}

func TokenSpan(t Token) NodeSpan {
	return NodeSpan{Line: t.Line, Start: t.Start, End: t.End}
}

// Join returns a span starting at s and ending at other if both are on the same line, s otherwise.
func (s NodeSpan) Join(other NodeSpan) NodeSpan {
	if s.Line != other.Line || other.End < s.Start {
		return s
	}
	return NodeSpan{Line: s.Line, Start: s.Start, End: other.End}
}

type NodeBase struct {
	Span NodeSpan `json:"span"`
}

func (base NodeBase) Base() NodeBase {
	return base
}

func (base *NodeBase) BasePtr() *NodeBase {
	return base
}

type NodeKind uint8

const (
	UnspecifiedNodeKind NodeKind = iota
	Expr
	Stmt
)

type Chunk struct {
	NodeBase
	Statements []Node
}

func (Chunk) Kind() NodeKind {
	return UnspecifiedNodeKind
}

// ---------------------------------------------------------------------------
// literals

type NumberLiteral struct {
	NodeBase
	Raw   string
	Value float64
}

func (NumberLiteral) Kind() NodeKind {
	return Expr
}

type StringLiteral struct {
	NodeBase
	Raw   string
	Value string
}

func (StringLiteral) Kind() NodeKind {
	return Expr
}

type BooleanLiteral struct {
	NodeBase
	Value bool
}

func (BooleanLiteral) Kind() NodeKind {
	return Expr
}

type NilLiteral struct {
	NodeBase
}

func (NilLiteral) Kind() NodeKind {
	return Expr
}

type IdentifierLiteral struct {
	NodeBase
	Name string
}

func (IdentifierLiteral) Kind() NodeKind {
	return Expr
}

type ListLiteral struct {
	NodeBase
	Elements []Node
}

func (ListLiteral) Kind() NodeKind {
	return Expr
}

type ObjectLiteral struct {
	NodeBase
	Properties []*ObjectProperty
}

func (ObjectLiteral) Kind() NodeKind {
	return Expr
}

type ObjectProperty struct {
	NodeBase
	Key   string
	Value Node
}

func (ObjectProperty) Kind() NodeKind {
	return UnspecifiedNodeKind
}

// ---------------------------------------------------------------------------
// operators

type BinaryOperator int

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Mod
	Equal
	NotEqual
	LessThan
	LessOrEqual
	GreaterThan
	GreaterOrEqual
	And
	Or
)

var binaryOperatorStrings = [...]string{
	Add:            "+",
	Sub:            "-",
	Mul:            "*",
	Div:            "/",
	Mod:            "%",
	Equal:          "==",
	NotEqual:       "!=",
	LessThan:       "<",
	LessOrEqual:    "<=",
	GreaterThan:    ">",
	GreaterOrEqual: ">=",
	And:            "and",
	Or:             "or",
}

func (op BinaryOperator) String() string {
	return binaryOperatorStrings[op]
}

// BinaryExpression's span is the span of its operator.
type BinaryExpression struct {
	NodeBase
	Operator BinaryOperator
	Left     Node
	Right    Node
}

func (BinaryExpression) Kind() NodeKind {
	return Expr
}

type UnaryOperator int

const (
	NumberNegate UnaryOperator = iota
	BoolNegate
)

func (op UnaryOperator) String() string {
	if op == NumberNegate {
		return "-"
	}
	return "!"
}

type UnaryExpression struct {
	NodeBase
	Operator UnaryOperator
	Operand  Node
}

func (UnaryExpression) Kind() NodeKind {
	return Expr
}

// RangeExpression (a:b) evaluates to the list of numbers from Lower (inclusive) to Upper (exclusive).
type RangeExpression struct {
	NodeBase
	Lower Node
	Upper Node
}

func (RangeExpression) Kind() NodeKind {
	return Expr
}

type AssignmentOperator int

const (
	Assign AssignmentOperator = iota
	PlusAssign
	MinusAssign
)

func (op AssignmentOperator) String() string {
	switch op {
	case PlusAssign:
		return "+="
	case MinusAssign:
		return "-="
	default:
		return "="
	}
}

// BinaryOperator returns the operator applied to the current value of the target, ok is false for simple
// assignments.
func (op AssignmentOperator) BinaryOperator() (_ BinaryOperator, ok bool) {
	switch op {
	case PlusAssign:
		return Add, true
	case MinusAssign:
		return Sub, true
	}
	return 0, false
}

// AssignmentExpression assigns Right to Left, Left is an *IdentifierLiteral, an *IndexExpression,
// a *MemberExpression or a *ComputedMemberExpression.
type AssignmentExpression struct {
	NodeBase
	Operator AssignmentOperator
	Left     Node
	Right    Node
}

func (AssignmentExpression) Kind() NodeKind {
	return Expr
}

// ---------------------------------------------------------------------------
// access

type IndexExpression struct {
	NodeBase
	Indexed Node
	Index   Node
}

func (IndexExpression) Kind() NodeKind {
	return Expr
}

// MemberExpression is a.b
type MemberExpression struct {
	NodeBase
	Left         Node
	PropertyName *IdentifierLiteral
}

func (MemberExpression) Kind() NodeKind {
	return Expr
}

// ComputedMemberExpression is a.[expr], the property name is the stringified value of PropertyName.
type ComputedMemberExpression struct {
	NodeBase
	Left         Node
	PropertyName Node
}

func (ComputedMemberExpression) Kind() NodeKind {
	return Expr
}

// ---------------------------------------------------------------------------
// functions

type FunctionExpression struct {
	NodeBase
	Parameters []*IdentifierLiteral
	Body       *Block
}

func (FunctionExpression) Kind() NodeKind {
	return Expr
}

func (expr *FunctionExpression) ParameterNames() []string {
	names := make([]string, len(expr.Parameters))
	for i, p := range expr.Parameters {
		names[i] = p.Name
	}
	return names
}

// CallExpression calls a user defined function, IsPipe is true for a -> f.
type CallExpression struct {
	NodeBase
	Callee    Node
	Arguments []Node
	IsPipe    bool
}

func (CallExpression) Kind() NodeKind {
	return Expr
}

// NativeCallExpression is a call whose callee is the name of a native function, the number of arguments
// always matches the function's arity.
type NativeCallExpression struct {
	NodeBase
	Function  *NativeFunction
	Arguments []Node
	IsPipe    bool
}

func (NativeCallExpression) Kind() NodeKind {
	return Expr
}

// ---------------------------------------------------------------------------
// match

type MatchExpression struct {
	NodeBase
	Discriminant Node
	Cases        []*MatchCase
}

func (MatchExpression) Kind() NodeKind {
	return Expr
}

type MatchCase struct {
	NodeBase
	Value  Node
	Result Node
}

func (MatchCase) Kind() NodeKind {
	return UnspecifiedNodeKind
}

// ---------------------------------------------------------------------------
// statements

type Block struct {
	NodeBase
	Statements []Node
}

func (Block) Kind() NodeKind {
	return Stmt
}

// VariableDeclaration is also produced by function declarations: fun f(a) {} declares f.
type VariableDeclaration struct {
	NodeBase
	Name                  *IdentifierLiteral
	Init                  Node //can be nil
	IsFunctionDeclaration bool
}

func (VariableDeclaration) Kind() NodeKind {
	return Stmt
}

type ExpressionStatement struct {
	NodeBase
	Expr Node
}

func (ExpressionStatement) Kind() NodeKind {
	return Stmt
}

type IfStatement struct {
	NodeBase
	Test       Node
	Consequent *Block
	Alternate  Node //can be nil, *Block | *IfStatement
}

func (IfStatement) Kind() NodeKind {
	return Stmt
}

type WhileStatement struct {
	NodeBase
	Test Node
	Body *Block
}

func (WhileStatement) Kind() NodeKind {
	return Stmt
}

type ForStatement struct {
	NodeBase
	Variable *IdentifierLiteral
	Iterated Node
	Body     *Block
}

func (ForStatement) Kind() NodeKind {
	return Stmt
}

// LoopStatement executes its body Count times.
type LoopStatement struct {
	NodeBase
	Count Node
	Body  *Block
}

func (LoopStatement) Kind() NodeKind {
	return Stmt
}

type ReturnStatement struct {
	NodeBase
	Expr Node //can be nil
}

func (ReturnStatement) Kind() NodeKind {
	return Stmt
}

// ImportStatement has no effect.
type ImportStatement struct {
	NodeBase
	Source *StringLiteral
}

func (ImportStatement) Kind() NodeKind {
	return Stmt
}

func IsScopeContainerNode(node Node) bool {
	switch node.(type) {
	case *Chunk, *FunctionExpression:
		return true
	default:
		return false
	}
}

func IsAssignable(node Node) bool {
	switch node.(type) {
	case *IdentifierLiteral, *IndexExpression, *MemberExpression, *ComputedMemberExpression:
		return true
	default:
		return false
	}
}
