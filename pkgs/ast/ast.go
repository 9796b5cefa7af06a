// Package ast defines the syntax tree: a flat set of struct variants
// implementing a common Node interface. Nodes are
// built bottom-up by the parser and are immutable once returned to a caller;
// the one exception is precedence-rotation, which only ever rewrites a node
// the parser has not yet handed back.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/coffeescan/pkgs/token"
)

// Node is implemented by every AST variant. Emit renders the canonical,
// bracket-annotated common form; Eval is the partial numeric evaluator used
// only by tests.
type Node interface {
	Emit() string
	Eval() (float64, bool)
	Position() token.Position
}

// Expr is an alias naming the subset of Node usable as an expression; every
// variant below satisfies it.
type Expr = Node

// LHS is implemented by expressions that may be an assignment target or a
// for-loop iteration variable: Identifier and PropertyAccess. Any
// PropertyAccess satisfies the interface; the parser additionally checks
// that it is this-rooted (`@name`).
type LHS interface {
	Expr
	isLHS()
}

// ---- Block ----

// Block is an ordered sequence of expressions sharing one indent column.
// Emit never adds braces of its own — each parent (Function, If, Loop, For)
// wraps a Block's Emit output in its own bracket style.
type Block struct {
	Exprs  []Expr
	Indent int
	Pos    token.Position
}

func (b *Block) Position() token.Position { return b.Pos }

func (b *Block) Emit() string {
	parts := make([]string, len(b.Exprs))
	for i, e := range b.Exprs {
		parts[i] = e.Emit()
	}
	return strings.Join(parts, ";")
}

func (b *Block) Eval() (float64, bool) {
	if len(b.Exprs) == 0 {
		return 0, false
	}
	return b.Exprs[len(b.Exprs)-1].Eval()
}

// ---- Parens ----

type Parens struct {
	Inner Expr
	Pos   token.Position
}

func (p *Parens) Position() token.Position { return p.Pos }
func (p *Parens) Emit() string             { return "(" + p.Inner.Emit() + ")" }
func (p *Parens) Eval() (float64, bool)    { return p.Inner.Eval() }

// ---- Atoms ----

type Number struct {
	Text string
	Pos  token.Position
}

func (n *Number) Position() token.Position { return n.Pos }
func (n *Number) Emit() string             { return n.Text }
func (n *Number) Eval() (float64, bool) {
	v, err := strconv.ParseFloat(n.Text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

type StringLiteral struct {
	Text string // includes the surrounding quotes
	Pos  token.Position
}

func (s *StringLiteral) Position() token.Position { return s.Pos }
func (s *StringLiteral) Emit() string             { return s.Text }
func (s *StringLiteral) Eval() (float64, bool)    { return 0, false }

type Identifier struct {
	Text string
	Pos  token.Position
}

func (i *Identifier) Position() token.Position { return i.Pos }
func (i *Identifier) Emit() string             { return i.Text }
func (i *Identifier) Eval() (float64, bool)    { return 0, false }
func (*Identifier) isLHS()                     {}

type BuiltinPrimary struct {
	Text string // true | false | undefined | null
	Pos  token.Position
}

func (b *BuiltinPrimary) Position() token.Position { return b.Pos }
func (b *BuiltinPrimary) Emit() string             { return b.Text }
func (b *BuiltinPrimary) Eval() (float64, bool) {
	switch b.Text {
	case "true":
		return 1, true
	case "false":
		return 0, true
	default:
		return 0, false
	}
}

// ThisExpression is the bare `@` or `this` token.
type ThisExpression struct {
	Token token.Token
}

func (t *ThisExpression) Position() token.Position { return t.Token.Pos }
func (t *ThisExpression) Emit() string             { return t.Token.Value }
func (t *ThisExpression) Eval() (float64, bool)    { return 0, false }

// ---- Operators ----

type BinaryExpression struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (b *BinaryExpression) Position() token.Position { return b.Left.Position() }
func (b *BinaryExpression) Emit() string {
	return fmt.Sprintf("%s %s %s", b.Left.Emit(), b.Op.Value, b.Right.Emit())
}
func (b *BinaryExpression) Eval() (float64, bool) {
	l, ok := b.Left.Eval()
	if !ok {
		return 0, false
	}
	r, ok := b.Right.Eval()
	if !ok {
		return 0, false
	}
	switch b.Op.Value {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return 0, false
		}
		return l / r, true
	default:
		return 0, false
	}
}

type PrefixUnaryExpression struct {
	Op    token.Token
	Inner Expr
}

func (p *PrefixUnaryExpression) Position() token.Position { return p.Op.Pos }
func (p *PrefixUnaryExpression) Emit() string              { return p.Op.Value + p.Inner.Emit() }
func (p *PrefixUnaryExpression) Eval() (float64, bool) {
	v, ok := p.Inner.Eval()
	if !ok {
		return 0, false
	}
	switch p.Op.Value {
	case "+":
		return v, true
	case "-":
		return -v, true
	default:
		return 0, false
	}
}

type PostfixUnaryExpression struct {
	Op    token.Token
	Inner Expr
}

func (p *PostfixUnaryExpression) Position() token.Position { return p.Inner.Position() }
func (p *PostfixUnaryExpression) Emit() string              { return p.Inner.Emit() + p.Op.Value }
func (p *PostfixUnaryExpression) Eval() (float64, bool)     { return 0, false }

// ---- Assignment ----

type Assign struct {
	Target Expr
	Op     token.Token
	Value  Expr
}

func (a *Assign) Position() token.Position { return a.Target.Position() }
func (a *Assign) Emit() string {
	return fmt.Sprintf("%s %s %s", a.Target.Emit(), a.Op.Value, a.Value.Emit())
}
func (a *Assign) Eval() (float64, bool) { return a.Value.Eval() }

// ---- Property access / calls ----

// PropertyAccess is `target.member`, or `target::member` when Prototype is
// set — prototype access reuses this variant with a boolean flag rather
// than adding a node kind of its own.
type PropertyAccess struct {
	Target    Expr
	Member    *Identifier
	Prototype bool
}

func (p *PropertyAccess) Position() token.Position { return p.Target.Position() }
func (p *PropertyAccess) Emit() string {
	sep := "."
	if p.Prototype {
		sep = "::"
	}
	return p.Target.Emit() + sep + p.Member.Emit()
}
func (p *PropertyAccess) Eval() (float64, bool) { return 0, false }
func (*PropertyAccess) isLHS()                  {}

type FunctionCall struct {
	Target Expr
	Args   []Expr
}

func (f *FunctionCall) Position() token.Position { return f.Target.Position() }
func (f *FunctionCall) Emit() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.Emit()
	}
	return fmt.Sprintf("%s(%s)", f.Target.Emit(), strings.Join(parts, ","))
}
func (f *FunctionCall) Eval() (float64, bool) { return 0, false }

type SplatExpression struct {
	Inner Expr
}

func (s *SplatExpression) Position() token.Position { return s.Inner.Position() }
func (s *SplatExpression) Emit() string             { return s.Inner.Emit() + "..." }
func (s *SplatExpression) Eval() (float64, bool)    { return 0, false }

// ---- Functions ----

type FunctionParam struct {
	Name    string
	Default Expr // nil if absent
	Splat   bool
}

func (p FunctionParam) Emit() string {
	switch {
	case p.Splat:
		return p.Name + "..."
	case p.Default != nil:
		return p.Name + " = " + p.Default.Emit()
	default:
		return p.Name
	}
}

type Function struct {
	Params   []FunctionParam
	Body     *Block
	BindThis bool
	Pos      token.Position
}

func (f *Function) Position() token.Position { return f.Pos }
func (f *Function) Emit() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Emit()
	}
	arrow := "->"
	if f.BindThis {
		arrow = "=>"
	}
	return fmt.Sprintf("(%s) %s {%s}", strings.Join(params, ","), arrow, f.Body.Emit())
}
func (f *Function) Eval() (float64, bool) { return 0, false }

// ---- Object literals ----

// ObjectProperty is one `key: value` pair. Key is an Identifier,
// StringLiteral, or Number.
type ObjectProperty struct {
	Key   Expr
	Value Expr
}

func (p ObjectProperty) Emit() string {
	return p.Key.Emit() + ": " + p.Value.Emit()
}

type ObjectLiteral struct {
	Properties []ObjectProperty
	Pos        token.Position
}

func (o *ObjectLiteral) Position() token.Position { return o.Pos }
func (o *ObjectLiteral) Emit() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = p.Emit()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (o *ObjectLiteral) Eval() (float64, bool) { return 0, false }

// ---- Control flow ----

// IfExpression covers both `if` and `unless`, block form and then form. The
// postfix case (`x if c`) is represented directly as a BinaryExpression
// whose Op is the IF/UNLESS token; IfExpression models only the
// statement-head forms.
type IfExpression struct {
	Op   token.Token // IF | UNLESS
	Cond Expr
	Then *Block
	Else Node // nil, *Block, or *IfExpression
	Pos  token.Position
}

func (i *IfExpression) Position() token.Position { return i.Pos }
func (i *IfExpression) Emit() string {
	s := fmt.Sprintf("%s (%s) { %s }", i.Op.Value, i.Cond.Emit(), i.Then.Emit())
	switch e := i.Else.(type) {
	case nil:
		return s
	case *Block:
		return s + fmt.Sprintf(" else { %s }", e.Emit())
	case *IfExpression:
		return s + " else " + e.Emit()
	default:
		return s
	}
}
func (i *IfExpression) Eval() (float64, bool) { return 0, false }

// LoopExpression covers `loop` (no condition) and `until` (condition
// required).
type LoopExpression struct {
	Op   token.Token // LOOP | UNTIL
	Cond Expr        // nil for LOOP
	Body *Block
	Pos  token.Position
}

func (l *LoopExpression) Position() token.Position { return l.Pos }
func (l *LoopExpression) Emit() string {
	if l.Cond == nil {
		return fmt.Sprintf("loop { %s }", l.Body.Emit())
	}
	return fmt.Sprintf("until (%s) { %s }", l.Cond.Emit(), l.Body.Emit())
}
func (l *LoopExpression) Eval() (float64, bool) { return 0, false }

// ForExpression is the block/then form: `for iter1[, iter2] (in|of) iterable
// [then] body`.
type ForExpression struct {
	Iter1    LHS
	Iter2    LHS         // nil if absent
	IterType token.Token // IN | OF
	Iterable Expr
	Body     *Block // nil when used inside ForExpression2
	Pos      token.Position
}

func (f *ForExpression) Position() token.Position { return f.Pos }
func (f *ForExpression) header() string {
	iters := f.Iter1.Emit()
	if f.Iter2 != nil {
		iters += ", " + f.Iter2.Emit()
	}
	return fmt.Sprintf("for %s %s %s", iters, f.IterType.Value, f.Iterable.Emit())
}
func (f *ForExpression) Emit() string {
	if f.Body == nil {
		return f.header()
	}
	return fmt.Sprintf("%s { %s }", f.header(), f.Body.Emit())
}
func (f *ForExpression) Eval() (float64, bool) { return 0, false }

// ForExpression2 is the postfix comprehension form: `expr for x in xs`.
type ForExpression2 struct {
	Inner Expr
	Loop  *ForExpression // Loop.Body is always nil here
}

func (f *ForExpression2) Position() token.Position { return f.Inner.Position() }
func (f *ForExpression2) Emit() string {
	return f.Inner.Emit() + " " + f.Loop.header()
}
func (f *ForExpression2) Eval() (float64, bool) { return 0, false }

// ---- Statements ----

type ReturnStatement struct {
	Value Expr // nil if bare `return`
	Pos   token.Position
}

func (r *ReturnStatement) Position() token.Position { return r.Pos }
func (r *ReturnStatement) Emit() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.Emit()
}
func (r *ReturnStatement) Eval() (float64, bool) { return 0, false }

// BreakStatement and ContinueStatement are the payload-free loop-control
// statements.
type BreakStatement struct{ Pos token.Position }

func (b *BreakStatement) Position() token.Position { return b.Pos }
func (b *BreakStatement) Emit() string             { return "break" }
func (b *BreakStatement) Eval() (float64, bool)    { return 0, false }

type ContinueStatement struct{ Pos token.Position }

func (c *ContinueStatement) Position() token.Position { return c.Pos }
func (c *ContinueStatement) Emit() string             { return "continue" }
func (c *ContinueStatement) Eval() (float64, bool)    { return 0, false }
