package ast

import "github.com/aledsdavies/coffeescan/pkgs/token"

// Constructor helpers used by the parser's leaf rules and by hand-written
// test fixtures so neither has to spell out every struct field inline.

// Ident creates an Identifier at pos.
func Ident(name string, pos token.Position) *Identifier {
	return &Identifier{Text: name, Pos: pos}
}

// Num creates a Number literal at pos.
func Num(text string, pos token.Position) *Number {
	return &Number{Text: text, Pos: pos}
}

// Str creates a StringLiteral (text includes quotes) at pos.
func Str(text string, pos token.Position) *StringLiteral {
	return &StringLiteral{Text: text, Pos: pos}
}

// Bin creates a BinaryExpression.
func Bin(left Expr, op token.Token, right Expr) *BinaryExpression {
	return &BinaryExpression{Left: left, Op: op, Right: right}
}

// Call creates a FunctionCall with the given target and arguments.
func Call(target Expr, args ...Expr) *FunctionCall {
	return &FunctionCall{Target: target, Args: args}
}

// Prop creates a PropertyAccess; set prototype to model `::`.
func Prop(target Expr, member *Identifier, prototype bool) *PropertyAccess {
	return &PropertyAccess{Target: target, Member: member, Prototype: prototype}
}

// NewBlock creates a Block from a list of expressions.
func NewBlock(indent int, pos token.Position, exprs ...Expr) *Block {
	return &Block{Exprs: exprs, Indent: indent, Pos: pos}
}
