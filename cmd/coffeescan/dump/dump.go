// Package dump builds a serializable mirror of the AST and token stream so
// the CLI can hand them to encoding/json or fxamacker/cbor without exporting
// ast.Node's internal shape as a wire format: the in-memory tree stays
// free of serialization tags and is mirrored into a flat struct at the CLI
// boundary instead.
package dump

import (
	"github.com/aledsdavies/coffeescan/pkgs/ast"
	"github.com/aledsdavies/coffeescan/pkgs/token"
)

// Node is one AST node flattened for encoding: its variant name, the
// canonical re-emission of the subtree rooted here, its source position,
// and any child nodes that aren't already captured by Text.
type Node struct {
	Kind     string        `json:"kind" cbor:"kind"`
	Text     string        `json:"text" cbor:"text"`
	Pos      token.Position `json:"pos" cbor:"pos"`
	Children []Node        `json:"children,omitempty" cbor:"children,omitempty"`
}

// FromExpr walks an ast.Node and produces its Node mirror. Leaf variants
// (Number, StringLiteral, Identifier, BuiltinPrimary, ThisExpression) carry
// no children; Text already reproduces them via Emit.
func FromExpr(n ast.Node) Node {
	if n == nil {
		return Node{Kind: "nil"}
	}
	base := Node{Text: n.Emit(), Pos: n.Position()}

	switch e := n.(type) {
	case *ast.Block:
		base.Kind = "Block"
		for _, c := range e.Exprs {
			base.Children = append(base.Children, FromExpr(c))
		}
	case *ast.Parens:
		base.Kind = "Parens"
		base.Children = []Node{FromExpr(e.Inner)}
	case *ast.Number:
		base.Kind = "Number"
	case *ast.StringLiteral:
		base.Kind = "StringLiteral"
	case *ast.Identifier:
		base.Kind = "Identifier"
	case *ast.BuiltinPrimary:
		base.Kind = "BuiltinPrimary"
	case *ast.ThisExpression:
		base.Kind = "ThisExpression"
	case *ast.BinaryExpression:
		base.Kind = "BinaryExpression"
		base.Children = []Node{FromExpr(e.Left), FromExpr(e.Right)}
	case *ast.PrefixUnaryExpression:
		base.Kind = "PrefixUnaryExpression"
		base.Children = []Node{FromExpr(e.Inner)}
	case *ast.PostfixUnaryExpression:
		base.Kind = "PostfixUnaryExpression"
		base.Children = []Node{FromExpr(e.Inner)}
	case *ast.Assign:
		base.Kind = "Assign"
		base.Children = []Node{FromExpr(e.Target), FromExpr(e.Value)}
	case *ast.PropertyAccess:
		base.Kind = "PropertyAccess"
		base.Children = []Node{FromExpr(e.Target), FromExpr(e.Member)}
	case *ast.FunctionCall:
		base.Kind = "FunctionCall"
		base.Children = append(base.Children, FromExpr(e.Target))
		for _, a := range e.Args {
			base.Children = append(base.Children, FromExpr(a))
		}
	case *ast.SplatExpression:
		base.Kind = "SplatExpression"
		base.Children = []Node{FromExpr(e.Inner)}
	case *ast.Function:
		base.Kind = "Function"
		base.Children = []Node{FromExpr(e.Body)}
	case *ast.ObjectLiteral:
		base.Kind = "ObjectLiteral"
		for _, p := range e.Properties {
			base.Children = append(base.Children, FromExpr(p.Key), FromExpr(p.Value))
		}
	case *ast.IfExpression:
		base.Kind = "IfExpression"
		base.Children = append(base.Children, FromExpr(e.Cond), FromExpr(e.Then))
		if e.Else != nil {
			base.Children = append(base.Children, FromExpr(e.Else))
		}
	case *ast.LoopExpression:
		base.Kind = "LoopExpression"
		if e.Cond != nil {
			base.Children = append(base.Children, FromExpr(e.Cond))
		}
		base.Children = append(base.Children, FromExpr(e.Body))
	case *ast.ForExpression:
		base.Kind = "ForExpression"
		base.Children = append(base.Children, FromExpr(e.Iter1))
		if e.Iter2 != nil {
			base.Children = append(base.Children, FromExpr(e.Iter2))
		}
		base.Children = append(base.Children, FromExpr(e.Iterable))
		if e.Body != nil {
			base.Children = append(base.Children, FromExpr(e.Body))
		}
	case *ast.ForExpression2:
		base.Kind = "ForExpression2"
		base.Children = []Node{FromExpr(e.Inner), FromExpr(e.Loop)}
	case *ast.ReturnStatement:
		base.Kind = "ReturnStatement"
		if e.Value != nil {
			base.Children = []Node{FromExpr(e.Value)}
		}
	case *ast.BreakStatement:
		base.Kind = "BreakStatement"
	case *ast.ContinueStatement:
		base.Kind = "ContinueStatement"
	default:
		base.Kind = "Unknown"
	}
	return base
}

// FromTokens mirrors a token slice verbatim; token.Token is already a flat,
// exported struct, so no per-field copying is needed beyond the slice.
func FromTokens(toks []token.Token) []token.Token {
	return toks
}
