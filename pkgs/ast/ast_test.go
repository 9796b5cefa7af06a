package ast

import (
	"testing"

	"github.com/aledsdavies/coffeescan/pkgs/token"
)

func pos() token.Position { return token.Position{Line: 1, Column: 1} }

func TestEmitLeaves(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"identifier", Ident("x", pos()), "x"},
		{"number", Num("42", pos()), "42"},
		{"string literal keeps quotes", Str(`"hi"`, pos()), `"hi"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.node.Emit(); got != tc.want {
				t.Errorf("Emit() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBinaryExpressionEmit(t *testing.T) {
	bin := Bin(Ident("a", pos()), token.Token{Kind: token.UNARY_MATH, Value: "+"}, Ident("b", pos()))
	if got, want := bin.Emit(), "a + b"; got != want {
		t.Errorf("Emit() = %q, want %q", got, want)
	}
}

func TestBinaryExpressionEval(t *testing.T) {
	bin := Bin(Num("2", pos()), token.Token{Kind: token.UNARY_MATH, Value: "+"}, Num("3", pos()))
	got, ok := bin.Eval()
	if !ok || got != 5 {
		t.Errorf("Eval() = (%v, %v), want (5, true)", got, ok)
	}
}

func TestFunctionCallEmitJoinsArgsWithoutSpace(t *testing.T) {
	call := Call(Ident("foo", pos()), Num("1", pos()), Num("2", pos()))
	if got, want := call.Emit(), "foo(1,2)"; got != want {
		t.Errorf("Emit() = %q, want %q", got, want)
	}
}

func TestPropertyAccessPrototypeFlag(t *testing.T) {
	p := Prop(Ident("this", pos()), Ident("foo", pos()), true)
	if got, want := p.Emit(), "this::foo"; got != want {
		t.Errorf("Emit() = %q, want %q", got, want)
	}
	p.Prototype = false
	if got, want := p.Emit(), "this.foo"; got != want {
		t.Errorf("Emit() = %q, want %q", got, want)
	}
}

func TestBlockEmitJoinsStatementsWithSemicolon(t *testing.T) {
	b := NewBlock(0, pos(), Ident("a", pos()), Ident("b", pos()))
	if got, want := b.Emit(), "a;b"; got != want {
		t.Errorf("Emit() = %q, want %q", got, want)
	}
}

func TestBlockEvalReturnsLastStatement(t *testing.T) {
	b := NewBlock(0, pos(), Num("1", pos()), Num("2", pos()))
	got, ok := b.Eval()
	if !ok || got != 2 {
		t.Errorf("Eval() = (%v, %v), want (2, true)", got, ok)
	}
}

func TestIfExpressionEmitWithElseChain(t *testing.T) {
	inner := &IfExpression{
		Op:   token.Token{Kind: token.IF, Value: "if"},
		Cond: Ident("b", pos()),
		Then: NewBlock(0, pos(), Ident("y", pos())),
	}
	outer := &IfExpression{
		Op:   token.Token{Kind: token.IF, Value: "if"},
		Cond: Ident("a", pos()),
		Then: NewBlock(0, pos(), Ident("x", pos())),
		Else: inner,
	}
	want := "if (a) { x } else if (b) { y }"
	if got := outer.Emit(); got != want {
		t.Errorf("Emit() = %q, want %q", got, want)
	}
}
