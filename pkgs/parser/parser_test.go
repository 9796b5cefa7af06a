package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/coffeescan/pkgs/ast"
	"github.com/aledsdavies/coffeescan/pkgs/perrors"
)

// TestConcreteScenarios is a worked-example table: literal
// source in, canonical Emit() output out.
func TestConcreteScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence: multiply binds tighter than add", "1 + 2 * 3", "1 + 2 * 3"},
		{"parens override precedence", "(1 + 2) * 3", "(1 + 2) * 3"},
		{"implicit calls with adjacency rule", "foo +2, b +3 | 0", "foo(+2,b(+3 | 0))"},
		{"implicit block function body, then a second statement", "foo = () ->\n  hello()\nhi()", "foo = () -> {hello()};hi()"},
		{"nested unbracketed object literal", "a =\n  hello :\n    world : 2\n  hi:\n    welt: 3", "a = {hello: {world: 2}, hi: {welt: 3}}"},
		{"chained postfix comprehension", "x for x in xs for xs in list", "x for x in xs for xs in list"},
		{"if/then/else", "if friday then jack else jill", "if (friday) { jack } else { jill }"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := Parse(tc.input)
			require.NoError(t, err, "Parse(%q)", tc.input)
			require.Equal(t, tc.want, tree.Emit())
		})
	}
}

// TestErrorCases lists inputs that must raise
// a diagnostic, with no particular message required.
func TestErrorCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"over-indented statement with no opening block", "foo\n  20"},
		{"double else chain", "if friday then sue else joy else huh"},
		{"non-LHS for-loop iteration variable", "for 2*x,y in arr then x"},
		{"empty function body followed by leftover statement", "foo = ->\n ;a()"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err, "Parse(%q) should have failed", tc.input)
		})
	}
}

// TestErrorKinds checks the diagnostic taxonomy: diagnostics are a single
// typed error retrievable with errors.As, tagged with the failing rule's
// kind.
func TestErrorKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  perrors.Kind
	}{
		{"foo\n  20", perrors.IndentErr},
		{"if c\nfoo", perrors.EmptyBlock},
		{"foo(1", perrors.ExpectedToken},
		{"if friday then sue else joy else huh", perrors.UnexpectedToken},
		{`"unterminated`, perrors.ScanErr},
	}
	for _, tc := range tests {
		_, err := Parse(tc.input)
		require.Error(t, err, "Parse(%q)", tc.input)
		var perr *perrors.Error
		require.True(t, errors.As(err, &perr), "Parse(%q) returned %T, want *perrors.Error", tc.input, err)
		require.Equal(t, tc.kind, perr.Kind, "Parse(%q)", tc.input)
	}
}

// TestPrecedenceProperty checks the precedence property directly
// against the fixed table: a lower-priority operator nests the
// higher-priority neighbor as its operand, and vice versa.
func TestPrecedenceProperty(t *testing.T) {
	tree, err := Parse("a + b * c")
	require.NoError(t, err)
	require.Equal(t, "a + b * c", tree.Emit())

	bin, ok := tree.Exprs[0].(*ast.BinaryExpression)
	require.True(t, ok, "expected top-level BinaryExpression, got %T", tree.Exprs[0])
	require.Equal(t, "+", bin.Op.Value)
	_, rightIsBinary := bin.Right.(*ast.BinaryExpression)
	require.True(t, rightIsBinary, "expected `b * c` to nest as the right operand of `+`")

	tree2, err := Parse("a * b + c")
	require.NoError(t, err)
	bin2, ok := tree2.Exprs[0].(*ast.BinaryExpression)
	require.True(t, ok)
	require.Equal(t, "+", bin2.Op.Value)
	_, leftIsBinary := bin2.Left.(*ast.BinaryExpression)
	require.True(t, leftIsBinary, "expected `a * b` to nest as the left operand of `+`")
}

// TestImplicitCallTargetRule exercises the target rule precisely: T±N
// with no space becomes T(±N) only when T is an eligible call target.
func TestImplicitCallTargetRule(t *testing.T) {
	tree, err := Parse("foo +2")
	require.NoError(t, err)
	require.Equal(t, "foo(+2)", tree.Emit())

	tree2, err := Parse("2 +2")
	require.NoError(t, err)
	require.Equal(t, "2 + 2", tree2.Emit())
}

// TestPostfixConditionalOrdering checks that `foo x, y if c` binds
// the postfix if to the whole call, not to the last argument.
func TestPostfixConditionalOrdering(t *testing.T) {
	tree, err := Parse("foo x, y if c")
	require.NoError(t, err)
	require.Equal(t, "foo(x,y) if c", tree.Emit())

	bin, ok := tree.Exprs[0].(*ast.BinaryExpression)
	require.True(t, ok, "postfix if must parse as a BinaryExpression, got %T", tree.Exprs[0])
	require.Equal(t, "if", bin.Op.Value)
	call, ok := bin.Left.(*ast.FunctionCall)
	require.True(t, ok, "expected the whole call as the if's left operand, not just its last argument")
	require.Len(t, call.Args, 2, "foo x, y must bind both arguments before the postfix if")
}

// TestChainedAssignment checks that chained assignment nests
// right-associative.
func TestChainedAssignment(t *testing.T) {
	tree, err := Parse("a = b = c = 1")
	require.NoError(t, err)
	require.Equal(t, "a = b = c = 1", tree.Emit())

	top, ok := tree.Exprs[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "a", top.Target.Emit())
	inner, ok := top.Value.(*ast.Assign)
	require.True(t, ok, "expected right-associative nesting")
	require.Equal(t, "b", inner.Target.Emit())
}

// TestPrototypeAccess checks that `@::name` is a PropertyAccess with
// Prototype set, not a separate node kind.
func TestPrototypeAccess(t *testing.T) {
	tree, err := Parse("@::foo")
	require.NoError(t, err)
	require.Equal(t, "@::foo", tree.Emit())

	prop, ok := tree.Exprs[0].(*ast.PropertyAccess)
	require.True(t, ok, "expected PropertyAccess, got %T", tree.Exprs[0])
	require.True(t, prop.Prototype)
}

// TestBreakContinueStatements checks the trivial loop-control statement
// nodes parse without requiring any payload.
func TestBreakContinueStatements(t *testing.T) {
	tree, err := Parse("loop\n  break\n  continue")
	require.NoError(t, err)
	require.Equal(t, "loop { break;continue }", tree.Emit())
}

// TestSameLineFunctionBody checks that a token on the same line as
// the arrow is the function's one-line body.
func TestSameLineFunctionBody(t *testing.T) {
	tree, err := Parse("foo = () -> hello()")
	require.NoError(t, err)
	require.Equal(t, "foo = () -> {hello()}", tree.Emit())
}

// TestEmptyFunctionBody checks that end of input right after the
// arrow yields an empty block.
func TestEmptyFunctionBody(t *testing.T) {
	tree, err := Parse("foo = () ->")
	require.NoError(t, err)
	require.Equal(t, "foo = () -> {}", tree.Emit())
}

// TestAssignmentValueOnNextLine checks that a value starting on the
// following line at an indent at or past the block's opens an implicit
// block, whether or not it turns out to be an object literal.
func TestAssignmentValueOnNextLine(t *testing.T) {
	tree, err := Parse("a =\n  1 + 2")
	require.NoError(t, err)
	require.Equal(t, "a = 1 + 2", tree.Emit())
}

// TestNewlineAfterBinaryOperator checks that newlines between an
// operator and its operand are permitted at non-decreasing indent.
func TestNewlineAfterBinaryOperator(t *testing.T) {
	tree, err := Parse("1 +\n  2")
	require.NoError(t, err)
	require.Equal(t, "1 + 2", tree.Emit())
}

// TestPostfixIfRewind checks the if-arity rewind: `xs if c`
// speculatively tries the if as an implicit-call argument, finds no body,
// rewinds, and reparses as the postfix conditional.
func TestPostfixIfRewind(t *testing.T) {
	tree, err := Parse("xs if c")
	require.NoError(t, err)
	require.Equal(t, "xs if c", tree.Emit())

	bin, ok := tree.Exprs[0].(*ast.BinaryExpression)
	require.True(t, ok, "expected BinaryExpression, got %T", tree.Exprs[0])
	require.Equal(t, "if", bin.Op.Value)
	_, ok = bin.Left.(*ast.Identifier)
	require.True(t, ok)
}

// TestPostfixIfInsideParens checks that parentheses reopen the general
// context: inside `( … )` a postfix if binds again even mid-implicit-call.
func TestPostfixIfInsideParens(t *testing.T) {
	tree, err := Parse("foo (x if c)")
	require.NoError(t, err)
	require.Equal(t, "foo((x if c))", tree.Emit())
}

// TestPostfixForAfterImplicitCall checks that the for is never
// folded into the implicit call's argument.
func TestPostfixForAfterImplicitCall(t *testing.T) {
	tree, err := Parse("foo x for x in arr")
	require.NoError(t, err)
	require.Equal(t, "foo(x) for x in arr", tree.Emit())

	fe, ok := tree.Exprs[0].(*ast.ForExpression2)
	require.True(t, ok, "expected ForExpression2, got %T", tree.Exprs[0])
	_, ok = fe.Inner.(*ast.FunctionCall)
	require.True(t, ok, "the comprehension must wrap the whole call")
}

// TestElseOnNextLineAfterThenForm checks that an else belonging to a
// then-form if may sit on the following line at the block's indent.
func TestElseOnNextLineAfterThenForm(t *testing.T) {
	tree, err := Parse("if friday then jack\nelse jill")
	require.NoError(t, err)
	require.Equal(t, "if (friday) { jack } else { jill }", tree.Emit())
}

// TestSplatArgument checks that a trailing ... in a parenthesized
// argument list makes that argument a splat.
func TestSplatArgument(t *testing.T) {
	tree, err := Parse("foo(a, rest...)")
	require.NoError(t, err)
	require.Equal(t, "foo(a,rest...)", tree.Emit())
}

// TestDottedChainIsNotAssignable checks the assignment target rule: only an
// Identifier or @name may be assigned to.
func TestDottedChainIsNotAssignable(t *testing.T) {
	_, err := Parse("a.b = 1")
	require.Error(t, err)
}

func TestEmptyInput(t *testing.T) {
	tree, err := Parse("")
	require.NoError(t, err)
	require.Empty(t, tree.Exprs)

	tree2, err := Parse("x = 1\n")
	require.NoError(t, err)
	require.Equal(t, "x = 1", tree2.Emit())
}

// TestBracketedObjectIndentRules checks the working-indent discipline inside
// `{ ... }`: the first key line establishes the working indent, later keys
// must sit at exactly that column, and a comma leading its own line at a
// lower column brings the working indent back.
func TestBracketedObjectIndentRules(t *testing.T) {
	tree, err := Parse("x = {\n  a: 1\n  b: 2\n}")
	require.NoError(t, err)
	require.Equal(t, "x = {a: 1, b: 2}", tree.Emit())

	tree2, err := Parse("x = {\n    a: 1\n  , b: 2\n  , c: 3\n}")
	require.NoError(t, err)
	require.Equal(t, "x = {a: 1, b: 2, c: 3}", tree2.Emit())

	_, err = Parse("x = {\n  a: 1\n    b: 2\n}")
	require.Error(t, err, "a key indented past the working indent must be rejected")

	_, err = Parse("f = ->\n  x = {\n    a: 1\n b: 2\n  }")
	require.Error(t, err, "a key under the enclosing block's indent must be rejected")
}

// TestUnbracketedObjectCommaLine checks the newline-separated unbracketed
// form accepts a comma leading the continuation line.
func TestUnbracketedObjectCommaLine(t *testing.T) {
	tree, err := Parse("a =\n  b: 1\n  , c: 2")
	require.NoError(t, err)
	require.Equal(t, "a = {b: 1, c: 2}", tree.Emit())

	_, err = Parse("a =\n  b: 1\n    c: 2")
	require.Error(t, err, "a key indented past the working indent must be rejected")
}

// TestInlineUnbracketedObject checks the inline case: an
// unbracketed object literal all on one line, as an assignment RHS and as a
// function-call argument — the two contexts that admit one besides a nested
// object value.
func TestInlineUnbracketedObject(t *testing.T) {
	tree, err := Parse("a = b: 1, c: 2")
	require.NoError(t, err)
	require.Equal(t, "a = {b: 1, c: 2}", tree.Emit())

	assign, ok := tree.Exprs[0].(*ast.Assign)
	require.True(t, ok)
	obj, ok := assign.Value.(*ast.ObjectLiteral)
	require.True(t, ok, "expected ObjectLiteral RHS, got %T", assign.Value)
	require.Len(t, obj.Properties, 2)

	tree2, err := Parse("foo a: 1, b: 2")
	require.NoError(t, err)
	require.Equal(t, "foo({a: 1, b: 2})", tree2.Emit())

	call, ok := tree2.Exprs[0].(*ast.FunctionCall)
	require.True(t, ok, "expected FunctionCall, got %T", tree2.Exprs[0])
	require.Len(t, call.Args, 1)
	_, ok = call.Args[0].(*ast.ObjectLiteral)
	require.True(t, ok, "expected the implicit call's single argument to be an ObjectLiteral")
}
