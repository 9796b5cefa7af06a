// Package parser implements a hand-written recursive-descent, Pratt-style
// parser: significant indentation, implicit function calls,
// postfix/prefix unary operators, object literals, and the block/then forms
// of if/unless/loop/until/for, resolved through cooperative backtracking
// rather than a generated grammar.
package parser

import (
	"errors"

	"github.com/aledsdavies/coffeescan/pkgs/ast"
	"github.com/aledsdavies/coffeescan/pkgs/lexer"
	"github.com/aledsdavies/coffeescan/pkgs/perrors"
	"github.com/aledsdavies/coffeescan/pkgs/token"
)

// Parse scans source and parses it in one step, for callers that don't need
// the intermediate token vector.
func Parse(source string) (*ast.Block, error) {
	scanner := lexer.New(source)
	toks, err := scanner.Scan()
	if err != nil {
		return nil, err
	}
	return New(source, toks).Parse()
}

// Parse runs the whole grammar over the parser's token vector, applying the
// root block's entry and termination rules.
func (p *Parser) Parse() (*ast.Block, error) {
	indent, err := p.moveToNextLine(true)
	if err != nil {
		return nil, err
	}
	p.linePending = false
	if p.eof {
		return &ast.Block{Pos: token.Position{Line: 1, Column: 1}}, nil
	}

	p.pushIndent(indent)
	block, err := p.parseBlockBody(indent, nil, true)
	p.popIndent()
	if err != nil {
		return nil, err
	}
	if !p.eof && p.peek().Kind != token.EOF {
		return nil, p.errLeftover(p.current())
	}
	return block, nil
}

// isBlockTerminator reports whether tok ends the current block body: end of
// input, an unmatched ")" while inside parens, or one of the caller's extra
// terminators (e.g. ELSE closing an if's then-part).
func (p *Parser) isBlockTerminator(tok token.Token, extra map[token.Kind]bool) bool {
	if tok.Kind == token.EOF {
		return true
	}
	if p.inParens > 0 && tok.Kind == token.RPAREN {
		return true
	}
	return extra != nil && extra[tok.Kind]
}

// parseBlockBody parses a block body: a sequence of
// `statement (semicolon statement)*`, terminated by de-indent, one of the
// terminator conditions above, or end of input. isRoot additionally turns a
// de-indent mid-input into "missing indentation in root block".
func (p *Parser) parseBlockBody(blockIndent int, extra map[token.Kind]bool, isRoot bool) (*ast.Block, error) {
	pos := p.current().Pos
	var exprs []ast.Expr

	for {
		if p.eof || p.isBlockTerminator(p.peek(), extra) {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, stmt)

		sawSemi := false
		if !p.linePending {
			for p.peek().Kind == token.SEMICOLON {
				p.take()
				sawSemi = true
			}
		}

		indent, sawTransition, err := p.consumeLineTransition()
		if err != nil {
			return nil, err
		}
		if !sawTransition {
			tok := p.peek()
			if p.isBlockTerminator(tok, extra) {
				break
			}
			if sawSemi {
				continue
			}
			return nil, p.errUnexpected(tok)
		}
		if p.eof {
			break
		}

		switch {
		case indent < blockIndent:
			if isRoot {
				return nil, p.errIndent("missing indentation in root block")
			}
			return &ast.Block{Exprs: exprs, Indent: blockIndent, Pos: pos}, nil
		case indent > blockIndent:
			return nil, p.errIndent("unexpected indent")
		default:
			p.linePending = false
		}
	}

	return &ast.Block{Exprs: exprs, Indent: blockIndent, Pos: pos}, nil
}

// parseNestedBlock implements block-form entry for if/unless/loop/until/for/
// function bodies: the first significant token's indent becomes the block's
// indent. A block that immediately de-indents back to the outer level (or
// never finds a newline at all) is a valid empty block — in that case
// nothing is consumed, so the caller's own separator logic still sees the
// newline fresh.
func (p *Parser) parseNestedBlock() (*ast.Block, error) {
	pos := p.current().Pos
	if !p.peekNewline() {
		return &ast.Block{Pos: pos}, nil
	}
	ahead, atEOF := p.peekIndentAhead()
	outer := p.topIndent()
	if atEOF || ahead <= outer {
		return &ast.Block{Pos: pos}, nil
	}

	indent, err := p.moveToNextLine(false)
	if err != nil {
		return nil, err
	}
	p.linePending = false
	p.pushIndent(indent)
	block, err := p.parseBlockBody(indent, nil, false)
	p.popIndent()
	return block, err
}

// parseInlineBody parses the same-line "then"-form body: one or more
// statements separated by ';', stopping at NEWLINE, EOF, or extra.
func (p *Parser) parseInlineBody(extra map[token.Kind]bool) (*ast.Block, error) {
	pos := p.current().Pos
	if p.peekNewline() || p.isBlockTerminator(p.peek(), extra) {
		return nil, p.errEmptyBlock(p.current())
	}
	var exprs []ast.Expr
	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, stmt)
		if p.peek().Kind != token.SEMICOLON {
			break
		}
		p.take()
		if p.peekNewline() || p.isBlockTerminator(p.peek(), extra) {
			break
		}
	}
	return &ast.Block{Exprs: exprs, Pos: pos}, nil
}

// parseHeaderBody parses the body shared by if/unless/loop/until/for: either
// explicit `then` followed by an inline body, or block form. A non-if/unless
// caller passes nil extra and requires a non-empty body.
func (p *Parser) parseHeaderBody(extra map[token.Kind]bool, allowEmpty bool) (*ast.Block, error) {
	if p.peek().Kind == token.THEN {
		p.take()
		return p.parseInlineBody(extra)
	}
	body, err := p.parseNestedBlock()
	if err != nil {
		return nil, err
	}
	if !allowEmpty && len(body.Exprs) == 0 {
		return nil, p.errEmptyBlock(p.current())
	}
	return body, nil
}

// ---- Statements ----

func (p *Parser) parseStatement() (ast.Expr, error) {
	if p.peek().Kind == token.RETURN {
		return p.parseReturn()
	}
	return p.parseAssignmentOrExpression()
}

func (p *Parser) parseReturn() (ast.Expr, error) {
	tok := p.take()
	next := p.peek()
	if p.peekNewline() || next.Kind == token.EOF || next.Kind == token.SEMICOLON {
		return &ast.ReturnStatement{Pos: tok.Pos}, nil
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Value: val, Pos: tok.Pos}, nil
}

// parseAssignmentOrExpression parses a statement expression: an already-parsed
// expression followed by an ASSIGN_OPERATOR becomes an Assign, provided the
// target is an LHS. Chained assignment threads through parseAssignmentValue
// recursively, right-associative.
func (p *Parser) parseAssignmentOrExpression() (ast.Expr, error) {
	target, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != token.ASSIGN_OPERATOR {
		return target, nil
	}
	lhs, ok := target.(ast.LHS)
	if !ok || !isSimpleLHS(target) {
		return nil, p.errUnexpected(p.peek())
	}
	opTok := p.take()
	value, err := p.parseAssignmentValue()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Target: lhs, Op: opTok, Value: value}, nil
}

// parseValueAllowingImplicitBlock implements the "implicit block" value rule:
// if the token right after OP is a NEWLINE, the value lives on the next line,
// which must land at an indent of at least minIndent (the enclosing block's
// indent for an assignment RHS, one past the object's own column for a
// property value). The landed line may open an unbracketed object literal, or
// hold any ordinary expression. Shared with object-literal property values.
func (p *Parser) parseValueAllowingImplicitBlock(minIndent int) (ast.Expr, error) {
	if p.peekNewline() {
		indent, err := p.moveToNextLine(false)
		if err != nil {
			return nil, err
		}
		if p.eof {
			return nil, p.errUnexpected(p.current())
		}
		if indent < minIndent {
			return nil, p.errIndent("missing indent")
		}
		p.linePending = false
		obj, ok, err := p.tryParseUnbracketedObject(indent)
		if err != nil {
			return nil, err
		}
		if ok {
			return obj, nil
		}
		return p.parseAssignmentOrExpression()
	}
	if p.looksLikeObjectKey() {
		obj, ok, err := p.tryParseInlineUnbracketedObject()
		if err != nil {
			return nil, err
		}
		if ok {
			return obj, nil
		}
	}
	return p.parseAssignmentOrExpression()
}

// tryParseInlineUnbracketedObject parses the inline unbracketed form (`a =
// b:1, c:2` all on one line): every pair after the first must be preceded by
// a comma, and a newline without a comma terminates the literal. Unlike the newline-driven
// form, the comma run here belongs entirely to the object: a trailing comma
// not followed by another key is left unconsumed for the caller (an
// enclosing argument or paren list) to handle.
func (p *Parser) tryParseInlineUnbracketedObject() (*ast.ObjectLiteral, bool, error) {
	if !p.looksLikeObjectKey() {
		return nil, false, nil
	}
	pos := p.current().Pos
	var props []ast.ObjectProperty
	for {
		prop, err := p.parseObjectProperty(p.topIndent() + 1)
		if err != nil {
			return nil, false, err
		}
		props = append(props, prop)

		if p.peek().Kind != token.COMMA {
			break
		}
		snap := p.stash()
		p.take()
		if !p.looksLikeObjectKey() {
			p.restore(snap)
			break
		}
	}
	return &ast.ObjectLiteral{Properties: props, Pos: pos}, true, nil
}

func (p *Parser) parseAssignmentValue() (ast.Expr, error) {
	return p.parseValueAllowingImplicitBlock(p.topIndent())
}

// ---- Expressions: Pratt precedence climbing ----

func (p *Parser) parseExpression() (ast.Expr, error) {
	left, err := p.parseBinaryExpr(0)
	if err != nil {
		return nil, err
	}
	return p.parsePostfixFor(left)
}

// parseBinaryExpr builds left-leaning trees, rotated via
// recursion into the right operand whenever it must bind tighter. Postfix
// binary if/unless (priority 1) is folded into the same climb since the
// table treats it as just another operator — except while parsing an
// implicit-call argument, where postfix if/unless must
// not be consumed into the argument: `foo x, y if c` must leave `if c` for
// the whole call, not fold it into `y`.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.peek()
		if !isBinaryOperatorToken(opTok) {
			break
		}
		if p.inFCall > 0 && (opTok.Kind == token.IF || opTok.Kind == token.UNLESS) {
			break
		}
		prio, ok := binaryPriority(opTok)
		if !ok {
			return nil, p.errPrecedence(opTok)
		}
		if prio < minPrec {
			break
		}
		p.take()
		if err := p.skipNewlineBeforeOperand(); err != nil {
			return nil, err
		}
		right, err := p.parseBinaryExpr(prio + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Op: opTok, Right: right}
	}
	return left, nil
}

// parsePostfixFor parses the postfix comprehension form
// `expr for x in xs [for y in ys ...]`, skipped entirely while parsing an
// implicit function-call argument.
func (p *Parser) parsePostfixFor(left ast.Expr) (ast.Expr, error) {
	for p.peek().Kind == token.FOR && p.inFCall == 0 {
		loop, err := p.parseForHeader()
		if err != nil {
			return nil, err
		}
		left = &ast.ForExpression2{Inner: left, Loop: loop}
	}
	return left, nil
}

// parseUnary implements prefix unary: `!`/`not` and `+`/`-`/`++`/`--` all
// wrap the next unary expression (allowing chains like `--x`). Inside an
// implicit call's argument list, a math sign followed by whitespace is not a
// prefix operator: `foo -2` calls with -2, `a - b`
// inside an argument stays a subtraction.
func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.peek()
	if tok.Kind == token.UNARY || tok.Kind == token.UNARY_MATH {
		if p.inFCall > 0 && tok.Kind == token.UNARY_MATH && p.spaceAfterNext() {
			return p.parseCallChainEntry()
		}
		p.take()
		if err := p.skipNewlineBeforeOperand(); err != nil {
			return nil, err
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.PrefixUnaryExpression{Op: tok, Inner: inner}, nil
	}
	return p.parseCallChainEntry()
}

// skipNewlineBeforeOperand consumes newlines between an operator and its
// operand, demanding the operand's line be indented at least
// as far as the current block.
func (p *Parser) skipNewlineBeforeOperand() error {
	if !p.peekNewline() {
		return nil
	}
	indent, err := p.moveToNextLine(false)
	if err != nil {
		return err
	}
	if p.eof {
		return p.errUnexpected(p.current())
	}
	if indent < p.topIndent() {
		return p.errIndent("missing indent")
	}
	p.linePending = false
	return nil
}

func (p *Parser) parseCallChainEntry() (ast.Expr, error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseCallChain(prim)
}

// eligibleCallTarget reports whether e may be a call target: an Identifier, a
// this-rooted PropertyAccess (`@name`), or a parenthesized expression. A
// numeric literal, string, or general dotted chain is never a call target.
func eligibleCallTarget(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Identifier:
		return true
	case *ast.Parens:
		return true
	case *ast.PropertyAccess:
		_, isThis := v.Target.(*ast.ThisExpression)
		return isThis
	default:
		return false
	}
}

// looksLikeImplicitArgStart decides, once whitespace has been seen after an
// eligible call target, whether what follows is actually the start of an
// argument rather than a binary operator continuing the enclosing
// expression. A `+`/`-` only counts as the start of a unary-prefixed
// argument when it sits directly adjacent to its operand — `foo +2` is a
// call, `foo + 2` is addition. IF/UNLESS are excluded while already inside
// an implicit-call argument list: `foo x, y if c` must
// leave `if c` as the whole call's postfix conditional, never fold it into
// `y` as `y(if c ...)`. FOR never starts an argument — a `for` after an
// expression is always the postfix comprehension (`xs for xs in list` is a
// ForExpression2 over xs, not a call xs(for ...)).
func (p *Parser) looksLikeImplicitArgStart() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.UNARY_MATH:
		return !p.spaceAfterNext()
	case token.IF, token.UNLESS:
		return p.inFCall == 0
	case token.IDENTIFIER, token.NUMBER, token.STRING, token.UNARY,
		token.SHORT_THIS, token.LONG_THIS, token.LPAREN, token.LBRACE,
		token.BUILTIN_PRIMARY, token.FUNC,
		token.LOOP, token.UNTIL:
		return true
	default:
		return false
	}
}

// parseCallChain drives the chained-call loop: property
// access, a parenthesized or implicit argument list (either order,
// repeating), and postfix ++/--.
func (p *Parser) parseCallChain(target ast.Expr) (ast.Expr, error) {
	for {
		switch {
		case p.peek().Kind == token.DOT || p.peek().Kind == token.PROTO:
			protoTok := p.take()
			memberTok, err := p.expect(token.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			target = &ast.PropertyAccess{
				Target:    target,
				Member:    ast.Ident(memberTok.Value, memberTok.Pos),
				Prototype: protoTok.Kind == token.PROTO,
			}

		case p.peek().Kind == token.UNARY_MATH && !p.peekSpace() &&
			(p.peek().Value == "++" || p.peek().Value == "--"):
			opTok := p.take()
			target = &ast.PostfixUnaryExpression{Op: opTok, Inner: target}

		case p.peek().Kind == token.LPAREN && !p.peekSpace() && eligibleCallTarget(target):
			args, err := p.parseParenArgs()
			if err != nil {
				return nil, err
			}
			target = &ast.FunctionCall{Target: target, Args: args}

		case p.peekSpace() && eligibleCallTarget(target) && p.looksLikeImplicitArgStart():
			if p.peek().Kind == token.IF || p.peek().Kind == token.UNLESS {
				// An if right after a call target is speculatively tried as the
				// call's first argument; if its body turns out empty this rewinds
				// so the binary climb can take it as a postfix conditional
				// instead.
				snap := p.stash()
				args, err := p.parseImplicitArgs()
				if err != nil {
					var perr *perrors.Error
					if errors.As(err, &perr) && perr.Kind == perrors.EmptyBlock {
						p.restore(snap)
						return target, nil
					}
					return nil, err
				}
				target = &ast.FunctionCall{Target: target, Args: args}
				break
			}
			args, err := p.parseImplicitArgs()
			if err != nil {
				return nil, err
			}
			target = &ast.FunctionCall{Target: target, Args: args}

		default:
			return target, nil
		}
	}
}

// parseCallArgument parses one implicit-call or parenthesized-call argument,
// recognizing an unbracketed object literal when the argument
// starts with `key :` — the "function-call argument" context that rule
// names alongside assignment RHS and object values.
func (p *Parser) parseCallArgument() (ast.Expr, error) {
	if p.looksLikeObjectKey() {
		obj, ok, err := p.tryParseInlineUnbracketedObject()
		if err != nil {
			return nil, err
		}
		if ok {
			return obj, nil
		}
	}
	return p.parseExpression()
}

// parseParenArgs parses `( args? )`, allowing newlines after `(`, after each
// comma, and before `)`. Any argument may carry a trailing `...` splat.
func (p *Parser) parseParenArgs() ([]ast.Expr, error) {
	p.take() // (
	p.inParens++
	savedFCall := p.inFCall
	p.inFCall = 0 // parens reopen the general context: postfix if/for bind again
	defer func() { p.inParens--; p.inFCall = savedFCall }()

	var args []ast.Expr
	if err := p.moveToNextLineIfPresent(); err != nil {
		return nil, err
	}
	for p.peek().Kind != token.RPAREN {
		arg, err := p.parseCallArgument()
		if err != nil {
			return nil, err
		}
		if p.peek().Kind == token.ELLIPSIS {
			p.take()
			arg = &ast.SplatExpression{Inner: arg}
		}
		args = append(args, arg)

		if err := p.moveToNextLineIfPresent(); err != nil {
			return nil, err
		}
		if p.peek().Kind != token.COMMA {
			break
		}
		p.take()
		if err := p.moveToNextLineIfPresent(); err != nil {
			return nil, err
		}
	}
	if err := p.moveToNextLineIfPresent(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parseImplicitArgs parses the implicit argument list: parse
// one argument, and if a comma follows, keep going, allowing the list to
// cross newlines under the imp_block_indent discipline.
func (p *Parser) parseImplicitArgs() ([]ast.Expr, error) {
	p.inFCall++
	defer func() { p.inFCall-- }()

	blockIndent := p.topIndent()
	impBlockIndent := -1

	first, err := p.parseCallArgument()
	if err != nil {
		return nil, err
	}
	args := []ast.Expr{first}

	for p.peek().Kind == token.COMMA {
		p.take()
		if p.peekNewline() {
			snap := p.stash()
			indent, err := p.moveToNextLine(false)
			if err != nil {
				return nil, err
			}
			p.linePending = false
			if indent < blockIndent {
				p.restore(snap)
				return nil, p.errIndent("missing indentation")
			}
		}
		arg, err := p.parseCallArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.peek().Kind == token.COMMA {
			continue
		}
		if !p.peekNewline() {
			break
		}

		snap := p.stash()
		indent, err := p.moveToNextLine(false)
		if err != nil {
			return nil, err
		}
		switch {
		case impBlockIndent < 0 && indent > blockIndent:
			impBlockIndent = indent
		case impBlockIndent >= 0 && indent > impBlockIndent:
			// continues at the established implicit-block column
		default:
			p.restore(snap)
			return args, nil
		}
		p.linePending = false
		if p.peek().Kind != token.COMMA {
			p.restore(snap)
			return args, nil
		}
	}
	return args, nil
}

// ---- Primary expressions ----

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.NUMBER:
		p.take()
		return ast.Num(tok.Value, tok.Pos), nil
	case token.STRING:
		p.take()
		return ast.Str(tok.Value, tok.Pos), nil
	case token.IDENTIFIER:
		p.take()
		return ast.Ident(tok.Value, tok.Pos), nil
	case token.BUILTIN_PRIMARY:
		p.take()
		return &ast.BuiltinPrimary{Text: tok.Value, Pos: tok.Pos}, nil
	case token.LONG_THIS:
		p.take()
		return &ast.ThisExpression{Token: tok}, nil
	case token.SHORT_THIS:
		return p.parseShortThis(tok)
	case token.LPAREN:
		return p.parseParensOrFunction()
	case token.LBRACE:
		return p.parseObjectLiteralBracketed()
	case token.FUNC:
		fn, _, err := p.finishFunction(tok.Pos, nil)
		if err != nil {
			return nil, err
		}
		return fn, nil
	case token.IF, token.UNLESS:
		return p.parseIfUnless()
	case token.LOOP, token.UNTIL:
		return p.parseLoopUntil()
	case token.FOR:
		return p.parseForStatement()
	case token.BREAK:
		p.take()
		return &ast.BreakStatement{Pos: tok.Pos}, nil
	case token.CONTINUE:
		p.take()
		return &ast.ContinueStatement{Pos: tok.Pos}, nil
	default:
		return nil, p.errUnexpected(tok)
	}
}

// parseShortThis handles `@`, `@name` and the `@::name` prototype-access
// shorthand; the member forms read as a PropertyAccess rooted at a bare
// ThisExpression.
func (p *Parser) parseShortThis(tok token.Token) (ast.Expr, error) {
	p.take()
	this := &ast.ThisExpression{Token: tok}
	if p.peek().Kind == token.PROTO {
		p.take()
		memberTok, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		return &ast.PropertyAccess{Target: this, Member: ast.Ident(memberTok.Value, memberTok.Pos), Prototype: true}, nil
	}
	if p.peek().Kind == token.IDENTIFIER && !p.peekSpace() {
		memberTok := p.take()
		return &ast.PropertyAccess{Target: this, Member: ast.Ident(memberTok.Value, memberTok.Pos)}, nil
	}
	return this, nil
}

// parseParensOrFunction resolves the `(` ambiguity between a parameter list
// (`(x, y) -> body`) and a parenthesized expression, by speculatively
// attempting the former first and rewinding on any mismatch.
func (p *Parser) parseParensOrFunction() (ast.Expr, error) {
	snap := p.stash()
	fn, ok, err := p.tryParseFunction()
	if err != nil {
		return nil, err
	}
	if ok {
		return fn, nil
	}
	p.restore(snap)
	return p.parseParens()
}

// parseParens parses `( … )`: `(` increments inParens, parses one
// expression, and expects `)`.
func (p *Parser) parseParens() (ast.Expr, error) {
	openTok := p.take()
	p.inParens++
	savedFCall := p.inFCall
	p.inFCall = 0
	defer func() { p.inParens--; p.inFCall = savedFCall }()

	if err := p.moveToNextLineIfPresent(); err != nil {
		return nil, err
	}
	inner, err := p.parseAssignmentOrExpression()
	if err != nil {
		return nil, err
	}
	if err := p.moveToNextLineIfPresent(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Parens{Inner: inner, Pos: openTok.Pos}, nil
}

// tryParseFunction speculatively parses `(params?) ("->"|"=>")`. A false
// return (with nil error) means the shape didn't match and the caller must
// rewind and try the plain-parenthesized-expression rule instead.
func (p *Parser) tryParseFunction() (*ast.Function, bool, error) {
	if p.peek().Kind != token.LPAREN {
		return nil, false, nil
	}
	pos := p.peek().Pos
	p.take()
	p.inParens++

	var params []ast.FunctionParam
	for {
		if err := p.moveToNextLineIfPresent(); err != nil {
			p.inParens--
			return nil, false, nil
		}
		if p.peek().Kind == token.RPAREN {
			break
		}
		if p.peek().Kind != token.IDENTIFIER {
			p.inParens--
			return nil, false, nil
		}
		nameTok := p.take()
		param := ast.FunctionParam{Name: nameTok.Value}
		switch {
		case p.peek().Kind == token.ELLIPSIS:
			p.take()
			param.Splat = true
		case p.peek().Kind == token.ASSIGN_OPERATOR && p.peek().Value == "=":
			p.take()
			def, err := p.parseExpression()
			if err != nil {
				p.inParens--
				return nil, false, nil
			}
			param.Default = def
		}
		params = append(params, param)

		if err := p.moveToNextLineIfPresent(); err != nil {
			p.inParens--
			return nil, false, nil
		}
		if p.peek().Kind != token.COMMA {
			break
		}
		p.take()
	}
	if err := p.moveToNextLineIfPresent(); err != nil {
		p.inParens--
		return nil, false, nil
	}
	if p.peek().Kind != token.RPAREN {
		p.inParens--
		return nil, false, nil
	}
	p.take()
	p.inParens--

	if p.peek().Kind != token.FUNC {
		return nil, false, nil
	}
	return p.finishFunction(pos, params)
}

// finishFunction consumes "->"/"=>" and parses the
// body, empty body allowed unconditionally (unlike if/loop/for). A token on
// the same line as the arrow is a one-line body; otherwise block form, where
// end-of-input or an immediate de-indent yields an empty Block.
func (p *Parser) finishFunction(pos token.Position, params []ast.FunctionParam) (*ast.Function, bool, error) {
	funcTok := p.take()
	var body *ast.Block
	var err error
	next := p.peek()
	if !p.peekNewline() && !p.isBlockTerminator(next, nil) &&
		next.Kind != token.SEMICOLON && next.Kind != token.COMMA && next.Kind != token.ELSE {
		body, err = p.parseInlineBody(nil)
	} else {
		body, err = p.parseNestedBlock()
	}
	if err != nil {
		return nil, false, err
	}
	return &ast.Function{Params: params, Body: body, BindThis: funcTok.Value == "=>", Pos: pos}, true, nil
}

// ---- Object literals ----

// parseObjectLiteralBracketed parses `{ key: value, ... }`. Newline-separated
// pairs follow a working-indent discipline: the first key line must land at
// or past the enclosing block's indent and establishes the working indent,
// every later key line must land at exactly that column, and a comma leading
// its own line at a lower column (still at or past the block's) brings the
// working indent back to the comma's column. Inside braces a violation is an
// error rather than the end of the literal.
func (p *Parser) parseObjectLiteralBracketed() (ast.Expr, error) {
	openTok := p.take() // {
	pos := openTok.Pos

	minIndent := p.topIndent()
	lastIndent := -1 // no key line established yet

	if p.peekNewline() {
		indent, err := p.moveToNextLine(false)
		if err != nil {
			return nil, err
		}
		if p.eof {
			return nil, p.errExpected(token.RBRACE, p.current())
		}
		p.linePending = false
		if p.peek().Kind != token.RBRACE {
			if indent < minIndent {
				return nil, p.errIndent("missing indent")
			}
			lastIndent = indent
		}
	}

	valueFloor := func() int {
		if lastIndent >= 0 {
			return lastIndent + 1
		}
		return minIndent + 1
	}

	var props []ast.ObjectProperty
	for p.peek().Kind != token.RBRACE {
		prop, err := p.parseObjectProperty(valueFloor())
		if err != nil {
			return nil, err
		}
		props = append(props, prop)

		sawComma := false
		if p.peek().Kind == token.COMMA {
			p.take()
			sawComma = true
		}
		if p.peek().Kind == token.RBRACE {
			break
		}
		if !p.peekNewline() {
			if !sawComma {
				break // not a separator: the closing-brace expect reports it
			}
			continue
		}

		indent, err := p.moveToNextLine(false)
		if err != nil {
			return nil, err
		}
		if p.eof {
			return nil, p.errExpected(token.RBRACE, p.current())
		}
		p.linePending = false

		switch {
		case p.peek().Kind == token.RBRACE:
			// the closing brace may sit at any column
		case p.peek().Kind == token.COMMA && !sawComma:
			if indent < minIndent {
				return nil, p.errIndent("missing indent")
			}
			if lastIndent >= 0 && indent > lastIndent {
				return nil, p.errIndent("unexpected indent")
			}
			lastIndent = indent
			p.take()
		case indent < minIndent:
			return nil, p.errIndent("missing indent")
		case lastIndent >= 0 && indent > lastIndent:
			return nil, p.errIndent("unexpected indent")
		case lastIndent >= 0 && indent < lastIndent:
			return nil, p.errIndent("missing indent")
		default:
			lastIndent = indent
		}
	}
	closeTok, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, p.errUnexpected(closeTok)
	}
	return &ast.ObjectLiteral{Properties: props, Pos: pos}, nil
}

// parseObjectProperty parses one `key : value` pair. valueMin is the minimum
// indent a value starting on its own line must land at — strictly more than
// the object's working indent.
func (p *Parser) parseObjectProperty(valueMin int) (ast.ObjectProperty, error) {
	keyTok := p.peek()
	var key ast.Expr
	switch keyTok.Kind {
	case token.IDENTIFIER:
		p.take()
		key = ast.Ident(keyTok.Value, keyTok.Pos)
	case token.NUMBER:
		p.take()
		key = ast.Num(keyTok.Value, keyTok.Pos)
	case token.STRING:
		p.take()
		key = ast.Str(keyTok.Value, keyTok.Pos)
	default:
		return ast.ObjectProperty{}, p.errUnexpected(keyTok)
	}
	if _, err := p.expect(token.COLON); err != nil {
		return ast.ObjectProperty{}, err
	}
	value, err := p.parseValueAllowingImplicitBlock(valueMin)
	if err != nil {
		return ast.ObjectProperty{}, err
	}
	return ast.ObjectProperty{Key: key, Value: value}, nil
}

// looksLikeObjectKey is the speculative probe for an object literal: an
// IDENTIFIER, NUMBER, or STRING followed by ':' (whitespace between the two is
// allowed).
func (p *Parser) looksLikeObjectKey() bool {
	tok := p.peek()
	if tok.Kind != token.IDENTIFIER && tok.Kind != token.NUMBER && tok.Kind != token.STRING {
		return false
	}
	idx := p.skipIndex(p.pos)
	idx2 := p.skipIndex(idx + 1)
	return idx2 < len(p.tokens) && p.tokens[idx2].Kind == token.COLON
}

// tryParseUnbracketedObject parses the newline-separated unbracketed form: a
// sequence of `key : value` pairs separated by a comma, a newline landing
// back at the working indent, or both. firstIndent is both the working
// indent and the literal's floor; a comma leading its own line at a column
// between the floor and the working indent brings the working indent back to
// the comma's column. A key line indented past the working indent is an
// error; a line landing below the floor ends the literal instead, rewinding
// to the pre-newline state so the enclosing context owns that line.
func (p *Parser) tryParseUnbracketedObject(firstIndent int) (*ast.ObjectLiteral, bool, error) {
	pos := p.current().Pos
	if !p.looksLikeObjectKey() {
		return nil, false, nil
	}

	minIndent := firstIndent
	lastIndent := firstIndent

	var props []ast.ObjectProperty
	for {
		prop, err := p.parseObjectProperty(lastIndent + 1)
		if err != nil {
			return nil, false, err
		}
		props = append(props, prop)

		if p.peek().Kind == token.COMMA {
			snap := p.stash()
			p.take()
			if p.looksLikeObjectKey() {
				continue
			}
			if p.peekNewline() {
				// comma-then-newline separator: the next pair's line must
				// still respect the working indent
				nextIndent, err := p.moveToNextLine(false)
				if err != nil {
					return nil, false, err
				}
				if !p.eof && nextIndent >= minIndent && nextIndent <= lastIndent && p.looksLikeObjectKey() {
					p.linePending = false
					lastIndent = nextIndent
					continue
				}
			}
			p.restore(snap)
			break
		}
		if !p.peekNewline() {
			break
		}
		snap := p.stash()
		nextIndent, err := p.moveToNextLine(false)
		if err != nil {
			return nil, false, err
		}
		if p.eof {
			p.restore(snap)
			break
		}
		p.linePending = false

		if p.peek().Kind == token.COMMA && nextIndent >= minIndent && nextIndent <= lastIndent {
			lastIndent = nextIndent
			p.take()
			if p.looksLikeObjectKey() {
				continue
			}
			p.restore(snap)
			break
		}
		if !p.looksLikeObjectKey() {
			p.restore(snap)
			break
		}
		switch {
		case nextIndent == lastIndent:
			// next pair at the working indent
		case nextIndent > lastIndent:
			return nil, false, p.errIndent("unexpected indent")
		default:
			p.restore(snap)
			return &ast.ObjectLiteral{Properties: props, Pos: pos}, true, nil
		}
	}
	return &ast.ObjectLiteral{Properties: props, Pos: pos}, true, nil
}

// ---- if / unless / loop / until / for ----

// peekElseHere reports whether an ELSE belonging to the current if sits
// next: on the same line, on the line a nested block already de-indented to
// (linePending), or on the following line at the current block's own indent.
// In the last case the line transition is consumed so the caller can take
// the ELSE directly.
func (p *Parser) peekElseHere() bool {
	if p.linePending {
		return p.lineIndent == p.topIndent() && p.peek().Kind == token.ELSE
	}
	if p.peek().Kind == token.ELSE {
		return true
	}
	if p.peekNewline() && p.peekThroughNewlines().Kind == token.ELSE {
		snap := p.stash()
		indent, err := p.moveToNextLine(false)
		if err == nil && !p.eof && indent == p.topIndent() && p.peek().Kind == token.ELSE {
			return true
		}
		p.restore(snap)
	}
	return false
}

func (p *Parser) parseIfUnless() (ast.Expr, error) {
	opTok := p.take()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thenBody, err := p.parseHeaderBody(map[token.Kind]bool{token.ELSE: true}, false)
	if err != nil {
		return nil, err
	}
	node := &ast.IfExpression{Op: opTok, Cond: cond, Then: thenBody, Pos: opTok.Pos}

	if p.peekElseHere() {
		p.linePending = false
		p.take()
		switch {
		case p.peek().Kind == token.IF || p.peek().Kind == token.UNLESS:
			elseExpr, err := p.parseIfUnless()
			if err != nil {
				return nil, err
			}
			node.Else = elseExpr
		case !p.linePending && !p.peekNewline():
			elseBody, err := p.parseInlineBody(nil)
			if err != nil {
				return nil, err
			}
			node.Else = elseBody
		default:
			elseBody, err := p.parseNestedBlock()
			if err != nil {
				return nil, err
			}
			if len(elseBody.Exprs) == 0 {
				return nil, p.errEmptyBlock(p.current())
			}
			node.Else = elseBody
		}
		if p.peekElseHere() {
			return nil, p.errUnexpected(p.peek())
		}
	}
	return node, nil
}

func (p *Parser) parseLoopUntil() (ast.Expr, error) {
	opTok := p.take()
	var cond ast.Expr
	if opTok.Kind == token.UNTIL {
		c, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	body, err := p.parseHeaderBody(nil, false)
	if err != nil {
		return nil, err
	}
	return &ast.LoopExpression{Op: opTok, Cond: cond, Body: body, Pos: opTok.Pos}, nil
}

// isSimpleLHS reports whether e is an Identifier or an `@name` access — the
// only shapes admitted as an assignment target or a for-loop
// iteration variable. A general dotted chain is not one.
func isSimpleLHS(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Identifier:
		return true
	case *ast.PropertyAccess:
		_, isThis := v.Target.(*ast.ThisExpression)
		return isThis
	default:
		return false
	}
}

// parseLHS parses a left-hand value: only an
// Identifier or this-rooted PropertyAccess may be a for-loop iteration
// variable.
func (p *Parser) parseLHS() (ast.LHS, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	lhs, ok := expr.(ast.LHS)
	if !ok || !isSimpleLHS(expr) {
		return nil, p.errUnexpected(p.current())
	}
	return lhs, nil
}

// parseForHeader parses `for iter1 [, iter2] (in|of) iterable` without a
// body, shared by the statement form and the postfix-comprehension form.
func (p *Parser) parseForHeader() (*ast.ForExpression, error) {
	forTok := p.take()
	iter1, err := p.parseLHS()
	if err != nil {
		return nil, err
	}
	var iter2 ast.LHS
	if p.peek().Kind == token.COMMA {
		p.take()
		iter2, err = p.parseLHS()
		if err != nil {
			return nil, err
		}
	}
	iterTypeTok := p.peek()
	if iterTypeTok.Kind != token.IN && iterTypeTok.Kind != token.OF {
		return nil, p.errExpected(token.IN, iterTypeTok)
	}
	p.take()
	iterable, err := p.parseBinaryExpr(0)
	if err != nil {
		return nil, err
	}
	return &ast.ForExpression{
		Iter1: iter1, Iter2: iter2, IterType: iterTypeTok, Iterable: iterable, Pos: forTok.Pos,
	}, nil
}

func (p *Parser) parseForStatement() (ast.Expr, error) {
	header, err := p.parseForHeader()
	if err != nil {
		return nil, err
	}
	body, err := p.parseHeaderBody(nil, false)
	if err != nil {
		return nil, err
	}
	header.Body = body
	return header, nil
}
