package parser

import (
	"fmt"

	"github.com/aledsdavies/coffeescan/pkgs/perrors"
	"github.com/aledsdavies/coffeescan/pkgs/token"
)

func (p *Parser) errUnexpected(tok token.Token) error {
	hint := perrors.SuggestKeyword(tok.Value)
	msg := fmt.Sprintf("unexpected %s", describeToken(tok))
	if hint != "" {
		msg += " (" + hint + ")"
	}
	return perrors.New(perrors.UnexpectedToken, p.input, tok, "%s", msg)
}

func (p *Parser) errExpected(want token.Kind, got token.Token) error {
	return perrors.New(perrors.ExpectedToken, p.input, got,
		"expected %s, found %s", want, describeToken(got))
}

func (p *Parser) errIndent(format string, args ...any) error {
	return perrors.New(perrors.IndentErr, p.input, p.current(), format, args...)
}

func (p *Parser) errEmptyBlock(at token.Token) error {
	return perrors.New(perrors.EmptyBlock, p.input, at, "block has no statements")
}

func (p *Parser) errPrecedence(op token.Token) error {
	return perrors.New(perrors.PrecedenceErr, p.input, op, "no defined priority for operator %q", op.Value)
}

func (p *Parser) errLeftover(at token.Token) error {
	return perrors.New(perrors.Leftover, p.input, at, "unexpected trailing input at %s", describeToken(at))
}

func describeToken(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Value)
}

// expect consumes and returns the next token, erroring if its kind != want.
func (p *Parser) expect(want token.Kind) (token.Token, error) {
	tok := p.peek()
	if tok.Kind != want {
		return tok, p.errExpected(want, tok)
	}
	return p.take(), nil
}
