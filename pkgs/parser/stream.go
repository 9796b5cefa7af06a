package parser

import "github.com/aledsdavies/coffeescan/pkgs/token"

// Parser drives a recursive-descent, Pratt-precedence parse over a flat
// token vector produced by pkgs/lexer. It doubles as the token view over
// that vector: peek/take/stash all operate on the same pos cursor.
type Parser struct {
	input  string
	tokens []token.Token
	pos    int // raw token index (includes trivia)

	inFCall     int
	inParens    int
	indentStack []int
	eof         bool

	// linePending/lineIndent record a newline-to-indent transition that has
	// already been scanned past (by moveToNextLine) but not yet "claimed" by
	// whichever block loop cares about it. A nested block that terminates by
	// de-indenting leaves this set so its caller's own block loop can compare
	// the same landed indent against its own level without rescanning the
	// same trivia twice.
	linePending bool
	lineIndent  int
}

// New constructs a Parser over an already-scanned token vector. input is
// kept only so error snippets can quote the offending source line.
func New(input string, tokens []token.Token) *Parser {
	return &Parser{input: input, tokens: tokens}
}

// Reset reinitializes the parser for a fresh token vector, so one Parser
// value can be reused across invocations rather than allocated each time.
func (p *Parser) Reset(tokens []token.Token) {
	p.tokens = tokens
	p.pos = 0
	p.inFCall = 0
	p.inParens = 0
	p.indentStack = p.indentStack[:0]
	p.eof = false
	p.linePending = false
	p.lineIndent = 0
}

// snapshot is the speculative-rule primitive: value-copy
// the cursor and the indent stack before a rule that may soft-fail, restore
// it wholesale on failure.
type snapshot struct {
	pos         int
	inFCall     int
	inParens    int
	indentStack []int
	eof         bool
	linePending bool
	lineIndent  int
}

func (p *Parser) stash() snapshot {
	stack := make([]int, len(p.indentStack))
	copy(stack, p.indentStack)
	return snapshot{
		pos:         p.pos,
		inFCall:     p.inFCall,
		inParens:    p.inParens,
		indentStack: stack,
		eof:         p.eof,
		linePending: p.linePending,
		lineIndent:  p.lineIndent,
	}
}

func (p *Parser) restore(s snapshot) {
	p.pos = s.pos
	p.inFCall = s.inFCall
	p.inParens = s.inParens
	p.indentStack = s.indentStack
	p.eof = s.eof
	p.linePending = s.linePending
	p.lineIndent = s.lineIndent
}

// ---- Token view ----

// skipIndex returns the first index at or after from that is not trivia.
func (p *Parser) skipIndex(from int) int {
	i := from
	for i < len(p.tokens) && p.tokens[i].Kind.IsTrivia() {
		i++
	}
	return i
}

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			return token.Token{Kind: token.EOF, Pos: last.End()}
		}
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[i]
}

// peek returns the next non-trivia token without advancing; it stops at
// (does not skip) NEWLINE.
func (p *Parser) peek() token.Token {
	return p.tokenAt(p.skipIndex(p.pos))
}

// take returns the next non-trivia token (as peek would) and advances past it.
func (p *Parser) take() token.Token {
	i := p.skipIndex(p.pos)
	tok := p.tokenAt(i)
	if i < len(p.tokens) {
		p.pos = i + 1
	} else {
		p.pos = i
	}
	return tok
}

// current is an alias for peek used by error-construction call sites that
// read more naturally asking "what's the parser looking at".
func (p *Parser) current() token.Token { return p.peek() }

// peekSpace reports whether the very next raw token (before any trivia
// skipping) is WHITESPACE — used to disambiguate foo(2) from foo (2), and
// adjacency for postfix ++/--.
func (p *Parser) peekSpace() bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].Kind == token.WHITESPACE
}

// peekNewline reports whether peek() would return NEWLINE.
func (p *Parser) peekNewline() bool {
	return p.peek().Kind == token.NEWLINE
}

// peekThroughNewlines returns the next non-trivia token, additionally
// skipping NEWLINE — a cheap lookahead for rules that only care what the
// next line starts with, not where it sits.
func (p *Parser) peekThroughNewlines() token.Token {
	i := p.pos
	for i < len(p.tokens) {
		k := p.tokens[i].Kind
		if !k.IsTrivia() && k != token.NEWLINE {
			break
		}
		i++
	}
	return p.tokenAt(i)
}

// spaceAfterNext reports whether the raw token right after the next
// significant token is WHITESPACE — used to test adjacency of a sign to its
// operand for the prefix-unary-vs-binary disambiguation.
func (p *Parser) spaceAfterNext() bool {
	idx := p.skipIndex(p.pos)
	if idx+1 < len(p.tokens) {
		return p.tokens[idx+1].Kind == token.WHITESPACE
	}
	return false
}

// ---- Indent tracker ----

func (p *Parser) pushIndent(n int) { p.indentStack = append(p.indentStack, n) }
func (p *Parser) popIndent() {
	if len(p.indentStack) > 0 {
		p.indentStack = p.indentStack[:len(p.indentStack)-1]
	}
}
func (p *Parser) topIndent() int {
	if len(p.indentStack) == 0 {
		return 0
	}
	return p.indentStack[len(p.indentStack)-1]
}

// moveToNextLine advances across a line boundary. Unless inBlock and pos is 0
// (entering the root block), there must be a NEWLINE among the upcoming
// trivia before any significant token — otherwise this was called somewhere
// that isn't actually at a line boundary, which is an error. It consumes
// trivia, tracking the indent of whichever line the cursor lands on, sets
// linePending so callers up the stack can see the same landed indent
// without rescanning, and returns that indent.
func (p *Parser) moveToNextLine(inBlock bool) (int, error) {
	atStart := inBlock && p.pos == 0
	if !atStart {
		i, sawNewline := p.pos, false
		for i < len(p.tokens) {
			k := p.tokens[i].Kind
			if k == token.NEWLINE {
				sawNewline = true
				break
			}
			if k == token.WHITESPACE || k == token.COMMENT {
				i++
				continue
			}
			break
		}
		if !sawNewline {
			return 0, p.errUnexpected(p.current())
		}
	}

	indent := 0
	i := p.pos
	for i < len(p.tokens) {
		switch p.tokens[i].Kind {
		case token.NEWLINE:
			indent = 0
			i++
		case token.WHITESPACE:
			indent += len(p.tokens[i].Value)
			i++
		case token.COMMENT:
			i++
		case token.EOF:
			p.pos = i
			p.eof = true
			p.linePending = false
			return 0, nil
		default:
			p.pos = i
			p.linePending = true
			p.lineIndent = indent
			return indent, nil
		}
	}
	p.pos = i
	p.eof = true
	p.linePending = false
	return 0, nil
}

// moveToNextLineIfPresent consumes a pending newline transition if one is
// immediately upcoming, used inside parens where indentation never needs to
// be validated against the block's indent stack.
func (p *Parser) moveToNextLineIfPresent() error {
	if !p.peekNewline() {
		return nil
	}
	if _, err := p.moveToNextLine(false); err != nil {
		return err
	}
	p.linePending = false
	return nil
}

// consumeLineTransition returns the indent of the next line, consuming the
// NEWLINE if one hasn't already been claimed by a nested rule (linePending).
// sawTransition is false when the cursor is still mid-line (no newline, no
// pending transition) — the caller must then decide based on same-line
// tokens alone.
func (p *Parser) consumeLineTransition() (indent int, sawTransition bool, err error) {
	if p.linePending {
		return p.lineIndent, true, nil
	}
	if p.eof {
		return 0, true, nil
	}
	if !p.peekNewline() {
		return 0, false, nil
	}
	indent, err = p.moveToNextLine(false)
	if err != nil {
		return 0, false, err
	}
	return indent, true, nil
}

// peekIndentAhead looks past the NEWLINE at the raw cursor to the indent of
// the next significant line, without committing the move. atEOF reports
// that no more significant tokens remain.
func (p *Parser) peekIndentAhead() (indent int, atEOF bool) {
	i := p.pos
	ind := 0
	for i < len(p.tokens) {
		switch p.tokens[i].Kind {
		case token.NEWLINE:
			ind = 0
			i++
		case token.WHITESPACE:
			ind += len(p.tokens[i].Value)
			i++
		case token.COMMENT:
			i++
		case token.EOF:
			return 0, true
		default:
			return ind, false
		}
	}
	return 0, true
}
