// Package lexer implements the scanner: a
// left-to-right, longest-match tokenizer that preserves whitespace and
// comment trivia because the parser needs it for significant-indentation
// decisions. The scanner never fails softly — any position it can't
// classify is a fatal scan error.
package lexer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/coffeescan/internal/charclass"
	"github.com/aledsdavies/coffeescan/pkgs/perrors"
	"github.com/aledsdavies/coffeescan/pkgs/token"
)

// scanErr builds a perrors.ScanErr diagnostic at pos, so scanner failures
// render with the same source snippet the parser's diagnostics get.
func (s *Scanner) scanErr(pos token.Position, format string, args ...any) error {
	at := token.Token{Kind: token.ILLEGAL, Pos: pos}
	if pos.Offset < len(s.input) {
		at.Value = s.input[pos.Offset : pos.Offset+1]
	}
	return perrors.New(perrors.ScanErr, s.input, at, format, args...)
}

// Scanner tokenizes a CoffeeScript-like source string. A Scanner is cheap to
// construct and holds no state beyond the current cursor, so a caller may
// Stash a checkpoint before a speculative read and Rewind to it on failure.
type Scanner struct {
	input string

	pos    int // byte offset of ch
	rdPos  int // byte offset to read next
	ch     rune
	line   int
	column int
}

// New constructs a Scanner positioned at the start of source.
func New(source string) *Scanner {
	s := &Scanner{input: source, line: 1, column: 0}
	s.readChar()
	return s
}

// Reset rewinds the scanner to the start of a new source string so one
// Scanner value can be reused across inputs.
func (s *Scanner) Reset(source string) {
	s.input = source
	s.pos, s.rdPos, s.line, s.column = 0, 0, 1, 0
	s.readChar()
}

func (s *Scanner) readChar() {
	if s.rdPos >= len(s.input) {
		s.ch = 0
		s.pos = s.rdPos
		return
	}
	r, width := utf8.DecodeRuneInString(s.input[s.rdPos:])
	if s.ch == '\n' {
		s.line++
		s.column = 0
	}
	s.column++
	s.ch = r
	s.pos = s.rdPos
	s.rdPos += width
}

func (s *Scanner) atEOF() bool {
	return s.pos >= len(s.input)
}

func (s *Scanner) currentPos() token.Position {
	return token.Position{Line: s.line, Column: s.column, Offset: s.pos}
}

// Checkpoint is an opaque scanner cursor captured by Stash. Its Digest is a
// content-addressed fingerprint of the prefix already consumed; Rewind
// recomputes it against the scanner's current input, so a checkpoint taken
// from a different source (or before a Reset) is rejected instead of
// silently resuming mid-way through the wrong string.
type Checkpoint struct {
	pos, rdPos   int
	ch           rune
	line, column int
	Digest       [16]byte
}

func (s *Scanner) prefixDigest(n int) [16]byte {
	sum := blake2b.Sum512([]byte(s.input[:n]))
	var digest [16]byte
	copy(digest[:], sum[:16])
	return digest
}

// Stash captures the current cursor for a later Rewind.
func (s *Scanner) Stash() Checkpoint {
	return Checkpoint{
		pos: s.pos, rdPos: s.rdPos, ch: s.ch,
		line: s.line, column: s.column,
		Digest: s.prefixDigest(s.pos),
	}
}

// Rewind restores the scanner to a previously stashed checkpoint, erroring
// when the checkpoint's digest does not match this scanner's input.
func (s *Scanner) Rewind(c Checkpoint) error {
	if c.pos > len(s.input) || s.prefixDigest(c.pos) != c.Digest {
		return s.scanErr(s.currentPos(), "checkpoint was not taken from this input")
	}
	s.pos, s.rdPos, s.ch = c.pos, c.rdPos, c.ch
	s.line, s.column = c.line, c.column
	return nil
}

// Scan tokenizes the entire input and returns the ordered token vector.
// Concatenating every Token.Value reproduces the source exactly.
func (s *Scanner) Scan() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

// Next scans and returns the single next token, including trivia and EOF.
func (s *Scanner) Next() (token.Token, error) {
	if s.atEOF() {
		return token.Token{Kind: token.EOF, Value: "", Pos: s.currentPos()}, nil
	}

	start := s.currentPos()

	switch {
	case s.ch == '\n':
		s.readChar()
		return token.Token{Kind: token.NEWLINE, Value: "\n", Pos: start}, nil

	case charclass.IsSpaceOrTab(s.ch):
		return s.scanWhitespace(start), nil

	case s.ch == '#':
		return s.scanComment(start), nil

	case charclass.IsQuote(s.ch):
		return s.scanString(start)

	case charclass.IsDigit(s.ch):
		return s.scanNumber(start), nil

	case charclass.IsIdentStart(s.ch):
		return s.scanIdentifierOrKeyword(start), nil
	}

	if sym, ok := s.matchSymbol(); ok {
		for range sym.lit {
			s.readChar()
		}
		return token.Token{Kind: sym.kind, Value: sym.lit, Pos: start}, nil
	}

	return token.Token{}, s.scanErr(start, "unexpected character %q", s.ch)
}

// matchSymbol tries every entry of the common table against the current
// position, longest literal first within each length tier (see tables.go).
func (s *Scanner) matchSymbol() (symbolEntry, bool) {
	for _, entry := range symbolTable {
		if s.hasPrefix(entry.lit) {
			return entry, true
		}
	}
	return symbolEntry{}, false
}

func (s *Scanner) hasPrefix(lit string) bool {
	if s.pos+len(lit) > len(s.input) {
		return false
	}
	return s.input[s.pos:s.pos+len(lit)] == lit
}

func (s *Scanner) scanWhitespace(start token.Position) token.Token {
	begin := s.pos
	for charclass.IsSpaceOrTab(s.ch) {
		s.readChar()
	}
	return token.Token{Kind: token.WHITESPACE, Value: s.input[begin:s.pos], Pos: start}
}

func (s *Scanner) scanComment(start token.Position) token.Token {
	begin := s.pos
	for s.ch != '\n' && s.ch != 0 {
		s.readChar()
	}
	return token.Token{Kind: token.COMMENT, Value: s.input[begin:s.pos], Pos: start}
}

func (s *Scanner) scanNumber(start token.Position) token.Token {
	begin := s.pos
	for charclass.IsDigit(s.ch) {
		s.readChar()
	}
	return token.Token{Kind: token.NUMBER, Value: s.input[begin:s.pos], Pos: start}
}

// scanIdentifierOrKeyword consumes a whole identifier-shaped word and only
// then checks the keyword table, so "returning" never loses its suffix to a
// greedy "return" match.
func (s *Scanner) scanIdentifierOrKeyword(start token.Position) token.Token {
	begin := s.pos
	for charclass.IsIdentPart(s.ch) {
		s.readChar()
	}
	word := s.input[begin:s.pos]
	if kind, ok := keywordTable[word]; ok {
		return token.Token{Kind: kind, Value: word, Pos: start}
	}
	return token.Token{Kind: token.IDENTIFIER, Value: word, Pos: start}
}

// scanString consumes a quoted literal, including its delimiters. \ escapes
// the following character; an embedded newline or EOF before the closing
// quote is a scan error.
func (s *Scanner) scanString(start token.Position) (token.Token, error) {
	quote := s.ch
	var b strings.Builder
	b.WriteRune(quote)
	s.readChar()

	for {
		switch {
		case s.ch == 0:
			return token.Token{}, s.scanErr(start, "unterminated string literal")
		case s.ch == '\n':
			return token.Token{}, s.scanErr(start, "unterminated string literal: embedded newline")
		case s.ch == '\\':
			b.WriteRune(s.ch)
			s.readChar()
			if s.ch == 0 {
				return token.Token{}, s.scanErr(start, "unterminated string literal")
			}
			b.WriteRune(s.ch)
			s.readChar()
		case s.ch == quote:
			b.WriteRune(s.ch)
			s.readChar()
			return token.Token{Kind: token.STRING, Value: b.String(), Pos: start}, nil
		default:
			b.WriteRune(s.ch)
			s.readChar()
		}
	}
}
