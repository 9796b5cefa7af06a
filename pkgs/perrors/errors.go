// Package perrors defines the diagnostic error taxonomy shared by the
// scanner and parser: a single type carrying a Kind, a human message, and
// the token the rule was looking at, rendered with a Rust/Clang style
// source snippet.
package perrors

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/coffeescan/pkgs/token"
)

// Kind is the diagnostic category.
type Kind int

const (
	ScanErr Kind = iota
	UnexpectedToken
	ExpectedToken
	IndentErr
	EmptyBlock
	PrecedenceErr
	Leftover
)

func (k Kind) String() string {
	switch k {
	case ScanErr:
		return "scan error"
	case UnexpectedToken:
		return "unexpected token"
	case ExpectedToken:
		return "expected token"
	case IndentErr:
		return "indentation error"
	case EmptyBlock:
		return "empty block"
	case PrecedenceErr:
		return "undefined operator priority"
	case Leftover:
		return "leftover input"
	default:
		return "error"
	}
}

// Error is the single diagnostic type raised by the scanner and parser.
type Error struct {
	Kind    Kind
	Message string
	Token   token.Token
	Source  string // full input, used only to render the snippet
}

func (e *Error) Error() string {
	snippet := e.snippet()
	if snippet == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s\n%s", e.Kind, e.Message, snippet)
}

func (e *Error) snippet() string {
	if e.Source == "" || e.Token.Pos.Line == 0 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Token.Pos.Line > len(lines) || e.Token.Pos.Line < 1 {
		return ""
	}
	line := lines[e.Token.Pos.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", e.Token.Pos.Line, e.Token.Pos.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Token.Pos.Line, line)
	b.WriteString("   | ")
	if e.Token.Pos.Column > 0 && e.Token.Pos.Column <= len(line)+1 {
		b.WriteString(strings.Repeat(" ", e.Token.Pos.Column-1) + "^")
	}
	return b.String()
}

// New builds a diagnostic of the given kind at tok's position.
func New(kind Kind, source string, tok token.Token, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
		Source:  source,
	}
}

// knownKeywords is the set fuzzy-matched for "did you mean" suggestions. It
// lists the same words as the keys of lexer.keywordTable; the two lists are
// maintained by hand and no test compares them.
var knownKeywords = []string{
	"return", "if", "unless", "then", "else", "for", "until", "loop",
	"in", "of", "break", "continue", "true", "false", "undefined", "null",
	"this", "is", "isnt", "not",
}

// SuggestKeyword returns a "did you mean 'X'?" hint when word is a close
// fuzzy match for a known keyword and not already one itself, or "" when
// no sufficiently close keyword exists.
func SuggestKeyword(word string) string {
	best := ""
	bestRank := -1
	for _, kw := range knownKeywords {
		if kw == word {
			return ""
		}
		r := fuzzy.RankMatch(word, kw)
		if r < 0 {
			continue
		}
		if bestRank == -1 || r < bestRank {
			bestRank = r
			best = kw
		}
	}
	if best == "" || bestRank > 2 {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}
