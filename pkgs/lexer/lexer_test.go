package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aledsdavies/coffeescan/pkgs/token"
)

// tokExp is a token shape to compare against, ignoring position.
type tokExp struct {
	Kind  token.Kind
	Value string
}

func significant(toks []token.Token) []tokExp {
	out := make([]tokExp, 0, len(toks))
	for _, t := range toks {
		if t.Kind.IsTrivia() {
			continue
		}
		out = append(out, tokExp{Kind: t.Kind, Value: t.Value})
	}
	return out
}

func TestScanCoreForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokExp
	}{
		{
			name:  "assignment",
			input: "x = 1",
			want: []tokExp{
				{token.IDENTIFIER, "x"},
				{token.ASSIGN_OPERATOR, "="},
				{token.NUMBER, "1"},
				{token.EOF, ""},
			},
		},
		{
			name:  "function literal arrow",
			input: "(x) -> x",
			want: []tokExp{
				{token.LPAREN, "("},
				{token.IDENTIFIER, "x"},
				{token.RPAREN, ")"},
				{token.FUNC, "->"},
				{token.IDENTIFIER, "x"},
				{token.EOF, ""},
			},
		},
		{
			name:  "bound function literal",
			input: "=>",
			want: []tokExp{
				{token.FUNC, "=>"},
				{token.EOF, ""},
			},
		},
		{
			name:  "keyword boundary, not a prefix match",
			input: "return1 = 2",
			want: []tokExp{
				{token.IDENTIFIER, "return1"},
				{token.ASSIGN_OPERATOR, "="},
				{token.NUMBER, "2"},
				{token.EOF, ""},
			},
		},
		{
			name:  "ellipsis before single dot",
			input: "a...",
			want: []tokExp{
				{token.IDENTIFIER, "a"},
				{token.ELLIPSIS, "..."},
				{token.EOF, ""},
			},
		},
		{
			name:  "triple shift before single greater-than",
			input: "a >>> b",
			want: []tokExp{
				{token.IDENTIFIER, "a"},
				{token.OPERATOR, ">>>"},
				{token.IDENTIFIER, "b"},
				{token.EOF, ""},
			},
		},
		{
			name:  "proto access",
			input: "@::foo",
			want: []tokExp{
				{token.SHORT_THIS, "@"},
				{token.PROTO, "::"},
				{token.IDENTIFIER, "foo"},
				{token.EOF, ""},
			},
		},
		{
			name:  "is/isnt keywords scan as operators",
			input: "a is b isnt c",
			want: []tokExp{
				{token.IDENTIFIER, "a"},
				{token.OPERATOR, "is"},
				{token.IDENTIFIER, "b"},
				{token.OPERATOR, "isnt"},
				{token.IDENTIFIER, "c"},
				{token.EOF, ""},
			},
		},
		{
			name:  "string literal preserves quotes in Value",
			input: `"hello world"`,
			want: []tokExp{
				{token.STRING, `"hello world"`},
				{token.EOF, ""},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := New(tc.input).Scan()
			if err != nil {
				t.Fatalf("Scan(%q) returned error: %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, significant(toks)); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestScanTotality checks the totality invariant: concatenating every
// token's Value in scan order reproduces the input byte for byte.
func TestScanTotality(t *testing.T) {
	inputs := []string{
		"x = 1\n  y = 2\nz",
		"foo 1, 2\n",
		"a + b * c - d",
		"# comment\nx = 1",
	}
	for _, in := range inputs {
		toks, err := New(in).Scan()
		if err != nil {
			t.Fatalf("Scan(%q) returned error: %v", in, err)
		}
		var rebuilt string
		for _, tok := range toks {
			rebuilt += tok.Value
		}
		if rebuilt != in {
			t.Errorf("totality violated for %q: rebuilt %q", in, rebuilt)
		}
	}
}

func TestScanPositions(t *testing.T) {
	toks, err := New("x\ny").Scan()
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	sig := make([]token.Token, 0)
	for _, tok := range toks {
		if !tok.Kind.IsTrivia() && tok.Kind != token.NEWLINE && tok.Kind != token.EOF {
			sig = append(sig, tok)
		}
	}
	if len(sig) != 2 {
		t.Fatalf("expected 2 significant tokens, got %d", len(sig))
	}
	if sig[0].Pos.Line != 1 || sig[0].Pos.Column != 1 {
		t.Errorf("first token position = %v, want 1:1", sig[0].Pos)
	}
	if sig[1].Pos.Line != 2 || sig[1].Pos.Column != 1 {
		t.Errorf("second token position = %v, want 2:1", sig[1].Pos)
	}
}

func TestScanUnterminatedStringIsFatal(t *testing.T) {
	_, err := New(`"unterminated`).Scan()
	if err == nil {
		t.Fatal("expected a scan error for an unterminated string, got nil")
	}
}

func TestScannerStashRewind(t *testing.T) {
	s := New("abc")
	cp := s.Stash()
	first, err := s.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if err := s.Rewind(cp); err != nil {
		t.Fatalf("Rewind returned error: %v", err)
	}
	second, err := s.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("rewound scan mismatch (-first +second):\n%s", diff)
	}
}

func TestScannerRewindRejectsForeignCheckpoint(t *testing.T) {
	s := New("abc def")
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	cp := s.Stash()

	s.Reset("xyz uvw")
	if err := s.Rewind(cp); err == nil {
		t.Fatal("expected Rewind to reject a checkpoint from a different input")
	}
}
