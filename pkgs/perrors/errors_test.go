package perrors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/coffeescan/pkgs/token"
)

func TestErrorRendersSnippet(t *testing.T) {
	err := New(UnexpectedToken, "x = $\n",
		token.Token{Value: "$", Pos: token.Position{Line: 1, Column: 5, Offset: 4}},
		"unexpected %q", "$")

	msg := err.Error()
	require.Contains(t, msg, "unexpected token")
	require.Contains(t, msg, "x = $")
	require.Contains(t, msg, "^")
}

func TestErrorWithoutSourceSkipsSnippet(t *testing.T) {
	err := New(EmptyBlock, "", token.Token{}, "block has no statements")
	require.Equal(t, "empty block: block has no statements", err.Error())
}

func TestSuggestKeyword(t *testing.T) {
	require.Equal(t, `did you mean "return"?`, SuggestKeyword("retrn"))
	require.Empty(t, SuggestKeyword("return"), "an exact keyword needs no hint")
	require.Empty(t, SuggestKeyword("zzz"))
}
