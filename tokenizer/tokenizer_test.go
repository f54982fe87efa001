package tokenizer

import (
	"testing"

	"github.com/bnfgen/bnfgen/ast"
	"github.com/bnfgen/bnfgen/frontend"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Grammar {
	g, err := frontend.Parse("t.bnf", []byte(src))
	require.NoError(t, err)
	return g
}

// Operators and brackets get their own dedicated rules: since a
// candidate's whole rule body must match as one contiguous regex, a
// composite rule like expr can only out-match a dedicated PLUS rule
// when it can itself match the same span, and the mandatory
// NUMBER-or-paren in factor blocks that for a bare operator. This is
// the same limitation as the original's tryMatchNode, which always
// compiles a candidate's entire rule body rather than a sub-alternative
// within it.
func TestTokenizeArithmetic(t *testing.T) {
	src := `expr ::= term (PLUS term | MINUS term)*
term ::= factor (STAR factor | SLASH factor)*
factor ::= NUMBER | LPAREN expr RPAREN
NUMBER ::= ('0'..'9')+
PLUS ::= '+'
MINUS ::= '-'
STAR ::= '*'
SLASH ::= '/'
LPAREN ::= '('
RPAREN ::= ')'
`
	g := mustParse(t, src)
	tz, err := New(g)
	require.NoError(t, err)

	tokens := tz.Tokenize([]byte("12 + 3"))
	require.NoError(t, tz.LastError())

	var types, values []string
	for _, tok := range tokens {
		if tok.Type != EOFType {
			types = append(types, tok.Type)
			values = append(values, tok.Value)
		}
	}
	require.Equal(t, []string{"NUMBER", "PLUS", "NUMBER"}, types)
	require.Equal(t, []string{"12", "+", "3"}, values)
	require.Equal(t, EOFType, tokens[len(tokens)-1].Type)
}

// object's own body requires a NUMBER between the braces, so its whole
// pattern can't swallow "{}" as one token; LBRACE and RBRACE pick up
// each bracket independently, giving the two-token split the scenario
// requires.
func TestTokenizeEmptyJSONObject(t *testing.T) {
	src := `json ::= object
object ::= LBRACE NUMBER RBRACE
LBRACE ::= '{'
RBRACE ::= '}'
NUMBER ::= ('0'..'9')+
`
	g := mustParse(t, src)
	tz, err := New(g)
	require.NoError(t, err)

	tokens := tz.Tokenize([]byte("{}"))
	require.NoError(t, tz.LastError())
	require.True(t, len(tokens) >= 3)
	require.Equal(t, "{", tokens[0].Value)
	require.Equal(t, "}", tokens[1].Value)
	require.Equal(t, EOFType, tokens[2].Type)
}

func TestTokenizeRejectsParameterisedGrammar(t *testing.T) {
	g := mustParse(t, "agreement[N:enum{sing,plur}] ::= noun[N]\nnoun ::= 'dog'\n")
	_, err := New(g)
	require.Error(t, err)
}

func TestTokenizeUnexpectedCharacterRecordsLastError(t *testing.T) {
	g := mustParse(t, "digit ::= '0'..'9'\n")
	tz, err := New(g)
	require.NoError(t, err)

	tokens := tz.Tokenize([]byte("1x"))
	require.Error(t, tz.LastError())
	require.Contains(t, tz.LastError().Error(), "Unexpected character 'x'")
	require.Equal(t, EOFType, tokens[len(tokens)-1].Type)
}

func TestTokenizePositionCoverage(t *testing.T) {
	src := "word ::= ('a'..'z')+\n"
	g := mustParse(t, src)
	tz, err := New(g)
	require.NoError(t, err)

	input := "foo bar baz"
	tokens := tz.Tokenize([]byte(input))
	require.NoError(t, tz.LastError())

	var rebuilt string
	pos := 0
	for _, tok := range tokens {
		if tok.Type == EOFType {
			continue
		}
		rebuilt += input[pos:tok.ByteOffset]
		rebuilt += tok.Value
		pos = tok.ByteOffset + len(tok.Value)
	}
	rebuilt += input[pos:]
	require.Equal(t, input, rebuilt)
}

func TestTokenizeRecursiveNonTerminalDoesNotBlowStack(t *testing.T) {
	src := "loop ::= 'x' loop\n"
	g := mustParse(t, src)
	tz, err := New(g)
	require.NoError(t, err)

	// The rule is self-referential past any finite regex expansion, so
	// it never compiles to a matcher: tokenising just reports the first
	// character as unrecognised rather than hanging or crashing.
	tokens := tz.Tokenize([]byte("xxxx"))
	require.Error(t, tz.LastError())
	require.Equal(t, EOFType, tokens[len(tokens)-1].Type)
}

func TestTokenizeSkipsComments(t *testing.T) {
	g := mustParse(t, "word ::= ('a'..'z')+\n")
	tz, err := New(g)
	require.NoError(t, err)

	tokens := tz.Tokenize([]byte("foo # a comment\nbar"))
	require.NoError(t, tz.LastError())

	var values []string
	for _, tok := range tokens {
		if tok.Type != EOFType {
			values = append(values, tok.Value)
		}
	}
	require.Equal(t, []string{"foo", "bar"}, values)
}

func TestLexicalRuleOrderingPrefersLexicalFirst(t *testing.T) {
	// loop is declared first but is self-referential, so it can never
	// be classified lexical; NUMBER is a plain terminal-producing rule
	// declared second. Lexical rules sort first regardless.
	src := `loop ::= 'x' loop
NUMBER ::= ('0'..'9')+
`
	g := mustParse(t, src)
	tz, err := New(g)
	require.NoError(t, err)

	require.Equal(t, "NUMBER", tz.candidates[0])
	require.Equal(t, "loop", tz.candidates[1])
}

func TestCandidatesExposesOrderingForDiagnostics(t *testing.T) {
	g := mustParse(t, "a ::= 'x'\nb ::= 'y'\n")
	tz, err := New(g)
	require.NoError(t, err)

	require.Equal(t, tz.candidates, tz.Candidates())
}
