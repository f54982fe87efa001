package frontend

import (
	"testing"

	"github.com/bnfgen/bnfgen/ast"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleRule(t *testing.T) {
	g, err := Parse("t.bnf", []byte("greeting ::= 'hi'\n"))
	require.NoError(t, err)
	require.Len(t, g.Rules, 1)
	require.Equal(t, "greeting", g.Rules[0].Name)
	term, ok := g.Rules[0].Body.(*ast.Terminal)
	require.True(t, ok)
	require.Equal(t, "hi", term.Value)
}

func TestParseArithmeticGrammar(t *testing.T) {
	src := `expr ::= term (('+'|'-') term)*
term ::= factor (('*'|'/') factor)*
factor ::= NUMBER | '(' expr ')'
NUMBER ::= ('0'..'9')+
`
	g, err := Parse("arith.bnf", []byte(src))
	require.NoError(t, err)
	require.Len(t, g.Rules, 4)
	report := Validate(g)
	require.True(t, report.IsValid(), "%v", report.Errors)
}

func TestParseCharRange(t *testing.T) {
	g, err := Parse("t.bnf", []byte("digit ::= '0'..'9'\n"))
	require.NoError(t, err)
	r, ok := g.Rules[0].Body.(*ast.CharRange)
	require.True(t, ok)
	require.Equal(t, rune('0'), r.Start)
	require.Equal(t, rune('9'), r.End)
}

func TestParseSingleCodepointSelfRangeIsValid(t *testing.T) {
	g, err := Parse("t.bnf", []byte("a ::= 'a'..'a'\n"))
	require.NoError(t, err)
	r, ok := g.Rules[0].Body.(*ast.CharRange)
	require.True(t, ok)
	require.Equal(t, r.Start, r.End)
}

func TestParseCharRangeRejectsMultiCodepointOperand(t *testing.T) {
	_, err := Parse("t.bnf", []byte("bad ::= 'ab'..'z'\n"))
	require.Error(t, err)
}

func TestParseContextAction(t *testing.T) {
	g, err := Parse("t.bnf", []byte("r ::= 'x' {store(n, v)}\n"))
	require.NoError(t, err)
	seq, ok := g.Rules[0].Body.(*ast.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Children, 2)
	action, ok := seq.Children[1].(*ast.ContextAction)
	require.True(t, ok)
	require.Equal(t, ast.Store, action.Action)
	require.Equal(t, []string{"n", "v"}, action.Args)
}

func TestParseZeroOrMoreBraceIsDistinguishedFromContextAction(t *testing.T) {
	g, err := Parse("t.bnf", []byte("r ::= {'x'}\n"))
	require.NoError(t, err)
	_, ok := g.Rules[0].Body.(*ast.ZeroOrMore)
	require.True(t, ok)
}

func TestParseParameterisedRule(t *testing.T) {
	src := "agreement[N:enum{sing,plur}] ::= noun[N] verb[N]\n"
	g, err := Parse("t.bnf", []byte(src))
	require.NoError(t, err)
	rule := g.Rules[0]
	require.Equal(t, "agreement", rule.Name)
	require.Len(t, rule.Params, 1)
	require.Equal(t, "N", rule.Params[0].Name)
	require.Equal(t, ast.ParamEnum, rule.Params[0].Type)
	require.Equal(t, []string{"sing", "plur"}, rule.Params[0].Values)
	require.True(t, g.IsContextSensitive())
}

func TestStartSymbolInferencePrefersNamedRule(t *testing.T) {
	src := "helper ::= 'x'\nprogram ::= helper\nother ::= 'y'\n"
	g, err := Parse("t.bnf", []byte(src))
	require.NoError(t, err)
	require.Equal(t, "program", g.Start)
}

func TestValidateUndefinedNonTerminal(t *testing.T) {
	g, err := Parse("t.bnf", []byte("start ::= undefined_rule\n"))
	require.NoError(t, err)
	report := Validate(g)
	require.False(t, report.IsValid())
	require.Contains(t, report.Errors, "Undefined non-terminal: undefined_rule")
}

func TestValidateEmptyGrammar(t *testing.T) {
	report := Validate(ast.NewGrammar())
	require.False(t, report.IsValid())
	require.Contains(t, report.Errors, "Grammar is empty")
}

func TestValidateUnreachableRuleIsWarningNotError(t *testing.T) {
	src := "start ::= 'x'\norphan ::= 'y'\n"
	g, err := Parse("t.bnf", []byte(src))
	require.NoError(t, err)
	report := Validate(g)
	require.True(t, report.IsValid())
	require.Contains(t, report.Warnings, "Unreachable non-terminal: orphan")
}

func TestValidateNonProductiveRuleIsError(t *testing.T) {
	src := "start ::= loop\nloop ::= loop\n"
	g, err := Parse("t.bnf", []byte(src))
	require.NoError(t, err)
	report := Validate(g)
	require.False(t, report.IsValid())
	require.Contains(t, report.Errors, "Non-productive rule: loop")
}

func TestParsePrettyPrintRoundTrip(t *testing.T) {
	src := "expr ::= term ((\"+\" | \"-\") term)*\nterm ::= \"x\"\n"
	g, err := Parse("t.bnf", []byte(src))
	require.NoError(t, err)

	printed := g.String()
	g2, err := Parse("t.bnf", []byte(printed))
	require.NoError(t, err)

	require.Equal(t, g.String(), g2.String())

	// The printed-and-reparsed tree must also be structurally identical
	// to the original, not merely print the same — cmp.Diff walks every
	// exported field of every ast.Node variant, catching a divergence
	// (e.g. a dropped CharRange endpoint) that two equal String() calls
	// could miss if the printer itself normalised it away.
	if diff := cmp.Diff(g, g2); diff != "" {
		t.Errorf("round-tripped grammar differs structurally (-original +reparsed):\n%s", diff)
	}
}

func TestUnknownContextActionIsRejected(t *testing.T) {
	_, err := Parse("t.bnf", []byte("r ::= {frobnicate(x)}\n"))
	require.Error(t, err)
}
