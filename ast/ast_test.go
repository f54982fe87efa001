package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func digitRange(t *testing.T) *CharRange {
	r, err := NewCharRange('0', '9')
	require.NoError(t, err)
	return r
}

func TestNewCharRangeRejectsReversedRange(t *testing.T) {
	_, err := NewCharRange('z', 'a')
	require.Error(t, err)
}

func TestNewCharRangeRejectsSurrogates(t *testing.T) {
	_, err := NewCharRange(0xD800, 0xD900)
	require.Error(t, err)
}

func TestNewCharRangeAcceptsSingleCodepointRange(t *testing.T) {
	r, err := NewCharRange('a', 'a')
	require.NoError(t, err)
	require.Equal(t, 'a', r.Start)
	require.Equal(t, 'a', r.End)
}

func TestGrammarFindRuleFirstMatchWins(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{Name: "a", Body: &Terminal{Value: "x"}})
	g.AddRule(&ProductionRule{Name: "a", Body: &Terminal{Value: "y"}})
	rule := g.FindRule("a")
	require.NotNil(t, rule)
	require.Equal(t, "x", rule.Body.(*Terminal).Value)
}

func TestGrammarTerminalsPreservesDuplicatesInSourceOrder(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{
		Name: "r",
		Body: &Sequence{Children: []Node{
			&Terminal{Value: "a"},
			&Terminal{Value: "a"},
			&Terminal{Value: "b"},
		}},
	})
	require.Equal(t, []string{"a", "a", "b"}, g.Terminals())
}

func TestIsContextSensitiveByParameters(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{
		Name:   "agreement",
		Params: []Parameter{{Name: "N", Type: ParamEnum, Values: []string{"sing", "plur"}}},
		Body:   &NonTerminal{Name: "noun", Args: []string{"N"}},
	})
	require.True(t, g.IsContextSensitive())
}

func TestIsContextSensitiveByContextAction(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{
		Name: "r",
		Body: &Sequence{Children: []Node{
			&Terminal{Value: "x"},
			&ContextAction{Action: Store, Args: []string{"n", "v"}},
		}},
	})
	require.True(t, g.IsContextSensitive())
}

func TestIsContextSensitiveFalseForPlainGrammar(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{Name: "r", Body: &Terminal{Value: "x"}})
	require.False(t, g.IsContextSensitive())
}

func TestDetermineStartSymbolPrefersNamedRule(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{Name: "helper", Body: &Terminal{Value: "x"}})
	g.AddRule(&ProductionRule{Name: "program", Body: &NonTerminal{Name: "helper"}})
	g.AddRule(&ProductionRule{Name: "other", Body: &Terminal{Value: "y"}})
	require.Equal(t, "program", g.DetermineStartSymbol())
}

func TestDetermineStartSymbolFallsBackToComposite(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{Name: "leaf", Body: &Terminal{Value: "x"}})
	g.AddRule(&ProductionRule{Name: "composite", Body: &NonTerminal{Name: "leaf"}})
	require.Equal(t, "composite", g.DetermineStartSymbol())
}

func TestDetermineStartSymbolFallsBackToFirstRule(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{Name: "a", Body: &Terminal{Value: "x"}})
	g.AddRule(&ProductionRule{Name: "b", Body: &Terminal{Value: "y"}})
	require.Equal(t, "a", g.DetermineStartSymbol())
}

func TestDetermineStartSymbolIsIdempotent(t *testing.T) {
	g := NewGrammar()
	g.AddRule(&ProductionRule{Name: "program", Body: &Terminal{Value: "x"}})
	first := g.DetermineStartSymbol()
	second := g.DetermineStartSymbol()
	require.Equal(t, first, second)
}

func TestCharRangeStringFormatsByPlane(t *testing.T) {
	ascii, _ := NewCharRange('a', 'a')
	require.Equal(t, "'a'..'a'", ascii.String())

	bmp, _ := NewCharRange(0x00E9, 0x00E9)
	require.Equal(t, "'\\u00E9'..'\\u00E9'", bmp.String())

	supplementary, _ := NewCharRange(0x1F600, 0x1F600)
	require.Equal(t, "'\\U0001F600'..'\\U0001F600'", supplementary.String())
}

func TestTerminalStringEscapesSpecialCharacters(t *testing.T) {
	term := &Terminal{Value: "a\"b\\c\n"}
	require.Equal(t, `"a\"b\\c\n"`, term.String())
}

func TestProductionRuleStringRoundTripsParameters(t *testing.T) {
	rule := &ProductionRule{
		Name: "agreement",
		Params: []Parameter{
			{Name: "N", Type: ParamEnum, Values: []string{"sing", "plur"}},
		},
		Body: &Sequence{Children: []Node{
			&NonTerminal{Name: "noun", Args: []string{"N"}},
			&NonTerminal{Name: "verb", Args: []string{"N"}},
		}},
	}
	require.Equal(t, "agreement[N:enum{sing,plur}] ::= noun[N] verb[N]", rule.String())
}

func TestWalkVisitsEveryNode(t *testing.T) {
	body := &Sequence{Children: []Node{
		digitRange(t),
		&Optional{Child: &Terminal{Value: "x"}},
	}}
	var kinds []Kind
	Walk(body, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	require.Equal(t, []Kind{KindSequence, KindCharRange, KindOptional, KindTerminal}, kinds)
}
