/*
Package frontend is the grammar front end: a hand-written lexer and
recursive-descent parser that turn grammar source text into an
*ast.Grammar, plus start-symbol inference and the three validation
passes (definedness, reachability, productivity).

Grammar source syntax:

	rule       ::= identifier [ "[" param-list "]" ] "::=" expression
	param      ::= identifier [ ":" type ]
	type       ::= "int" | "integer" | "string" | "str"
	             | "bool" | "boolean" | "enum" "{" identifier ("," identifier)* "}"
	expression ::= alternative
	alternative ::= sequence ("|" sequence)*
	sequence   ::= factor+
	factor     ::= primary ( "+" | "*" | "?" )?
	primary    ::= identifier [ "[" identifier ("," identifier)* "]" ]
	             | "{" identifier "(" identifier ("," identifier)* ")" "}"
	             | "{" expression "}"
	             | "(" expression ")"
	             | "[" expression "]"
	             | terminal [ ".." terminal ]

Terminals are single- or double-quoted strings with `\n \t \r \\ \" \'`
escapes, `\uXXXX`/`\UXXXXXXXX` Unicode escapes, and any unknown escape
preserving its backslash. `#` begins a comment running to end of line.
*/
package frontend

import "github.com/bnfgen/bnfgen/ast"

// Parse lexes and parses grammar source into a Grammar, then infers
// its start symbol. It does not validate the grammar — call Validate
// on the result for that. sourceName is used only for error messages.
func Parse(sourceName string, src []byte) (*ast.Grammar, error) {
	p := newParser(sourceName, src)
	g, err := p.parseGrammar()
	if err != nil {
		return nil, err
	}

	g.DetermineStartSymbol()
	return g, nil
}
