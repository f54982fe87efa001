package tokenizer

import "github.com/bnfgen/bnfgen"

const (
	errParameterisedGrammar = bnfgen.TokeniserErrors + 1
	errUnexpectedCharacter  = bnfgen.TokeniserErrors + 2
)

func parameterisedGrammarError() error {
	return bnfgen.FormatError(errParameterisedGrammar,
		"grammar must be context-free for tokenising: at least one rule declares parameters")
}

func unexpectedCharacterError(line, col int, c rune) error {
	return bnfgen.FormatError(errUnexpectedCharacter,
		"Unexpected character '%c' at line %d, column %d", c, line, col)
}
