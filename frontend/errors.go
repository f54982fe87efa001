package frontend

import "github.com/bnfgen/bnfgen"

const (
	errUnterminatedTerminal = bnfgen.FrontendLexErrors + 1
	errInvalidEscape        = bnfgen.FrontendLexErrors + 2
	errInvalidUnicodeEscape = bnfgen.FrontendLexErrors + 3
	errUnexpectedChar       = bnfgen.FrontendLexErrors + 4

	errUnexpectedToken         = bnfgen.FrontendParseErrors + 1
	errExpectedToken           = bnfgen.FrontendParseErrors + 2
	errCharRangeMustBeSingleChars = bnfgen.FrontendParseErrors + 3
	errUnknownParameterType    = bnfgen.FrontendParseErrors + 4
	errUnknownContextAction    = bnfgen.FrontendParseErrors + 5
	errInvalidCharRange        = bnfgen.FrontendParseErrors + 6
)

func unterminatedTerminalError(pos bnfgen.SourcePos) error {
	return bnfgen.FormatErrorPos(pos, errUnterminatedTerminal, "unterminated terminal literal")
}

func invalidEscapeError(pos bnfgen.SourcePos, seq string) error {
	return bnfgen.FormatErrorPos(pos, errInvalidEscape, "invalid escape sequence %q", seq)
}

func invalidUnicodeEscapeError(pos bnfgen.SourcePos, seq string) error {
	return bnfgen.FormatErrorPos(pos, errInvalidUnicodeEscape, "invalid unicode escape %q", seq)
}

func unexpectedCharError(pos bnfgen.SourcePos, c byte) error {
	return bnfgen.FormatErrorPos(pos, errUnexpectedChar, "unexpected character %q", string(c))
}

func unexpectedTokenError(tok *Token) error {
	return bnfgen.FormatErrorPos(tok, errUnexpectedToken, "unexpected token: %s", tok.Type)
}

func expectedTokenError(tok *Token, want TokenType) error {
	return bnfgen.FormatErrorPos(tok, errExpectedToken, "expected %s, found %s", want, tok.Type)
}

func charRangeMustBeSingleCharsError(pos bnfgen.SourcePos) error {
	return bnfgen.FormatErrorPos(pos, errCharRangeMustBeSingleChars, "CharRangeMustBeSingleChars")
}

func invalidCharRangeError(pos bnfgen.SourcePos, msg string) error {
	return bnfgen.FormatErrorPos(pos, errInvalidCharRange, "invalid char range: %s", msg)
}

func unknownParameterTypeError(tok *Token) error {
	return bnfgen.FormatErrorPos(tok, errUnknownParameterType, "unknown parameter type: %s", tok.Text)
}

func unknownContextActionError(tok *Token) error {
	return bnfgen.FormatErrorPos(tok, errUnknownContextAction, "unknown context action: %s", tok.Text)
}
