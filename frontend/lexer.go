package frontend

import (
	"github.com/bnfgen/bnfgen/internal/codec"
)

// lexer scans grammar source into a single pass of tokens. It does not
// buffer lookahead itself — that's the parser's job — it only knows
// how to produce the next token from the current byte position.
type lexer struct {
	src        []byte
	pos        int
	line, col  int
	sourceName string
}

func newLexer(sourceName string, src []byte) *lexer {
	return &lexer{src: src, line: 1, col: 1, sourceName: sourceName}
}

func (lx *lexer) atEnd() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peekByte() byte {
	if lx.atEnd() {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *lexer) peekByteAt(offset int) byte {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+offset]
}

// advance consumes one byte, tracking line/column. Newlines are
// tracked here too, even though the newline byte itself is always
// consumed by a dedicated case in next() that emits a TNewline token.
func (lx *lexer) advance() byte {
	b := lx.src[lx.pos]
	lx.pos++
	if b == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return b
}

func (lx *lexer) tok(typ TokenType, line, col int, text string) *Token {
	return &Token{Type: typ, Text: text, source: lx.sourceName, line: line, col: col}
}

type simplePos struct {
	name      string
	line, col int
}

func (p simplePos) SourceName() string { return p.name }
func (p simplePos) Line() int          { return p.line }
func (p simplePos) Col() int           { return p.col }

// skipHorizontalWhitespace consumes spaces, tabs, and carriage returns
// without producing a token; newlines are meaningful terminators and
// are never skipped here.
func (lx *lexer) skipHorizontalWhitespace() {
	for {
		switch lx.peekByte() {
		case ' ', '\t', '\r':
			lx.advance()
		default:
			return
		}
	}
}

// next returns the next token, including comment and newline tokens —
// callers that don't care about either filter them out themselves.
func (lx *lexer) next() (*Token, error) {
	lx.skipHorizontalWhitespace()

	startLine, startCol := lx.line, lx.col
	if lx.atEnd() {
		return lx.tok(TEOF, startLine, startCol, ""), nil
	}

	c := lx.peekByte()
	switch {
	case c == '\n':
		lx.advance()
		return lx.tok(TNewline, startLine, startCol, ""), nil

	case c == '#':
		lx.advance()
		start := lx.pos
		for !lx.atEnd() && lx.peekByte() != '\n' {
			lx.advance()
		}
		return lx.tok(TComment, startLine, startCol, string(lx.src[start:lx.pos])), nil

	case c == '\'' || c == '"':
		return lx.scanTerminal(startLine, startCol)

	case c == '<':
		return lx.scanBracketIdent(startLine, startCol)

	case c == ':':
		lx.advance()
		if lx.peekByte() == ':' && lx.peekByteAt(1) == '=' {
			lx.advance()
			lx.advance()
			return lx.tok(TArrow, startLine, startCol, ""), nil
		}
		return lx.tok(TColon, startLine, startCol, ""), nil

	case c == '.':
		lx.advance()
		if lx.peekByte() == '.' {
			lx.advance()
			return lx.tok(TDotDot, startLine, startCol, ""), nil
		}
		return nil, unexpectedCharError(simplePos{lx.sourceName, startLine, startCol}, '.')

	case c == '|':
		lx.advance()
		return lx.tok(TPipe, startLine, startCol, ""), nil
	case c == '(':
		lx.advance()
		return lx.tok(TLParen, startLine, startCol, ""), nil
	case c == ')':
		lx.advance()
		return lx.tok(TRParen, startLine, startCol, ""), nil
	case c == '[':
		lx.advance()
		return lx.tok(TLBracket, startLine, startCol, ""), nil
	case c == ']':
		lx.advance()
		return lx.tok(TRBracket, startLine, startCol, ""), nil
	case c == '{':
		lx.advance()
		return lx.tok(TLBrace, startLine, startCol, ""), nil
	case c == '}':
		lx.advance()
		return lx.tok(TRBrace, startLine, startCol, ""), nil
	case c == '+':
		lx.advance()
		return lx.tok(TPlus, startLine, startCol, ""), nil
	case c == '*':
		lx.advance()
		return lx.tok(TStar, startLine, startCol, ""), nil
	case c == '?':
		lx.advance()
		return lx.tok(TQuestion, startLine, startCol, ""), nil
	case c == ',':
		lx.advance()
		return lx.tok(TComma, startLine, startCol, ""), nil
	case c == ';':
		lx.advance()
		return lx.tok(TSemicolon, startLine, startCol, ""), nil

	case isIdentStart(c):
		return lx.scanIdent(startLine, startCol)
	}

	pos := simplePos{lx.sourceName, startLine, startCol}
	lx.advance()
	return nil, unexpectedCharError(pos, c)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (lx *lexer) scanIdent(line, col int) (*Token, error) {
	start := lx.pos
	for !lx.atEnd() && isIdentPart(lx.peekByte()) {
		lx.advance()
	}
	return lx.tok(TIdent, line, col, string(lx.src[start:lx.pos])), nil
}

// scanBracketIdent scans a `<name with spaces-and-hyphens>` identifier.
func (lx *lexer) scanBracketIdent(line, col int) (*Token, error) {
	lx.advance() // consume '<'
	start := lx.pos
	for {
		if lx.atEnd() || lx.peekByte() == '\n' {
			return nil, unexpectedCharError(simplePos{lx.sourceName, line, col}, '<')
		}
		if lx.peekByte() == '>' {
			break
		}
		lx.advance()
	}
	name := string(lx.src[start:lx.pos])
	lx.advance() // consume '>'
	return lx.tok(TIdent, line, col, name), nil
}

// scanTerminal scans a quoted terminal literal, decoding its escape
// sequences into Token.Text.
func (lx *lexer) scanTerminal(line, col int) (*Token, error) {
	quote := lx.peekByte()
	lx.advance()

	var value []byte
	for {
		if lx.atEnd() || lx.peekByte() == '\n' {
			return nil, unterminatedTerminalError(simplePos{lx.sourceName, line, col})
		}
		c := lx.peekByte()
		if c == quote {
			lx.advance()
			break
		}
		if c != '\\' {
			chars, length := codec.ExtractRune(lx.src, lx.pos)
			value = append(value, chars...)
			for i := 0; i < length; i++ {
				lx.advance()
			}
			continue
		}

		decoded, err := lx.scanEscape(line, col)
		if err != nil {
			return nil, err
		}
		value = append(value, decoded...)
	}

	return lx.tok(TTerminal, line, col, string(value)), nil
}

// scanEscape decodes one `\...` escape sequence starting at the
// backslash. Known escapes translate to their value; \uXXXX and
// \UXXXXXXXX decode to UTF-8; any unknown escape preserves the
// backslash and the following byte verbatim.
func (lx *lexer) scanEscape(line, col int) ([]byte, error) {
	lx.advance() // consume backslash
	if lx.atEnd() {
		return nil, unterminatedTerminalError(simplePos{lx.sourceName, line, col})
	}

	c := lx.advance()
	switch c {
	case 'n':
		return []byte{'\n'}, nil
	case 't':
		return []byte{'\t'}, nil
	case 'r':
		return []byte{'\r'}, nil
	case '\\':
		return []byte{'\\'}, nil
	case '"':
		return []byte{'"'}, nil
	case '\'':
		return []byte{'\''}, nil
	case 'u':
		return lx.scanUnicodeEscape(line, col, 4)
	case 'U':
		return lx.scanUnicodeEscape(line, col, 8)
	default:
		return []byte{'\\', c}, nil
	}
}

func (lx *lexer) scanUnicodeEscape(line, col, digits int) ([]byte, error) {
	if lx.pos+digits > len(lx.src) {
		return nil, invalidUnicodeEscapeError(simplePos{lx.sourceName, line, col}, string(lx.src[lx.pos:]))
	}

	var cp rune
	start := lx.pos
	for i := 0; i < digits; i++ {
		d := hexDigit(lx.peekByte())
		if d < 0 {
			return nil, invalidUnicodeEscapeError(simplePos{lx.sourceName, line, col}, string(lx.src[start:lx.pos]))
		}
		cp = cp<<4 | rune(d)
		lx.advance()
	}

	encoded, err := codec.EncodeRune(cp)
	if err != nil {
		return nil, invalidUnicodeEscapeError(simplePos{lx.sourceName, line, col}, string(lx.src[start:lx.pos]))
	}
	return encoded, nil
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
