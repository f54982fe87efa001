package frontend

import (
	"strings"

	"github.com/bnfgen/bnfgen/ast"
	"github.com/bnfgen/bnfgen/internal/codec"
)

// parser is a hand-written recursive-descent parser over the token
// stream produced by lexer. It buffers its own lookahead (up to three
// tokens deep, for the context-action-versus-repetition decision)
// rather than threading a saved-token field through every call the
// way the teacher's langdef package does, since this grammar needs
// more than one token of lookahead in places langdef never did.
type parser struct {
	lx      *lexer
	pending []*Token
}

func newParser(sourceName string, src []byte) *parser {
	return &parser{lx: newLexer(sourceName, src)}
}

// peek returns the token n positions ahead (0 = next token to be
// consumed), skipping comment tokens transparently. Comments may
// appear between any two tokens; nothing in the grammar's structure
// depends on their presence.
func (p *parser) peek(n int) (*Token, error) {
	for len(p.pending) <= n {
		tok, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == TComment {
			continue
		}
		p.pending = append(p.pending, tok)
	}
	return p.pending[n], nil
}

// next consumes and returns the next significant token.
func (p *parser) next() (*Token, error) {
	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	p.pending = p.pending[1:]
	return tok, nil
}

func (p *parser) expect(typ TokenType) (*Token, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type != typ {
		return nil, expectedTokenError(tok, typ)
	}
	return tok, nil
}

// skipNewlines consumes zero or more consecutive newline tokens.
func (p *parser) skipNewlines() error {
	for {
		tok, err := p.peek(0)
		if err != nil {
			return err
		}
		if tok.Type != TNewline {
			return nil
		}
		if _, err := p.next(); err != nil {
			return err
		}
	}
}

// parseGrammar parses the entire source into a Grammar. It does not
// run start-symbol inference or validation — those are separate steps
// a caller chains explicitly (see Parse).
func (p *parser) parseGrammar() (*ast.Grammar, error) {
	g := ast.NewGrammar()

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		if tok.Type == TEOF {
			break
		}

		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		g.AddRule(rule)

		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (p *parser) parseRule() (*ast.ProductionRule, error) {
	nameTok, err := p.expect(TIdent)
	if err != nil {
		return nil, err
	}

	var params []ast.Parameter
	lookahead, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if lookahead.Type == TLBracket {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		params, err = p.parseParamList()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TArrow); err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	end, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if end.Type != TNewline && end.Type != TEOF {
		return nil, unexpectedTokenError(end)
	}

	return &ast.ProductionRule{Name: nameTok.Text, Params: params, Body: body}, nil
}

// parseParamList parses the contents of `[...]` after a rule name,
// having already consumed the opening bracket.
func (p *parser) parseParamList() ([]ast.Parameter, error) {
	var params []ast.Parameter
	for {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		tok, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		if tok.Type == TComma {
			if _, err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if _, err := p.expect(TRBracket); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseParam() (ast.Parameter, error) {
	nameTok, err := p.expect(TIdent)
	if err != nil {
		return ast.Parameter{}, err
	}

	tok, err := p.peek(0)
	if err != nil {
		return ast.Parameter{}, err
	}
	if tok.Type != TColon {
		return ast.Parameter{Name: nameTok.Text, Type: ast.ParamString}, nil
	}
	if _, err := p.next(); err != nil {
		return ast.Parameter{}, err
	}

	typeTok, err := p.expect(TIdent)
	if err != nil {
		return ast.Parameter{}, err
	}

	switch strings.ToLower(typeTok.Text) {
	case "int", "integer":
		return ast.Parameter{Name: nameTok.Text, Type: ast.ParamInteger}, nil
	case "string", "str":
		return ast.Parameter{Name: nameTok.Text, Type: ast.ParamString}, nil
	case "bool", "boolean":
		return ast.Parameter{Name: nameTok.Text, Type: ast.ParamBoolean}, nil
	case "enum":
		if _, err := p.expect(TLBrace); err != nil {
			return ast.Parameter{}, err
		}
		values, err := p.parseEnumValues()
		if err != nil {
			return ast.Parameter{}, err
		}
		if _, err := p.expect(TRBrace); err != nil {
			return ast.Parameter{}, err
		}
		return ast.Parameter{Name: nameTok.Text, Type: ast.ParamEnum, Values: values}, nil
	default:
		return ast.Parameter{}, unknownParameterTypeError(typeTok)
	}
}

func (p *parser) parseEnumValues() ([]string, error) {
	var values []string
	for {
		tok, err := p.expect(TIdent)
		if err != nil {
			return nil, err
		}
		values = append(values, tok.Text)

		next, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		if next.Type == TComma {
			if _, err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return values, nil
}

func (p *parser) parseExpression() (ast.Node, error) {
	return p.parseAlternative()
}

func (p *parser) parseAlternative() (ast.Node, error) {
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}

	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Type != TPipe {
		return first, nil
	}

	children := []ast.Node{first}
	for tok.Type == TPipe {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		next, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		children = append(children, next)

		tok, err = p.peek(0)
		if err != nil {
			return nil, err
		}
	}
	return &ast.Alternative{Children: children}, nil
}

// isSequenceStopper reports whether t is one of the tokens that end a
// sequence without themselves being consumed by it.
func isSequenceStopper(t TokenType) bool {
	switch t {
	case TPipe, TRParen, TRBracket, TRBrace, TNewline, TEOF:
		return true
	}
	return false
}

func (p *parser) parseSequence() (ast.Node, error) {
	var children []ast.Node
	for {
		tok, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		if isSequenceStopper(tok.Type) {
			break
		}

		factor, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		children = append(children, factor)
	}

	if len(children) == 0 {
		tok, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		return nil, unexpectedTokenError(tok)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &ast.Sequence{Children: children}, nil
}

func (p *parser) parseFactor() (ast.Node, error) {
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TPlus:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return &ast.OneOrMore{Child: primary}, nil
	case TStar:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return &ast.ZeroOrMore{Child: primary}, nil
	case TQuestion:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Optional{Child: primary}, nil
	}
	return primary, nil
}

func (p *parser) parsePrimary() (ast.Node, error) {
	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TIdent:
		return p.parseNonTerminal()

	case TLBrace:
		return p.parseBraceForm()

	case TLParen:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRParen); err != nil {
			return nil, err
		}
		return &ast.Group{Child: inner}, nil

	case TLBracket:
		if _, err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRBracket); err != nil {
			return nil, err
		}
		return &ast.Optional{Child: inner}, nil

	case TTerminal:
		return p.parseTerminalOrRange()
	}

	return nil, unexpectedTokenError(tok)
}

func (p *parser) parseNonTerminal() (ast.Node, error) {
	nameTok, err := p.expect(TIdent)
	if err != nil {
		return nil, err
	}

	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Type != TLBracket {
		return &ast.NonTerminal{Name: nameTok.Text}, nil
	}

	if _, err := p.next(); err != nil {
		return nil, err
	}
	var args []string
	for {
		argTok, err := p.expect(TIdent)
		if err != nil {
			return nil, err
		}
		args = append(args, argTok.Text)

		next, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		if next.Type == TComma {
			if _, err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TRBracket); err != nil {
		return nil, err
	}
	return &ast.NonTerminal{Name: nameTok.Text, Args: args}, nil
}

// parseBraceForm disambiguates a ContextAction from a ZeroOrMore on
// seeing `{`: look two tokens ahead. If the second token is an
// identifier immediately followed by `(`, it's a context action;
// otherwise the brace starts a zero-or-more repetition.
func (p *parser) parseBraceForm() (ast.Node, error) {
	second, err := p.peek(1)
	if err != nil {
		return nil, err
	}
	third, err := p.peek(2)
	if err != nil {
		return nil, err
	}

	if second.Type == TIdent && third.Type == TLParen {
		return p.parseContextAction()
	}

	if _, err := p.next(); err != nil { // consume '{'
		return nil, err
	}
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TRBrace); err != nil {
		return nil, err
	}
	return &ast.ZeroOrMore{Child: inner}, nil
}

func (p *parser) parseContextAction() (ast.Node, error) {
	if _, err := p.next(); err != nil { // consume '{'
		return nil, err
	}
	actionTok, err := p.expect(TIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TLParen); err != nil {
		return nil, err
	}

	var args []string
	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Type != TRParen {
		for {
			argTok, err := p.expect(TIdent)
			if err != nil {
				return nil, err
			}
			args = append(args, argTok.Text)

			next, err := p.peek(0)
			if err != nil {
				return nil, err
			}
			if next.Type == TComma {
				if _, err := p.next(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if _, err := p.expect(TRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TRBrace); err != nil {
		return nil, err
	}

	var kind ast.ActionKind
	switch strings.ToLower(actionTok.Text) {
	case "store":
		kind = ast.Store
	case "lookup":
		kind = ast.Lookup
	case "check":
		kind = ast.Check
	default:
		return nil, unknownContextActionError(actionTok)
	}
	return &ast.ContextAction{Action: kind, Args: args}, nil
}

// parseTerminalOrRange parses a terminal literal, and if followed by
// `..` and another terminal, builds a CharRange instead. Both operands
// must be exactly one codepoint long.
func (p *parser) parseTerminalOrRange() (ast.Node, error) {
	first, err := p.expect(TTerminal)
	if err != nil {
		return nil, err
	}

	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Type != TDotDot {
		return &ast.Terminal{Value: first.Text}, nil
	}

	if _, err := p.next(); err != nil {
		return nil, err
	}
	second, err := p.expect(TTerminal)
	if err != nil {
		return nil, err
	}

	if codec.RuneCount([]byte(first.Text)) != 1 || codec.RuneCount([]byte(second.Text)) != 1 {
		return nil, charRangeMustBeSingleCharsError(first)
	}

	startCp := codec.DecodeRune([]byte(first.Text))
	endCp := codec.DecodeRune([]byte(second.Text))
	r, err := ast.NewCharRange(startCp, endCp)
	if err != nil {
		return nil, invalidCharRangeError(first, err.Error())
	}
	return r, nil
}
