// Package tokenizer interprets a grammar directly to tokenise arbitrary
// input, without building a parser: each rule's body is compiled into a
// regular expression, candidates are tried at the current position, and
// the longest match wins. Grounded on the original implementation's
// grammar_tokenizer, reworked around the standard regexp package the
// same way the teacher's own lexer builds its token matchers on regexp.
package tokenizer

import (
	"regexp"
	"strings"

	"github.com/bnfgen/bnfgen/ast"
	"github.com/bnfgen/bnfgen/internal/codec"
)

// maxInlineDepth caps NonTerminal inlining when compiling a rule's body
// to a regular expression. Beyond this depth the inlined pattern is
// empty, so self-referential rules simply stop contributing a matcher
// rather than recursing forever.
const maxInlineDepth = 100

// Token is one lexical unit produced by Tokenize.
type Token struct {
	Type       string // the rule name that matched
	Value      string // the matched text
	Line       int
	Column     int
	ByteOffset int
}

// EOFType is the Type of the sentinel token Tokenize always appends as
// its last result, whether or not tokenising reached the end of input
// cleanly.
const EOFType = "EOF"

// Tokenizer holds a compiled-pattern cache scoped to one grammar. It is
// safe to reuse across multiple Tokenize calls against the same
// grammar; the cache is never invalidated except by discarding the
// Tokenizer itself.
type Tokenizer struct {
	grammar        *ast.Grammar
	candidates     []string
	cache          map[string]*regexp.Regexp
	skipWhitespace bool
	skipComments   bool
	lastError      error
}

// New builds a Tokenizer for g. The grammar must be context-free: any
// parameterised rule is rejected here, since regular-expression
// compilation has no notion of a call-site argument.
func New(g *ast.Grammar) (*Tokenizer, error) {
	if len(g.ParameterisedRules()) > 0 {
		return nil, parameterisedGrammarError()
	}

	t := &Tokenizer{
		grammar:        g,
		cache:          make(map[string]*regexp.Regexp),
		skipWhitespace: true,
		skipComments:   true,
	}
	t.candidates = orderCandidates(g)
	return t, nil
}

// SetSkipWhitespace controls whether runs of ASCII whitespace between
// tokens are silently consumed. Enabled by default.
func (t *Tokenizer) SetSkipWhitespace(skip bool) { t.skipWhitespace = skip }

// SetSkipComments controls whether `#...` comments running to end of
// line are silently consumed between tokens. Enabled by default.
func (t *Tokenizer) SetSkipComments(skip bool) { t.skipComments = skip }

// LastError returns the error recorded by the most recent Tokenize
// call, or nil if it completed without hitting an unrecognised
// character.
func (t *Tokenizer) LastError() error { return t.lastError }

// Candidates returns the rule names this tokenizer tries at each
// position, in the lexical-rule-first order orderCandidates computed
// at construction. Exposed for verbose diagnostics; Tokenize itself
// only ever consults the slice in place.
func (t *Tokenizer) Candidates() []string { return t.candidates }

// orderCandidates returns every rule name, lexical rules first (in
// source order), then the rest (in source order). This is a priority
// scheme for which rule's regex is tried first when several match the
// same length at the same position, not an exclusion list.
func orderCandidates(g *ast.Grammar) []string {
	var lexical, rest []string
	visiting := make(map[string]bool)
	memo := make(map[string]bool)
	for _, rule := range g.Rules {
		if isLexicalRule(g, rule.Name, visiting, memo) {
			lexical = append(lexical, rule.Name)
		} else {
			rest = append(rest, rule.Name)
		}
	}
	return append(lexical, rest...)
}

// isLexicalRule reports whether rule's body consists transitively of
// only terminals, char ranges, and references to other lexical rules.
// visiting guards against infinite recursion on self-referential
// rules — such a rule is not lexical, since it bottoms out on itself
// rather than on a terminal.
func isLexicalRule(g *ast.Grammar, name string, visiting, memo map[string]bool) bool {
	if v, ok := memo[name]; ok {
		return v
	}
	if visiting[name] {
		return false
	}
	rule := g.FindRule(name)
	if rule == nil {
		return false
	}
	visiting[name] = true
	result := isLexicalNode(g, rule.Body, visiting, memo)
	visiting[name] = false
	memo[name] = result
	return result
}

func isLexicalNode(g *ast.Grammar, n ast.Node, visiting, memo map[string]bool) bool {
	switch node := n.(type) {
	case *ast.Terminal, *ast.CharRange:
		return true
	case *ast.NonTerminal:
		return isLexicalRule(g, node.Name, visiting, memo)
	case *ast.Alternative:
		for _, c := range node.Children {
			if !isLexicalNode(g, c, visiting, memo) {
				return false
			}
		}
		return true
	case *ast.Sequence:
		for _, c := range node.Children {
			if !isLexicalNode(g, c, visiting, memo) {
				return false
			}
		}
		return true
	case *ast.Group:
		return isLexicalNode(g, node.Child, visiting, memo)
	case *ast.Optional:
		return isLexicalNode(g, node.Child, visiting, memo)
	case *ast.ZeroOrMore:
		return isLexicalNode(g, node.Child, visiting, memo)
	case *ast.OneOrMore:
		return isLexicalNode(g, node.Child, visiting, memo)
	}
	return false // ContextAction and anything else is not regular
}

// patternFor returns the cached compiled regex for rule's body,
// compiling and caching it on first use. A rule whose body does not
// compile to a non-empty pattern (recursion too deep, or a
// ContextAction somewhere in it) has no matcher and never matches.
func (t *Tokenizer) patternFor(name string) *regexp.Regexp {
	rule := t.grammar.FindRule(name)
	if rule == nil {
		return nil
	}
	pattern := generateRegex(t.grammar, rule.Body, 0)
	if pattern == "" {
		return nil
	}
	if re, ok := t.cache[pattern]; ok {
		return re
	}
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		// A rule whose shape can't compile to a valid regex (e.g. a
		// char range with no representable class form) simply never
		// matches, same as an empty pattern.
		t.cache[pattern] = nil
		return nil
	}
	t.cache[pattern] = re
	return re
}

// generateRegex compiles an AST node into a regular expression
// fragment. depth tracks NonTerminal inlining and is capped at
// maxInlineDepth; beyond the cap the empty string is returned so the
// caller's rule contributes no matcher rather than recursing forever.
func generateRegex(g *ast.Grammar, n ast.Node, depth int) string {
	if depth > maxInlineDepth {
		return ""
	}

	switch node := n.(type) {
	case *ast.Terminal:
		return regexp.QuoteMeta(node.Value)

	case *ast.CharRange:
		return "[" + escapeCharClass(node.Start) + "-" + escapeCharClass(node.End) + "]"

	case *ast.NonTerminal:
		rule := g.FindRule(node.Name)
		if rule == nil {
			return ""
		}
		inner := generateRegex(g, rule.Body, depth+1)
		if inner == "" {
			return ""
		}
		return "(?:" + inner + ")"

	case *ast.Alternative:
		parts := make([]string, 0, len(node.Children))
		for _, c := range node.Children {
			p := generateRegex(g, c, depth)
			if p == "" {
				return ""
			}
			parts = append(parts, p)
		}
		return "(?:" + strings.Join(parts, "|") + ")"

	case *ast.Sequence:
		var b strings.Builder
		for _, c := range node.Children {
			p := generateRegex(g, c, depth)
			if p == "" {
				return ""
			}
			b.WriteString(p)
		}
		return "(?:" + b.String() + ")"

	case *ast.Group:
		inner := generateRegex(g, node.Child, depth)
		if inner == "" {
			return ""
		}
		return "(?:" + inner + ")"

	case *ast.Optional:
		inner := generateRegex(g, node.Child, depth)
		if inner == "" {
			return ""
		}
		return "(?:" + inner + ")?"

	case *ast.ZeroOrMore:
		inner := generateRegex(g, node.Child, depth)
		if inner == "" {
			return ""
		}
		return "(?:" + inner + ")*"

	case *ast.OneOrMore:
		inner := generateRegex(g, node.Child, depth)
		if inner == "" {
			return ""
		}
		return "(?:" + inner + ")+"
	}

	return "" // ContextAction: no regular contribution
}

// escapeCharClass escapes the handful of bytes meaningful inside a `[...]`
// regex character class.
func escapeCharClass(r rune) string {
	switch r {
	case '\\', ']', '^', '-':
		return "\\" + string(r)
	}
	return string(r)
}

// Tokenize scans input against t's grammar, producing tokens until
// either input is exhausted or an unrecognised character is hit. The
// result always ends with an EOF sentinel token, even on error; callers
// check LastError to distinguish a clean run from one that stopped
// early.
func (t *Tokenizer) Tokenize(input []byte) []Token {
	t.lastError = nil

	var tokens []Token
	pos := 0
	line, col := 1, 1

	advance := func(n int) {
		for i := 0; i < n; i++ {
			if input[pos+i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		pos += n
	}

	for pos < len(input) {
		if t.skipWhitespace {
			start := pos
			for pos < len(input) && isASCIISpace(input[pos]) {
				advance(1)
			}
			if pos != start {
				continue
			}
		}
		if t.skipComments && input[pos] == '#' {
			start := pos
			for pos < len(input) && input[pos] != '\n' {
				advance(1)
			}
			if pos != start {
				continue
			}
		}
		if pos >= len(input) {
			break
		}

		bestLen := -1
		var bestType, bestValue string
		for _, name := range t.candidates {
			re := t.patternFor(name)
			if re == nil {
				continue
			}
			match := re.Find(input[pos:])
			if match == nil {
				continue
			}
			if len(match) > bestLen {
				bestLen = len(match)
				bestType = name
				bestValue = string(match)
			}
		}

		if bestLen <= 0 {
			r := codec.DecodeRune(input[pos:])
			t.lastError = unexpectedCharacterError(line, col, r)
			break
		}

		tokens = append(tokens, Token{
			Type:       bestType,
			Value:      bestValue,
			Line:       line,
			Column:     col,
			ByteOffset: pos,
		})
		advance(bestLen)
	}

	tokens = append(tokens, Token{
		Type:       EOFType,
		Line:       line,
		Column:     col,
		ByteOffset: pos,
	})
	return tokens
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}
