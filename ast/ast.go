// Package ast is the grammar's abstract syntax tree: a single tagged
// union of node variants with one struct per shape and a Kind method
// on each, so every visitor is a type switch rather than a chain of
// type assertions or runtime-type-identified dispatch.
package ast

import "github.com/bnfgen/bnfgen"

// Kind tags which variant a Node is.
type Kind int

const (
	KindTerminal Kind = iota
	KindNonTerminal
	KindCharRange
	KindAlternative
	KindSequence
	KindGroup
	KindOptional
	KindZeroOrMore
	KindOneOrMore
	KindContextAction
)

// Node is implemented by every AST variant. Nodes are immutable after
// construction and owned exclusively by the Grammar that holds them;
// a NonTerminal refers to another rule by name, never by pointer, so
// the tree itself has no cycles regardless of grammar recursion.
type Node interface {
	Kind() Kind
	String() string
}

// Terminal is a literal string matched byte-for-byte, already
// unescaped by the lexer.
type Terminal struct {
	Value string
}

func (*Terminal) Kind() Kind { return KindTerminal }

// NonTerminal references another rule by name, with an ordered list
// of positional call-site arguments (empty for non-parameterised rules).
type NonTerminal struct {
	Name string
	Args []string
}

func (*NonTerminal) Kind() Kind { return KindNonTerminal }

// CharRange matches a single codepoint in the inclusive [Start, End] range.
type CharRange struct {
	Start, End rune
}

func (*CharRange) Kind() Kind { return KindCharRange }

const errInvalidRange = bnfgen.CodecErrors + 2

// NewCharRange validates and builds a CharRange: Start must not exceed
// End, and neither endpoint may fall in the surrogate range or beyond
// the last valid Unicode scalar value.
func NewCharRange(start, end rune) (*CharRange, error) {
	if !validScalar(start) || !validScalar(end) {
		return nil, bnfgen.FormatError(errInvalidRange, "invalid codepoint in range '%c'..'%c'", start, end)
	}
	if start > end {
		return nil, bnfgen.FormatError(errInvalidRange, "range start '%c' exceeds end '%c'", start, end)
	}
	return &CharRange{Start: start, End: end}, nil
}

func validScalar(cp rune) bool {
	return cp >= 0 && cp <= 0x10FFFF && !(cp >= 0xD800 && cp <= 0xDFFF)
}

// Alternative is ordered choice: the first child that matches wins.
// Built only with at least one child.
type Alternative struct {
	Children []Node
}

func (*Alternative) Kind() Kind { return KindAlternative }

// Sequence matches all children in order. Built only with at least one child.
type Sequence struct {
	Children []Node
}

func (*Sequence) Kind() Kind { return KindSequence }

// Group wraps a single child for precedence only; it emits the
// child's behaviour unchanged.
type Group struct {
	Child Node
}

func (*Group) Kind() Kind { return KindGroup }

// Optional matches its child zero or one times.
type Optional struct {
	Child Node
}

func (*Optional) Kind() Kind { return KindOptional }

// ZeroOrMore matches its child zero or more times.
type ZeroOrMore struct {
	Child Node
}

func (*ZeroOrMore) Kind() Kind { return KindZeroOrMore }

// OneOrMore matches its child one or more times.
type OneOrMore struct {
	Child Node
}

func (*OneOrMore) Kind() Kind { return KindOneOrMore }

// ActionKind distinguishes the three context-action forms.
type ActionKind int

const (
	Store ActionKind = iota
	Lookup
	Check
)

func (a ActionKind) String() string {
	switch a {
	case Store:
		return "store"
	case Lookup:
		return "lookup"
	case Check:
		return "check"
	}
	return "?"
}

// ContextAction reads or writes the parser's flat context storage.
// Check has no documented semantics beyond "run-time predicate hook"
// and is left as an unimplemented extension point by every consumer.
type ContextAction struct {
	Action ActionKind
	Args   []string
}

func (*ContextAction) Kind() Kind { return KindContextAction }

// ParamType is the declared type of a formal rule parameter.
type ParamType int

const (
	ParamString ParamType = iota
	ParamInteger
	ParamBoolean
	ParamEnum
)

// Parameter is one formal parameter of a production rule.
type Parameter struct {
	Name    string
	Type    ParamType
	Values  []string // enum values, in declaration order; only for ParamEnum
	Default string   // empty if no default was given
	HasDefault bool
}

// ProductionRule is a single grammar rule: its name, formal
// parameters (possibly none), and the AST root of its right-hand side.
type ProductionRule struct {
	Name   string
	Params []Parameter
	Body   Node
}

// IsParameterised reports whether the rule declares any parameters.
func (r *ProductionRule) IsParameterised() bool {
	return len(r.Params) > 0
}
