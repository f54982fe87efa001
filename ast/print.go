package ast

import (
	"fmt"
	"strings"

	"github.com/eaburns/pretty"
)

// String renders t as a double-quoted, escaped literal.
func (t *Terminal) String() string {
	return `"` + escapeTerminal(t.Value) + `"`
}

func escapeTerminal(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// String renders n as `name` or `name[arg1,arg2]` when it carries
// call-site arguments.
func (n *NonTerminal) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	return n.Name + "[" + strings.Join(n.Args, ",") + "]"
}

// formatCodepoint renders a single codepoint the way CharRange
// requires: ASCII as 'c', BMP as '\uXXXX', supplementary planes as
// '\UXXXXXXXX'.
func formatCodepoint(cp rune) string {
	switch {
	case cp < 0x80:
		return "'" + string(cp) + "'"
	case cp <= 0xFFFF:
		return fmt.Sprintf("'\\u%04X'", cp)
	default:
		return fmt.Sprintf("'\\U%08X'", cp)
	}
}

func (r *CharRange) String() string {
	return formatCodepoint(r.Start) + ".." + formatCodepoint(r.End)
}

func (a *Alternative) String() string {
	parts := make([]string, len(a.Children))
	for i, c := range a.Children {
		parts[i] = c.String()
	}
	return strings.Join(parts, " | ")
}

func (s *Sequence) String() string {
	parts := make([]string, len(s.Children))
	for i, c := range s.Children {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func (g *Group) String() string {
	return "(" + g.Child.String() + ")"
}

func (o *Optional) String() string {
	return "[" + o.Child.String() + "]"
}

func (z *ZeroOrMore) String() string {
	return "{" + z.Child.String() + "}"
}

func (o *OneOrMore) String() string {
	return o.Child.String() + "+"
}

func (a *ContextAction) String() string {
	return "{" + a.Action.String() + "(" + strings.Join(a.Args, ", ") + ")}"
}

func paramTypeName(t ParamType) string {
	switch t {
	case ParamInteger:
		return "int"
	case ParamBoolean:
		return "bool"
	case ParamEnum:
		return "enum"
	}
	return "string"
}

func (p Parameter) String() string {
	if p.Type == ParamEnum {
		return p.Name + ":enum{" + strings.Join(p.Values, ",") + "}"
	}
	if p.Type == ParamString {
		return p.Name
	}
	return p.Name + ":" + paramTypeName(p.Type)
}

// String renders a rule as `name ::= body` or, when parameterised,
// `name[p1,p2:type] ::= body`.
func (r *ProductionRule) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if r.IsParameterised() {
		b.WriteString("[")
		for i, p := range r.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteString("]")
	}
	b.WriteString(" ::= ")
	b.WriteString(r.Body.String())
	return b.String()
}

// String renders the whole grammar, one rule per line, preceded by a
// start-symbol comment.
func (g *Grammar) String() string {
	var b strings.Builder
	b.WriteString("# Grammar (start: " + g.Start + ")\n")
	for _, rule := range g.Rules {
		b.WriteString(rule.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Dump renders an arbitrary value (typically a *Grammar, *ProductionRule,
// or Token) with reflective field-by-field detail for human inspection,
// the same pretty.String rendering the CLI's -v mode prints, distinct
// from String's exact round-trippable grammar syntax.
func Dump(v any) string {
	return pretty.String(v)
}
