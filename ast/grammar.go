package ast

// Grammar owns an ordered list of production rules and names the rule
// derivations begin from. It exclusively owns every node reachable
// from any rule's Body.
type Grammar struct {
	Rules []*ProductionRule
	Start string
}

// NewGrammar returns an empty grammar with no rules and no start symbol.
func NewGrammar() *Grammar {
	return &Grammar{}
}

// AddRule appends a rule in declaration order.
func (g *Grammar) AddRule(rule *ProductionRule) {
	g.Rules = append(g.Rules, rule)
}

// FindRule returns the first rule named name, or nil. Linear lookup,
// first match wins — grammars are small enough that a name index
// would only add bookkeeping.
func (g *Grammar) FindRule(name string) *ProductionRule {
	for _, rule := range g.Rules {
		if rule.Name == name {
			return rule
		}
	}
	return nil
}

// NonTerminals returns every rule's left-hand name, in declaration order.
func (g *Grammar) NonTerminals() []string {
	names := make([]string, len(g.Rules))
	for i, rule := range g.Rules {
		names[i] = rule.Name
	}
	return names
}

// Terminals returns every literal terminal value appearing anywhere
// in the grammar, in source order; duplicates are preserved.
func (g *Grammar) Terminals() []string {
	var result []string
	for _, rule := range g.Rules {
		collectTerminals(rule.Body, &result)
	}
	return result
}

func collectTerminals(n Node, out *[]string) {
	switch node := n.(type) {
	case *Terminal:
		*out = append(*out, node.Value)
	case *Alternative:
		for _, c := range node.Children {
			collectTerminals(c, out)
		}
	case *Sequence:
		for _, c := range node.Children {
			collectTerminals(c, out)
		}
	case *Group:
		collectTerminals(node.Child, out)
	case *Optional:
		collectTerminals(node.Child, out)
	case *ZeroOrMore:
		collectTerminals(node.Child, out)
	case *OneOrMore:
		collectTerminals(node.Child, out)
	}
}

// IsContextSensitive reports whether any rule declares parameters or
// any subtree anywhere contains a ContextAction.
func (g *Grammar) IsContextSensitive() bool {
	for _, rule := range g.Rules {
		if rule.IsParameterised() {
			return true
		}
		if containsContextAction(rule.Body) {
			return true
		}
	}
	return false
}

func containsContextAction(n Node) bool {
	switch node := n.(type) {
	case *ContextAction:
		return true
	case *Alternative:
		for _, c := range node.Children {
			if containsContextAction(c) {
				return true
			}
		}
	case *Sequence:
		for _, c := range node.Children {
			if containsContextAction(c) {
				return true
			}
		}
	case *Group:
		return containsContextAction(node.Child)
	case *Optional:
		return containsContextAction(node.Child)
	case *ZeroOrMore:
		return containsContextAction(node.Child)
	case *OneOrMore:
		return containsContextAction(node.Child)
	}
	return false
}

// ParameterisedRules returns every rule with a non-empty parameter list.
func (g *Grammar) ParameterisedRules() []*ProductionRule {
	var result []*ProductionRule
	for _, rule := range g.Rules {
		if rule.IsParameterised() {
			result = append(result, rule)
		}
	}
	return result
}

// startSymbolPreference is the ordered list of rule names preferred as
// the inferred start symbol when no explicit one is given.
var startSymbolPreference = []string{"json", "program", "start", "grammar", "root"}

// DetermineStartSymbol infers and records the grammar's start symbol,
// overwriting any previous value. It is idempotent: calling it twice
// in a row yields the same result, since it only consults Rules, never
// the previously inferred Start.
//
// Priority: a rule whose name matches one of the preferred names (in
// their listed order); otherwise the first "composite" rule, one whose
// body contains at least one NonTerminal reference; otherwise the
// first rule in declaration order.
func (g *Grammar) DetermineStartSymbol() string {
	if len(g.Rules) == 0 {
		g.Start = ""
		return g.Start
	}

	for _, preferred := range startSymbolPreference {
		if rule := g.FindRule(preferred); rule != nil {
			g.Start = rule.Name
			return g.Start
		}
	}

	for _, rule := range g.Rules {
		if containsNonTerminal(rule.Body) {
			g.Start = rule.Name
			return g.Start
		}
	}

	g.Start = g.Rules[0].Name
	return g.Start
}

func containsNonTerminal(n Node) bool {
	switch node := n.(type) {
	case *NonTerminal:
		return true
	case *Alternative:
		for _, c := range node.Children {
			if containsNonTerminal(c) {
				return true
			}
		}
	case *Sequence:
		for _, c := range node.Children {
			if containsNonTerminal(c) {
				return true
			}
		}
	case *Group:
		return containsNonTerminal(node.Child)
	case *Optional:
		return containsNonTerminal(node.Child)
	case *ZeroOrMore:
		return containsNonTerminal(node.Child)
	case *OneOrMore:
		return containsNonTerminal(node.Child)
	}
	return false
}
