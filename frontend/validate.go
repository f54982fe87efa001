package frontend

import (
	"fmt"

	"github.com/bnfgen/bnfgen/ast"
	"github.com/bnfgen/bnfgen/internal/ints"
	"github.com/bnfgen/bnfgen/internal/queue"
)

// Report is the aggregated outcome of Validate: any error makes the
// grammar invalid; warnings (currently only unreachable non-terminals)
// do not.
type Report struct {
	Errors   []string
	Warnings []string
}

// IsValid reports whether the grammar has no errors.
func (r *Report) IsValid() bool {
	return len(r.Errors) == 0
}

// Validate runs the three analyser passes against the fully-assembled
// grammar: definedness, reachability from the start symbol, and
// productivity. Reachability and productivity track visited rule
// indices with internal/ints.Set and drive the breadth-first
// reachability walk with internal/queue.Queue[string], the same
// bookkeeping idiom the teacher's own langdef package uses when
// resolving grammar dependency graphs, rather than three separate
// map[string]bool scans.
func Validate(g *ast.Grammar) *Report {
	report := &Report{}

	if len(g.Rules) == 0 {
		report.Errors = append(report.Errors, "Grammar is empty")
		return report
	}

	ruleIndex := make(map[string]int, len(g.Rules))
	for i, rule := range g.Rules {
		ruleIndex[rule.Name] = i
	}

	checkDefinedness(g, ruleIndex, report)
	checkReachability(g, ruleIndex, report)
	checkProductivity(g, ruleIndex, report)

	return report
}

func checkDefinedness(g *ast.Grammar, ruleIndex map[string]int, report *Report) {
	seen := make(map[string]bool)
	for _, rule := range g.Rules {
		ast.Walk(rule.Body, func(n ast.Node) bool {
			nt, ok := n.(*ast.NonTerminal)
			if !ok {
				return true
			}
			if _, defined := ruleIndex[nt.Name]; !defined && !seen[nt.Name] {
				seen[nt.Name] = true
				report.Errors = append(report.Errors, fmt.Sprintf("Undefined non-terminal: %s", nt.Name))
			}
			return true
		})
	}
}

func checkReachability(g *ast.Grammar, ruleIndex map[string]int, report *Report) {
	start := g.Start
	if start == "" {
		start = g.DetermineStartSymbol()
	}
	startIndex, ok := ruleIndex[start]
	if !ok {
		return // the start symbol is itself undefined; definedness already reported it
	}

	visited := ints.NewSet(startIndex)
	frontier := queue.New[string](start)
	for !frontier.IsEmpty() {
		name, _ := frontier.First()
		rule := g.FindRule(name)
		if rule == nil {
			continue
		}

		ast.Walk(rule.Body, func(n ast.Node) bool {
			nt, ok := n.(*ast.NonTerminal)
			if !ok {
				return true
			}
			idx, defined := ruleIndex[nt.Name]
			if !defined || visited.Contains(idx) {
				return true
			}
			visited.Add(idx)
			frontier.Append(nt.Name)
			return true
		})
	}

	for i, rule := range g.Rules {
		if !visited.Contains(i) {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Unreachable non-terminal: %s", rule.Name))
		}
	}
}

func checkProductivity(g *ast.Grammar, ruleIndex map[string]int, report *Report) {
	productive := ints.NewSet()

	changed := true
	for changed {
		changed = false
		for i, rule := range g.Rules {
			if productive.Contains(i) {
				continue
			}
			if isProductive(rule.Body, ruleIndex, productive) {
				productive.Add(i)
				changed = true
			}
		}
	}

	for i, rule := range g.Rules {
		if !productive.Contains(i) {
			report.Errors = append(report.Errors, fmt.Sprintf("Non-productive rule: %s", rule.Name))
		}
	}
}

func isProductive(n ast.Node, ruleIndex map[string]int, productive *ints.Set) bool {
	switch node := n.(type) {
	case *ast.Terminal, *ast.CharRange:
		return true
	case *ast.Optional, *ast.ZeroOrMore:
		return true
	case *ast.ContextAction:
		return true
	case *ast.Alternative:
		for _, c := range node.Children {
			if isProductive(c, ruleIndex, productive) {
				return true
			}
		}
		return false
	case *ast.Sequence:
		for _, c := range node.Children {
			if !isProductive(c, ruleIndex, productive) {
				return false
			}
		}
		return true
	case *ast.NonTerminal:
		idx, ok := ruleIndex[node.Name]
		return ok && productive.Contains(idx)
	case *ast.OneOrMore:
		return isProductive(node.Child, ruleIndex, productive)
	case *ast.Group:
		return isProductive(node.Child, ruleIndex, productive)
	}
	return false
}
