package emitter

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/bnfgen/bnfgen/ast"
)

// cppBackend implements backend for the reference "cpp" target:
// a standalone recursive-descent parser with natural backtracking,
// following original_source/include/cpp_backend.hpp's layout —
// one <Rule>Node class per rule, an optional ContextStorage field,
// one enum type per enum parameter, a Parser class, and one
// parse_<rule> function per rule.
type cppBackend struct {
	opts    Options
	grammar *ast.Grammar

	header  bytes.Buffer
	types   bytes.Buffer
	funcs   bytes.Buffer
	footer  bytes.Buffer

	varCounter int
}

func (b *cppBackend) fileExtension() string { return ".cpp" }

func (b *cppBackend) supportedFeatures() []string {
	return []string{
		"recursive_descent",
		"natural_backtracking",
		"ast_construction",
		"error_reporting",
		"position_tracking",
		"utf8_support",
		"standalone_code",
	}
}

func (b *cppBackend) emit(g *ast.Grammar, opts Options) (*Result, error) {
	b.grammar = g
	b.opts = fillDefaults(opts)

	b.generateHeader()
	b.generateIncludes()
	b.generateASTNodeClasses()
	b.generateParserClass()

	var out bytes.Buffer
	out.Write(b.header.Bytes())
	out.Write(b.types.Bytes())
	out.Write(b.funcs.Bytes())
	out.Write(b.footer.Bytes())

	result := &Result{
		ParserCode:     out.String(),
		ParserFilename: b.opts.ParserName + ".cpp",
	}

	if b.opts.GenerateExecutable {
		result.MainCode = b.generateMainCpp()
		result.MainFilename = MainFilename(b.opts.ParserName, ".cpp")
	}

	return result, nil
}

func fillDefaults(opts Options) Options {
	if opts.ParserName == "" {
		opts.ParserName = "GeneratedParser"
	}
	if opts.IndentStyle == "" {
		opts.IndentStyle = "    "
	}
	if opts.MaxRecursionDepth == 0 {
		opts.MaxRecursionDepth = 1000
	}
	return opts
}

func (b *cppBackend) indent(level int) string {
	s := ""
	for i := 0; i < level; i++ {
		s += b.opts.IndentStyle
	}
	return s
}

func (b *cppBackend) nextVar(prefix string) string {
	b.varCounter++
	return fmt.Sprintf("__%s%d", prefix, b.varCounter)
}

func (b *cppBackend) generateHeader() {
	fmt.Fprintf(&b.header, "// Generated by bnfgen, target cpp, parser %q.\n", b.opts.ParserName)
	fmt.Fprintf(&b.header, "// Do not edit by hand.\n\n")
	if b.opts.Namespace != "" {
		fmt.Fprintf(&b.header, "namespace %s {\n\n", SanitizeIdentifier(b.opts.Namespace))
	}
}

func (b *cppBackend) generateIncludes() {
	b.header.WriteString("#include <string>\n")
	b.header.WriteString("#include <vector>\n")
	b.header.WriteString("#include <memory>\n")
	b.header.WriteString("#include <unordered_map>\n")
	b.header.WriteString("#include <cstddef>\n\n")
}

// generateASTNodeClasses emits the ASTNode base and one <Rule>Node
// derived class per rule, plus one enum type per enum parameter found
// anywhere in the grammar.
func (b *cppBackend) generateASTNodeClasses() {
	b.types.WriteString("class ASTNode {\n")
	b.types.WriteString("public:\n")
	b.types.WriteString(b.indent(1) + "virtual ~ASTNode() = default;\n")
	b.types.WriteString(b.indent(1) + "std::vector<std::shared_ptr<ASTNode>> children;\n")
	if b.opts.TrackPositions {
		b.types.WriteString(b.indent(1) + "size_t line = 0, column = 0, byte_offset = 0;\n")
	}
	b.types.WriteString(b.indent(1) + "std::shared_ptr<ASTNode> child(size_t i) const { return children.at(i); }\n")
	b.types.WriteString("};\n\n")

	for _, rule := range b.grammar.Rules {
		className := ruleClassName(rule.Name)
		fmt.Fprintf(&b.types, "class %s : public ASTNode {\n", className)
		b.types.WriteString("public:\n")
		fmt.Fprintf(&b.types, "%sexplicit %s(std::vector<std::shared_ptr<ASTNode>> c) { children = std::move(c); }\n", b.indent(1), className)
		b.types.WriteString("};\n\n")
	}

	for _, name := range enumParamNames(b.grammar) {
		param := findEnumParam(b.grammar, name)
		fmt.Fprintf(&b.types, "enum class %s {\n", SanitizeIdentifier(name))
		for _, v := range param.Values {
			fmt.Fprintf(&b.types, "%s%s,\n", b.indent(1), SanitizeIdentifier(v))
		}
		b.types.WriteString("};\n\n")
	}

	if b.grammar.IsContextSensitive() {
		b.types.WriteString("class ContextStorage {\n")
		b.types.WriteString("public:\n")
		b.types.WriteString(b.indent(1) + "std::unordered_map<std::string, std::string> values;\n")
		b.types.WriteString(b.indent(1) + "void store(const std::string& name, const std::string& value) { values[name] = value; }\n")
		b.types.WriteString(b.indent(1) + "bool lookup(const std::string& name, const std::string& input, size_t pos) const {\n")
		b.types.WriteString(b.indent(2) + "auto it = values.find(name);\n")
		b.types.WriteString(b.indent(2) + "if (it == values.end()) return false;\n")
		b.types.WriteString(b.indent(2) + "return input.compare(pos, it->second.size(), it->second) == 0;\n")
		b.types.WriteString(b.indent(1) + "}\n")
		b.types.WriteString("};\n\n")
	}
}

// ruleClassName is the <Rule>Node identifier for rule name, PascalCase
// not required — the original keeps the rule's own identifier and
// only appends "Node".
func ruleClassName(ruleName string) string {
	return SanitizeIdentifier(ruleName) + "Node"
}

func enumParamNames(g *ast.Grammar) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rule := range g.Rules {
		for _, p := range rule.Params {
			if p.Type == ast.ParamEnum && !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func findEnumParam(g *ast.Grammar, name string) ast.Parameter {
	for _, rule := range g.Rules {
		for _, p := range rule.Params {
			if p.Name == name && p.Type == ast.ParamEnum {
				return p
			}
		}
	}
	return ast.Parameter{}
}

// generateParserClass emits the Parser class declaration, its state,
// helper methods, one parse_<rule> per rule, and the top-level entry
// point, then closes out the namespace if one was opened.
func (b *cppBackend) generateParserClass() {
	b.types.WriteString("class Parser {\n")
	b.types.WriteString("public:\n")
	fmt.Fprintf(&b.types, "%sexplicit Parser(std::string input) : input_(std::move(input)) {}\n\n", b.indent(1))
	b.generateMainParseMethod()
	b.types.WriteString("\nprivate:\n")
	b.generateParserState()
	b.generateHelperMethods()
	b.types.WriteString("};\n\n")

	for _, rule := range b.grammar.Rules {
		b.generateRuleFunction(rule)
	}

	if b.opts.Namespace != "" {
		b.footer.WriteString("} // namespace\n")
	}
}

func (b *cppBackend) generateParserState() {
	b.types.WriteString(b.indent(1) + "std::string input_;\n")
	b.types.WriteString(b.indent(1) + "size_t pos_ = 0;\n")
	b.types.WriteString(b.indent(1) + "size_t line_ = 1, column_ = 1;\n")
	b.types.WriteString(b.indent(1) + "std::string last_error_;\n")
	if b.grammar.IsContextSensitive() {
		b.types.WriteString(b.indent(1) + "ContextStorage context_;\n")
	}

	for _, rule := range b.grammar.Rules {
		sig := ruleFunctionSignature(rule, b.opts.ParserName, false)
		b.types.WriteString(b.indent(1) + sig + ";\n")
	}
}

func (b *cppBackend) generateHelperMethods() {
	b.types.WriteString("\n" + b.indent(1) + "std::pair<unsigned, size_t> decode_utf8(size_t at) const;\n")
	if b.opts.GenerateErrorHandling {
		b.types.WriteString(b.indent(1) + "void fail(const std::string& expected);\n")
	}
}

func (b *cppBackend) generateMainParseMethod() {
	if len(b.grammar.Rules) == 0 {
		return
	}
	start := b.grammar.Start
	if start == "" {
		start = b.grammar.Rules[0].Name
	}
	fmt.Fprintf(&b.types, "%sstd::shared_ptr<ASTNode> parse() { return parse_%s(); }\n", b.indent(1), SanitizeIdentifier(start))
}

// ruleFunctionSignature builds the declaration (or definition prefix,
// when scoped is true) for rule's parse_<rule> function. Parameterised
// rules take their parameters as arguments in declaration order.
func ruleFunctionSignature(rule *ast.ProductionRule, parserName string, scoped bool) string {
	name := "parse_" + SanitizeIdentifier(rule.Name)
	if scoped {
		name = parserName + "::" + name
	}
	params := make([]string, 0, len(rule.Params))
	for _, p := range rule.Params {
		params = append(params, cppParamType(p)+" "+SanitizeIdentifier(p.Name))
	}
	paramList := ""
	for i, p := range params {
		if i > 0 {
			paramList += ", "
		}
		paramList += p
	}
	return fmt.Sprintf("std::shared_ptr<ASTNode> %s(%s)", name, paramList)
}

func cppParamType(p ast.Parameter) string {
	switch p.Type {
	case ast.ParamInteger:
		return "int"
	case ast.ParamBoolean:
		return "bool"
	case ast.ParamEnum:
		return SanitizeIdentifier(p.Name)
	default:
		return "std::string"
	}
}

// generateRuleFunction emits the full parse_<rule> definition: save
// the cursor, run the body's matcher, and on success wrap the
// accumulated children in the rule's node class; on failure restore
// the cursor and return nullptr — local backtracking, scoped to this
// one function.
func (b *cppBackend) generateRuleFunction(rule *ast.ProductionRule) {
	sig := ruleFunctionSignature(rule, b.opts.ParserName, true)
	fmt.Fprintf(&b.funcs, "%s {\n", sig)
	b.funcs.WriteString(b.indent(1) + "size_t __entrySave = pos_;\n")
	b.funcs.WriteString(b.indent(1) + "std::vector<std::shared_ptr<ASTNode>> __children;\n")

	match := b.nextVar("match")
	fmt.Fprintf(&b.funcs, "%sauto %s = [&]() -> bool {\n", b.indent(1), match)
	b.funcs.WriteString(b.genExpr(rule.Body, "__children", 2))
	b.funcs.WriteString(b.indent(2) + "return true;\n")
	b.funcs.WriteString(b.indent(1) + "};\n")

	fmt.Fprintf(&b.funcs, "%sif (!%s()) {\n", b.indent(1), match)
	b.funcs.WriteString(b.indent(2) + "pos_ = __entrySave;\n")
	b.funcs.WriteString(b.indent(2) + "return nullptr;\n")
	b.funcs.WriteString(b.indent(1) + "}\n")

	fmt.Fprintf(&b.funcs, "%sreturn std::make_shared<%s>(std::move(__children));\n", b.indent(1), ruleClassName(rule.Name))
	b.funcs.WriteString("}\n\n")
}

// genExpr emits statements, to run inside a `[&]() -> bool { ... }`
// lambda, that match node at the current cursor: appending its
// result(s) to childrenVar on success and falling through, or
// `return false;` on failure. This is the per-node emission table:
// composite nodes (Alternative, Sequence, Optional, ZeroOrMore,
// OneOrMore) get their own nested lambda and cursor save point so
// their failure action only unwinds their own attempt, never more.
func (b *cppBackend) genExpr(node ast.Node, childrenVar string, level int) string {
	ind := b.indent(level)
	switch n := node.(type) {
	case *ast.Terminal:
		lit := EscapeString(n.Value)
		return fmt.Sprintf(
			"%sif (input_.compare(pos_, %d, \"%s\") != 0) { return false; }\n"+
				"%s%s.push_back(std::make_shared<ASTNode>());\n"+
				"%spos_ += %d;\n",
			ind, len(n.Value), lit, ind, childrenVar, ind, len(n.Value))

	case *ast.NonTerminal:
		v := b.nextVar("r")
		args := ""
		for i, a := range n.Args {
			if i > 0 {
				args += ", "
			}
			args += a
		}
		return fmt.Sprintf(
			"%sauto %s = parse_%s(%s);\n"+
				"%sif (!%s) { return false; }\n"+
				"%s%s.push_back(%s);\n",
			ind, v, SanitizeIdentifier(n.Name), args, ind, v, ind, childrenVar, v)

	case *ast.CharRange:
		v := b.nextVar("cp")
		return fmt.Sprintf(
			"%sauto %s = decode_utf8(pos_);\n"+
				"%sif (!(%s.first >= %du && %s.first <= %du)) { return false; }\n"+
				"%s%s.push_back(std::make_shared<ASTNode>());\n"+
				"%spos_ += %s.second;\n",
			ind, v, ind, v, n.Start, v, n.End, ind, childrenVar, ind, v)

	case *ast.Alternative:
		save := b.nextVar("save")
		ok := b.nextVar("ok")
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "%s{\n", ind)
		fmt.Fprintf(&buf, "%ssize_t %s = pos_;\n", b.indent(level+1), save)
		for i, child := range n.Children {
			alt := b.nextVar("alt")
			fmt.Fprintf(&buf, "%sauto %s = [&]() -> bool {\n", b.indent(level+1), alt)
			buf.WriteString(b.genExpr(child, childrenVar, level+2))
			buf.WriteString(b.indent(level+2) + "return true;\n")
			fmt.Fprintf(&buf, "%s};\n", b.indent(level+1))
			if i == 0 {
				fmt.Fprintf(&buf, "%sbool %s = %s();\n", b.indent(level+1), ok, alt)
			} else {
				fmt.Fprintf(&buf, "%sif (!%s) { pos_ = %s; %s = %s(); }\n", b.indent(level+1), ok, save, ok, alt)
			}
		}
		fmt.Fprintf(&buf, "%sif (!%s) { pos_ = %s; return false; }\n", b.indent(level+1), ok, save)
		fmt.Fprintf(&buf, "%s}\n", ind)
		return buf.String()

	case *ast.Sequence:
		save := b.nextVar("save")
		ok := b.nextVar("ok")
		inner := b.nextVar("seq")
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "%s{\n", ind)
		fmt.Fprintf(&buf, "%ssize_t %s = pos_;\n", b.indent(level+1), save)
		fmt.Fprintf(&buf, "%sauto %s = [&]() -> bool {\n", b.indent(level+1), inner)
		for _, child := range n.Children {
			buf.WriteString(b.genExpr(child, childrenVar, level+2))
		}
		buf.WriteString(b.indent(level+2) + "return true;\n")
		fmt.Fprintf(&buf, "%s};\n", b.indent(level+1))
		fmt.Fprintf(&buf, "%sbool %s = %s();\n", b.indent(level+1), ok, inner)
		fmt.Fprintf(&buf, "%sif (!%s) { pos_ = %s; return false; }\n", b.indent(level+1), ok, save)
		fmt.Fprintf(&buf, "%s}\n", ind)
		return buf.String()

	case *ast.Group:
		return b.genExpr(n.Child, childrenVar, level)

	case *ast.Optional:
		save := b.nextVar("save")
		ok := b.nextVar("ok")
		inner := b.nextVar("opt")
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "%s{\n", ind)
		fmt.Fprintf(&buf, "%ssize_t %s = pos_;\n", b.indent(level+1), save)
		fmt.Fprintf(&buf, "%sauto %s = [&]() -> bool {\n", b.indent(level+1), inner)
		buf.WriteString(b.genExpr(n.Child, childrenVar, level+2))
		buf.WriteString(b.indent(level+2) + "return true;\n")
		fmt.Fprintf(&buf, "%s};\n", b.indent(level+1))
		fmt.Fprintf(&buf, "%sbool %s = %s();\n", b.indent(level+1), ok, inner)
		fmt.Fprintf(&buf, "%sif (!%s) { pos_ = %s; }\n", b.indent(level+1), ok, save)
		fmt.Fprintf(&buf, "%s}\n", ind)
		return buf.String()

	case *ast.ZeroOrMore:
		save := b.nextVar("save")
		inner := b.nextVar("rep")
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "%swhile (true) {\n", ind)
		fmt.Fprintf(&buf, "%ssize_t %s = pos_;\n", b.indent(level+1), save)
		fmt.Fprintf(&buf, "%sauto %s = [&]() -> bool {\n", b.indent(level+1), inner)
		buf.WriteString(b.genExpr(n.Child, childrenVar, level+2))
		buf.WriteString(b.indent(level+2) + "return true;\n")
		fmt.Fprintf(&buf, "%s};\n", b.indent(level+1))
		fmt.Fprintf(&buf, "%sif (!%s()) { pos_ = %s; break; }\n", b.indent(level+1), inner, save)
		fmt.Fprintf(&buf, "%s}\n", ind)
		return buf.String()

	case *ast.OneOrMore:
		var buf bytes.Buffer
		buf.WriteString(b.genExpr(n.Child, childrenVar, level)) // mandatory first match
		buf.WriteString(b.genExpr(&ast.ZeroOrMore{Child: n.Child}, childrenVar, level))
		return buf.String()

	case *ast.ContextAction:
		switch n.Action {
		case ast.Store:
			name, value := contextArg(n.Args, 0), contextArg(n.Args, 1)
			return fmt.Sprintf("%scontext_.store(\"%s\", \"%s\");\n", ind, EscapeString(name), EscapeString(value))
		case ast.Lookup:
			name := contextArg(n.Args, 0)
			return fmt.Sprintf("%sif (!context_.lookup(\"%s\", input_, pos_)) { return false; }\n", ind, EscapeString(name))
		case ast.Check:
			cond := contextArg(n.Args, 0)
			return fmt.Sprintf("%sif (!check_%s()) { return false; }\n", ind, SanitizeIdentifier(cond))
		}
	}
	return ""
}

func contextArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (b *cppBackend) generateMainCpp() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "// Generated by bnfgen, executable wrapper for %q.\n", b.opts.ParserName)
	out.WriteString("#include <fstream>\n#include <iostream>\n#include <sstream>\n\n")
	fmt.Fprintf(&out, "#include \"%s.cpp\"\n\n", b.opts.ParserName)
	out.WriteString("int main(int argc, char** argv) {\n")
	out.WriteString(b.indent(1) + "if (argc < 2) {\n")
	out.WriteString(b.indent(2) + "std::cerr << \"usage: \" << argv[0] << \" <input-file>\" << std::endl;\n")
	out.WriteString(b.indent(2) + "return 1;\n")
	out.WriteString(b.indent(1) + "}\n")
	out.WriteString(b.indent(1) + "std::ifstream file(argv[1]);\n")
	out.WriteString(b.indent(1) + "std::stringstream buffer;\n")
	out.WriteString(b.indent(1) + "buffer << file.rdbuf();\n")
	fmt.Fprintf(&out, "%s%s parser(buffer.str());\n", b.indent(1), b.opts.ParserName)
	out.WriteString(b.indent(1) + "auto result = parser.parse();\n")
	out.WriteString(b.indent(1) + "if (!result) {\n")
	out.WriteString(b.indent(2) + "std::cerr << \"parse failed\" << std::endl;\n")
	out.WriteString(b.indent(2) + "return 1;\n")
	out.WriteString(b.indent(1) + "}\n")
	out.WriteString(b.indent(1) + "std::cout << \"parse succeeded\" << std::endl;\n")
	out.WriteString(b.indent(1) + "return 0;\n")
	out.WriteString("}\n")
	return out.String()
}
