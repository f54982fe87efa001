// Package emitter walks a grammar's AST in visitor fashion and
// produces target source text for a standalone recursive-descent
// parser. Grounded on original_source/include/code_generator.hpp's
// CodeGenerator/GeneratorOptions shape and the teacher's
// cmd/llxgen/llxgen.go idiom of hand-assembling generated source with
// bytes.Buffer and fmt.Fprintf rather than a template engine.
package emitter

import (
	"fmt"
	"strings"

	"github.com/bnfgen/bnfgen/ast"
)

// Options controls code generation. Field names and defaults mirror
// the original's GeneratorOptions.
type Options struct {
	TargetLanguage        string // only "cpp" is implemented
	ParserName            string
	Namespace             string
	DebugMode             bool
	GenerateASTPrinter    bool
	IndentStyle           string
	MaxRecursionDepth     int
	GenerateErrorHandling bool
	TrackPositions        bool
	GenerateExecutable    bool
	DefaultInputFile      string
}

// DefaultOptions returns the same defaults as the original's
// GeneratorOptions struct initialisers.
func DefaultOptions() Options {
	return Options{
		TargetLanguage:        "cpp",
		ParserName:            "GeneratedParser",
		IndentStyle:           "    ",
		MaxRecursionDepth:     1000,
		GenerateASTPrinter:    true,
		GenerateErrorHandling: true,
		TrackPositions:        true,
	}
}

// Result is the outcome of a successful Emit call.
type Result struct {
	ParserCode     string
	ParserFilename string
	// AdditionalFiles holds supplementary generated files keyed by name,
	// in no particular order — the reference cpp backend does not emit
	// any, but the shape is kept for targets that split headers out.
	AdditionalFiles map[string]string
	MainCode        string
	MainFilename    string
	Messages        []string
	Warnings        []string
}

// backend is implemented once per target language.
type backend interface {
	emit(g *ast.Grammar, opts Options) (*Result, error)
	fileExtension() string
	supportedFeatures() []string
}

var backends = map[string]func() backend{
	"cpp": func() backend { return &cppBackend{} },
}

// Emit generates source text for g using opts.TargetLanguage. An
// unsupported target returns an error naming the supported set.
func Emit(g *ast.Grammar, opts Options) (*Result, error) {
	lang := strings.ToLower(opts.TargetLanguage)
	factory, ok := backends[lang]
	if !ok {
		return nil, unsupportedLanguageError(opts.TargetLanguage, SupportedLanguages())
	}
	return factory().emit(g, opts)
}

// FileExtension returns the conventional output extension for lang
// ("" if unsupported).
func FileExtension(lang string) string {
	factory, ok := backends[strings.ToLower(lang)]
	if !ok {
		return ""
	}
	return factory().fileExtension()
}

// SupportedFeatures returns the feature list a given target's backend
// advertises, mirroring the original's getSupportedFeatures().
func SupportedFeatures(lang string) []string {
	factory, ok := backends[strings.ToLower(lang)]
	if !ok {
		return nil
	}
	return factory().supportedFeatures()
}

// SupportedLanguages returns every registered target name.
func SupportedLanguages() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsLanguageSupported reports whether lang names a registered target,
// case-insensitively.
func IsLanguageSupported(lang string) bool {
	_, ok := backends[strings.ToLower(lang)]
	return ok
}

// SanitizeIdentifier maps name to a valid identifier: every character
// other than an ASCII letter, digit, or underscore becomes a single
// `_`, and a leading digit gets an `_` prefix.
func SanitizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result != "" && result[0] >= '0' && result[0] <= '9' {
		result = "_" + result
	}
	return result
}

// EscapeString escape-encodes s for embedding in a double-quoted
// string literal: `\`, `"`, `\n`, `\r`, `\t`.
func EscapeString(s string) string {
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

// ParserNameFromStem derives a parser name from a grammar file's stem:
// PascalCase followed by "Parser" (e.g. "json" -> "JsonParser").
func ParserNameFromStem(stem string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range stem {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if upperNext {
				b.WriteString(strings.ToUpper(string(r)))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		} else {
			upperNext = true
		}
	}
	return b.String() + "Parser"
}

// MainFilename derives the companion executable-wrapper file name from
// a parser name and target extension, e.g. ("JsonParser", ".cpp") ->
// "JsonParser_main.cpp".
func MainFilename(parserName, ext string) string {
	return fmt.Sprintf("%s_main%s", parserName, ext)
}
