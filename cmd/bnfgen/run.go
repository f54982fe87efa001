package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnfgen/bnfgen/emitter"
	"github.com/bnfgen/bnfgen/frontend"
	"github.com/bnfgen/bnfgen/tokenizer"
	"github.com/eaburns/pretty"
	"github.com/fatih/color"
)

// version is reported by --version. Set at build time would require a
// linker flag the teacher never uses either, so it stays a constant.
const version = "0.1.0"

var validFormats = map[string]bool{
	"source-only":    true,
	"library-static": true,
	"library-shared": true,
	"executable":     true,
	"all":            true,
}

// config holds every flag value, gathered before any side effect runs
// so the rest of Run stays a straight-line pipeline.
type config struct {
	input      string
	output     string
	outputDir  string
	language   string
	name       string
	namespace  string
	format     string
	executable bool
	debug      bool
	verbose    bool
	version    bool
	help       bool
}

// Run parses args, drives the grammar through frontend, tokenizer, and
// emitter, and writes the generated files. It returns the process exit
// code (0 success, 1 any failure) rather than calling os.Exit itself,
// so tests can drive it directly.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg, fs, err := parseFlags(args, stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		return 1
	}

	if cfg.version {
		fmt.Fprintf(stdout, "bnfgen %s\n", version)
		return 0
	}
	if cfg.help {
		fs.Usage()
		return 0
	}

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if cfg.input == "" {
		fmt.Fprintln(stderr, red(missingInputError().Error()))
		fs.Usage()
		return 1
	}

	if cfg.format == "" {
		cfg.format = "source-only"
	}
	if cfg.executable {
		cfg.format = "executable"
	}
	if !validFormats[cfg.format] {
		fmt.Fprintln(stderr, red(invalidFormatError(cfg.format).Error()))
		return 1
	}

	src, rerr := os.ReadFile(cfg.input)
	if rerr != nil {
		fmt.Fprintln(stderr, red(readGrammarError(cfg.input, rerr).Error()))
		return 1
	}

	grammar, perr := frontend.Parse(cfg.input, src)
	if perr != nil {
		fmt.Fprintln(stderr, red(perr.Error()))
		return 1
	}

	report := frontend.Validate(grammar)
	for _, w := range report.Warnings {
		fmt.Fprintln(stderr, yellow("warning: "+w))
	}
	if !report.IsValid() {
		for _, e := range report.Errors {
			fmt.Fprintln(stderr, red("error: "+e))
		}
		return 1
	}

	if cfg.verbose {
		fmt.Fprintln(stderr, dim("parsed grammar:"))
		fmt.Fprintln(stderr, dim(pretty.String(grammar)))
		fmt.Fprintln(stderr, dim("validation report:"))
		fmt.Fprintln(stderr, dim(pretty.String(report)))
		if tok, terr := tokenizer.New(grammar); terr == nil {
			fmt.Fprintln(stderr, dim("tokeniser candidate order:"))
			fmt.Fprintln(stderr, dim(pretty.String(tok.Candidates())))
		}
	}

	stem := strings.TrimSuffix(filepath.Base(cfg.input), filepath.Ext(cfg.input))
	parserName := cfg.name
	if parserName == "" {
		parserName = emitter.ParserNameFromStem(stem)
	}

	opts := emitter.DefaultOptions()
	opts.TargetLanguage = cfg.language
	opts.ParserName = parserName
	opts.Namespace = cfg.namespace
	opts.DebugMode = cfg.debug
	opts.GenerateExecutable = cfg.format == "executable" || cfg.format == "all"

	result, eerr := emitter.Emit(grammar, opts)
	if eerr != nil {
		fmt.Fprintln(stderr, red(eerr.Error()))
		return 1
	}

	if cfg.format == "library-static" || cfg.format == "library-shared" || cfg.format == "all" {
		fmt.Fprintln(stderr, dim(fmt.Sprintf(
			"note: bnfgen emits %s source only; building a %s artefact from it is left to your own build system",
			cfg.language, cfg.format)))
	}

	outDir := cfg.outputDir
	if outDir == "" {
		if opts.GenerateExecutable {
			variant := "release"
			if cfg.debug {
				variant = "debug"
			}
			outDir = filepath.Join("generated", stem, "exec", variant)
		} else {
			outDir = filepath.Join("generated", stem, cfg.format)
		}
	}

	if werr := os.MkdirAll(outDir, 0o777); werr != nil {
		fmt.Fprintln(stderr, red(writeOutputError(outDir, werr).Error()))
		return 1
	}

	parserPath := filepath.Join(outDir, result.ParserFilename)
	if cfg.output != "" {
		parserPath = cfg.output
		if werr := os.MkdirAll(filepath.Dir(parserPath), 0o777); werr != nil {
			fmt.Fprintln(stderr, red(writeOutputError(parserPath, werr).Error()))
			return 1
		}
	}

	written, werr := writeResult(outDir, parserPath, result)
	if werr != nil {
		fmt.Fprintln(stderr, red(writeOutputError(parserPath, werr).Error()))
		return 1
	}

	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	fmt.Fprintln(stderr, green(fmt.Sprintf("generated %s parser %q from %s", cfg.language, parserName, cfg.input)))
	return 0
}

// writeResult writes a generated Result's files to disk, returning
// every path written in a stable order (parser, main, then additional
// files in map order) for the CLI's stdout contract.
func writeResult(outDir, parserPath string, result *emitter.Result) ([]string, error) {
	var written []string

	if err := os.WriteFile(parserPath, []byte(result.ParserCode), 0o666); err != nil {
		return nil, err
	}
	written = append(written, parserPath)

	if result.MainCode != "" {
		mainPath := filepath.Join(filepath.Dir(parserPath), result.MainFilename)
		if err := os.WriteFile(mainPath, []byte(result.MainCode), 0o666); err != nil {
			return nil, err
		}
		written = append(written, mainPath)
	}

	for name, content := range result.AdditionalFiles {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	return written, nil
}

// parseFlags registers the full flag set documented in main.go's
// package comment and parses args against it. The returned *flag.FlagSet
// is kept around so the caller can invoke its Usage on -h and when -i
// is missing.
func parseFlags(args []string, stderr io.Writer) (*config, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("bnfgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg config
	fs.StringVar(&cfg.input, "i", "", "grammar description file (required)")
	fs.StringVar(&cfg.input, "input", "", "grammar description file (required)")
	fs.StringVar(&cfg.output, "o", "", "generated parser file path, default derived from input and --output-dir")
	fs.StringVar(&cfg.output, "output", "", "generated parser file path, default derived from input and --output-dir")
	fs.StringVar(&cfg.outputDir, "output-dir", "", "generated file directory, default generated/<bnf-stem>/<format>/")
	fs.StringVar(&cfg.language, "l", "cpp", "target language backend")
	fs.StringVar(&cfg.language, "language", "cpp", "target language backend")
	fs.StringVar(&cfg.name, "n", "", "generated parser name, default derived from the grammar file's stem")
	fs.StringVar(&cfg.name, "name", "", "generated parser name, default derived from the grammar file's stem")
	fs.StringVar(&cfg.namespace, "namespace", "", "namespace to wrap generated code in")
	fs.StringVar(&cfg.format, "f", "", "output format: source-only, library-static, library-shared, executable, all")
	fs.StringVar(&cfg.format, "format", "", "output format: source-only, library-static, library-shared, executable, all")
	fs.BoolVar(&cfg.executable, "e", false, "shorthand for -f executable")
	fs.BoolVar(&cfg.executable, "executable", false, "shorthand for -f executable")
	fs.BoolVar(&cfg.debug, "d", false, "select the debug build variant for executable output")
	fs.BoolVar(&cfg.debug, "debug", false, "select the debug build variant for executable output")
	fs.BoolVar(&cfg.verbose, "v", false, "dump the parsed grammar and validation report")
	fs.BoolVar(&cfg.verbose, "verbose", false, "dump the parsed grammar and validation report")
	fs.BoolVar(&cfg.version, "version", false, "print the bnfgen version and exit")
	fs.BoolVar(&cfg.help, "h", false, "print this help message and exit")
	fs.BoolVar(&cfg.help, "help", false, "print this help message and exit")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: bnfgen -i <file> [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return &cfg, fs, nil
}
