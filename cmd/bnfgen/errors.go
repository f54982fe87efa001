package main

import "github.com/bnfgen/bnfgen"

const (
	errMissingInput  = bnfgen.IoErrors + 1
	errReadGrammar   = bnfgen.IoErrors + 2
	errInvalidFormat = bnfgen.IoErrors + 3
	errWriteOutput   = bnfgen.IoErrors + 4
)

func missingInputError() error {
	return bnfgen.FormatError(errMissingInput, "missing required -i|--input FILE")
}

func readGrammarError(path string, cause error) error {
	return bnfgen.FormatError(errReadGrammar, "cannot read grammar file %s: %v", path, cause)
}

func invalidFormatError(format string) error {
	return bnfgen.FormatError(errInvalidFormat,
		"invalid -f|--format %q (want one of source-only, library-static, library-shared, executable, all)", format)
}

func writeOutputError(path string, cause error) error {
	return bnfgen.FormatError(errWriteOutput, "cannot write %s: %v", path, cause)
}
