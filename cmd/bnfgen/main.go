/*
bnfgen is a console utility reading an extended-BNF grammar file and
emitting a standalone recursive-descent parser in a target language.

Usage is

	bnfgen -i <file> [-o <file>] [--output-dir <dir>] [-l <lang>]
	       [-n <name>] [--namespace <name>] [-f <format>] [-e] [-d] [-v]

-i|--input FILE is the grammar description file, required.

-o|--output FILE overrides the generated parser's file name.

--output-dir DIR overrides the generated file's directory, default
"generated/<bnf-stem>/<format>/" or "generated/<bnf-stem>/exec/<debug|release>/"
when the requested format produces an executable.

-l|--language LANG selects the target backend, default "cpp".

-n|--name NAME overrides the generated parser's class/struct name,
default derived from the grammar file's stem.

--namespace NAME wraps the generated code in a namespace.

-f|--format {source-only,library-static,library-shared,executable,all}
selects which generated artefacts get written, default "source-only".

-e|--executable is shorthand for -f executable.

-d|--debug selects the "debug" build variant used in --output-dir for
executable output; omitted means "release".

-v|--verbose additionally dumps the parsed grammar and validation
report.
*/
package main

import "os"

func main() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
