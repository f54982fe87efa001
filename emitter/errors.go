package emitter

import (
	"strings"

	"github.com/bnfgen/bnfgen"
)

const errUnsupportedLanguage = bnfgen.EmitterErrors + 1

func unsupportedLanguageError(lang string, supported []string) error {
	return bnfgen.FormatError(errUnsupportedLanguage,
		"unsupported target language %q (supported: %s)", lang, strings.Join(supported, ", "))
}
