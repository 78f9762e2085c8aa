// Package i18n localizes admin UI strings with golang.org/x/text message catalogs.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Translator formats UI strings for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for lang (a BCP 47 tag such as "en" or "de").
func New(lang string) (*Translator, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	_, idx, _ := matcher.Match(tag)
	matched := supported[idx]
	return &Translator{tag: matched, printer: message.NewPrinter(matched)}, nil
}

// MustNew is New for static languages.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// T translates msg and formats args into it.
func (t *Translator) T(msg string, args ...any) string {
	return t.printer.Sprintf(msg, args...)
}

// Language returns the matched language tag.
func (t *Translator) Language() string {
	return t.tag.String()
}
