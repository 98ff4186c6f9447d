package exporter

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	supportedLocales = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.BrazilianPortuguese,
		language.German,
		language.French,
		language.Spanish,
	}
	dateLayouts = []string{
		"01/02/2006",
		"02/01/2006",
		"02/01/2006",
		"02.01.2006",
		"02/01/2006",
		"02/01/2006",
	}
	localeMatcher = language.NewMatcher(supportedLocales)
)

// Locale formats numbers and dates for one language tag.
type Locale struct {
	Tag        language.Tag
	printer    *message.Printer
	dateLayout string
}

// NewLocale parses a BCP 47 tag and picks the closest supported locale.
// An empty tag means en-US.
func NewLocale(tag string) (Locale, error) {
	t := language.AmericanEnglish
	if tag != "" {
		parsed, err := language.Parse(tag)
		if err != nil {
			return Locale{}, fmt.Errorf("locale %q: %w", tag, err)
		}
		t = parsed
	}
	_, idx, _ := localeMatcher.Match(t)
	return Locale{
		Tag:        supportedLocales[idx],
		printer:    message.NewPrinter(supportedLocales[idx]),
		dateLayout: dateLayouts[idx],
	}, nil
}

// Number renders n with the locale's digit grouping.
func (l Locale) Number(n int) string {
	if l.printer == nil {
		return fmt.Sprint(n)
	}
	return l.printer.Sprintf("%d", n)
}

// Date renders the calendar date of t.
func (l Locale) Date(t time.Time) string {
	layout := l.dateLayout
	if layout == "" {
		layout = dateLayouts[0]
	}
	return t.Format(layout)
}
