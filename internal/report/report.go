// Package report formats the one-line run summary printed after a
// successful run, localized through golang.org/x/text.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ErrUnsupportedLanguage is returned by ParseLanguage for languages without
// a translation.
var ErrUnsupportedLanguage = errors.New("report: unsupported language")

// summaryKey is the catalog key of the summary line. Arguments are the
// image size ("WxH"), the worker count and the elapsed time.
const summaryKey = "Processed %[1]s image with %[2]d threads in %[3]s"

// Supported lists the languages the summary is translated to.
var Supported = []language.Tag{language.English, language.Russian}

var summaryCatalog = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	mustSet(b, language.English, plural.Selectf(2, "%d",
		"one", "Processed %[1]s image with %[2]d thread in %[3]s",
		"other", "Processed %[1]s image with %[2]d threads in %[3]s",
	))
	mustSet(b, language.Russian, plural.Selectf(2, "%d",
		"one", "Изображение %[1]s обработано в %[2]d поток за %[3]s",
		"few", "Изображение %[1]s обработано в %[2]d потока за %[3]s",
		"other", "Изображение %[1]s обработано в %[2]d потоков за %[3]s",
	))
	return b
}

func mustSet(b *catalog.Builder, tag language.Tag, msg catalog.Message) {
	if err := b.Set(tag, summaryKey, msg); err != nil {
		panic(fmt.Sprintf("report: catalog entry for %s: %v", tag, err))
	}
}

// Summary holds the values shown in the run summary.
type Summary struct {
	Width   int
	Height  int
	Workers int
	Elapsed time.Duration
}

// Format returns the summary line in the given language, without a
// trailing newline. Unknown languages fall back to English.
func Format(tag language.Tag, s Summary) string {
	p := message.NewPrinter(tag, message.Catalog(summaryCatalog))
	size := fmt.Sprintf("%dx%d", s.Width, s.Height)
	return p.Sprintf(summaryKey, size, s.Workers, s.Elapsed.Round(time.Microsecond).String())
}

// Fprint writes the summary line followed by a newline.
func Fprint(w io.Writer, tag language.Tag, s Summary) error {
	_, err := io.WriteString(w, Format(tag, s)+"\n")
	return err
}

// ParseLanguage maps a BCP 47 string such as "en", "en-US" or "ru" onto
// one of the Supported languages.
func ParseLanguage(s string) (language.Tag, error) {
	t, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	base, _ := t.Base()
	for _, sup := range Supported {
		if b, _ := sup.Base(); b == base {
			return sup, nil
		}
	}
	return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}
