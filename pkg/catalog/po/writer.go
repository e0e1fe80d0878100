package po

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/catalog"
)

// Marshal renders a catalog as a PO file with a generated header, one entry
// per key in catalog order. Untranslated entries render with empty msgstr,
// so a catalog of bare keys marshals into a translation template.
func Marshal(c *catalog.Catalog) []byte {
	var b strings.Builder

	b.WriteString("msgid \"\"\n")
	b.WriteString("msgstr \"\"\n")
	if c.Language != language.Und {
		fmt.Fprintf(&b, "\"Language: %s\\n\"\n", c.Lang())
	}
	b.WriteString("\"MIME-Version: 1.0\\n\"\n")
	b.WriteString("\"Content-Type: text/plain; charset=UTF-8\\n\"\n")
	b.WriteString("\"Content-Transfer-Encoding: 8bit\\n\"\n")
	fmt.Fprintf(&b, "\"Plural-Forms: %s\\n\"\n", c.Plural.String())

	for _, e := range c.All() {
		b.WriteByte('\n')
		if len(e.References) > 0 {
			fmt.Fprintf(&b, "#: %s\n", strings.Join(e.References, " "))
		}
		if e.Fuzzy {
			b.WriteString("#, fuzzy\n")
		}
		if e.Context != "" {
			fmt.Fprintf(&b, "msgctxt %s\n", strconv.Quote(e.Context))
		}
		fmt.Fprintf(&b, "msgid %s\n", strconv.Quote(e.Key))

		if e.PluralKey == "" && len(e.Plurals) == 0 {
			fmt.Fprintf(&b, "msgstr %s\n", strconv.Quote(e.Translation))
			continue
		}

		pluralKey := e.PluralKey
		if pluralKey == "" {
			pluralKey = e.Key
		}
		fmt.Fprintf(&b, "msgid_plural %s\n", strconv.Quote(pluralKey))

		nforms := c.Plural.NPlurals
		if nforms < len(e.Plurals) {
			nforms = len(e.Plurals)
		}
		if nforms == 0 {
			nforms = 2
		}
		for i := range nforms {
			form := ""
			if i < len(e.Plurals) {
				form = e.Plurals[i]
			}
			fmt.Fprintf(&b, "msgstr[%d] %s\n", i, strconv.Quote(form))
		}
	}
	return []byte(b.String())
}
