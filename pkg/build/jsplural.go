package build

import (
	"strings"

	"github.com/dmitrymomot/langpack/pkg/scan"
)

// countPlaceholder is substituted with the runtime count inside plural forms.
const countPlaceholder = "%{count}"

// fallbackFormula selects between two forms when a catalog formula cannot be
// emitted safely into JavaScript.
const fallbackFormula = "n != 1"

// safeFormula reports whether a gettext plural expression can be embedded in
// generated JavaScript verbatim. Only arithmetic on n, comparisons, boolean
// operators, the ternary operator and parentheses are accepted.
func safeFormula(formula string) bool {
	if strings.TrimSpace(formula) == "" {
		return false
	}
	depth := 0
	i := 0
	for i < len(formula) {
		c := formula[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == 'n':
			if i+1 < len(formula) && isWordByte(formula[i+1]) {
				return false
			}
			i++
		case c >= '0' && c <= '9':
			for i < len(formula) && formula[i] >= '0' && formula[i] <= '9' {
				i++
			}
		case c == '(':
			depth++
			i++
		case c == ')':
			depth--
			if depth < 0 {
				return false
			}
			i++
		case c == '?' || c == ':' || c == '%':
			i++
		case c == '<' || c == '>':
			i++
			if i < len(formula) && formula[i] == '=' {
				i++
			}
		case c == '=' || c == '!':
			if i+1 >= len(formula) || formula[i+1] != '=' {
				return false
			}
			i += 2
		case c == '&':
			if i+1 >= len(formula) || formula[i+1] != '&' {
				return false
			}
			i += 2
		case c == '|':
			if i+1 >= len(formula) || formula[i+1] != '|' {
				return false
			}
			i += 2
		default:
			return false
		}
	}
	return depth == 0
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// pluralIIFE renders the replacement expression for a plural marker: an
// arrow-function IIFE that picks the form for the runtime count and
// substitutes the count placeholder.
//
//	((n)=>["1 kohde","%{count} kohdetta".replace("%{count}",n)][+(n != 1)])(cart.length)
//
// Forms without the placeholder are emitted as plain literals so the common
// singular needs no replace call.
func pluralIIFE(forms []string, formula, countExpr string) string {
	var b strings.Builder
	b.WriteString("((n)=>[")
	for i, form := range forms {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(scan.QuoteJS(form))
		if strings.Contains(form, countPlaceholder) {
			b.WriteString(".replace(")
			b.WriteString(scan.QuoteJS(countPlaceholder))
			b.WriteString(",n)")
		}
	}
	b.WriteString("][+(")
	b.WriteString(formula)
	b.WriteString(")])(")
	b.WriteString(countExpr)
	b.WriteByte(')')
	return b.String()
}
