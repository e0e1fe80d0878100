package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// PluralRule describes how a language selects one of its plural forms for a
// count. Formula uses the C-like expression syntax of gettext Plural-Forms
// headers, evaluating to a zero-based form index.
type PluralRule struct {
	NPlurals int
	Formula  string
}

// DefaultPlural is the two-form rule shared by English and most Germanic
// languages.
var DefaultPlural = PluralRule{NPlurals: 2, Formula: "n != 1"}

// ParsePluralForms parses a gettext Plural-Forms header value such as
// "nplurals=2; plural=(n != 1);".
func ParsePluralForms(header string) (PluralRule, error) {
	var rule PluralRule
	var seenN, seenPlural bool
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "nplurals="):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(part, "nplurals=")))
			if err != nil || n < 1 {
				return PluralRule{}, fmt.Errorf("%w: %q", ErrInvalidPluralForms, header)
			}
			rule.NPlurals = n
			seenN = true
		case strings.HasPrefix(part, "plural="):
			rule.Formula = strings.TrimSpace(strings.TrimPrefix(part, "plural="))
			seenPlural = true
		}
	}
	if !seenN || !seenPlural || rule.Formula == "" {
		return PluralRule{}, fmt.Errorf("%w: %q", ErrInvalidPluralForms, header)
	}
	return rule, nil
}

// String renders the rule as a gettext Plural-Forms header value.
func (r PluralRule) String() string {
	formula := r.Formula
	if !strings.HasPrefix(formula, "(") {
		formula = "(" + formula + ")"
	}
	return fmt.Sprintf("nplurals=%d; plural=%s;", r.NPlurals, formula)
}

// Known reports whether the formula belongs to a known formula family and
// can therefore be evaluated.
func (r PluralRule) Known() bool {
	_, ok := formulaFamilies[normalizeFormula(r.Formula)]
	return ok
}

// Evaluate returns the plural form index for a count. Formulas outside the
// known families return ErrUnknownPluralFormula instead of a guess. Indexes
// are clamped to NPlurals-1 so a malformed header cannot select a form the
// catalog does not have.
func (r PluralRule) Evaluate(n int) (int, error) {
	if n < 0 {
		n = -n
	}
	fn, ok := formulaFamilies[normalizeFormula(r.Formula)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPluralFormula, r.Formula)
	}
	form := fn(n)
	if r.NPlurals > 0 && form >= r.NPlurals {
		form = r.NPlurals - 1
	}
	return form, nil
}

// PluralRuleFor returns the default plural rule of a language. Catalog
// formats without a Plural-Forms header rely on these defaults.
func PluralRuleFor(lang language.Tag) PluralRule {
	// Regional variants first, the base language loses the region.
	if lang.String() == "pt-BR" {
		return PluralRule{NPlurals: 2, Formula: "n > 1"}
	}
	base, _ := lang.Base()
	switch base.String() {
	case "ja", "zh", "ko", "vi", "th":
		return PluralRule{NPlurals: 1, Formula: "0"}
	case "fr", "oc":
		return PluralRule{NPlurals: 2, Formula: "n > 1"}
	case "ru", "uk", "be", "sr", "hr", "bs":
		return PluralRule{NPlurals: 3, Formula: formulaSlavic}
	case "pl":
		return PluralRule{NPlurals: 3, Formula: formulaPolish}
	case "cs", "sk":
		return PluralRule{NPlurals: 3, Formula: formulaCzech}
	case "lt":
		return PluralRule{NPlurals: 3, Formula: formulaLithuanian}
	case "lv":
		return PluralRule{NPlurals: 3, Formula: formulaLatvian}
	case "ro":
		return PluralRule{NPlurals: 3, Formula: formulaRomanian}
	case "ga":
		return PluralRule{NPlurals: 3, Formula: "n==1 ? 0 : n==2 ? 1 : 2"}
	case "sl":
		return PluralRule{NPlurals: 4, Formula: formulaSlovenian}
	case "ar":
		return PluralRule{NPlurals: 6, Formula: formulaArabic}
	default:
		return DefaultPlural
	}
}

// Formula spellings as they appear in real PO headers.
const (
	formulaSlavic     = "n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2"
	formulaPolish     = "n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2"
	formulaCzech      = "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2"
	formulaLithuanian = "n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2"
	formulaLatvian    = "n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2"
	formulaRomanian   = "n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2"
	formulaSlovenian  = "n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3"
	formulaArabic     = "n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5"
)

// formulaFamilies maps normalized formulas to their evaluators. Keys cover
// the spellings gettext tools emit for each family.
var formulaFamilies = map[string]func(n int) int{
	"0": func(int) int { return 0 },
	"n!=1": func(n int) int {
		return boolToForm(n != 1)
	},
	"n>1": func(n int) int {
		return boolToForm(n > 1)
	},
	normalizeFormula(formulaSlavic): func(n int) int {
		switch {
		case n%10 == 1 && n%100 != 11:
			return 0
		case n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20):
			return 1
		default:
			return 2
		}
	},
	normalizeFormula(formulaPolish): func(n int) int {
		switch {
		case n == 1:
			return 0
		case n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20):
			return 1
		default:
			return 2
		}
	},
	normalizeFormula(formulaCzech): func(n int) int {
		switch {
		case n == 1:
			return 0
		case n >= 2 && n <= 4:
			return 1
		default:
			return 2
		}
	},
	normalizeFormula("n==1 ? 0 : n>=2 && n<=4 ? 1 : 2"): func(n int) int {
		switch {
		case n == 1:
			return 0
		case n >= 2 && n <= 4:
			return 1
		default:
			return 2
		}
	},
	normalizeFormula(formulaLithuanian): func(n int) int {
		switch {
		case n%10 == 1 && n%100 != 11:
			return 0
		case n%10 >= 2 && (n%100 < 10 || n%100 >= 20):
			return 1
		default:
			return 2
		}
	},
	normalizeFormula(formulaLatvian): func(n int) int {
		switch {
		case n%10 == 1 && n%100 != 11:
			return 0
		case n != 0:
			return 1
		default:
			return 2
		}
	},
	normalizeFormula(formulaRomanian): func(n int) int {
		switch {
		case n == 1:
			return 0
		case n == 0 || (n%100 > 0 && n%100 < 20):
			return 1
		default:
			return 2
		}
	},
	normalizeFormula("n==1 ? 0 : n==2 ? 1 : 2"): func(n int) int {
		switch {
		case n == 1:
			return 0
		case n == 2:
			return 1
		default:
			return 2
		}
	},
	normalizeFormula(formulaSlovenian): func(n int) int {
		switch {
		case n%100 == 1:
			return 0
		case n%100 == 2:
			return 1
		case n%100 == 3 || n%100 == 4:
			return 2
		default:
			return 3
		}
	},
	normalizeFormula(formulaArabic): func(n int) int {
		switch {
		case n == 0:
			return 0
		case n == 1:
			return 1
		case n == 2:
			return 2
		case n%100 >= 3 && n%100 <= 10:
			return 3
		case n%100 >= 11:
			return 4
		default:
			return 5
		}
	},
}

func boolToForm(b bool) int {
	if b {
		return 1
	}
	return 0
}

// normalizeFormula strips whitespace, a trailing semicolon and enclosing
// parentheses so equivalent spellings share a table key.
func normalizeFormula(f string) string {
	var b strings.Builder
	b.Grow(len(f))
	for _, r := range f {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	s := strings.TrimSuffix(b.String(), ";")
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && balancedParens(s[1:len(s)-1]) {
		s = s[1 : len(s)-1]
	}
	return s
}

func balancedParens(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
