package lint

import "sort"

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule names, stable across releases so findings can be filtered in CI.
const (
	RuleMissingTranslation = "missing-translation"
	RuleUnusedEntry        = "unused-entry"
	RuleDynamicKey         = "dynamic-key"
	RuleEmptyTranslation   = "empty-translation"
	RuleFuzzyEntry         = "fuzzy-entry"
	RuleDuplicateKey       = "duplicate-key"
	RulePluralArity        = "plural-arity"
	RuleStrayLiteral       = "stray-literal"
	RuleInvalidCatalog     = "invalid-catalog"
)

// Finding is one diagnostic produced by a rule.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Col      int      `json:"col,omitempty"`
	Language string   `json:"language,omitempty"`
	Key      string   `json:"key,omitempty"`
}

// Report collects the findings of a run.
type Report struct {
	Findings []Finding `json:"findings"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
	Infos    int       `json:"infos"`
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
	switch f.Severity {
	case SeverityError:
		r.Errors++
	case SeverityWarning:
		r.Warnings++
	default:
		r.Infos++
	}
}

// HasErrors reports whether any finding is an error. The check command exits
// non-zero on it.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// sort orders findings by position, then rule, language and key, so output
// stays stable across runs and map iteration.
func (r *Report) sort() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		return a.Key < b.Key
	})
}
