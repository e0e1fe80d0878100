package build

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/logger"
	"github.com/dmitrymomot/langpack/pkg/scan"
)

// renderer produces one language's rendition of scanned sources.
type renderer struct {
	lang     string
	isSource bool
	cat      *catalog.Catalog // nil when the language has no catalog
	nplurals int
	formula  string
	log      *slog.Logger
}

func newRenderer(lang string, isSource bool, cat *catalog.Catalog, log *slog.Logger) *renderer {
	rule := catalog.DefaultPlural
	if cat != nil {
		rule = cat.Plural
	} else if tag, err := language.Parse(lang); err == nil {
		rule = catalog.PluralRuleFor(tag)
	}
	formula := rule.Formula
	nplurals := rule.NPlurals
	if !safeFormula(formula) {
		log.Warn("plural formula cannot be embedded, falling back to germanic rule",
			logger.Language(lang), slog.String("formula", formula))
		formula = fallbackFormula
		nplurals = 2
	}
	if nplurals < 1 {
		nplurals = 1
	}
	return &renderer{
		lang:     lang,
		isSource: isSource,
		cat:      cat,
		nplurals: nplurals,
		formula:  formula,
		log:      log,
	}
}

// render splices the replacement for each marker into src. Markers must be
// ordered by byte position, as the scanner returns them; splicing runs
// back-to-front so earlier offsets stay valid. The returned misses are the
// keys that fell back to the source string.
func (r *renderer) render(src []byte, markers []scan.Marker) ([]byte, []string) {
	out := make([]byte, len(src))
	copy(out, src)
	var misses []string
	limit := len(out)
	for i := len(markers) - 1; i >= 0; i-- {
		m := markers[i]
		if m.Dynamic {
			continue
		}
		start, end := int(m.StartByte), int(m.EndByte)
		if start < 0 || start >= end || end > limit {
			continue
		}
		var repl string
		var missing bool
		if m.Plural {
			repl, missing = r.plural(m)
		} else {
			repl, missing = r.singular(m)
		}
		if missing {
			misses = append(misses, m.Key)
		}
		out = append(out[:start], append([]byte(repl), out[end:]...)...)
		limit = start
	}
	return out, misses
}

// singular renders a marker as a plain string literal. Catalog entries win,
// including source-language catalogs overriding the identity rendition.
func (r *renderer) singular(m scan.Marker) (string, bool) {
	if r.cat != nil {
		if text, ok := r.cat.Translate(m.Key); ok {
			return scan.QuoteJS(text), false
		}
	}
	return scan.QuoteJS(m.Key), !r.isSource
}

// plural renders a marker as a form-selecting IIFE. Entries missing any form
// fall back to the two source strings under the germanic formula, which the
// source language uses as well.
func (r *renderer) plural(m scan.Marker) (string, bool) {
	if r.cat != nil {
		if e, ok := r.cat.Get(m.Key); ok {
			if forms, complete := completeForms(e, r.nplurals); complete {
				return pluralIIFE(forms, r.formula, m.CountExpr), false
			}
		}
	}
	return pluralIIFE([]string{m.Key, m.PluralKey}, fallbackFormula, m.CountExpr), !r.isSource
}

// completeForms returns the first nplurals translated forms of an entry, or
// false when any of them is absent or empty.
func completeForms(e catalog.Entry, nplurals int) ([]string, bool) {
	forms := e.Plurals
	if len(forms) == 0 && e.Translation != "" {
		forms = []string{e.Translation}
	}
	if len(forms) < nplurals {
		return nil, false
	}
	forms = forms[:nplurals]
	for _, f := range forms {
		if f == "" {
			return nil, false
		}
	}
	return forms, true
}
