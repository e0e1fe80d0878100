package i18n

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"sync"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/logger"
)

// Translator answers runtime lookups over a catalog set, keyed by source
// strings the way the static build is. Lookups are safe for concurrent use;
// Reload swaps the set wholesale, which the preview server does after every
// rebuild.
type Translator struct {
	set              *catalog.Set
	defaultLang      string
	fallbackToSource bool
	missingLogMode   bool
	logger           *slog.Logger
	mu               sync.RWMutex
}

// New creates a Translator over a loaded catalog set.
func New(ctx context.Context, set *catalog.Set, options ...Option) (*Translator, error) {
	if set == nil {
		return nil, ErrNilSet
	}

	t := &Translator{
		set:              set,
		defaultLang:      DefaultLanguage,
		fallbackToSource: true,
		logger:           logger.Discard(),
	}
	for _, option := range options {
		option(t)
	}

	t.logger.InfoContext(ctx, "translations loaded", slog.Any("languages", set.Languages()))
	return t, nil
}

// Reload swaps the catalog set under running lookups.
func (t *Translator) Reload(set *catalog.Set) {
	if set == nil {
		return
	}
	t.mu.Lock()
	t.set = set
	t.mu.Unlock()
}

// SupportedLanguages returns the sorted language tags with catalogs loaded.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.set.Languages()
}

// HasTranslation reports whether msg has a usable translation in lang.
func (t *Translator) HasTranslation(lang, msg string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := t.resolve(lang)
	if c == nil {
		return false
	}
	_, ok := c.Translate(msg)
	return ok
}

// resolve finds the catalog for a language: the tag as given, its canonical
// form, then the base language, so pt-br and pt_BR reach a pt-BR catalog and
// en-US reaches an en catalog.
func (t *Translator) resolve(lang string) *catalog.Catalog {
	if c, ok := t.set.Get(lang); ok {
		return c
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil
	}
	if c, ok := t.set.Get(tag.String()); ok {
		return c
	}
	base, conf := tag.Base()
	if conf == language.No {
		return nil
	}
	if c, ok := t.set.Get(base.String()); ok {
		return c
	}
	return nil
}

// T translates a source string for the given language. Formatting arguments
// come as key-value pairs substituted into %{key} placeholders.
//
// Untranslated messages render the source string itself, placeholders
// included, unless fallback to source is disabled.
//
// Example:
//
//	// With translation "Hello, %{name}!": "Hei, %{name}!"
//	msg := translator.T("fi", "Hello, %{name}!", "name", "Maija")
//	// Returns: "Hei, Maija!"
func (t *Translator) T(lang, msg string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := t.resolve(lang)
	if c == nil {
		if t.missingLogMode {
			t.logger.Warn("language not supported", logger.Language(lang), logger.Key(msg))
		}
		return t.fallback(msg, args)
	}
	text, ok := c.Translate(msg)
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("translation not found", logger.Language(lang), logger.Key(msg))
		}
		return t.fallback(msg, args)
	}
	return t.sprintf(text, args)
}

// N translates a pluralized source string, selecting the form with the
// catalog language's plural rule. The count parameter is supplied to
// %{count} automatically when the caller does not pass one.
//
// Example:
//
//	// With Russian plural forms loaded:
//	msg := translator.N("ru", "One item", "%{count} items", 3)
//	// Returns: "3 товара"
func (t *Translator) N(lang, singular, plural string, n int, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	args = withCount(args, n)
	c := t.resolve(lang)
	if c == nil {
		if t.missingLogMode {
			t.logger.Warn("language not supported", logger.Language(lang), logger.Key(singular))
		}
		return t.fallbackPlural(singular, plural, n, args)
	}
	text, ok := c.TranslateN(singular, n)
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("plural translation not found", logger.Language(lang), logger.Key(singular))
		}
		return t.fallbackPlural(singular, plural, n, args)
	}
	return t.sprintf(text, args)
}

// Td translates with an explicit default rendered when the message is
// missing, instead of the source string.
func (t *Translator) Td(lang, msg, def string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if c := t.resolve(lang); c != nil {
		if text, ok := c.Translate(msg); ok {
			return t.sprintf(text, args)
		}
	}
	return t.sprintf(def, args)
}

// Tc translates using the language the middleware stored in the context.
func (t *Translator) Tc(ctx context.Context, msg string, args ...string) string {
	return t.T(t.localeFrom(ctx), msg, args...)
}

// Nc translates a plural using the language stored in the context.
func (t *Translator) Nc(ctx context.Context, singular, plural string, n int, args ...string) string {
	return t.N(t.localeFrom(ctx), singular, plural, n, args...)
}

// localeFrom prefers the configured default language over the package one
// when the context carries no locale.
func (t *Translator) localeFrom(ctx context.Context) string {
	if locale, _ := ctx.Value(localeContextKey{}).(string); locale != "" {
		return locale
	}
	return t.defaultLang
}

// fallback renders the source string itself, the gettext behavior for
// untranslated messages.
func (t *Translator) fallback(msg string, args []string) string {
	if !t.fallbackToSource {
		return ""
	}
	return t.sprintf(msg, args)
}

// fallbackPlural selects between the two source forms with the germanic
// rule, which is what the source language of the markers uses.
func (t *Translator) fallbackPlural(singular, plural string, n int, args []string) string {
	if !t.fallbackToSource {
		return ""
	}
	if n == 1 {
		return t.sprintf(singular, args)
	}
	return t.sprintf(plural, args)
}

// withCount appends the count parameter unless the caller already set one.
func withCount(args []string, n int) []string {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "count" {
			return args
		}
	}
	out := make([]string, len(args), len(args)+2)
	copy(out, args)
	return append(out, "count", strconv.Itoa(n))
}

// paramRegex finds named parameters in the form %{name}.
var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// buildParams converts a slice of strings (key, value, key, value, …) into a
// map. An odd trailing argument is ignored.
func (t *Translator) buildParams(args []string) map[string]string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return params
}

func (t *Translator) sprintf(tmpl string, args []string) string {
	if len(args) == 0 {
		return tmpl
	}
	return t.namedSprintf(tmpl, t.buildParams(args))
}

// namedSprintf substitutes %{key} placeholders, keeping unknown placeholders
// verbatim so partial argument lists stay visible.
func (t *Translator) namedSprintf(tmpl string, params map[string]string) string {
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := params[name]; ok {
			return val
		}
		return match
	})
}
