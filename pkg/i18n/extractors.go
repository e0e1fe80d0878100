package i18n

import (
	"net/http"
	"slices"
	"strings"
)

// maxLangCodeLength caps user-supplied language codes. RFC 5646 recommends
// 35 characters as the longest valid tag.
const maxLangCodeLength = 35

// LangExtractor extracts a language code from an HTTP request. An empty
// return means the extractor found nothing usable.
type LangExtractor func(r *http.Request) string

// langValidator validates and normalizes language codes against a supported
// set.
type langValidator struct {
	supportedLangs []string
}

func newLangValidator(supportedLangs []string) *langValidator {
	normalized := make([]string, len(supportedLangs))
	for i, lang := range supportedLangs {
		normalized[i] = strings.ToLower(lang)
	}
	return &langValidator{supportedLangs: normalized}
}

// validate returns the normalized form of lang, or an empty string when the
// code is oversized or not in the supported set. A regional tag falls back
// to its base language when only that is supported.
func (v *langValidator) validate(lang string) string {
	if lang == "" || len(lang) > maxLangCodeLength {
		return ""
	}

	normalizedLang := strings.ToLower(lang)

	if len(v.supportedLangs) == 0 {
		return normalizedLang
	}

	if slices.Contains(v.supportedLangs, normalizedLang) {
		return normalizedLang
	}
	if idx := strings.Index(normalizedLang, "-"); idx > 0 {
		baseLang := normalizedLang[:idx]
		if slices.Contains(v.supportedLangs, baseLang) {
			return baseLang
		}
	}
	return ""
}

// ExtractorConfig holds configuration for the language extractor.
type ExtractorConfig struct {
	CookieName     string
	QueryParamName string
	SupportedLangs []string
}

// ExtractorOption configures the language extractor.
type ExtractorOption func(*ExtractorConfig)

// WithCookieName sets the cookie name to check for language preference.
func WithCookieName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name == "" {
			return
		}
		c.CookieName = name
	}
}

// WithQueryParamName sets the query parameter name to check for language.
func WithQueryParamName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name == "" {
			return
		}
		c.QueryParamName = name
	}
}

// WithSupportedLanguages sets the list of supported languages for
// validation. Feed it Translator.SupportedLanguages so the extractor only
// returns languages with catalogs loaded.
func WithSupportedLanguages(langs ...string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if len(langs) == 0 {
			return
		}
		c.SupportedLangs = langs
	}
}

// DefaultLangExtractor creates a language extractor that checks multiple
// sources in priority order:
//  1. Cookie (default name: "lang")
//  2. Query parameter (default name: "lang")
//  3. Language header
//  4. Accept-Language header
//
// The extractor returns the first language code that validates against the
// supported set. Accept-Language headers go through ParseAcceptLanguage to
// find the best quality-ordered match.
func DefaultLangExtractor(opts ...ExtractorOption) LangExtractor {
	config := &ExtractorConfig{
		CookieName:     "lang",
		QueryParamName: "lang",
		SupportedLangs: nil,
	}

	for _, opt := range opts {
		opt(config)
	}

	validator := newLangValidator(config.SupportedLangs)

	return func(r *http.Request) string {
		if config.CookieName != "" {
			if cookie, err := r.Cookie(config.CookieName); err == nil && cookie.Value != "" {
				if lang := strings.TrimSpace(cookie.Value); lang != "" {
					if validated := validator.validate(lang); validated != "" {
						return validated
					}
				}
			}
		}

		if lang := strings.TrimSpace(r.URL.Query().Get(config.QueryParamName)); lang != "" {
			if validated := validator.validate(lang); validated != "" {
				return validated
			}
		}

		// Non-standard but occasionally set by SPA clients.
		if lang := strings.TrimSpace(r.Header.Get("Language")); lang != "" {
			if validated := validator.validate(lang); validated != "" {
				return validated
			}
		}

		acceptLang := r.Header.Get("Accept-Language")
		if acceptLang != "" {
			if len(config.SupportedLangs) > 0 {
				return ParseAcceptLanguage(acceptLang, config.SupportedLangs, "")
			}
			if langs := parseAcceptLanguageHeader(acceptLang); len(langs) > 0 {
				return langs[0].lang
			}
		}

		// Empty lets the middleware apply the default.
		return ""
	}
}
