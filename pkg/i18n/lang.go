package i18n

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// DefaultLanguage is the language code used when no language is detected.
const DefaultLanguage = "en"

// maxAcceptLanguageLength caps the Accept-Language header size before
// parsing. RFC 7231 sets no limit; 4KB covers any legitimate header.
const maxAcceptLanguageLength = 4096

// langWithQ is a language tag paired with its quality value.
type langWithQ struct {
	lang string
	q    float64
}

// parseAcceptLanguageHeader parses an Accept-Language header per RFC 7231,
// returning tags ordered by quality value. Malformed quality values fall
// back to 1.0 and oversized headers are truncated.
func parseAcceptLanguageHeader(header string) []langWithQ {
	if header == "" {
		return nil
	}

	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	var languages []langWithQ

	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		langAndQ := strings.Split(part, ";")
		lang := strings.ToLower(strings.TrimSpace(langAndQ[0]))
		q := 1.0

		if len(langAndQ) > 1 {
			qPart := strings.TrimSpace(langAndQ[1])
			if after, ok := strings.CutPrefix(qPart, "q="); ok {
				if qVal, err := strconv.ParseFloat(after, 64); err == nil && qVal >= 0 && qVal <= 1 {
					q = qVal
				}
			}
		}

		if lang != "" {
			languages = append(languages, langWithQ{lang: lang, q: q})
		}
	}

	slices.SortFunc(languages, func(a, b langWithQ) int {
		return cmp.Compare(b.q, a.q)
	})

	return languages
}

// ParseAcceptLanguage negotiates the best supported language for an
// Accept-Language header. Exact tag matches win first (en-US matches
// en-US), then base language matches (en-US matches en); within each phase
// the header's quality ordering decides. Returns defaultLang when nothing
// matches.
func ParseAcceptLanguage(header string, supportedLangs []string, defaultLang string) string {
	if header == "" || len(supportedLangs) == 0 {
		return defaultLang
	}

	normalizedSupported := make([]string, len(supportedLangs))
	for i, lang := range supportedLangs {
		normalizedSupported[i] = strings.ToLower(lang)
	}

	languages := parseAcceptLanguageHeader(header)

	for _, lq := range languages {
		if slices.Contains(normalizedSupported, lq.lang) {
			return lq.lang
		}
	}

	// Base language fallback only after exact matches are exhausted, so
	// quality ordering still holds.
	for _, lq := range languages {
		if idx := strings.Index(lq.lang, "-"); idx > 0 {
			baseLang := lq.lang[:idx]
			if slices.Contains(normalizedSupported, baseLang) {
				return baseLang
			}
		}
	}

	return defaultLang
}
