package i18n

import (
	"net/http"
)

// Middleware returns an HTTP middleware that determines the client's
// preferred language and stores it in the request context.
//
// The language is resolved by the given extractor; a nil extractor falls
// back to DefaultLangExtractor. When the extractor finds nothing, the
// request proceeds with DefaultLanguage. Handlers read the result through
// GetLocale, or implicitly via Translator.Tc and Translator.Nc.
func Middleware(extr LangExtractor) func(http.Handler) http.Handler {
	if extr == nil {
		extr = DefaultLangExtractor()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := extr(r)
			if lang == "" {
				lang = DefaultLanguage
			}

			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
