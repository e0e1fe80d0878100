// Package i18n provides runtime translation lookups over the same catalogs
// the static build consumes. Messages are keyed by their source-language
// text, so untranslated strings degrade to readable output instead of raw
// keys, and the translator stays thread-safe for concurrent use in
// production servers.
//
// The package allows you to:
//
//   - Translate strings with variable substitution using named placeholders
//     (`%{key}`) and count-aware plural selection driven by each language's
//     plural rule.
//   - Detect the preferred user language via HTTP request inspection with
//     pluggable language extractors and helpers for parsing the
//     Accept-Language header.
//   - Expose JSON and Jed dumps of a language's catalog for client-side
//     consumption.
//   - Integrate with the standard `net/http` stack through middleware that
//     stores the negotiated language in the request context.
//
// # Usage
//
// Basic set-up over a loaded catalog set:
//
//	set, err := catalog.LoadSet([]string{"languages/*.json"})
//	if err != nil {
//		log.Fatalf("failed to load catalogs: %v", err)
//	}
//
//	translator, err := i18n.New(context.Background(), set,
//		i18n.WithDefaultLanguage("en"),
//	)
//	if err != nil {
//		log.Fatalf("failed to init translator: %v", err)
//	}
//
//	msg := translator.T("fi", "Welcome, %{name}!", "name", "Maija")
//	// msg == "Tervetuloa, Maija!"
//
// Plural forms pick the right variant for the target language, including
// languages with more than two forms:
//
//	msg := translator.N("ru", "One item", "%{count} items", 3)
//	// msg == "3 товара"
//
// # HTTP Middleware
//
// The middleware negotiates the request language (cookie, query parameter,
// then Accept-Language by default) and stores it in the request context:
//
//	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//		greeting := translator.Tc(r.Context(), "Hello world")
//		fmt.Fprintln(w, greeting)
//	})
//
//	extractor := i18n.DefaultLangExtractor(
//		i18n.WithSupportedLanguages(translator.SupportedLanguages()...),
//	)
//	http.Handle("/", i18n.Middleware(extractor)(handler))
package i18n
