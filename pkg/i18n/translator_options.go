package i18n

import (
	"log/slog"

	"github.com/dmitrymomot/langpack/pkg/logger"
)

// Option configures the translator during construction.
type Option func(*Translator)

// WithDefaultLanguage sets the language used when the context carries none.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// WithFallbackToSource controls whether untranslated messages render the
// source string (default) or an empty string.
func WithFallbackToSource(enabled bool) Option {
	return func(t *Translator) {
		t.fallbackToSource = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(t *Translator) {
		if log != nil {
			t.logger = log
		}
	}
}

// WithMissingTranslationsLogging enables warnings for missing translations.
func WithMissingTranslationsLogging() Option {
	return func(t *Translator) {
		t.missingLogMode = true
	}
}

// WithNoLogging disables all logging.
func WithNoLogging() Option {
	return func(t *Translator) {
		t.logger = logger.Discard()
		t.missingLogMode = false
	}
}
