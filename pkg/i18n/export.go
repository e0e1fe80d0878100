package i18n

import (
	"errors"

	"github.com/dmitrymomot/langpack/pkg/catalog"
)

// ExportJSON serializes one language's catalog as a flat source-to-target
// JSON object for client-side consumption.
func (t *Translator) ExportJSON(lang string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := t.resolve(lang)
	if c == nil {
		return "", &ErrLanguageNotSupported{Lang: lang}
	}
	data, err := catalog.ExportJSON(c)
	if err != nil {
		return "", errors.Join(ErrFailedToMarshalJSON, err)
	}
	return string(data), nil
}

// ExportJed serializes one language's catalog in the Jed format understood
// by client-side gettext runtimes.
func (t *Translator) ExportJed(lang, domain string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := t.resolve(lang)
	if c == nil {
		return "", &ErrLanguageNotSupported{Lang: lang}
	}
	data, err := catalog.ExportJed(c, domain)
	if err != nil {
		return "", errors.Join(ErrFailedToMarshalJSON, err)
	}
	return string(data), nil
}
