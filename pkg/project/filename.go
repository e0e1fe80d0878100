package project

import (
	"fmt"
	"regexp"
	"strings"
)

var filenameToken = regexp.MustCompile(`\[([^\[\]]*)\]`)

var knownTokens = map[string]struct{}{
	"name":        {},
	"language":    {},
	"ext":         {},
	"contenthash": {},
}

// ValidateFilename checks that a filename template uses only known tokens
// and keeps outputs distinct per entry and language.
func ValidateFilename(template string) error {
	if template == "" {
		return fmt.Errorf("%w: empty filename template", ErrInvalidConfig)
	}
	seen := map[string]bool{}
	for _, m := range filenameToken.FindAllStringSubmatch(template, -1) {
		token := m[1]
		if _, ok := knownTokens[token]; !ok {
			return fmt.Errorf("%w: unknown filename token [%s]", ErrInvalidConfig, token)
		}
		seen[token] = true
	}
	if !seen["name"] {
		return fmt.Errorf("%w: filename template must contain [name]", ErrInvalidConfig)
	}
	if !seen["language"] {
		return fmt.Errorf("%w: filename template must contain [language]", ErrInvalidConfig)
	}
	return nil
}

// RenderFilename expands a filename template. The default template renders
// entry app.js for language fi as app.fi.js.
func RenderFilename(template, name, language, ext, contenthash string) string {
	return strings.NewReplacer(
		"[name]", name,
		"[language]", language,
		"[ext]", ext,
		"[contenthash]", contenthash,
	).Replace(template)
}
