package mt

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrymomot/langpack/pkg/catalog"
)

// Request is one batch of source strings to translate.
type Request struct {
	// SourceLanguage is the language the keys are written in.
	SourceLanguage string
	// TargetLanguage is the language to translate into.
	TargetLanguage string
	// Keys are the source strings missing a translation.
	Keys []string
}

// codeFence matches a fenced code block so responses wrapped in markdown
// still parse.
var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// placeholderPattern matches the %{name} parameter tokens that must survive
// translation untouched.
var placeholderPattern = regexp.MustCompile(`%\{[^}]+\}`)

// Translate sends the request through the provider and returns the accepted
// translations keyed by source string. Keys the model did not answer, keys
// it invented, empty translations, and translations that lost a placeholder
// are all absent from the result.
func Translate(ctx context.Context, provider Provider, req Request) (map[string]string, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if len(req.Keys) == 0 {
		return map[string]string{}, nil
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	var response strings.Builder
	err = provider.StreamCompletion(ctx, prompt, func(chunk string) error {
		response.WriteString(chunk)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("stream completion: %w", err)
	}

	return parseTranslations(response.String(), req.Keys)
}

// buildPrompt carries the source strings as a JSON array so quoting inside
// messages cannot confuse the model.
func buildPrompt(req Request) (string, error) {
	keys, err := json.MarshalIndent(req.Keys, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode source strings: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional software localizer. Translate the following user interface strings from %s to %s.\n\n",
		req.SourceLanguage, req.TargetLanguage)
	b.WriteString("Rules:\n")
	b.WriteString("- Return a single JSON object mapping every source string to its translation.\n")
	b.WriteString("- Keep placeholder tokens like %{name} exactly as they appear, untranslated.\n")
	b.WriteString("- Do not add keys that are not in the input.\n")
	b.WriteString("- Return only the JSON object, no explanations and no markdown.\n\n")
	b.WriteString("Source strings:\n")
	b.Write(keys)
	b.WriteString("\n")
	return b.String(), nil
}

// parseTranslations extracts the JSON object from the response, tolerating
// code fences and surrounding prose, and filters it against the asked keys.
func parseTranslations(content string, keys []string) (map[string]string, error) {
	content = strings.TrimSpace(content)

	if m := codeFence.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		content = content[start : end+1]
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrBadResponse, err, truncate(content, 300))
	}

	asked := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		asked[k] = struct{}{}
	}

	out := make(map[string]string, len(raw))
	for key, text := range raw {
		if _, ok := asked[key]; !ok {
			continue
		}
		if text == "" || !placeholdersSurvive(key, text) {
			continue
		}
		out[key] = text
	}
	return out, nil
}

// placeholdersSurvive reports whether every %{name} token of the source
// string appears verbatim in the translation.
func placeholdersSurvive(source, translated string) bool {
	for _, ph := range placeholderPattern.FindAllString(source, -1) {
		if !strings.Contains(translated, ph) {
			return false
		}
	}
	return true
}

// Apply merges translations into the catalog without overwriting existing
// non-empty entries. It returns how many entries were filled.
func Apply(c *catalog.Catalog, translations map[string]string) int {
	applied := 0
	for key, text := range translations {
		e, ok := c.Get(key)
		if ok && e.Translated() {
			continue
		}
		if !ok {
			e = catalog.Entry{Key: key}
		}
		e.Translation = text
		c.Set(e)
		applied++
	}
	return applied
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
