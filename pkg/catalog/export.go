package catalog

import (
	"encoding/json"
	"fmt"
)

// ExportJSON renders the catalog as the flat key-to-translation document the
// build pipeline consumes. Entries with plural forms export as arrays, all
// other entries as strings, untranslated ones as empty strings. Keys are
// sorted, so exporting the same catalog twice yields identical bytes.
func ExportJSON(c *Catalog) ([]byte, error) {
	out := make(map[string]any, c.Len())
	for _, e := range c.All() {
		if len(e.Plurals) > 0 {
			out[e.ID()] = e.Plurals
			continue
		}
		out[e.ID()] = e.Translation
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportJed renders the catalog as a Jed 1.x locale_data document for
// JavaScript runtimes. Untranslated entries are omitted so the runtime falls
// back to the key itself.
func ExportJed(c *Catalog, domain string) ([]byte, error) {
	if domain == "" {
		domain = "messages"
	}
	data := make(map[string]any, c.Len()+1)
	data[""] = map[string]string{
		"domain":       domain,
		"lang":         c.Lang(),
		"plural_forms": c.Plural.String(),
	}
	for _, e := range c.All() {
		if !e.Translated() {
			continue
		}
		forms := e.Plurals
		if len(forms) == 0 {
			forms = []string{e.Translation}
		}
		data[e.ID()] = forms
	}
	doc := map[string]any{
		"domain":      domain,
		"locale_data": map[string]any{domain: data},
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export catalog: %w", err)
	}
	return append(out, '\n'), nil
}

// FlatMap returns the singular translations keyed by lookup identifier,
// skipping untranslated entries.
func FlatMap(c *Catalog) map[string]string {
	out := make(map[string]string, c.Len())
	for _, e := range c.All() {
		if e.Translation == "" {
			continue
		}
		out[e.ID()] = e.Translation
	}
	return out
}
