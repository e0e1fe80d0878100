package preview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/langpack/pkg/build"
	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/logger"
)

type languageSummary struct {
	Code       string `json:"code"`
	Entries    int    `json:"entries"`
	Translated int    `json:"translated"`
	Artifacts  int    `json:"artifacts"`
}

type languagesResponse struct {
	Source    string            `json:"source"`
	Languages []languageSummary `json:"languages"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	set, man := s.state()

	artifacts := make(map[string]int)
	resp := languagesResponse{Languages: []languageSummary{}}
	if man != nil {
		resp.Source = man.SourceLanguage
		for _, a := range man.Artifacts {
			artifacts[a.Language]++
		}
	}

	seen := make(map[string]struct{})
	for _, lang := range set.Languages() {
		c, _ := set.Get(lang)
		translated := 0
		for _, e := range c.All() {
			if e.Translated() {
				translated++
			}
		}
		resp.Languages = append(resp.Languages, languageSummary{
			Code:       lang,
			Entries:    c.Len(),
			Translated: translated,
			Artifacts:  artifacts[lang],
		})
		seen[lang] = struct{}{}
	}
	if man != nil {
		// The source language usually has no catalog but does have artifacts.
		for _, lang := range man.Languages {
			if _, ok := seen[lang]; ok {
				continue
			}
			resp.Languages = append(resp.Languages, languageSummary{
				Code:      lang,
				Artifacts: artifacts[lang],
			})
		}
	}
	sort.Slice(resp.Languages, func(i, j int) bool {
		return resp.Languages[i].Code < resp.Languages[j].Code
	})

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	set, _ := s.state()

	c := resolveCatalog(set, lang)
	if c == nil {
		writeError(w, http.StatusNotFound, "language not available: "+lang)
		return
	}

	var data []byte
	var err error
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		data, err = catalog.ExportJSON(c)
	case "jed":
		data, err = catalog.ExportJed(c, "messages")
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
		return
	}
	if err != nil {
		s.log.Error("catalog export failed", logger.Language(lang), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sub := s.hub.subscribe(r.Context())

	fmt.Fprint(w, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-sub.events():
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+s.defaultLanguage()+"/", http.StatusFound)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	rel := chi.URLParam(r, "*")
	if rel == "" {
		rel = "index.html"
	}

	set, man := s.state()
	if !knownLanguage(set, man, lang) {
		http.NotFound(w, r)
		return
	}

	for _, candidate := range candidates(man, lang, rel) {
		target, err := s.confine(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(target)
		if err != nil || info.IsDir() {
			continue
		}
		http.ServeFile(w, r, target)
		return
	}
	http.NotFound(w, r)
}

// candidates lists output paths a request may resolve to, most specific
// first: the manifest artifact built from the named entry for this language,
// a literal per-language directory, then a shared file.
func candidates(man *build.Manifest, lang, rel string) []string {
	out := make([]string, 0, 3)
	if man != nil {
		for _, a := range man.Artifacts {
			if a.Language == lang && filepath.ToSlash(a.Entry) == rel {
				out = append(out, filepath.ToSlash(a.Path))
				break
			}
		}
	}
	return append(out, lang+"/"+rel, rel)
}

func knownLanguage(set *catalog.Set, man *build.Manifest, lang string) bool {
	if lang == "" || strings.ContainsAny(lang, "./\\") {
		return false
	}
	if _, ok := set.Get(lang); ok {
		return true
	}
	return man != nil && slices.Contains(man.Languages, lang)
}

// confine resolves a served path inside the output directory, refusing
// anything that escapes it.
func (s *Server) confine(rel string) (string, error) {
	target := filepath.Join(s.cfg.Dir, filepath.FromSlash(rel))
	resolved, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	if resolved != s.cfg.Dir && !strings.HasPrefix(resolved, s.cfg.Dir+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes output directory: %s", rel)
	}
	return resolved, nil
}

// resolveCatalog finds a catalog by exact language, canonical tag, then the
// tag's base, mirroring how the runtime translator matches.
func resolveCatalog(set *catalog.Set, lang string) *catalog.Catalog {
	if c, ok := set.Get(lang); ok {
		return c
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil
	}
	if c, ok := set.Get(tag.String()); ok {
		return c
	}
	if base, conf := tag.Base(); conf != language.No {
		if c, ok := set.Get(base.String()); ok {
			return c
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
