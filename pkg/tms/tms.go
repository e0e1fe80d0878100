// Package tms pulls catalog files from a Weblate-compatible translation
// platform. The client lists the per-language translation files of a project
// and downloads each into the local catalog directory, unpacking zip
// payloads flat.
package tms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// defaultTimeout bounds every request when the config does not set one.
const defaultTimeout = 30 * time.Second

// maxPages caps pagination so a broken next pointer cannot loop forever.
const maxPages = 100

// maxErrBody limits how much of an error response body lands in the error
// message.
const maxErrBody = 200

var (
	// ErrMissingBaseURL is returned by New when the platform URL is not set.
	ErrMissingBaseURL = errors.New("platform base URL is required")

	// ErrMissingProject is returned by New when the project slug is not set.
	ErrMissingProject = errors.New("project slug is required")

	// ErrMissingToken is returned by New when the API token is not set.
	ErrMissingToken = errors.New("API token is required")

	// ErrRequestFailed wraps non-2xx platform responses.
	ErrRequestFailed = errors.New("platform request failed")
)

// Config holds the connection settings of the translation platform.
type Config struct {
	// BaseURL is the platform root, e.g. "https://hosted.weblate.org".
	BaseURL string
	// Project is the project slug on the platform.
	Project string
	// Token authenticates requests, sent as "Authorization: Token …".
	Token string
	// Timeout bounds each request. Zero means defaultTimeout.
	Timeout time.Duration
}

// Translation is one downloadable per-language file of the project.
type Translation struct {
	LanguageCode string `json:"language_code"`
	FileURL      string `json:"file_url"`
}

// page mirrors the paginated list responses of the platform API.
type page struct {
	Next    string        `json:"next"`
	Results []Translation `json:"results"`
}

// Client talks to one project on the platform.
type Client struct {
	http    *resty.Client
	project string
}

// New validates the config and returns a client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.Project == "" {
		return nil, ErrMissingProject
	}
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Authorization", "Token "+cfg.Token).
		SetHeader("Accept", "application/json")

	return &Client{http: client, project: cfg.Project}, nil
}

// List returns every translation file of the project, following pagination.
func (c *Client) List(ctx context.Context) ([]Translation, error) {
	next := fmt.Sprintf("/api/projects/%s/translations/", url.PathEscape(c.project))

	var out []Translation
	for range maxPages {
		var p page
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&p).
			Get(next)
		if err != nil {
			return nil, fmt.Errorf("list translations: %w", err)
		}
		if resp.IsError() {
			return nil, apiError("list translations", resp)
		}

		out = append(out, p.Results...)
		if p.Next == "" {
			return out, nil
		}
		next = p.Next
	}
	return nil, fmt.Errorf("%w: pagination did not terminate after %d pages", ErrRequestFailed, maxPages)
}

// Pull downloads every translation file into dir, named
// <language_code><ext>. Zip payloads are unpacked flat and the archive
// removed. It returns the paths of the written catalog files.
func (c *Client) Pull(ctx context.Context, dir string) ([]string, error) {
	translations, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	var saved []string
	for _, tr := range translations {
		if tr.LanguageCode == "" || tr.FileURL == "" {
			continue
		}
		if strings.ContainsAny(tr.LanguageCode, `/\`) || strings.Contains(tr.LanguageCode, "..") {
			return saved, fmt.Errorf("unsafe language code %q in platform response", tr.LanguageCode)
		}
		files, err := c.download(ctx, tr, dir)
		if err != nil {
			return saved, err
		}
		saved = append(saved, files...)
	}
	return saved, nil
}

func (c *Client) download(ctx context.Context, tr Translation, dir string) ([]string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(tr.FileURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", tr.LanguageCode, err)
	}
	if resp.IsError() {
		return nil, apiError("download "+tr.LanguageCode, resp)
	}

	ext := extensionFor(tr.FileURL, resp.Header().Get("Content-Type"))
	if ext == ".zip" {
		return c.unpack(resp.Body(), dir)
	}

	target := filepath.Join(dir, tr.LanguageCode+ext)
	if err := os.WriteFile(target, resp.Body(), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", target, err)
	}
	return []string{target}, nil
}

// unpack writes the archive next to the catalogs, extracts it flat, and
// removes it.
func (c *Client) unpack(data []byte, dir string) ([]string, error) {
	archive, err := os.CreateTemp(dir, "tms-*.zip")
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	defer os.Remove(archive.Name())

	if _, err := archive.Write(data); err != nil {
		archive.Close()
		return nil, fmt.Errorf("write archive: %w", err)
	}
	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("write archive: %w", err)
	}

	return unzipFlat(archive.Name(), dir)
}

// apiError renders a non-2xx response as an error carrying the status and a
// body snippet.
func apiError(op string, resp *resty.Response) error {
	snippet := strings.TrimSpace(resp.String())
	if len(snippet) > maxErrBody {
		snippet = snippet[:maxErrBody] + "..."
	}
	if snippet == "" {
		return fmt.Errorf("%w: %s: %s", ErrRequestFailed, op, resp.Status())
	}
	return fmt.Errorf("%w: %s: %s: %s", ErrRequestFailed, op, resp.Status(), snippet)
}

// extensionFor derives the catalog file extension from the download URL,
// falling back to the response content type.
func extensionFor(fileURL, contentType string) string {
	if u, err := url.Parse(fileURL); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); ext != "" {
			return ext
		}
	}

	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/zip", "application/x-zip-compressed":
		return ".zip"
	case "text/x-po", "text/x-gettext-translation", "application/x-gettext":
		return ".po"
	case "application/x-yaml", "text/yaml", "application/yaml":
		return ".yaml"
	case "text/csv":
		return ".csv"
	}
	return ".json"
}
