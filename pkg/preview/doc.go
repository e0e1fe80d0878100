// Package preview serves built language bundles over HTTP for local
// inspection, with live reload when the output changes.
//
// The server exposes the output directory of a build under per-language
// URL prefixes, a small JSON API describing the loaded catalogs, and a
// server-sent events endpoint that notifies connected pages whenever a
// new build lands.
//
// # Routes
//
//   - GET /                      redirects to the default language
//   - GET /{lang}/...            serves built files for that language
//   - GET /api/languages         lists languages with translation counts
//   - GET /api/catalog/{lang}    dumps a catalog as JSON (?format=jed for Jed)
//   - GET /events                SSE stream of reload events
//   - GET /healthz               liveness probe
//
// File resolution consults the build manifest first, so requesting an
// entry path such as /fi/src/app.js serves the artifact it produced
// even when the output name carries a language suffix or content hash.
// Paths that escape the output directory resolve to 404.
//
// # Usage
//
//	srv, err := preview.New(preview.Config{
//		Addr: ":8080",
//		Dir:  "dist",
//	}, preview.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	// After each rebuild, push the fresh state to connected clients.
//	srv.Update(set, manifest)
//
//	if err := srv.Run(ctx); err != nil {
//		return err
//	}
//
// Run blocks until the context is canceled and then shuts down
// gracefully, closing all event streams.
package preview
