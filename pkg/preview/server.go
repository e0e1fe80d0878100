package preview

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/langpack/pkg/build"
	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/httpserver"
	"github.com/dmitrymomot/langpack/pkg/i18n"
	"github.com/dmitrymomot/langpack/pkg/logger"
)

// Config configures the preview server.
type Config struct {
	// Addr the server listens on. Defaults to ":8080".
	Addr string
	// Dir is the build output directory files are served from.
	Dir string
	// Language served at the root path. Defaults to the manifest's source
	// language.
	Language string
}

// Server is the development preview server. It serves built outputs per
// language, exposes the catalogs over a small JSON API and notifies
// connected browsers over SSE when a rebuild completes.
type Server struct {
	cfg Config
	log *slog.Logger
	hub *hub

	mu       sync.RWMutex
	set      *catalog.Set
	manifest *build.Manifest
}

// Option configures the Server.
type Option func(*Server)

// WithLogger supplies a logger. Nil is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a preview server over a build output directory.
func New(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Dir == "" {
		return nil, ErrNoOutputDir
	}
	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, err
	}
	cfg.Dir = abs
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	s := &Server{
		cfg: cfg,
		log: logger.Discard(),
		hub: newHub(),
		set: catalog.NewSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Update swaps the served catalog set and manifest and notifies connected
// clients. Nil arguments keep the current value.
func (s *Server) Update(set *catalog.Set, m *build.Manifest) {
	s.mu.Lock()
	if set != nil {
		s.set = set
	}
	if m != nil {
		s.manifest = m
	}
	man := s.manifest
	s.mu.Unlock()

	ev := ReloadEvent{}
	if man != nil {
		ev.BuildID = man.ID
		ev.Languages = len(man.Languages)
		ev.Artifacts = len(man.Artifacts)
	}
	s.hub.broadcast(ev)
	s.log.Debug("preview state updated",
		slog.String("build_id", ev.BuildID),
		slog.Int("languages", ev.Languages),
		slog.Int("artifacts", ev.Artifacts))
}

// Handler returns the preview router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", httpserver.HealthCheckHandler(context.Background(), s.log))
	r.Get("/api/languages", s.handleLanguages)
	r.Get("/api/catalog/{lang}", s.handleCatalog)
	r.Get("/events", s.handleEvents)
	r.Get("/", s.handleRoot)
	r.Get("/{lang}/*", s.handleStatic)
	return r
}

// Run serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := httpserver.New(
		httpserver.WithAddr(s.cfg.Addr),
		httpserver.WithLogger(s.log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("preview server listening", slog.String("addr", s.cfg.Addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("preview server stopped")
		}),
	)
	// End the event streams as soon as the context is canceled. Open SSE
	// connections would otherwise hold graceful shutdown until its timeout.
	stopClose := context.AfterFunc(ctx, s.hub.closeAll)
	defer stopClose()
	defer s.hub.closeAll()
	return srv.Run(ctx, s.Handler())
}

func (s *Server) state() (*catalog.Set, *build.Manifest) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set, s.manifest
}

// defaultLanguage is what the root path serves: the configured language,
// else the manifest's source language, else "en".
func (s *Server) defaultLanguage() string {
	if s.cfg.Language != "" {
		return s.cfg.Language
	}
	_, man := s.state()
	if man != nil && man.SourceLanguage != "" {
		return man.SourceLanguage
	}
	return i18n.DefaultLanguage
}
