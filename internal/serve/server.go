package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mysite/internal/app"
	domainbuild "mysite/internal/domain/build"
	"mysite/internal/domain/config"
	"mysite/internal/index"
	"mysite/internal/ingest"
	"mysite/internal/render"
	"mysite/internal/resolve"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// hintTTL bounds how long a service card selection stays usable.
const hintTTL = 10 * time.Minute

type Options struct {
	// Source overrides the content source named in the config.
	Source ingest.Source
	Logger *slog.Logger
}

type Server struct {
	cfg config.Config
	log *slog.Logger

	source   ingest.Source
	idx      *index.Store
	resolver *resolve.Resolver
	md       *render.MarkdownRenderer
	pages    *app.Pages
	static   fs.FS

	mu        sync.RWMutex
	fp        domainbuild.Fingerprint
	configSum string

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, opts Options) (*Server, error) {
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	lg = lg.With("component", "serve")

	theme, err := render.ThemeFS(cfg.Build.ThemeDir, cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("serve: load theme: %w", err)
	}
	if err := render.CheckThemeTemplates(theme); err != nil {
		return nil, fmt.Errorf("serve: theme %s: %w", cfg.Site.Theme, err)
	}
	tpl, err := render.NewTemplateRenderer(theme, render.TemplateOptions{SelectFeatures: cfg.Resolve.UseHints})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	static, err := fs.Sub(theme, "static")
	if err != nil {
		return nil, fmt.Errorf("serve: theme static: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: cfg.Serve.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	src := opts.Source
	if src == nil {
		src = ingest.FromConfig(cfg.Content)
	}
	res := resolve.New(st, resolve.Options{
		UseHints: cfg.Resolve.UseHints,
		TieBreak: cfg.Resolve.TieBreak,
		Logger:   lg,
	})
	md := render.NewMarkdownRenderer()

	sum, err := json.Marshal(struct {
		Site    config.SiteConfig
		Resolve config.ResolveConfig
	}{cfg.Site, cfg.Resolve})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &Server{
		cfg:      cfg,
		log:      lg,
		source:   src,
		idx:      st,
		resolver: res,
		md:       md,
		static:   static,
		pages: &app.Pages{
			Site:      cfg.Site,
			Store:     st,
			Resolver:  res,
			Markdown:  md,
			Templates: tpl,
		},
		configSum: domainbuild.HashBytes(sum),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

// Handler returns the site router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/healthz", s.handleHealth)
	r.Post("/admin/preview", s.handlePreview)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))

	r.Get("/", s.handleHome)
	r.Get("/blog", s.handleBlogList)
	r.Get("/blog/{slug}", s.handleBlog)
	r.Get("/projects", s.handleProjects)
	r.Get("/project/{slug}", s.handleProject)
	r.Get("/services", s.handleServices)
	r.Get("/services/{service}/features/{feature}", s.handleSelectFeature)
	r.Get("/glossary", s.handleGlossary)
	r.Get("/{slug}", s.handleSlug)

	r.NotFound(s.handleNotFound)
	return r
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		return err
	}

	if dir, ok := s.source.(ingest.Dir); ok && s.cfg.Serve.Watch {
		if err := s.startWatch(ctx, string(dir)); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", "addr", s.cfg.Serve.Addr, "source", s.source.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests writes one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
