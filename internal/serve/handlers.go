package serve

import (
	"errors"
	"mysite/internal/app"
	"mysite/internal/domain/content"
	"mysite/internal/domain/site"
	"mysite/internal/hint"
	"mysite/internal/index"
	"mysite/internal/resolve"
	"mysite/internal/slug"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, "home", func() ([]byte, error) { return s.pages.Home(r.Context()) })
}

func (s *Server) handleBlogList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	s.writePage(w, r, "blog list", func() ([]byte, error) {
		return s.pages.BlogList(r.Context(), page, q.Get("tag"), q.Get("category"))
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, "projects", func() ([]byte, error) { return s.pages.Projects(r.Context()) })
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, "services", func() ([]byte, error) { return s.pages.Services(r.Context()) })
}

func (s *Server) handleGlossary(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, "glossary", func() ([]byte, error) { return s.pages.Glossary(r.Context()) })
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	s.serveEntry(w, r, chi.URLParam(r, "slug"), resolve.RouteBlog)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	s.serveEntry(w, r, chi.URLParam(r, "slug"), resolve.RouteProject)
}

func (s *Server) handleSlug(w http.ResponseWriter, r *http.Request) {
	s.serveEntry(w, r, chi.URLParam(r, "slug"), resolve.RouteBare)
}

// serveEntry resolves one slug and renders its detail page. A stored
// selection hint is cleared once the page has rendered.
func (s *Server) serveEntry(w http.ResponseWriter, r *http.Request, raw string, route resolve.Route) {
	ctx := r.Context()

	req := resolve.Request{Slug: raw, Route: route}
	var cookies *hint.Cookies
	if s.cfg.Resolve.UseHints {
		cookies = hint.FromRequest(w, r)
		req.Hint = cookies
	}

	res, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		s.internalError(w, r, "resolve", err)
		return
	}
	if !app.Visible(res) {
		s.handleNotFound(w, r)
		return
	}

	body, err := s.pages.Entry(ctx, res)
	if err != nil {
		s.internalError(w, r, "render "+string(res.Kind), err)
		return
	}
	if cookies != nil {
		cookies.Clear()
	}
	if res.FromHint {
		s.log.InfoContext(ctx, "feature served from selection hint", "slug", raw, "service", res.Service.Slug)
	}
	writeHTML(w, http.StatusOK, body)
}

// handleSelectFeature is where service cards link to. It records the pick as
// a hint and sends the visitor to the feature's own URL.
func (s *Server) handleSelectFeature(w http.ResponseWriter, r *http.Request) {
	svcSlug := chi.URLParam(r, "service")
	want := chi.URLParam(r, "feature")

	svc, err := s.idx.GetService(svcSlug)
	if errors.Is(err, index.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.internalError(w, r, "service lookup", err)
		return
	}

	var picked content.Feature
	for _, f := range svc.Features {
		if slug.Match(f.Title(), want) {
			picked = f
			break
		}
	}
	if picked == nil {
		s.handleNotFound(w, r)
		return
	}

	target := site.FeatureRoute(svc.Slug, picked.Title())
	if s.cfg.Resolve.UseHints {
		hint.Write(w, hint.Selection{
			FeatureTitle: picked.Title(),
			FeatureSlug:  target.Slug,
			ServiceSlug:  svc.Slug,
			ServiceTitle: svc.Title,
		}, hintTTL)
	}
	http.Redirect(w, r, target.URL(""), http.StatusSeeOther)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	body, err := s.pages.NotFound(r.Context(), r.URL.Path)
	if err != nil {
		s.log.Error("render 404", "err", err)
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, body)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, what string, fn func() ([]byte, error)) {
	body, err := fn()
	if err != nil {
		s.internalError(w, r, "render "+what, err)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, what string, err error) {
	s.log.ErrorContext(r.Context(), what+" failed", "path", r.URL.Path, "err", err)
	http.Error(w, what+" error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
