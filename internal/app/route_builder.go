package app

import (
	"context"
	"log/slog"
	"mysite/internal/domain/site"
	"mysite/internal/index"
	"mysite/internal/resolve"
)

// reserved are top-level segments owned by list pages.
var reserved = map[string]bool{
	"blog":     true,
	"project":  true,
	"projects": true,
	"services": true,
	"glossary": true,
	"static":   true,
}

type RouteBuilder struct {
	Index    *index.Store
	Resolver *resolve.Resolver
	Log      *slog.Logger
}

func (rb *RouteBuilder) logger() *slog.Logger {
	if rb.Log == nil {
		return slog.Default()
	}
	return rb.Log
}

// BuildStaticRoutes lists the pages every site has.
func (rb *RouteBuilder) BuildStaticRoutes() []site.Route {
	return []site.Route{
		{Kind: site.RouteHome},
		{Kind: site.RouteBlogList},
		{Kind: site.RouteProjects},
		{Kind: site.RouteServices},
		{Kind: site.RouteGlossary},
		{Kind: site.RouteNotFound},
	}
}

func (rb *RouteBuilder) BuildBlogRoutes() ([]site.Route, error) {
	var routes []site.Route
	opt := index.ListOptions{Page: 1, Size: 100}
	for {
		blogs, err := rb.Index.ListBlogs(opt)
		if err != nil {
			return nil, err
		}
		for _, b := range blogs {
			routes = append(routes, site.Route{Kind: site.RouteBlog, Slug: b.Slug})
		}
		if len(blogs) < opt.Size {
			return routes, nil
		}
		opt.Page++
	}
}

func (rb *RouteBuilder) BuildProjectRoutes() ([]site.Route, error) {
	var routes []site.Route
	opt := index.ListOptions{Page: 1, Size: 100}
	for {
		projects, err := rb.Index.ListProjects(opt)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			routes = append(routes, site.Route{Kind: site.RouteProject, Slug: p.Slug})
		}
		if len(projects) < opt.Size {
			return routes, nil
		}
		opt.Page++
	}
}

// BuildServiceRoutes emits one page per service and one per feature. A feature
// page is only emitted when its slug resolves back to that same feature, so
// shadowed or colliding features never overwrite another page.
func (rb *RouteBuilder) BuildServiceRoutes(ctx context.Context) ([]site.Route, error) {
	services, err := rb.Index.Services()
	if err != nil {
		return nil, err
	}
	var routes []site.Route
	seen := make(map[string]bool)
	for _, svc := range services {
		if reserved[svc.Slug] {
			rb.logger().Warn("service page skipped: slug is reserved", "service", svc.Slug)
			continue
		}
		routes = append(routes, site.Route{Kind: site.RouteService, Slug: svc.Slug})
		seen[svc.Slug] = true
	}
	for _, svc := range services {
		for _, f := range svc.Features {
			r := site.FeatureRoute(svc.Slug, f.Title())
			if r.Slug == "" || seen[r.Slug] || reserved[r.Slug] {
				continue
			}
			res, err := rb.Resolver.Resolve(ctx, resolve.Request{Slug: r.Slug})
			if err != nil {
				return nil, err
			}
			if res.Kind != resolve.KindFeature || res.Service.Slug != svc.Slug || res.FeatureTitle != f.Title() {
				rb.logger().Debug("feature page skipped", "feature", f.Title(), "service", svc.Slug, "resolved", res.Kind)
				continue
			}
			seen[r.Slug] = true
			routes = append(routes, r)
		}
	}
	return routes, nil
}

// All returns every route of the site in build order.
func (rb *RouteBuilder) All(ctx context.Context) ([]site.Route, error) {
	routes := rb.BuildStaticRoutes()

	blogs, err := rb.BuildBlogRoutes()
	if err != nil {
		return nil, err
	}
	projects, err := rb.BuildProjectRoutes()
	if err != nil {
		return nil, err
	}
	services, err := rb.BuildServiceRoutes(ctx)
	if err != nil {
		return nil, err
	}
	routes = append(routes, blogs...)
	routes = append(routes, projects...)
	return append(routes, services...), nil
}
