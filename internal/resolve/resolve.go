// Package resolve decides what a bare URL segment refers to. Services, their
// features, blog posts and projects share one slug namespace, so lookups
// follow a fixed priority order instead of trusting any single collection.
package resolve

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"mysite/internal/domain/config"
	"mysite/internal/domain/content"
	"mysite/internal/hint"
	"mysite/internal/slug"
	"slices"
)

type Kind string

const (
	KindBlog     Kind = "blog"
	KindProject  Kind = "project"
	KindService  Kind = "service"
	KindFeature  Kind = "feature"
	KindNotFound Kind = "not-found"
)

// Route is the collection implied by the URL prefix, if any.
type Route int

const (
	RouteBare Route = iota
	RouteBlog
	RouteProject
)

func (r Route) String() string {
	switch r {
	case RouteBlog:
		return "blog"
	case RouteProject:
		return "project"
	default:
		return "bare"
	}
}

// Catalog is the read side the resolver needs. index.Store and
// content.Library both satisfy it.
type Catalog interface {
	ServiceList(ctx context.Context) ([]content.Service, error)
	BlogBySlug(ctx context.Context, slug string) (content.Blog, bool, error)
	ProjectBySlug(ctx context.Context, slug string) (content.Project, bool, error)
	ServiceBySlug(ctx context.Context, slug string) (content.Service, bool, error)
}

type Request struct {
	Slug  string
	Route Route
	// Hint is consulted only when Options.UseHints is set and nothing else
	// matched.
	Hint hint.Context
}

type Resolution struct {
	Kind   Kind
	Entity *content.Entity

	Blog    *content.Blog
	Project *content.Project
	Service *content.Service

	Feature      content.Feature
	FeatureTitle string

	// FromHint marks a feature recovered through the selection hint.
	FromHint bool
}

func (r Resolution) Found() bool { return r.Kind != KindNotFound }

type Options struct {
	UseHints bool
	TieBreak config.TieBreak
	Logger   *slog.Logger
}

type Resolver struct {
	cat  Catalog
	opts Options
	log  *slog.Logger
}

func New(cat Catalog, opts Options) *Resolver {
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &Resolver{cat: cat, opts: opts, log: lg.With("component", "resolve")}
}

// Resolve maps req onto an entity. The returned error only reports catalog
// failures; an unknown slug yields KindNotFound and a nil error.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	want := slug.Normalize(req.Slug)
	if want == "" {
		return notFound(), nil
	}

	services, err := r.cat.ServiceList(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve: list services: %w", err)
	}
	services = r.ordered(services)

	// 1. a service's own slug
	for i := range services {
		if services[i].Slug == req.Slug || services[i].Slug == want {
			r.warnShadowed(ctx, req, "service", services[i].Slug)
			svc := services[i]
			return Resolution{Kind: KindService, Entity: &svc.Entity, Service: &svc}, nil
		}
	}

	// 2. a feature nested in a service
	if svc, f, ok := matchFeature(services, req.Slug); ok {
		r.warnShadowed(ctx, req, "feature", svc.Slug)
		return featureResolution(svc, f, false), nil
	}

	// 3. the collection named by the route prefix
	switch req.Route {
	case RouteBlog:
		b, ok, err := r.cat.BlogBySlug(ctx, req.Slug)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolve: blog %q: %w", req.Slug, err)
		}
		if ok {
			return Resolution{Kind: KindBlog, Entity: &b.Entity, Blog: &b}, nil
		}
	case RouteProject:
		p, ok, err := r.cat.ProjectBySlug(ctx, req.Slug)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolve: project %q: %w", req.Slug, err)
		}
		if ok {
			return Resolution{Kind: KindProject, Entity: &p.Entity, Project: &p}, nil
		}
	}

	// 4. last resort: what the visitor clicked on a service card
	if r.opts.UseHints && req.Hint != nil {
		res, ok, err := r.fromHint(ctx, req.Hint, want)
		if err != nil {
			return Resolution{}, err
		}
		if ok {
			return res, nil
		}
	}

	return notFound(), nil
}

func (r *Resolver) ordered(services []content.Service) []content.Service {
	if r.opts.TieBreak != config.TieBreakServiceSlug {
		return services
	}
	out := slices.Clone(services)
	slices.SortStableFunc(out, func(a, b content.Service) int {
		return cmp.Compare(a.Slug, b.Slug)
	})
	return out
}

func matchFeature(services []content.Service, candidate string) (content.Service, content.Feature, bool) {
	for _, svc := range services {
		for _, f := range svc.Features {
			if slug.Match(f.Title(), candidate) {
				return svc, f, true
			}
		}
	}
	return content.Service{}, nil, false
}

func (r *Resolver) fromHint(ctx context.Context, h hint.Context, want string) (Resolution, bool, error) {
	sel, ok := hint.Read(h)
	if !ok {
		return Resolution{}, false, nil
	}
	hinted := sel.FeatureSlug
	if hinted == "" {
		hinted = sel.FeatureTitle
	}
	if !slug.Match(hinted, want) && !slug.Match(sel.FeatureTitle, want) {
		return Resolution{}, false, nil
	}

	svc, ok, err := r.cat.ServiceBySlug(ctx, sel.ServiceSlug)
	if err != nil {
		return Resolution{}, false, fmt.Errorf("resolve: hinted service %q: %w", sel.ServiceSlug, err)
	}
	if !ok {
		return Resolution{}, false, nil
	}

	var feat content.Feature = content.PlainFeature(sel.FeatureTitle)
	for _, f := range svc.Features {
		if f.Title() == sel.FeatureTitle || slug.Match(f.Title(), hinted) {
			feat = f
			break
		}
	}
	if feat.Title() == "" {
		return Resolution{}, false, nil
	}
	r.log.DebugContext(ctx, "feature recovered from selection hint",
		"slug", want, "service", svc.Slug, "feature", feat.Title())
	return featureResolution(svc, feat, true), true, nil
}

// warnShadowed logs when a typed route lost to a service or feature match
// while its own collection also holds the slug.
func (r *Resolver) warnShadowed(ctx context.Context, req Request, winner, owner string) {
	var exists bool
	switch req.Route {
	case RouteBlog:
		_, exists, _ = r.cat.BlogBySlug(ctx, req.Slug)
	case RouteProject:
		_, exists, _ = r.cat.ProjectBySlug(ctx, req.Slug)
	default:
		return
	}
	if exists {
		r.log.WarnContext(ctx, "slug collision: typed route shadowed",
			"slug", req.Slug, "route", req.Route.String(), "winner", winner, "service", owner)
	}
}

func featureResolution(svc content.Service, f content.Feature, fromHint bool) Resolution {
	return Resolution{
		Kind:         KindFeature,
		Entity:       &svc.Entity,
		Service:      &svc,
		Feature:      f,
		FeatureTitle: f.Title(),
		FromHint:     fromHint,
	}
}

func notFound() Resolution {
	return Resolution{Kind: KindNotFound}
}
