// Package app composes the index, resolver and renderers into whole pages.
// Both the live server and the static build go through it, so a page looks the
// same no matter how it was produced.
package app

import (
	"context"
	"errors"
	"fmt"
	"mysite/internal/domain/config"
	"mysite/internal/domain/content"
	"mysite/internal/domain/site"
	"mysite/internal/index"
	"mysite/internal/render"
	"mysite/internal/resolve"
)

// BlogPageSize is the number of posts per blog list page.
const BlogPageSize = 10

// ErrNoPage is returned when a route or resolution has nothing to show.
var ErrNoPage = errors.New("no page")

type Pages struct {
	Site      config.SiteConfig
	Store     *index.Store
	Resolver  *resolve.Resolver
	Markdown  *render.MarkdownRenderer
	Templates render.Renderer
}

func (p *Pages) Home(ctx context.Context) ([]byte, error) {
	services, err := p.Store.Services()
	if err != nil {
		return nil, err
	}
	blogs, err := p.Store.ListBlogs(index.ListOptions{Page: 1, Size: 3})
	if err != nil {
		return nil, err
	}
	projects, err := p.Store.ListProjects(index.ListOptions{Page: 1, Size: 6})
	if err != nil {
		return nil, err
	}
	return p.Templates.RenderHome(ctx, render.HomePage{
		Site:     p.Site,
		Services: services,
		Blogs:    blogs,
		Projects: projects,
	})
}

// BlogList renders one page of posts. page <= 0 renders every post on a single
// page, which is what the static export uses.
func (p *Pages) BlogList(ctx context.Context, page int, tag, category string) ([]byte, error) {
	lp := render.BlogListPage{
		Site:     p.Site,
		Title:    "Blog",
		Page:     page,
		PageSize: BlogPageSize,
		Tag:      tag,
		Category: category,
	}
	opt := index.ListOptions{Tag: tag, Category: category}
	if page <= 0 {
		opt.Page, opt.Size = 1, 100
		for {
			items, err := p.Store.ListBlogs(opt)
			if err != nil {
				return nil, err
			}
			lp.Items = append(lp.Items, items...)
			if len(items) < opt.Size {
				break
			}
			opt.Page++
		}
		lp.Page, lp.PageSize = 1, len(lp.Items)
	} else {
		// one extra post tells whether an older page exists
		opt.Offset = (page - 1) * BlogPageSize
		opt.Size = BlogPageSize + 1
		items, err := p.Store.ListBlogs(opt)
		if err != nil {
			return nil, err
		}
		if len(items) > BlogPageSize {
			items, lp.HasNext = items[:BlogPageSize], true
		}
		lp.Items = items
	}
	return p.Templates.RenderBlogList(ctx, lp)
}

func (p *Pages) Projects(ctx context.Context) ([]byte, error) {
	items, err := p.Store.ListProjects(index.ListOptions{Page: 1, Size: 100})
	if err != nil {
		return nil, err
	}
	return p.Templates.RenderProjects(ctx, render.ProjectsPage{Site: p.Site, Title: "Projects", Items: items})
}

func (p *Pages) Services(ctx context.Context) ([]byte, error) {
	items, err := p.Store.Services()
	if err != nil {
		return nil, err
	}
	return p.Templates.RenderServices(ctx, render.ServicesPage{Site: p.Site, Title: "Services", Items: items})
}

func (p *Pages) Glossary(ctx context.Context) ([]byte, error) {
	terms, err := p.Store.Glossary()
	if err != nil {
		return nil, err
	}
	return p.Templates.RenderGlossary(ctx, render.GlossaryPage{Site: p.Site, Title: "Glossary", Terms: terms})
}

func (p *Pages) NotFound(ctx context.Context, path string) ([]byte, error) {
	return p.Templates.RenderNotFound(ctx, render.NotFoundPage{Site: p.Site, Title: "Not found", Path: path})
}

// Visible reports whether res names something that may be shown publicly.
func Visible(res resolve.Resolution) bool {
	if !res.Found() {
		return false
	}
	if res.Kind == resolve.KindBlog && res.Blog != nil && !res.Blog.IsPublished() {
		return false
	}
	return true
}

// Entry renders the detail page of a resolved slug.
func (p *Pages) Entry(ctx context.Context, res resolve.Resolution) ([]byte, error) {
	page, err := p.EntryPage(res)
	if err != nil {
		return nil, err
	}
	return p.Templates.RenderEntry(ctx, page)
}

// EntryPage assembles and renders the markdown of res into a page model.
func (p *Pages) EntryPage(res resolve.Resolution) (render.EntryPage, error) {
	if !Visible(res) {
		return render.EntryPage{}, ErrNoPage
	}

	var (
		page render.EntryPage
		src  string
	)
	switch res.Kind {
	case resolve.KindBlog:
		page = entryFrom(render.EntryBlog, res.Blog.Entity)
		page.Blog = res.Blog
		src = render.Assemble(res.Blog.Entity)
	case resolve.KindProject:
		page = entryFrom(render.EntryProject, res.Project.Entity)
		page.Project = res.Project
		src = render.Assemble(res.Project.Entity)
	case resolve.KindService:
		page = entryFrom(render.EntryService, res.Service.Entity)
		page.Service = res.Service
		page.Siblings = res.Service.Features
		src = render.Assemble(res.Service.Entity)
	case resolve.KindFeature:
		f := res.Feature
		if f == nil {
			f = content.PlainFeature(res.FeatureTitle)
		}
		page = render.EntryPage{
			Kind:        render.EntryFeature,
			Title:       f.Title(),
			Description: res.Service.Description,
			Image:       res.Service.Image,
			Service:     res.Service,
			Siblings:    res.Service.Features,
		}
		src = render.AssembleFeature(*res.Service, f)
	default:
		return render.EntryPage{}, fmt.Errorf("%w: kind %s", ErrNoPage, res.Kind)
	}

	doc, err := p.Markdown.Document(src)
	if err != nil {
		return render.EntryPage{}, fmt.Errorf("render %s %q: %w", res.Kind, page.Title, err)
	}
	page.Site = p.Site
	page.HTML = doc.HTML
	page.TOC = doc.TOC
	return page, nil
}

func entryFrom(kind render.EntryKind, e content.Entity) render.EntryPage {
	return render.EntryPage{
		Kind:        kind,
		Title:       e.Title,
		Description: e.Description,
		Image:       e.Image,
		Category:    e.Category,
	}
}

// Render produces the page behind a built route. Detail routes go through the
// resolver exactly like live requests do.
func (p *Pages) Render(ctx context.Context, r site.Route) ([]byte, error) {
	switch r.Kind {
	case site.RouteHome:
		return p.Home(ctx)
	case site.RouteBlogList:
		return p.BlogList(ctx, r.Page, "", "")
	case site.RouteProjects:
		return p.Projects(ctx)
	case site.RouteServices:
		return p.Services(ctx)
	case site.RouteGlossary:
		return p.Glossary(ctx)
	case site.RouteNotFound:
		return p.NotFound(ctx, "")
	}

	req := resolve.Request{Slug: r.Slug}
	switch r.Kind {
	case site.RouteBlog:
		req.Route = resolve.RouteBlog
	case site.RouteProject:
		req.Route = resolve.RouteProject
	case site.RouteService, site.RouteFeature:
		req.Route = resolve.RouteBare
	default:
		return nil, fmt.Errorf("%w: route %s", ErrNoPage, r)
	}
	res, err := p.Resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.Entry(ctx, res)
}
