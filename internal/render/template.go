package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"mysite/internal/domain/content"
	"mysite/internal/domain/site"
	"os"
	"path/filepath"
	"time"
)

//go:embed theme
var defaultTheme embed.FS

var requiredTemplates = []string{
	"home.tmpl",
	"entry.tmpl",
	"blog-list.tmpl",
	"projects.tmpl",
	"services.tmpl",
	"glossary.tmpl",
	"404.tmpl",
}

type TemplateRenderer struct {
	tpl *template.Template
}

// ThemeFS returns the theme named themeName under themeDir, or the embedded
// default theme when that directory does not exist.
func ThemeFS(themeDir, themeName string) (fs.FS, error) {
	dir := filepath.Join(themeDir, themeName)
	if st, err := os.Stat(dir); err == nil && st.IsDir() {
		return os.DirFS(dir), nil
	}
	return fs.Sub(defaultTheme, "theme")
}

type TemplateOptions struct {
	// BasePath prefixes every generated link ("" or "/sub").
	BasePath string
	// SelectFeatures sends service card links through the selection endpoint
	// so the server can record the pick. Static builds leave it off.
	SelectFeatures bool
}

func NewTemplateRenderer(theme fs.FS, opts TemplateOptions) (*TemplateRenderer, error) {
	tpl, err := template.New("").Funcs(templateFuncs(opts)).ParseFS(theme, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs(opts TemplateOptions) template.FuncMap {
	base := opts.BasePath
	return template.FuncMap{
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
		"url": func(kind string) string {
			return site.Route{Kind: site.RouteKind(kind)}.URL(base)
		},
		"blogURL": func(b content.Blog) string {
			return site.Route{Kind: site.RouteBlog, Slug: b.Slug}.URL(base)
		},
		"projectURL": func(p content.Project) string {
			return site.Route{Kind: site.RouteProject, Slug: p.Slug}.URL(base)
		},
		"serviceURL": func(s content.Service) string {
			return site.Route{Kind: site.RouteService, Slug: s.Slug}.URL(base)
		},
		"featureURL": func(s content.Service, f content.Feature) string {
			return site.FeatureRoute(s.Slug, f.Title()).URL(base)
		},
		// selectURL is the link a service card uses for one of its features.
		"selectURL": func(s content.Service, f content.Feature) string {
			if opts.SelectFeatures {
				return site.SelectRoute(s.Slug, f.Title()).URL(base)
			}
			return site.FeatureRoute(s.Slug, f.Title()).URL(base)
		},
		"static": func(name string) string {
			return site.Route{Kind: site.RouteHome}.URL(base) + "static/" + name
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderEntry(ctx context.Context, page EntryPage) ([]byte, error) {
	return r.exec("entry.tmpl", page)
}

func (r *TemplateRenderer) RenderBlogList(ctx context.Context, page BlogListPage) ([]byte, error) {
	return r.exec("blog-list.tmpl", page)
}

func (r *TemplateRenderer) RenderProjects(ctx context.Context, page ProjectsPage) ([]byte, error) {
	return r.exec("projects.tmpl", page)
}

func (r *TemplateRenderer) RenderServices(ctx context.Context, page ServicesPage) ([]byte, error) {
	return r.exec("services.tmpl", page)
}

func (r *TemplateRenderer) RenderGlossary(ctx context.Context, page GlossaryPage) ([]byte, error) {
	return r.exec("glossary.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(theme fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(theme, "templates/"+name); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
