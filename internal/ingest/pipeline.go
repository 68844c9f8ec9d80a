package ingest

import (
	"context"
	"fmt"
	"mysite/internal/domain/content"
	"mysite/internal/slug"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string {
	if w.Path == "" {
		return w.Msg
	}
	return w.Path + ": " + w.Msg
}

// LoadDir reads every collection file under dir into one Library.
func LoadDir(ctx context.Context, dir string) (content.Library, []Warning, error) {
	files, err := DiscoverSource(dir)
	if err != nil {
		return content.Library{}, nil, err
	}

	var (
		lib   content.Library
		warns []Warning
		mu    sync.Mutex
	)
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.Collection] = true
	}
	for _, coll := range Collections {
		if !present[coll] {
			warns = append(warns, Warning{Path: dir, Msg: "no " + coll + " file, collection left empty"})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sf := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := os.ReadFile(sf.Path)
			if err != nil {
				return err
			}
			var part content.Library
			if err := assign(&part, sf.Collection, raw, isYAML(sf.Path)); err != nil {
				return fmt.Errorf("%s: %w", sf.Path, err)
			}
			mu.Lock()
			merge(&lib, part)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return content.Library{}, nil, err
	}

	warns = append(warns, Prepare(&lib, dir)...)
	return lib, warns, nil
}

func assign(lib *content.Library, coll string, raw []byte, asYAML bool) error {
	var err error
	switch coll {
	case CollBlogs:
		lib.Blogs, err = decodeCollection[content.Blog](raw, asYAML)
	case CollProjects:
		lib.Projects, err = decodeCollection[content.Project](raw, asYAML)
	case CollServices:
		lib.Services, err = decodeCollection[content.Service](raw, asYAML)
	case CollGlossary:
		lib.Glossary, err = decodeCollection[content.GlossaryTerm](raw, asYAML)
	default:
		err = fmt.Errorf("unknown collection %q", coll)
	}
	return err
}

func merge(dst *content.Library, src content.Library) {
	dst.Blogs = append(dst.Blogs, src.Blogs...)
	dst.Projects = append(dst.Projects, src.Projects...)
	dst.Services = append(dst.Services, src.Services...)
	dst.Glossary = append(dst.Glossary, src.Glossary...)
}

// Prepare normalizes a freshly decoded library in place: trims fields, derives
// missing slugs from titles and drops duplicate slugs within a family.
func Prepare(lib *content.Library, origin string) []Warning {
	var warns []Warning
	warn := func(format string, args ...any) {
		warns = append(warns, Warning{Path: origin, Msg: fmt.Sprintf(format, args...)})
	}

	blogs := lib.Blogs[:0]
	seen := make(map[string]struct{})
	for _, b := range lib.Blogs {
		b.Normalize()
		if !fillSlug(&b.Entity) {
			warn("blog without slug or title skipped")
			continue
		}
		if _, dup := seen[b.Slug]; dup {
			warn("duplicate blog slug skipped: %s", b.Slug)
			continue
		}
		seen[b.Slug] = struct{}{}
		for _, t := range unknownBlocks(b.Entity) {
			warn("blog %s: unknown block type %q", b.Slug, t)
		}
		if b.Date.IsZero() {
			warn("blog %s has no date", b.Slug)
		}
		blogs = append(blogs, b)
	}
	lib.Blogs = blogs

	projects := lib.Projects[:0]
	seen = make(map[string]struct{})
	for _, p := range lib.Projects {
		p.Normalize()
		if !fillSlug(&p.Entity) {
			warn("project without slug or title skipped")
			continue
		}
		if _, dup := seen[p.Slug]; dup {
			warn("duplicate project slug skipped: %s", p.Slug)
			continue
		}
		seen[p.Slug] = struct{}{}
		for _, t := range unknownBlocks(p.Entity) {
			warn("project %s: unknown block type %q", p.Slug, t)
		}
		projects = append(projects, p)
	}
	lib.Projects = projects

	services := lib.Services[:0]
	seen = make(map[string]struct{})
	for _, s := range lib.Services {
		s.Normalize()
		if !fillSlug(&s.Entity) {
			warn("service without slug or title skipped")
			continue
		}
		if _, dup := seen[s.Slug]; dup {
			warn("duplicate service slug skipped: %s", s.Slug)
			continue
		}
		seen[s.Slug] = struct{}{}
		for _, t := range unknownBlocks(s.Entity) {
			warn("service %s: unknown block type %q", s.Slug, t)
		}
		services = append(services, s)
	}
	lib.Services = services

	terms := lib.Glossary[:0]
	seen = make(map[string]struct{})
	for _, g := range lib.Glossary {
		g.Term = strings.TrimSpace(g.Term)
		g.Definition = strings.TrimSpace(g.Definition)
		if g.Slug == "" {
			g.Slug = slug.Normalize(g.Term)
		}
		if g.Slug == "" {
			warn("glossary term without text skipped")
			continue
		}
		if _, dup := seen[g.Slug]; dup {
			warn("duplicate glossary term skipped: %s", g.Term)
			continue
		}
		seen[g.Slug] = struct{}{}
		terms = append(terms, g)
	}
	lib.Glossary = terms

	return warns
}

// unknownBlocks lists each unrecognized block type once, in order of first use.
func unknownBlocks(e content.Entity) []content.BlockType {
	var out []content.BlockType
	for _, b := range e.ContentBlocks {
		if b.Type.Known() || slices.Contains(out, b.Type) {
			continue
		}
		out = append(out, b.Type)
	}
	return out
}

func fillSlug(e *content.Entity) bool {
	if e.Slug == "" {
		e.Slug = slug.Normalize(e.Title)
	}
	return e.Slug != ""
}
