package resolve

import (
	"context"
	"errors"
	"mysite/internal/domain/config"
	"mysite/internal/domain/content"
	"mysite/internal/hint"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func service(slug, title string, features ...content.Feature) content.Service {
	return content.Service{
		Entity:   content.Entity{Slug: slug, Title: title},
		Features: features,
	}
}

func testLibrary() *content.Library {
	return &content.Library{
		Services: []content.Service{
			service("web-development", "Web Development",
				content.RichFeature{Name: "SEO Basics", Body: "# SEO"},
				content.PlainFeature("E-Commerce"),
			),
			service("dijital-pazarlama", "Dijital Pazarlama",
				content.PlainFeature("Sosyal Medya Yönetimi"),
				content.PlainFeature("Web Development"),
			),
		},
		Blogs: []content.Blog{
			{Entity: content.Entity{Slug: "hello-world", Title: "Hello World"}},
			{Entity: content.Entity{Slug: "e-commerce", Title: "E-Commerce in 2026"}},
		},
		Projects: []content.Project{
			{Entity: content.Entity{Slug: "acme-site", Title: "Acme"}},
		},
	}
}

func TestResolveFeature(t *testing.T) {
	r := New(testLibrary(), Options{})
	res, err := r.Resolve(context.Background(), Request{Slug: "seo-basics"})
	require.NoError(t, err)
	assert.Equal(t, KindFeature, res.Kind)
	assert.Equal(t, "SEO Basics", res.FeatureTitle)
	require.NotNil(t, res.Service)
	assert.Equal(t, "web-development", res.Service.Slug)
	assert.Equal(t, "# SEO", res.Feature.Content())
	assert.False(t, res.FromHint)
}

func TestResolveServiceWinsOverFeature(t *testing.T) {
	// dijital-pazarlama carries a feature whose title normalizes to web-development
	r := New(testLibrary(), Options{})
	res, err := r.Resolve(context.Background(), Request{Slug: "web-development"})
	require.NoError(t, err)
	assert.Equal(t, KindService, res.Kind)
	assert.Equal(t, "Web Development", res.Entity.Title)
	assert.Nil(t, res.Feature)
}

func TestResolveTurkishFeature(t *testing.T) {
	r := New(testLibrary(), Options{})
	res, err := r.Resolve(context.Background(), Request{Slug: "sosyal-medya-yonetimi"})
	require.NoError(t, err)
	assert.Equal(t, KindFeature, res.Kind)
	assert.Equal(t, "Sosyal Medya Yönetimi", res.FeatureTitle)
	assert.Equal(t, "dijital-pazarlama", res.Service.Slug)
}

func TestResolveHyphenlessFallback(t *testing.T) {
	r := New(testLibrary(), Options{})
	res, err := r.Resolve(context.Background(), Request{Slug: "ecommerce"})
	require.NoError(t, err)
	assert.Equal(t, KindFeature, res.Kind)
	assert.Equal(t, "E-Commerce", res.FeatureTitle)
}

func TestResolveTypedRoutes(t *testing.T) {
	r := New(testLibrary(), Options{})
	ctx := context.Background()

	res, err := r.Resolve(ctx, Request{Slug: "hello-world", Route: RouteBlog})
	require.NoError(t, err)
	assert.Equal(t, KindBlog, res.Kind)
	assert.Equal(t, "Hello World", res.Blog.Title)

	res, err = r.Resolve(ctx, Request{Slug: "acme-site", Route: RouteProject})
	require.NoError(t, err)
	assert.Equal(t, KindProject, res.Kind)

	// bare routes never fall through to blogs or projects
	res, err = r.Resolve(ctx, Request{Slug: "hello-world"})
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
	assert.False(t, res.Found())

	// features outrank the blog collection even under /blog/
	res, err = r.Resolve(ctx, Request{Slug: "e-commerce", Route: RouteBlog})
	require.NoError(t, err)
	assert.Equal(t, KindFeature, res.Kind)
}

func TestResolveNotFound(t *testing.T) {
	r := New(testLibrary(), Options{})
	for _, s := range []string{"", "!!!", "no-such-thing"} {
		res, err := r.Resolve(context.Background(), Request{Slug: s, Route: RouteBlog})
		require.NoError(t, err)
		assert.Equal(t, KindNotFound, res.Kind, s)
	}
}

func TestResolveTieBreak(t *testing.T) {
	lib := &content.Library{Services: []content.Service{
		service("zeta", "Zeta", content.PlainFeature("Hosting")),
		service("alpha", "Alpha", content.PlainFeature("hosting")),
	}}
	ctx := context.Background()

	res, err := New(lib, Options{}).Resolve(ctx, Request{Slug: "hosting"})
	require.NoError(t, err)
	assert.Equal(t, "zeta", res.Service.Slug)

	res, err = New(lib, Options{TieBreak: config.TieBreakServiceSlug}).Resolve(ctx, Request{Slug: "hosting"})
	require.NoError(t, err)
	assert.Equal(t, "alpha", res.Service.Slug)
	assert.Equal(t, "hosting", res.FeatureTitle)
	assert.Equal(t, "zeta", lib.Services[0].Slug, "catalog order must not be mutated")
}

func TestResolveHintFallback(t *testing.T) {
	lib := testLibrary()
	sel := hint.Selection{
		FeatureTitle: "SEO Basics",
		FeatureSlug:  "seo-temelleri",
		ServiceSlug:  "web-development",
		ServiceTitle: "Web Development",
	}
	ctx := context.Background()

	// disabled: the hint is ignored
	res, err := New(lib, Options{}).Resolve(ctx, Request{Slug: "seo-temelleri", Hint: hint.NewMemory(sel)})
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)

	r := New(lib, Options{UseHints: true})
	res, err = r.Resolve(ctx, Request{Slug: "seo-temelleri", Hint: hint.NewMemory(sel)})
	require.NoError(t, err)
	assert.Equal(t, KindFeature, res.Kind)
	assert.True(t, res.FromHint)
	assert.Equal(t, "SEO Basics", res.FeatureTitle)
	assert.Equal(t, "# SEO", res.Feature.Content())

	// a hint for another slug does not apply
	res, err = r.Resolve(ctx, Request{Slug: "something-else", Hint: hint.NewMemory(sel)})
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)

	// structured matches never consult the hint
	res, err = r.Resolve(ctx, Request{Slug: "e-commerce", Hint: hint.NewMemory(sel)})
	require.NoError(t, err)
	assert.False(t, res.FromHint)

	// unknown hinted service
	sel.ServiceSlug = "gone"
	res, err = r.Resolve(ctx, Request{Slug: "seo-temelleri", Hint: hint.NewMemory(sel)})
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
}

type brokenCatalog struct{ content.Library }

func (brokenCatalog) ServiceList(context.Context) ([]content.Service, error) {
	return nil, errors.New("disk on fire")
}

func TestResolveCatalogError(t *testing.T) {
	_, err := New(&brokenCatalog{}, Options{}).Resolve(context.Background(), Request{Slug: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}
