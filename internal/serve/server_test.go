package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"mysite/internal/domain/config"
	"mysite/internal/hint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServices = `[
  {"slug": "web-development", "title": "Web Development", "description": "We build sites.", "features": [
    "SEO Optimizasyonu",
    {"title": "E-Ticaret", "content": "## Online stores\n\nCarts and payments."}
  ]}
]`

const testBlogs = `[
  {"slug": "hello", "title": "Hello", "date": "2026-01-02T00:00:00Z", "markdownContent": "# Hello\n\nFirst post."},
  {"slug": "secret", "title": "Secret", "date": "2026-01-03T00:00:00Z", "published": false}
]`

func newTestServer(t *testing.T, mutate ...func(*config.Config)) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	for name, body := range map[string]string{
		"services.json": testServices,
		"blogs.json":    testBlogs,
		"projects.json": `[{"slug": "shop", "title": "Shop"}]`,
		"glossary.json": `[{"term": "Slug", "definition": "URL token"}]`,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(contentDir, name), []byte(body), 0o644))
	}

	cfg := config.Default()
	cfg.Content.Dir = contentDir
	cfg.Build.ThemeDir = filepath.Join(dir, "themes")
	cfg.Serve.IndexPath = filepath.Join(dir, "index.db")
	for _, m := range mutate {
		m(&cfg)
	}

	s, err := New(cfg, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Reload(context.Background()))
	return s, contentDir
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	cases := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "Web Development"},
		{"/healthz", http.StatusOK, "ok"},
		{"/blog", http.StatusOK, "/blog/hello/"},
		{"/blog/hello/", http.StatusOK, "First post."},
		{"/blog/secret", http.StatusNotFound, "Page not found"},
		{"/projects", http.StatusOK, "/project/shop/"},
		{"/project/shop", http.StatusOK, "No content available for this item."},
		{"/services", http.StatusOK, "/e-ticaret/"},
		{"/glossary", http.StatusOK, "URL token"},
		{"/web-development", http.StatusOK, "We build sites."},
		{"/e-ticaret", http.StatusOK, "Carts and payments."},
		{"/seo-optimizasyonu", http.StatusOK, "SEO Optimizasyonu"},
		{"/eticaret", http.StatusOK, "Carts and payments."},
		{"/nope", http.StatusNotFound, "<code>/nope</code>"},
		{"/static/site.css", http.StatusOK, "font-family"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := get(t, h, tc.path)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestSelectFeatureSetsHintAndRedirects(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := get(t, h, "/services/web-development/features/seo-optimizasyonu")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/seo-optimizasyonu/", rec.Header().Get("Location"))

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
	}
	assert.True(t, names["mysite_"+hint.KeyServiceSlug])
	assert.True(t, names["mysite_"+hint.KeyFeatureTitle])

	assert.Equal(t, http.StatusNotFound, get(t, h, "/services/web-development/features/unknown").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/services/missing/features/seo").Code)
}

func hintCookies(t *testing.T, sel hint.Selection) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	hint.Write(rec, sel, time.Minute)
	return rec.Result().Cookies()
}

func TestHintFallback(t *testing.T) {
	sel := hint.Selection{FeatureTitle: "Legacy Feature", ServiceSlug: "web-development", ServiceTitle: "Web Development"}

	t.Run("enabled", func(t *testing.T) {
		s, _ := newTestServer(t)
		rec := get(t, s.Handler(), "/legacy-feature", hintCookies(t, sel)...)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Legacy Feature")

		var cleared int
		for _, c := range rec.Result().Cookies() {
			if c.MaxAge < 0 {
				cleared++
			}
		}
		assert.Equal(t, 3, cleared, "every stored key is expired")
	})

	t.Run("disabled", func(t *testing.T) {
		s, _ := newTestServer(t, func(c *config.Config) { c.Resolve.UseHints = false })
		rec := get(t, s.Handler(), "/legacy-feature", hintCookies(t, sel)...)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPreview(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	body := `{"title": "Draft", "contentBlocks": [{"type": "code", "content": "go test ./..."}, {"type": "image", "content": "http://x/y.png"}]}`
	req := httptest.NewRequest(http.MethodPost, "/admin/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out previewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "## Code Example\n\ngo test ./...\n\n![Image](http://x/y.png)", out.Markdown)
	assert.Contains(t, out.HTML, `<img src="http://x/y.png"`)
	require.Len(t, out.TOC, 1)

	req = httptest.NewRequest(http.MethodPost, "/admin/preview", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReloadSkipsUnchangedContent(t *testing.T) {
	s, dir := newTestServer(t)
	ctx := context.Background()

	before := s.Fingerprint()
	require.NotEmpty(t, before.RenderHash)
	require.NoError(t, s.Reload(ctx))
	assert.True(t, before.Same(s.Fingerprint()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte(`[{"slug": "crm", "title": "CRM"}]`), 0o644))
	require.NoError(t, s.Reload(ctx))
	assert.False(t, before.Same(s.Fingerprint()))

	h := s.Handler()
	assert.Equal(t, http.StatusOK, get(t, h, "/project/crm").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/project/shop").Code)
}

func TestServiceCardRecordsAndClearsSelection(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	list := get(t, h, "/services")
	require.Equal(t, http.StatusOK, list.Code)
	link := "/services/web-development/features/seo-optimizasyonu/"
	require.Contains(t, list.Body.String(), `href="`+link+`"`)

	pick := get(t, h, link)
	require.Equal(t, http.StatusSeeOther, pick.Code)
	stored := pick.Result().Cookies()
	require.Len(t, stored, len(hint.Keys))

	page := get(t, h, pick.Header().Get("Location"), stored...)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "SEO Optimizasyonu")

	cleared := map[string]bool{}
	for _, c := range page.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared[c.Name] = true
		}
	}
	for _, k := range hint.Keys {
		assert.True(t, cleared["mysite_"+k], k)
	}
}

func TestServiceCardsLinkDirectlyWithoutHints(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.Resolve.UseHints = false })
	body := get(t, s.Handler(), "/services").Body.String()
	assert.Contains(t, body, `href="/seo-optimizasyonu/"`)
	assert.NotContains(t, body, "/services/web-development/features/")
}

func TestBlogListSecondPage(t *testing.T) {
	s, dir := newTestServer(t)
	var posts []string
	for i := 1; i <= 12; i++ {
		posts = append(posts, fmt.Sprintf(`{"slug": "post-%02d", "title": "Post %02d", "date": "2026-02-%02dT00:00:00Z"}`, i, i, i))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blogs.json"), []byte("["+strings.Join(posts, ",")+"]"), 0o644))
	require.NoError(t, s.Reload(context.Background()))

	h := s.Handler()
	both := get(t, h, "/blog?page=1").Body.String() + get(t, h, "/blog?page=2").Body.String()
	for i := 1; i <= 12; i++ {
		assert.Contains(t, both, fmt.Sprintf(`href="/blog/post-%02d/"`, i))
	}
}

func TestWatchPicksUpNewDirectories(t *testing.T) {
	s, dir := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, s.startWatch(ctx, dir))

	nested := filepath.Join(dir, "extra", "deeper")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Eventually(t, func() bool {
		return slices.Contains(s.watcher.WatchList(), nested)
	}, 2*time.Second, 20*time.Millisecond)
	assert.Contains(t, s.watcher.WatchList(), filepath.Join(dir, "extra"))
}
