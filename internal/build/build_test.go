package build

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"mysite/internal/domain/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Builder, string) {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	files := map[string]string{
		"services.json": `[
			{"slug": "web", "title": "Web", "features": ["SEO Optimizasyonu", {"title": "E-Ticaret", "content": "# Shop"}]},
			{"slug": "mobile", "title": "Mobile", "features": ["SEO Optimizasyonu", "Web"]}
		]`,
		"blogs.json":    `[{"slug": "hello", "title": "Hello", "date": "2026-01-02T00:00:00Z"}]`,
		"projects.json": `[{"slug": "shop", "title": "Shop"}]`,
		"glossary.json": `[]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(contentDir, name), []byte(body), 0o644))
	}

	cfg := config.Default()
	cfg.Content.Dir = contentDir
	cfg.Build.ThemeDir = filepath.Join(dir, "themes")
	cfg.Build.PublicDir = filepath.Join(dir, "public")
	return &Builder{
		Cfg:       cfg,
		IndexPath: filepath.Join(dir, "index.db"),
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, cfg.Build.PublicDir
}

func TestBuildWritesSite(t *testing.T) {
	b, out := setup(t)
	res, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	require.Len(t, res.Collisions, 1)
	assert.Equal(t, "seo-optimizasyonu", res.Collisions[0].Slug)

	for _, f := range []string{
		"index.html",
		"404.html",
		"blog/index.html",
		"blog/hello/index.html",
		"projects/index.html",
		"project/shop/index.html",
		"services/index.html",
		"glossary/index.html",
		"web/index.html",
		"mobile/index.html",
		"e-ticaret/index.html",
		"seo-optimizasyonu/index.html",
		"static/site.css",
	} {
		assert.FileExists(t, filepath.Join(out, f))
	}

	seo, err := os.ReadFile(filepath.Join(out, "seo-optimizasyonu", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(seo), `href="/web/"`, "first service in storage order owns the page")

	services, err := os.ReadFile(filepath.Join(out, "services", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(services), `href="/e-ticaret/"`)
	assert.NotContains(t, string(services), "/services/web/features/", "static pages link features directly")

	web, err := os.ReadFile(filepath.Join(out, "web", "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(web), `class="crumb"`, "feature titled like a service never replaces it")
}

func TestBuildSkipsWhenUnchanged(t *testing.T) {
	b, _ := setup(t)
	ctx := context.Background()

	_, err := b.Run(ctx)
	require.NoError(t, err)

	res, err := b.Run(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	b.Force = true
	res, err = b.Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Positive(t, res.Pages)
}

func TestBuildBasePath(t *testing.T) {
	b, out := setup(t)
	b.Cfg.Build.BasePath = "/site"
	_, err := b.Run(context.Background())
	require.NoError(t, err)

	home, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), `href="/site/web/"`)
	assert.Contains(t, string(home), `/site/static/site.css`)
}
