package build

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
	"mysite/internal/domain/content"
	"mysite/internal/index"
	"mysite/internal/ingest"
	"mysite/internal/render"
	"mysite/internal/resolve"
	"os"
	"path/filepath"
)

// fingerprintFile sits in the public dir and records what was last built.
const fingerprintFile = ".mysite-build.json"

type Builder struct {
	Cfg       config.Config
	IndexPath string
	// Source overrides the content source named in the config.
	Source ingest.Source
	// Force rebuilds even when the fingerprint is unchanged.
	Force bool
	Log   *slog.Logger
}

type Result struct {
	Pages      int
	Skipped    bool
	Warnings   []ingest.Warning
	Collisions []index.Collision
}

func (b *Builder) logger() *slog.Logger {
	lg := b.Log
	if lg == nil {
		lg = slog.Default()
	}
	return lg.With("component", "build")
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	lg := b.logger()

	src := b.Source
	if src == nil {
		src = ingest.FromConfig(b.Cfg.Content)
	}
	lib, warns, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}

	theme, err := render.ThemeFS(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if err := render.CheckThemeTemplates(theme); err != nil {
		return nil, fmt.Errorf("theme %s: %w", b.Cfg.Site.Theme, err)
	}

	outDir := b.Cfg.Build.PublicDir
	fp, err := b.fingerprint(lib, theme)
	if err != nil {
		return nil, err
	}
	if !b.Force {
		if prev, err := readFingerprint(outDir); err == nil && prev.Same(fp) {
			lg.Info("nothing changed, build skipped", "public", outDir)
			return &Result{Skipped: true, Warnings: warns}, nil
		}
	}

	indexPath := b.IndexPath
	if indexPath == "" {
		indexPath = b.Cfg.Serve.IndexPath
	}
	st, err := index.Open(index.OpenOptions{Path: indexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	rep, err := st.Rebuild(lib)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	tpl, err := render.NewTemplateRenderer(theme, render.TemplateOptions{BasePath: b.Cfg.Build.BasePath})
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	res := resolve.New(st, resolve.Options{
		TieBreak: b.Cfg.Resolve.TieBreak,
		Logger:   lg,
	})
	pages := &app.Pages{
		Site:      b.Cfg.Site,
		Store:     st,
		Resolver:  res,
		Markdown:  render.NewMarkdownRenderer(),
		Templates: tpl,
	}
	rb := &app.RouteBuilder{Index: st, Resolver: res, Log: lg}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}
	n, err := b.buildAll(ctx, pages, rb, outDir)
	if err != nil {
		return nil, err
	}
	if err := copyStaticAssets(theme, outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}
	if err := writeFingerprint(outDir, fp); err != nil {
		return nil, fmt.Errorf("write fingerprint: %w", err)
	}

	lg.Info("build complete", "pages", n, "public", outDir)
	return &Result{
		Pages:      n,
		Warnings:   warns,
		Collisions: rep.Collisions,
	}, nil
}

func (b *Builder) buildAll(ctx context.Context, pages *app.Pages, rb *app.RouteBuilder, outDir string) (int, error) {
	routes, err := rb.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("collect routes: %w", err)
	}
	n := 0
	for _, r := range routes {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		body, err := pages.Render(ctx, r)
		if errors.Is(err, app.ErrNoPage) {
			b.logger().Debug("route has no page", "route", r.String())
			continue
		}
		if err != nil {
			return n, fmt.Errorf("build %s: %w", r, err)
		}
		if err := writeFile(outDir, r.OutFile(), body); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (b *Builder) fingerprint(lib content.Library, theme fs.FS) (domainbuild.Fingerprint, error) {
	var (
		fp  domainbuild.Fingerprint
		err error
	)
	fp.ContentHash, err = domainbuild.HashLibrary(lib)
	if err != nil {
		return fp, err
	}

	fp.ThemeHash, err = hashTree(theme)
	if err != nil {
		return fp, fmt.Errorf("hash theme: %w", err)
	}

	conf, err := json.Marshal(struct {
		Site    config.SiteConfig
		Base    string
		Resolve config.ResolveConfig
	}{b.Cfg.Site, b.Cfg.Build.BasePath, b.Cfg.Resolve})
	if err != nil {
		return fp, err
	}
	fp.ConfigHash = domainbuild.HashBytes(conf)
	fp.ComputeRenderHash()
	return fp, nil
}

func hashTree(fsys fs.FS) (string, error) {
	var all []byte
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		all = append(all, path...)
		all = append(all, 0)
		all = append(all, domainbuild.HashBytes(data)...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return domainbuild.HashBytes(all), nil
}

func readFingerprint(outDir string) (domainbuild.Fingerprint, error) {
	var fp domainbuild.Fingerprint
	data, err := os.ReadFile(filepath.Join(outDir, fingerprintFile))
	if err != nil {
		return fp, err
	}
	err = json.Unmarshal(data, &fp)
	return fp, err
}

func writeFingerprint(outDir string, fp domainbuild.Fingerprint) error {
	data, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(outDir, fingerprintFile, data)
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

// copyStaticAssets copies the theme's static/ tree to public/static/.
func copyStaticAssets(theme fs.FS, outDir string) error {
	if _, err := fs.Stat(theme, "static"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return fs.WalkDir(theme, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := fs.ReadFile(theme, path)
		if err != nil {
			return err
		}
		return writeFile(outDir, path, in)
	})
}
