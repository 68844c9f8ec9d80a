package config

import (
	"gopkg.in/yaml.v3"
	"log/slog"
	domainerr "mysite/internal/domain/errors"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Build   BuildConfig   `yaml:"build"`
	Serve   ServeConfig   `yaml:"serve"`
	Resolve ResolveConfig `yaml:"resolve"`
}

type SiteConfig struct {
	Title        string `yaml:"title"`
	Tagline      string `yaml:"tagline"`
	SiteURL      string `yaml:"site_url"`
	Theme        string `yaml:"theme"`
	Language     string `yaml:"language"`
	Description  string `yaml:"description"`
	ContactEmail string `yaml:"contact_email"`
}

type SourceKind string

const (
	SourceDir SourceKind = "dir"
	SourceAPI SourceKind = "api"
)

type ContentConfig struct {
	Source     SourceKind    `yaml:"source"`
	Dir        string        `yaml:"dir"`
	APIURL     string        `yaml:"api_url"`
	APITimeout time.Duration `yaml:"api_timeout"`
}

type BuildConfig struct {
	PublicDir string    `yaml:"public_dir"`
	ThemeDir  string    `yaml:"theme_dir"`
	BasePath  string    `yaml:"base_path"`
	Now       time.Time `yaml:"-"`
}

type ServeConfig struct {
	Addr      string `yaml:"addr"`
	IndexPath string `yaml:"index_path"`
	Watch     bool   `yaml:"watch"`
	LogLevel  string `yaml:"log_level"`
}

type TieBreak string

const (
	TieBreakStorage     TieBreak = "storage"
	TieBreakServiceSlug TieBreak = "service-slug"
)

type ResolveConfig struct {
	// UseHints enables the cookie based feature-selection fallback.
	UseHints bool     `yaml:"use_hints"`
	TieBreak TieBreak `yaml:"tie_break"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "My Site",
			SiteURL:  "http://localhost:8080",
			Theme:    "default",
			Language: "tr",
		},
		Content: ContentConfig{
			Source:     SourceDir,
			Dir:        "content",
			APITimeout: 10 * time.Second,
		},
		Build: BuildConfig{
			PublicDir: "public",
			ThemeDir:  "themes",
			BasePath:  "",
			Now:       time.Now(),
		},
		Serve: ServeConfig{
			Addr:      ":8080",
			IndexPath: ".mysite/index.db",
			Watch:     true,
			LogLevel:  "info",
		},
		Resolve: ResolveConfig{
			UseHints: true,
			TieBreak: TieBreakStorage,
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if strings.TrimSpace(c.Site.Theme) == "" {
		ve.Add("site.theme", "must not be empty")
	}

	switch c.Content.Source {
	case "", SourceDir:
		if strings.TrimSpace(c.Content.Dir) == "" {
			ve.Add("content.dir", "must not be empty")
		}
	case SourceAPI:
		if !isValidAbsURL(c.Content.APIURL) {
			ve.Add("content.api_url", "must be a valid absolute URL")
		}
	default:
		ve.Add("content.source", "must be 'dir' or 'api'")
	}
	if c.Content.APITimeout < 0 {
		ve.Add("content.api_timeout", "must not be negative")
	}

	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if bp := strings.TrimSpace(c.Build.BasePath); bp != "" {
		if !strings.HasPrefix(bp, "/") {
			ve.Add("build.base_path", "must start with '/'")
		}
		if strings.HasSuffix(bp, "/") && bp != "/" {
			ve.Add("build.base_path", "must not end with '/'")
		}
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}
	if strings.TrimSpace(c.Serve.IndexPath) == "" {
		ve.Add("serve.index_path", "must not be empty")
	}
	if _, ok := parseLevel(c.Serve.LogLevel); !ok {
		ve.Addf("serve.log_level", "unknown level %q", c.Serve.LogLevel)
	}

	switch c.Resolve.TieBreak {
	case "", TieBreakStorage, TieBreakServiceSlug:
	default:
		ve.Add("resolve.tie_break", "must be 'storage' or 'service-slug'")
	}

	return ve.Err()
}

// LogLevel maps serve.log_level onto slog; unknown values fall back to info.
func (c Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Serve.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// fields present in the file override the defaults, the rest stay
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the validated defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}
