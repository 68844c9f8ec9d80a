package content

import (
	"strings"
	"time"
)

type Kind string

const (
	KindBlog    Kind = "blog"
	KindProject Kind = "project"
	KindService Kind = "service"
)

// Entity is the part every content family shares. MarkdownContent wins over
// ContentBlocks whenever it is non-empty.
type Entity struct {
	Slug        string `json:"slug" yaml:"slug"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`

	MarkdownContent string  `json:"markdownContent,omitempty" yaml:"markdownContent,omitempty"`
	ContentBlocks   []Block `json:"contentBlocks,omitempty" yaml:"contentBlocks,omitempty"`
}

type Blog struct {
	Entity    `yaml:",inline"`
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	Date      time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Published *bool     `json:"published,omitempty" yaml:"published,omitempty"`
}

// IsPublished treats a missing flag as published.
func (b Blog) IsPublished() bool {
	return b.Published == nil || *b.Published
}

type Project struct {
	Entity       `yaml:",inline"`
	Client       string   `json:"client,omitempty" yaml:"client,omitempty"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Featured     bool     `json:"featured,omitempty" yaml:"featured,omitempty"`
}

type Service struct {
	Entity   `yaml:",inline"`
	Order    int      `json:"order,omitempty" yaml:"order,omitempty"`
	Icon     string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Features Features `json:"features,omitempty" yaml:"features,omitempty"`
}

type GlossaryTerm struct {
	Term       string `json:"term" yaml:"term"`
	Slug       string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Definition string `json:"definition" yaml:"definition"`
}

func (e *Entity) Normalize() {
	e.Slug = strings.TrimSpace(e.Slug)
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Image = strings.TrimSpace(e.Image)
	e.Category = strings.TrimSpace(e.Category)
}

func (b *Blog) Normalize() {
	b.Entity.Normalize()
	b.Author = strings.TrimSpace(b.Author)
	b.Tags = normalizeStrings(b.Tags)
}

func (p *Project) Normalize() {
	p.Entity.Normalize()
	p.Client = strings.TrimSpace(p.Client)
	p.URL = strings.TrimSpace(p.URL)
	p.Technologies = normalizeStrings(p.Technologies)
}

func (s *Service) Normalize() {
	s.Entity.Normalize()
	kept := s.Features[:0]
	for _, f := range s.Features {
		if f == nil || strings.TrimSpace(f.Title()) == "" {
			continue
		}
		kept = append(kept, f)
	}
	s.Features = kept
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.ToLower(item)
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
