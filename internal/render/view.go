package render

import (
	"html/template"
	"mysite/internal/domain/config"
	"mysite/internal/domain/content"
	"time"
)

type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// EntryKind tells the entry template which family it is showing.
type EntryKind string

const (
	EntryBlog    EntryKind = "blog"
	EntryProject EntryKind = "project"
	EntryService EntryKind = "service"
	EntryFeature EntryKind = "feature"
)

// EntryPage is one blog post, project, service or feature.
type EntryPage struct {
	Site        config.SiteConfig
	Kind        EntryKind
	Title       string
	Description string
	Image       string
	Category    string
	HTML        template.HTML
	TOC         []Heading

	Blog    *content.Blog
	Project *content.Project
	// Service is the owning service for features.
	Service *content.Service

	// Siblings lists the other features of the owning service.
	Siblings []content.Feature
}

type HomePage struct {
	Site      config.SiteConfig
	Title     string
	Services  []content.Service
	Blogs     []content.Blog
	Projects  []content.Project
	Generated time.Time
}

type BlogListPage struct {
	Site     config.SiteConfig
	Title    string
	Items    []content.Blog
	Page     int
	PageSize int
	HasNext  bool
	Tag      string
	Category string
}

type ProjectsPage struct {
	Site  config.SiteConfig
	Title string
	Items []content.Project
}

type ServicesPage struct {
	Site  config.SiteConfig
	Title string
	Items []content.Service
}

type GlossaryPage struct {
	Site  config.SiteConfig
	Title string
	Terms []content.GlossaryTerm
}

type NotFoundPage struct {
	Site  config.SiteConfig
	Title string
	Path  string
}
