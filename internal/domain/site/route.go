package site

import (
	"fmt"
	"mysite/internal/slug"
	"path"
	"strings"
)

type RouteKind string

const (
	RouteHome     RouteKind = "home"
	RouteBlogList RouteKind = "blog-list"
	RouteBlog     RouteKind = "blog"
	RouteProjects RouteKind = "projects"
	RouteProject  RouteKind = "project"
	RouteServices RouteKind = "services"
	RouteService  RouteKind = "service"
	RouteFeature  RouteKind = "feature"
	// RouteSelect is the live-only service card link that records the picked
	// feature before redirecting to it.
	RouteSelect   RouteKind = "select"
	RouteGlossary RouteKind = "glossary"
	RouteNotFound RouteKind = "404"
)

type Route struct {
	Kind RouteKind
	Slug string
	Key  string // owning service slug for features
	Page int
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", r.Page))
	}
	return strings.Join(parts, " ")
}

// URL returns the public path of r, rooted at base ("" or "/sub").
func (r Route) URL(base string) string {
	var p string
	switch r.Kind {
	case RouteHome:
		p = "/"
	case RouteBlogList:
		p = "/blog/"
	case RouteBlog:
		p = "/blog/" + r.Slug + "/"
	case RouteProjects:
		p = "/projects/"
	case RouteProject:
		p = "/project/" + r.Slug + "/"
	case RouteServices:
		p = "/services/"
	case RouteService, RouteFeature:
		p = "/" + r.Slug + "/"
	case RouteSelect:
		p = "/services/" + r.Key + "/features/" + r.Slug + "/"
	case RouteGlossary:
		p = "/glossary/"
	default:
		p = "/404.html"
	}
	if base == "" || base == "/" {
		return p
	}
	return strings.TrimRight(base, "/") + p
}

// OutFile is where a static build writes r.
func (r Route) OutFile() string {
	if r.Kind == RouteNotFound {
		return "404.html"
	}
	return path.Join(strings.TrimPrefix(r.URL(""), "/"), "index.html")
}

// FeatureRoute builds the route of a feature page from its title.
func FeatureRoute(serviceSlug, featureTitle string) Route {
	return Route{Kind: RouteFeature, Slug: slug.Normalize(featureTitle), Key: serviceSlug}
}

// SelectRoute is FeatureRoute routed through the selection endpoint.
func SelectRoute(serviceSlug, featureTitle string) Route {
	r := FeatureRoute(serviceSlug, featureTitle)
	r.Kind = RouteSelect
	return r
}
