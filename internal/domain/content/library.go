package content

import "context"

// Library is one full snapshot of the site's content as exported by the API.
type Library struct {
	Blogs    []Blog         `json:"blogs" yaml:"blogs"`
	Projects []Project      `json:"projects" yaml:"projects"`
	Services []Service      `json:"services" yaml:"services"`
	Glossary []GlossaryTerm `json:"glossary" yaml:"glossary"`
}

func (l *Library) ServiceList(ctx context.Context) ([]Service, error) {
	return l.Services, nil
}

func (l *Library) BlogBySlug(ctx context.Context, slug string) (Blog, bool, error) {
	for _, b := range l.Blogs {
		if b.Slug == slug {
			return b, true, nil
		}
	}
	return Blog{}, false, nil
}

func (l *Library) ProjectBySlug(ctx context.Context, slug string) (Project, bool, error) {
	for _, p := range l.Projects {
		if p.Slug == slug {
			return p, true, nil
		}
	}
	return Project{}, false, nil
}

func (l *Library) ServiceBySlug(ctx context.Context, slug string) (Service, bool, error) {
	for _, s := range l.Services {
		if s.Slug == slug {
			return s, true, nil
		}
	}
	return Service{}, false, nil
}
