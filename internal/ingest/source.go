package ingest

import (
	"context"
	"mysite/internal/domain/config"
	"mysite/internal/domain/content"
)

// Source yields a full content snapshot.
type Source interface {
	Load(ctx context.Context) (content.Library, []Warning, error)
	String() string
}

type Dir string

func (d Dir) Load(ctx context.Context) (content.Library, []Warning, error) {
	return LoadDir(ctx, string(d))
}

func (d Dir) String() string { return "dir:" + string(d) }

func (r *Remote) Load(ctx context.Context) (content.Library, []Warning, error) {
	return r.Fetch(ctx)
}

func (r *Remote) String() string { return "api:" + r.BaseURL }

func FromConfig(c config.ContentConfig) Source {
	if c.Source == config.SourceAPI {
		return NewRemote(c.APIURL, c.APITimeout)
	}
	return Dir(c.Dir)
}
