package render

import "context"

type Renderer interface {
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderEntry(ctx context.Context, page EntryPage) ([]byte, error)
	RenderBlogList(ctx context.Context, page BlogListPage) ([]byte, error)
	RenderProjects(ctx context.Context, page ProjectsPage) ([]byte, error)
	RenderServices(ctx context.Context, page ServicesPage) ([]byte, error)
	RenderGlossary(ctx context.Context, page GlossaryPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
