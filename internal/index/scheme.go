package index

var (
	bBlogs       = []byte("blogs")        // slug -> blog json
	bBlogsByDate = []byte("blogs_date")   // invTime + 0x00 + slug -> 1
	bProjects    = []byte("projects")     // slug -> project json
	bServices    = []byte("services")     // order key -> service json
	bServiceSlug = []byte("service_slug") // slug -> order key
	bGlossary    = []byte("glossary")     // slug -> term json
	bFeatureSlug = []byte("feature_slug") // normalized feature slug -> service slugs json
)

var allBuckets = [][]byte{bBlogs, bBlogsByDate, bProjects, bServices, bServiceSlug, bGlossary, bFeatureSlug}
