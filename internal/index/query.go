package index

import (
	"context"
	"encoding/json"
	bolt "go.etcd.io/bbolt"
	"mysite/internal/domain/content"
	"sort"
	"strings"
)

type ListOptions struct {
	Page          int
	Size          int
	Offset        int // replaces the (Page-1)*Size skip when set
	Category      string
	Tag           string
	IncludeHidden bool // unpublished blogs
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func (o ListOptions) skip() int {
	if o.Offset > 0 {
		return o.Offset
	}
	return (o.Page - 1) * o.Size
}

func getJSON(tx *bolt.Tx, bucket, key []byte, v any) error {
	b := tx.Bucket(bucket)
	if b == nil {
		return ErrNotFound
	}
	data := b.Get(key)
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}

func (s *Store) GetBlog(slug string) (content.Blog, error) {
	var b content.Blog
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return b, ErrNotFound
	}
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx, bBlogs, []byte(slug), &b)
	})
	return b, err
}

func (s *Store) GetProject(slug string) (content.Project, error) {
	var p content.Project
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return p, ErrNotFound
	}
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx, bProjects, []byte(slug), &p)
	})
	return p, err
}

func (s *Store) GetService(slug string) (content.Service, error) {
	var svc content.Service
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return svc, ErrNotFound
	}
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bServiceSlug)
		if idx == nil {
			return ErrNotFound
		}
		key := idx.Get([]byte(slug))
		if key == nil {
			return ErrNotFound
		}
		return getJSON(tx, bServices, key, &svc)
	})
	return svc, err
}

// Services returns every service in stored order.
func (s *Store) Services() ([]content.Service, error) {
	var out []content.Service
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bServices)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var svc content.Service
			if err := json.Unmarshal(v, &svc); err != nil {
				return err
			}
			out = append(out, svc)
			return nil
		})
	})
	return out, err
}

// ListBlogs walks blogs newest first.
func (s *Store) ListBlogs(opt ListOptions) ([]content.Blog, error) {
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)
	tag := strings.ToLower(strings.TrimSpace(opt.Tag))

	var out []content.Blog
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bBlogsByDate)
		if idx == nil {
			return nil
		}
		skip := opt.skip()
		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromKey(k, 8)
			if slug == "" {
				continue
			}
			var b content.Blog
			if err := getJSON(tx, bBlogs, []byte(slug), &b); err != nil {
				continue
			}
			if !b.IsPublished() && !opt.IncludeHidden {
				continue
			}
			if opt.Category != "" && !strings.EqualFold(b.Category, opt.Category) {
				continue
			}
			if tag != "" && !hasTag(b.Tags, tag) {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			out = append(out, b)
			if len(out) >= opt.Size {
				break
			}
		}
		return nil
	})
	return out, err
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ListProjects returns featured projects first, then by title.
func (s *Store) ListProjects(opt ListOptions) ([]content.Project, error) {
	var all []content.Project
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bProjects)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var p content.Project
			if err := json.Unmarshal(v, &p); err != nil {
				return nil
			}
			if opt.Category != "" && !strings.EqualFold(p.Category, opt.Category) {
				return nil
			}
			all = append(all, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Featured != all[j].Featured {
			return all[i].Featured
		}
		return all[i].Title < all[j].Title
	})

	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)
	start := opt.skip()
	if start >= len(all) {
		return nil, nil
	}
	end := min(start+opt.Size, len(all))
	return all[start:end], nil
}

// Glossary returns all terms sorted by term.
func (s *Store) Glossary() ([]content.GlossaryTerm, error) {
	var out []content.GlossaryTerm
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bGlossary)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var g content.GlossaryTerm
			if err := json.Unmarshal(v, &g); err != nil {
				return nil
			}
			if g.Slug == "" {
				g.Slug = string(k)
			}
			out = append(out, g)
			return nil
		})
	})
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Term) < strings.ToLower(out[j].Term)
	})
	return out, err
}

// FeatureCollisions reports every feature slug with more than one owner.
func (s *Store) FeatureCollisions() ([]Collision, error) {
	var out []Collision
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bFeatureSlug)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var owners []string
			if err := json.Unmarshal(v, &owners); err != nil {
				return err
			}
			if len(owners) > 1 {
				out = append(out, Collision{Slug: string(k), Services: owners})
			}
			return nil
		})
	})
	return out, err
}

// resolve.Catalog

func (s *Store) ServiceList(ctx context.Context) ([]content.Service, error) {
	return s.Services()
}

func (s *Store) BlogBySlug(ctx context.Context, slug string) (content.Blog, bool, error) {
	return found(s.GetBlog(slug))
}

func (s *Store) ProjectBySlug(ctx context.Context, slug string) (content.Project, bool, error) {
	return found(s.GetProject(slug))
}

func (s *Store) ServiceBySlug(ctx context.Context, slug string) (content.Service, bool, error) {
	return found(s.GetService(slug))
}

func found[T any](v T, err error) (T, bool, error) {
	if err == ErrNotFound {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}
