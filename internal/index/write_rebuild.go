package index

import (
	"encoding/json"
	"fmt"
	bolt "go.etcd.io/bbolt"
	"mysite/internal/domain/content"
	"mysite/internal/slug"
	"sort"
	"strings"
)

// Collision is a feature slug claimed by more than one service. Resolution
// still picks one deterministically, but the content owner should rename.
type Collision struct {
	Slug     string
	Services []string
}

type RebuildReport struct {
	Blogs      int
	Projects   int
	Services   int
	Glossary   int
	Collisions []Collision
}

// Rebuild replaces the whole index with lib in a single transaction.
func (s *Store) Rebuild(lib content.Library) (RebuildReport, error) {
	var rep RebuildReport
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			_ = tx.DeleteBucket(name)
		}
		bs := make(map[string]*bolt.Bucket, len(allBuckets))
		for _, name := range allBuckets {
			b, err := tx.CreateBucket(name)
			if err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
			bs[string(name)] = b
		}

		for _, b := range lib.Blogs {
			if strings.TrimSpace(b.Slug) == "" {
				continue
			}
			if err := putJSON(bs[string(bBlogs)], []byte(b.Slug), b); err != nil {
				return err
			}
			if err := bs[string(bBlogsByDate)].Put(makeTimeSlugKey(b.Date, b.Slug), []byte{1}); err != nil {
				return err
			}
			rep.Blogs++
		}

		for _, p := range lib.Projects {
			if strings.TrimSpace(p.Slug) == "" {
				continue
			}
			if err := putJSON(bs[string(bProjects)], []byte(p.Slug), p); err != nil {
				return err
			}
			rep.Projects++
		}

		owners := make(map[string][]string)
		for pos, svc := range lib.Services {
			if strings.TrimSpace(svc.Slug) == "" {
				continue
			}
			key := makeServiceKey(svc.Order, pos, svc.Slug)
			if err := putJSON(bs[string(bServices)], key, svc); err != nil {
				return err
			}
			if err := bs[string(bServiceSlug)].Put([]byte(svc.Slug), key); err != nil {
				return err
			}
			for _, f := range svc.Features {
				fs := slug.Normalize(f.Title())
				if fs == "" {
					continue
				}
				if n := len(owners[fs]); n == 0 || owners[fs][n-1] != svc.Slug {
					owners[fs] = append(owners[fs], svc.Slug)
				}
			}
			rep.Services++
		}

		for fs, svcs := range owners {
			if err := putJSON(bs[string(bFeatureSlug)], []byte(fs), svcs); err != nil {
				return err
			}
			if len(svcs) > 1 {
				rep.Collisions = append(rep.Collisions, Collision{Slug: fs, Services: svcs})
			}
		}
		sort.Slice(rep.Collisions, func(i, j int) bool {
			return rep.Collisions[i].Slug < rep.Collisions[j].Slug
		})

		for _, g := range lib.Glossary {
			key := g.Slug
			if key == "" {
				key = slug.Normalize(g.Term)
			}
			if key == "" {
				continue
			}
			if err := putJSON(bs[string(bGlossary)], []byte(key), g); err != nil {
				return err
			}
			rep.Glossary++
		}
		return nil
	})
	return rep, err
}

func putJSON(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Put(key, data)
}
