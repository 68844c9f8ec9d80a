package serve

import (
	"context"
	"fmt"
	"io/fs"
	domainbuild "mysite/internal/domain/build"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Reload pulls a fresh snapshot from the content source and rebuilds the
// index. Snapshots identical to the current one are skipped.
func (s *Server) Reload(ctx context.Context) error {
	s.log.Info("ingest", "source", s.source.String())
	lib, warns, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, w := range warns {
		s.log.Warn("ingest warning", "detail", w.String())
	}

	sum, err := domainbuild.HashLibrary(lib)
	if err != nil {
		return fmt.Errorf("hash content: %w", err)
	}
	fp := domainbuild.Fingerprint{ContentHash: sum, ConfigHash: s.configSum}
	fp.ComputeRenderHash()

	s.mu.RLock()
	same := s.fp.Same(fp)
	s.mu.RUnlock()
	if same {
		s.log.Debug("content unchanged, reload skipped")
		return nil
	}

	rep, err := s.idx.Rebuild(lib)
	if err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}
	for _, c := range rep.Collisions {
		s.log.Warn("feature slug shared by several services", "slug", c.Slug, "services", c.Services)
	}

	s.mu.Lock()
	s.fp = fp
	s.mu.Unlock()

	s.log.Info("rebuild complete",
		"blogs", rep.Blogs,
		"projects", rep.Projects,
		"services", rep.Services,
		"glossary", rep.Glossary,
	)
	return nil
}

// Fingerprint returns the fingerprint of the snapshot currently indexed.
func (s *Server) Fingerprint() domainbuild.Fingerprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fp
}

func (s *Server) startWatch(ctx context.Context, dir string) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		err = watchTree(w, dir)
		if err == nil {
			go s.watchLoop(ctx)
		}
	})
	return err
}

// watchTree adds dir and every directory below it to w.
func watchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// watchCreated starts watching a directory that appeared after startup.
func (s *Server) watchCreated(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := watchTree(s.watcher, ev.Name); err != nil {
		s.log.Warn("watch new directory", "path", ev.Name, "err", err)
	}
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching for content changes")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.watchCreated(ev)
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(reloadDebounce)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "err", err)
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.Reload(ctx2); err != nil {
				s.log.Error("reload failed", "err", err)
			}
			cancel()
		}
	}
}
