package index

import (
	"errors"
	bolt "go.etcd.io/bbolt"
	"os"
	"path/filepath"
	"time"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db   *bolt.DB
	path string
}

type OpenOptions struct {
	Path    string // e.g. ".mysite/index.db"
	Timeout time.Duration
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if opt.Timeout <= 0 {
		opt.Timeout = time.Second
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{Timeout: opt.Timeout})
	if err != nil {
		return nil, err
	}
	return &Store{db: db, path: opt.Path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
