package ingest

import (
	"os"
	"path/filepath"
	"strings"
)

// Collection names, both as file basenames and API paths.
const (
	CollBlogs    = "blogs"
	CollProjects = "projects"
	CollServices = "services"
	CollGlossary = "glossary"
)

var Collections = []string{CollBlogs, CollProjects, CollServices, CollGlossary}

var extensions = []string{".json", ".yaml", ".yml"}

type SourceFile struct {
	Collection string
	Path       string
}

// DiscoverSource finds one file per collection under root. Collections
// without a file are simply absent from the result.
func DiscoverSource(root string) ([]SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "discover", Path: root, Err: os.ErrInvalid}
	}

	var out []SourceFile
	for _, coll := range Collections {
		for _, ext := range extensions {
			p := filepath.Join(root, coll+ext)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				out = append(out, SourceFile{Collection: coll, Path: p})
				break
			}
		}
	}
	return out, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
