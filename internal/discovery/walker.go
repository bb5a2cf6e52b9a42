// Package discovery finds the procedure documents to process.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludes matches Kanboard procedure pages.
var DefaultIncludes = []string{"*_procedures.md"}

// Document is a source file selected for extraction.
type Document struct {
	Path    string
	Key     string // file name without extension
	ModTime int64
	Size    int64
}

// Walker selects files under a root by relative-path glob patterns.
type Walker struct {
	includes []string
	excludes []string
}

// NewWalker creates a walker. Patterns use doublestar syntax and are
// matched against the slash separated path relative to the root.
func NewWalker(includes, excludes []string) (*Walker, error) {
	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	for _, p := range append(append([]string{}, includes...), excludes...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern: %q", p)
		}
	}
	return &Walker{includes: includes, excludes: excludes}, nil
}

// Walk returns the matching documents in lexical path order.
func (w *Walker) Walk(root string) ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && w.match(w.excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.match(w.includes, rel) || w.match(w.excludes, rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		docs = append(docs, Document{
			Path:    path,
			Key:     strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			ModTime: info.ModTime().Unix(),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return docs, nil
}

func (w *Walker) match(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

// ReadFile reads a document's content.
func ReadFile(doc Document) ([]byte, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.Path, err)
	}
	return data, nil
}
