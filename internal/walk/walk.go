// Package walk produces candidate files for the search engine,
// pruning noise directories along the way.
package walk

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/models"
)

// DefaultExcludes lists lower-case path substrings that prune a
// directory and everything beneath it. Version control, virtual
// environments, caches, editor metadata, and package manager trees.
var DefaultExcludes = []string{
	".cache", ".local", ".vscode", ".ds_store", ".venv", ".git",
	"venv", "__pycache__", "site-packages", "node_modules",
	"cloudstorage", "clouddocs",
}

var errStop = errors.New("walk: stopped")

// Walk traverses root depth-first and calls fn for every candidate
// file. Returning false from fn stops the walk early. Each call starts
// a fresh traversal; there is no shared cursor between callers.
//
// A directory whose full lower-cased path contains any of the exclude
// substrings is skipped along with its subtree. Files whose base name
// starts with '.' or '~' or ends with ".h" are skipped. Unreadable
// directories are skipped and their siblings continue.
func Walk(ctx context.Context, root string, excludes []string, fn func(models.Candidate) bool) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Permission and similar traversal errors skip the entry only.
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if excluded(path, excludes) {
				return fs.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") || strings.HasSuffix(name, ".h") {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if !fn(models.Candidate{Path: path, RelPath: filepath.ToSlash(rel), Name: name}) {
			return errStop
		}
		return nil
	})
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

func excluded(dir string, excludes []string) bool {
	lower := strings.ToLower(dir)
	for _, pattern := range excludes {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
