// Package fs implements the filesystem-facing ports of §4.3–§4.5: input
// normalization and wildcard expansion, output collection, and task
// fingerprinting.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/shihabhasan/nextflow/internal/core/domain"
)

// Walker walks a work directory honoring the WalkOptions of §4.4's file
// output collection (hidden, followLinks, maxDepth, type).
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields paths under root matching opts, always skipping .git.
func (w *Walker) WalkFiles(root string, opts domain.WalkOptions) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && d.Name() == ".git" {
					return filepath.SkipDir
				}
				if opts.MaxDepth > 0 {
					rel, relErr := filepath.Rel(root, path)
					if relErr == nil && rel != "." && depth(rel) > opts.MaxDepth {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !opts.Hidden && isHidden(d.Name()) {
				return nil
			}
			if opts.Type == "dir" {
				return nil
			}
			if opts.Type == "file" && d.Type()&fs.ModeSymlink != 0 && !opts.FollowLinks {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func depth(rel string) int {
	n := 1
	for _, r := range rel {
		if r == filepath.Separator {
			n++
		}
	}
	return n
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
