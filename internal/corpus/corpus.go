// Package corpus discovers treebank documents on disk.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the file extension of CoNLL-U documents.
const DefaultExtension = ".conllu"

// ErrNotDirectory indicates the corpus root is not a directory.
var ErrNotDirectory = errors.New("corpus: root is not a directory")

// Discover walks root recursively and returns every regular file whose
// extension matches one of exts, compared case-insensitively. Paths come
// back in lexical walk order, so repeated runs see the same order.
// An empty exts means DefaultExtension.
func Discover(root string, exts ...string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(ext)] = true
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if want[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

// ID returns a short name for a document: its path relative to root,
// without extension.
func ID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
