// Package collection enumerates the documents of a collection directory.
package collection

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// List returns the paths of the regular files directly inside dir, sorted by
// name. When exts is not empty only files with one of those extensions
// (case-insensitive, including the dot) are returned.
func List(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !matchesExtension(entry.Name(), exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func matchesExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range exts {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
