package file

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks root recursively and returns the paths of all regular files
// whose name ends in ext (compared case-insensitively, e.g. ".json").
//
// The result is sorted lexicographically so repeated runs process files in a
// stable order. Songs and artists must be loaded before any log file attempts
// a lookup, and deterministic file order keeps re-runs comparable.
func Discover(root, ext string) ([]string, error) {
	ext = strings.ToLower(ext)

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) == ext {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
