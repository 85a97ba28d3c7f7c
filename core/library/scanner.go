package library

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// playableExtensions are the file extensions served by the library,
// matched case-insensitively.
var playableExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
}

// Scan walks baseDir and returns the relative, slash-separated paths of all
// playable files, sorted lexicographically. Unreadable subdirectories abort
// the scan rather than producing a partial listing.
func Scan(baseDir string) ([]string, error) {
	files := make([]string, 0)

	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !playableExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan library at %s: %w", baseDir, err)
	}

	sort.Strings(files)
	return files, nil
}
