package seqio

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ErrNoMatches is returned for an input pattern that matches no files
var ErrNoMatches = errors.New("no files match")

// globChars start a wildcard in a pattern
const globChars = "*?[{"

// Expand returns the paths of files matching each pattern, in pattern order.
// Patterns without wildcards are kept as they are. "**" matches across directories
func Expand(patterns []string) (paths []string, err error) {
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, globChars) {
			add(pattern)
			continue
		}

		pattern = filepath.ToSlash(filepath.Clean(pattern))
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("failed to parse input pattern %s: %w", pattern, err)
		}

		matched := 0
		err = filepath.WalkDir(globRoot(pattern), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && g.Match(filepath.ToSlash(path)) {
				add(path)
				matched++
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to expand input pattern %s: %w", pattern, err)
		}
		if matched == 0 {
			return nil, fmt.Errorf("%w %s", ErrNoMatches, pattern)
		}
	}
	return paths, nil
}

// globRoot is the directory of a pattern before its first wildcard
func globRoot(pattern string) string {
	prefix := pattern[:strings.IndexAny(pattern, globChars)]
	slash := strings.LastIndex(prefix, "/")
	switch {
	case slash < 0:
		return "."
	case slash == 0:
		return "/"
	default:
		return filepath.FromSlash(prefix[:slash])
	}
}
