// Package ignore matches paths against a .metastripignore file: one pattern
// per line, # comments and blank lines skipped. A trailing slash excludes a
// whole directory; a pattern without a slash matches the basename anywhere.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the per-directory ignore file metastrip looks for.
const FileName = ".metastripignore"

type Matcher struct {
	dirs     []string
	names    []string
	patterns []string
}

// Load reads patterns from the file at path. A missing file yields an empty
// matcher and the underlying error, which callers typically discard.
func Load(path string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(path)
	if err != nil {
		return m, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasSuffix(line, "/"):
			m.dirs = append(m.dirs, strings.TrimSuffix(line, "/"))
		case !strings.Contains(line, "/"):
			m.names = append(m.names, line)
		default:
			m.patterns = append(m.patterns, line)
		}
	}
	return m, sc.Err()
}

// Match reports whether the relative path rel is excluded.
func (m Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, d := range m.dirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, n := range m.names {
		if ok, _ := doublestar.Match(n, base); ok {
			return true
		}
	}
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
