// Package files selects the media files a batch run operates on and
// resolves where their stripped output goes.
package files

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/ignore"
)

// Selection controls which files Collect returns.
type Selection struct {
	Root         string
	Recursive    bool
	IncludeGlobs []string
	ExcludeGlobs []string
	MaxBytes     int64
	Ignore       ignore.Matcher
}

// skipDirs are directories never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".cache":       true,
	"__pycache__":  true,
}

// Collect walks the selection root and returns the relative paths of every
// eligible media file, in walk order. A root that is itself a file yields
// that single file regardless of extension filters.
func Collect(sel Selection) ([]string, error) {
	st, err := os.Stat(sel.Root)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{filepath.Base(sel.Root)}, nil
	}

	var out []string
	err = filepath.WalkDir(sel.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p == sel.Root {
				return nil
			}
			if skipDirs[d.Name()] || !sel.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(sel.Root, p)
		if container.FormatFromPath(rel) == container.FormatUnknown {
			return nil
		}
		if !allowedByGlobs(rel, sel.IncludeGlobs, sel.ExcludeGlobs) {
			return nil
		}
		if sel.Ignore.Match(rel) {
			return nil
		}
		if sel.MaxBytes > 0 {
			info, _ := d.Info()
			if info != nil && info.Size() > sel.MaxBytes {
				return nil
			}
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}

func allowedByGlobs(rel string, include, exclude []string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range exclude {
		if ok, _ := doublestar.Match(g, rel); ok {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, g := range include {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// OutputPath resolves where the stripped bytes for rel are written. With an
// output directory the input tree is mirrored beneath it; without one the
// file is rewritten in place.
func OutputPath(root, outDir, rel string) string {
	if outDir == "" {
		return filepath.Join(root, rel)
	}
	return filepath.Join(outDir, rel)
}

// Backup copies src to src+".bak" before an in-place rewrite.
func Backup(src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(src + ".bak")
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteOutput writes data to path, creating parent directories as needed.
func WriteOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
