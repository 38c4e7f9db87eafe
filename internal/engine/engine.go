// Package engine orchestrates batch stripping: target selection, the worker
// pool, the per-file strip pipeline, caching, and result aggregation.
package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/metastrip/metastrip/internal/cache"
	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/files"
	"github.com/metastrip/metastrip/internal/ignore"
	"github.com/metastrip/metastrip/internal/mp3"
	"github.com/metastrip/metastrip/internal/png"
	"github.com/metastrip/metastrip/internal/wav"
	"github.com/metastrip/metastrip/internal/webp"
)

// Config controls a batch run: scope, destination, performance and safety.
type Config struct {
	Root         string
	Out          string
	IncludeGlobs []string
	ExcludeGlobs []string
	Recursive    bool
	MaxBytes     int64
	Workers      int
	Policy       container.Policy
	DryRun       bool
	Backup       bool
	// KeepLarger writes the stripped bytes even when they are not smaller
	// than the input. Off by default: a strip that grows a file (an MP3
	// tag re-serialized with different padding) keeps the original bytes.
	KeepLarger bool
	NoCache    bool
	Logger     *slog.Logger
	Progress   func()
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path    string
	Format  container.Format
	InSize  int64
	OutSize int64
	Skipped bool
	Reason  string
	Err     error
}

// Saved is the byte reduction for this file, zero when skipped or failed.
func (r FileResult) Saved() int64 {
	if r.Skipped || r.Err != nil {
		return 0
	}
	return r.InSize - r.OutSize
}

// Result aggregates a whole batch.
type Result struct {
	Files     []FileResult
	Processed int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

// SavedBytes totals the reduction across all processed files.
func (r Result) SavedBytes() int64 {
	var n int64
	for _, f := range r.Files {
		n += f.Saved()
	}
	return n
}

// DefaultRegistry wires the four format engines.
func DefaultRegistry() *container.Registry {
	return container.NewRegistry(png.New(), webp.New(), wav.New(), mp3.New())
}

// Run strips every eligible file under cfg.Root. Files are processed
// concurrently; one file failing to decode does not stop the batch.
func Run(ctx context.Context, cfg Config) (Result, error) {
	var result Result
	started := time.Now()

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	root := cfg.Root
	var targets []string
	st, err := os.Stat(root)
	if err != nil {
		return result, err
	}
	if st.IsDir() {
		ign, _ := ignore.Load(filepath.Join(root, ignore.FileName))
		targets, err = files.Collect(files.Selection{
			Root:         root,
			Recursive:    cfg.Recursive,
			IncludeGlobs: cfg.IncludeGlobs,
			ExcludeGlobs: cfg.ExcludeGlobs,
			MaxBytes:     cfg.MaxBytes,
			Ignore:       ign,
		})
		if err != nil {
			return result, err
		}
	} else {
		targets = []string{filepath.Base(root)}
		root = filepath.Dir(root)
	}
	log.Debug("collected targets", "count", len(targets), "root", root)

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(root)
	} else {
		db.Entries = map[string]string{}
	}

	reg := DefaultRegistry()
	var mu sync.Mutex
	updated := map[string]string{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, rel := range targets {
		rel := rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, key := processOne(cfg, reg, db, root, rel, log)

			mu.Lock()
			result.Files = append(result.Files, fr)
			switch {
			case fr.Err != nil:
				result.Failed++
			case fr.Skipped:
				result.Skipped++
			default:
				result.Processed++
			}
			if key != "" {
				updated[rel] = key
			}
			mu.Unlock()
			if cfg.Progress != nil {
				cfg.Progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	result.Duration = time.Since(started)

	if !cfg.NoCache && !cfg.DryRun && len(updated) > 0 {
		for k, v := range updated {
			db.Entries[k] = v
		}
		_ = cache.Save(root, db)
	}
	return result, nil
}
