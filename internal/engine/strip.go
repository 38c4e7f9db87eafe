package engine

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/metastrip/metastrip/internal/cache"
	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/files"
)

// processOne runs the strip pipeline for a single file and returns its
// result plus the cache key to record, or "" when nothing should be cached.
func processOne(cfg Config, reg *container.Registry, db cache.DB, root, rel string, log *slog.Logger) (FileResult, string) {
	fr := FileResult{Path: rel, Format: container.FormatFromPath(rel)}
	src := filepath.Join(root, rel)

	data, err := os.ReadFile(src)
	if err != nil {
		fr.Err = err
		return fr, ""
	}
	fr.InSize = int64(len(data))

	key := cache.Key(data, cfg.Policy.String())
	inPlace := cfg.Out == ""
	if inPlace && !cfg.NoCache && db.Entries[rel] == key {
		fr.Skipped = true
		fr.Reason = "unchanged since last run"
		fr.OutSize = fr.InSize
		log.Debug("cache hit", "path", rel)
		return fr, ""
	}

	out, err := reg.StripPath(rel, data, cfg.Policy)
	if err != nil {
		var de *container.DecodeError
		switch {
		case errors.Is(err, container.ErrUnsupportedFormat):
			fr.Skipped = true
			fr.Reason = "unsupported format"
		case errors.As(err, &de):
			fr.Err = err
			log.Warn("decode failed", "path", rel, "err", err)
		default:
			fr.Err = err
		}
		return fr, ""
	}
	fr.OutSize = int64(len(out))

	if !cfg.KeepLarger && len(out) >= len(data) && cfg.Policy != container.PolicyNone {
		// Nothing was removed (or re-serialization grew the tag): keep the
		// original bytes.
		fr.Skipped = true
		fr.Reason = "no metadata to strip"
		fr.OutSize = fr.InSize
		out = data
	}

	if cfg.DryRun {
		log.Info("dry run", "path", rel, "in", fr.InSize, "out", fr.OutSize)
		return fr, ""
	}

	dst := files.OutputPath(root, cfg.Out, rel)
	if inPlace && fr.Skipped {
		// In place with nothing to write: leave the file alone.
		return fr, key
	}
	if inPlace && cfg.Backup {
		if err := files.Backup(src); err != nil {
			fr.Err = err
			return fr, ""
		}
	}
	if err := files.WriteOutput(dst, out); err != nil {
		fr.Err = err
		fr.Skipped = false
		return fr, ""
	}
	log.Info("stripped", "path", rel, "in", fr.InSize, "out", fr.OutSize)

	if inPlace {
		// Key the written bytes so the next run sees its own output as
		// already stripped.
		return fr, cache.Key(out, cfg.Policy.String())
	}
	// Out-dir runs leave the source untouched; caching its hash would make
	// a later in-place run skip a file that was never stripped in place.
	return fr, ""
}
