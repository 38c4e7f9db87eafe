package core

import (
	"context"
	"io"

	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/engine"
	"github.com/metastrip/metastrip/internal/mp3"
	"github.com/metastrip/metastrip/internal/png"
	"github.com/metastrip/metastrip/internal/wav"
	"github.com/metastrip/metastrip/internal/webp"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Policy      = container.Policy
	Format      = container.Format
	DecodeError = container.DecodeError
	BatchConfig = engine.Config
	BatchResult = engine.Result
)

const (
	PolicyAll  = container.PolicyAll
	PolicySafe = container.PolicySafe
	PolicyNone = container.PolicyNone
)

// ErrUnsupportedFormat is returned when no engine claims the file.
var ErrUnsupportedFormat = container.ErrUnsupportedFormat

// ParsePolicy converts "all", "safe" or "none" to a Policy.
func ParsePolicy(s string) (Policy, error) { return container.ParsePolicy(s) }

// Strip removes metadata from a single media buffer. The format is detected
// from the path's extension.
func Strip(path string, input []byte, policy Policy) ([]byte, error) {
	return engine.DefaultRegistry().StripPath(path, input, policy)
}

// Run processes a batch of files under cfg.Root in parallel.
func Run(ctx context.Context, cfg BatchConfig) (BatchResult, error) {
	return engine.Run(ctx, cfg)
}

// Inspect writes a human-readable structure report for a media buffer to w.
func Inspect(w io.Writer, path string, input []byte) error {
	switch container.FormatFromPath(path) {
	case container.FormatPNG:
		return png.Inspect(w, input)
	case container.FormatWebP:
		return webp.Inspect(w, input)
	case container.FormatWAV:
		return wav.Inspect(w, input)
	case container.FormatMP3:
		return mp3.Inspect(w, input)
	}
	return ErrUnsupportedFormat
}
